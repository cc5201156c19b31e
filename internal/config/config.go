package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STOREFRONT_"

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		IdleTimeout     time.Duration `koanf:"idle_timeout"`
		RequestTimeout  time.Duration `koanf:"request_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"http"`

	Catalog struct {
		Backend        string `koanf:"backend"` // memory | sqlite
		SQLitePath     string `koanf:"sqlite_path"`
		MigrationsPath string `koanf:"migrations_path"`
	} `koanf:"catalog"`

	Cart struct {
		Backend       string `koanf:"backend"` // memory | mongo
		MongoURI      string `koanf:"mongo_uri"`
		MongoDB       string `koanf:"mongo_db"`
		MongoPoolSize uint64 `koanf:"mongo_pool_size"`
	} `koanf:"cart"`

	// Redis caching is off while Addr is empty.
	Redis struct {
		Addr      string        `koanf:"addr"`
		Password  string        `koanf:"password"`
		DB        int           `koanf:"db"`
		KeyPrefix string        `koanf:"key_prefix"`
		TTL       time.Duration `koanf:"ttl"`
		Jitter    time.Duration `koanf:"jitter"`
	} `koanf:"redis"`

	Orders struct {
		Backend        string `koanf:"backend"` // memory | postgres
		Host           string `koanf:"host"`
		Port           int    `koanf:"port"`
		User           string `koanf:"user"`
		Password       string `koanf:"password"`
		DBName         string `koanf:"db_name"`
		MigrationsPath string `koanf:"migrations_path"`
	} `koanf:"orders"`

	// Events are dropped while Brokers is empty.
	Kafka struct {
		Brokers []string `koanf:"brokers"`
	} `koanf:"kafka"`
}

func Default() Config {
	var c Config
	c.App.Name = "storefront"
	c.App.HTTPAddr = ":8080"
	c.App.LogLevel = "info"

	c.HTTP.ReadTimeout = 10 * time.Second
	c.HTTP.WriteTimeout = 10 * time.Second
	c.HTTP.IdleTimeout = 60 * time.Second
	c.HTTP.RequestTimeout = 30 * time.Second
	c.HTTP.ShutdownTimeout = 10 * time.Second

	c.Catalog.Backend = "memory"
	c.Catalog.SQLitePath = "./storefront.db"
	c.Catalog.MigrationsPath = "./internal/catalog/migrations"

	c.Cart.Backend = "memory"
	c.Cart.MongoURI = "mongodb://localhost:27017"
	c.Cart.MongoDB = "storefront"

	c.Cart.MongoPoolSize = 50

	c.Redis.KeyPrefix = "storefront:cart:"
	c.Redis.TTL = 15 * time.Minute
	c.Redis.Jitter = 5 * time.Minute

	c.Orders.Backend = "memory"
	c.Orders.Host = "localhost"
	c.Orders.Port = 5432
	c.Orders.User = "postgres"
	c.Orders.Password = "postgres"
	c.Orders.DBName = "storefront"
	c.Orders.MigrationsPath = "./internal/orders/migrations"
	return c
}

// Load starts from Default, overlays the YAML file at path when path is not
// empty, then overlays STOREFRONT_ environment variables. Nested keys use a
// double underscore, e.g. STOREFRONT_CART__BACKEND=mongo.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(key, value string) (string, interface{}) {
	key = strings.TrimPrefix(key, envPrefix)
	key = strings.ToLower(strings.ReplaceAll(key, "__", "."))
	if key == "kafka.brokers" {
		var brokers []string
		for _, b := range strings.Split(value, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		return key, brokers
	}
	return key, value
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	switch c.Catalog.Backend {
	case "memory":
	case "sqlite":
		if c.Catalog.SQLitePath == "" {
			return fmt.Errorf("catalog.sqlite_path required for sqlite backend")
		}
	default:
		return fmt.Errorf("catalog.backend must be memory or sqlite, got %q", c.Catalog.Backend)
	}
	switch c.Cart.Backend {
	case "memory":
	case "mongo":
		if c.Cart.MongoURI == "" {
			return fmt.Errorf("cart.mongo_uri required for mongo backend")
		}
	default:
		return fmt.Errorf("cart.backend must be memory or mongo, got %q", c.Cart.Backend)
	}
	switch c.Orders.Backend {
	case "memory":
	case "postgres":
		if c.Orders.Host == "" || c.Orders.DBName == "" {
			return fmt.Errorf("orders.host and orders.db_name required for postgres backend")
		}
	default:
		return fmt.Errorf("orders.backend must be memory or postgres, got %q", c.Orders.Backend)
	}
	return nil
}
