package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoOptions tunes the cart store's client. Zero values take defaults.
type MongoOptions struct {
	AppName        string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

func (o MongoOptions) withDefaults() MongoOptions {
	if o.AppName == "" {
		o.AppName = "storefront-carts"
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.MaxPoolSize == 0 {
		o.MaxPoolSize = 50
	}
	return o
}

func (o MongoOptions) client(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetAppName(o.AppName).
		SetConnectTimeout(o.ConnectTimeout).
		SetServerSelectionTimeout(o.ConnectTimeout).
		SetMaxPoolSize(o.MaxPoolSize).
		SetRetryWrites(true)
}

// ConnectMongoDB opens the database that holds carts and waits for the
// primary to answer. The client is disconnected again if it never does.
func ConnectMongoDB(ctx context.Context, uri, database string, opts MongoOptions) (*mongo.Database, error) {
	if uri == "" || database == "" {
		return nil, errors.New("mongo uri and database are required")
	}
	opts = opts.withDefaults()

	client, err := mongo.Connect(ctx, opts.client(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo primary: %w", err)
	}

	return client.Database(database), nil
}
