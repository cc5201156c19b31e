package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMongoOptions_Defaults(t *testing.T) {
	o := MongoOptions{}.withDefaults()
	assert.Equal(t, "storefront-carts", o.AppName)
	assert.Equal(t, 10*time.Second, o.ConnectTimeout)
	assert.EqualValues(t, 50, o.MaxPoolSize)

	o = MongoOptions{AppName: "x", ConnectTimeout: time.Second, MaxPoolSize: 5}.withDefaults()
	assert.Equal(t, "x", o.AppName)
	assert.Equal(t, time.Second, o.ConnectTimeout)
	assert.EqualValues(t, 5, o.MaxPoolSize)
}

func TestMongoOptions_ClientCarriesSettings(t *testing.T) {
	co := MongoOptions{ConnectTimeout: 2 * time.Second, MaxPoolSize: 7}.withDefaults().client("mongodb://localhost:27017")

	assert.Equal(t, "storefront-carts", *co.AppName)
	assert.Equal(t, 2*time.Second, *co.ConnectTimeout)
	assert.Equal(t, 2*time.Second, *co.ServerSelectionTimeout)
	assert.EqualValues(t, 7, *co.MaxPoolSize)
	assert.Equal(t, []string{"localhost:27017"}, co.Hosts)
}

func TestConnectMongoDB_RequiresURIAndDatabase(t *testing.T) {
	_, err := ConnectMongoDB(context.Background(), "", "carts", MongoOptions{})
	assert.Error(t, err)

	_, err = ConnectMongoDB(context.Background(), "mongodb://localhost:27017", "", MongoOptions{})
	assert.Error(t, err)
}

func TestConnectMongoDB_UnreachableServer(t *testing.T) {
	_, err := ConnectMongoDB(context.Background(), "mongodb://127.0.0.1:1", "carts", MongoOptions{ConnectTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "ping mongo primary")
}
