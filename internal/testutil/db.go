// Package testutil provides shared helpers for store and handler tests:
// a live test database, fixtures, and HTTP request/recorder helpers.
//
// Store tests run against a real MongoDB. Set TEST_MONGO_URI to point at a
// test server (default mongodb://localhost:27017); tests skip when the
// server is unreachable so unit-only runs stay green.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const defaultTestMongoURI = "mongodb://localhost:27017"

// SetupTestDB connects to the test MongoDB server and returns a database
// unique to this test. The database is dropped and the client disconnected
// in cleanup. Skips the test when no server is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = defaultTestMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("test mongo not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("test mongo not reachable at %s: %v", uri, err)
	}

	dbName := fmt.Sprintf("resourcehub_test_%s", uuid.NewString()[:8])
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test database %s: %v", dbName, err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}

// SetupTestStore returns a docstore adapter over a fresh test database.
func SetupTestStore(t *testing.T) *docstore.Store {
	t.Helper()
	db := SetupTestDB(t)
	return docstore.New(db.Client(), db, zap.NewNop())
}

// TestContext returns a context with a 10 second deadline, enough for any
// single store operation against a local test server.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
