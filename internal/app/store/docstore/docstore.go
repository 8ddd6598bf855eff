// Package docstore is the single adapter over the MongoDB document store.
//
// Every manager (resources, users, bookmarks, search) goes through a Store
// instance injected at construction time; there is no process-wide client.
// The adapter owns three policies:
//
//   - Read-after-write visibility: the client is built with majority write
//     concern, majority read concern, and primary read preference, so a
//     moderation approval is observable by the very next search with no
//     propagation delay.
//   - Bounded timeouts: every call gets a deadline if the caller did not
//     attach one; deadline and transport failures are normalized to
//     apperr.ErrStoreUnavailable instead of leaking driver errors or
//     surfacing as silent empty results.
//   - Construction-time retry: Connect pings with bounded attempts and
//     exponential backoff and fails fast when exhausted, so the process
//     never serves with a disconnected store.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// Config holds connection settings for the document store.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	MinPoolSize uint64

	// MaxConnectAttempts bounds the construction-time ping retries.
	// Zero means DefaultConnectAttempts.
	MaxConnectAttempts int

	// ConnectBackoff is the initial backoff between attempts; it doubles
	// each retry. Zero means DefaultConnectBackoff.
	ConnectBackoff time.Duration
}

const (
	DefaultConnectAttempts = 5
	DefaultConnectBackoff  = 500 * time.Millisecond
)

// Store is the document store adapter handle. It is safe for concurrent use;
// no call mutates the adapter's own state.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// Connect builds a client, verifies connectivity with bounded retries, and
// returns the adapter. On exhausted retries it returns an error wrapping
// apperr.ErrStoreUnavailable; callers are expected to treat that as fatal.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", apperr.ErrStoreUnavailable, err)
	}

	attempts := cfg.MaxConnectAttempts
	if attempts <= 0 {
		attempts = DefaultConnectAttempts
	}
	backoff := cfg.ConnectBackoff
	if backoff <= 0 {
		backoff = DefaultConnectBackoff
	}

	var pingErr error
	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		pingErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if pingErr == nil {
			log.Info("connected to document store",
				zap.String("database", cfg.Database),
				zap.Int("attempt", i))
			return New(client, client.Database(cfg.Database), log), nil
		}
		log.Warn("document store ping failed",
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
			zap.Duration("backoff", backoff),
			zap.Error(pingErr))
		if i < attempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, ctx.Err())
			}
			backoff *= 2
		}
	}
	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("%w: ping retries exhausted: %v", apperr.ErrStoreUnavailable, pingErr)
}

// New wraps an already-connected client and database. Used by Connect and by
// test setup, which provisions its own throwaway database.
func New(client *mongo.Client, db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, db: db, log: log}
}

// Database exposes the underlying database for index setup.
func (s *Store) Database() *mongo.Database { return s.db }

// Client exposes the underlying client for shutdown.
func (s *Store) Client() *mongo.Client { return s.client }

// Ping verifies connectivity, bounded by the ping timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx, timeouts.Ping())
	defer cancel()
	return s.wrap("ping", "", s.client.Ping(ctx, readpref.Primary()))
}

// Insert stores a new document and returns its assigned id.
func (s *Store) Insert(ctx context.Context, coll string, doc any) (primitive.ObjectID, error) {
	ctx, cancel := s.bound(ctx, timeouts.Medium())
	defer cancel()
	res, err := s.db.Collection(coll).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, s.wrap("insert", coll, err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Get decodes the document with the given id into out. Returns
// apperr.ErrNotFound when the id does not resolve.
func (s *Store) Get(ctx context.Context, coll string, id primitive.ObjectID, out any) error {
	ctx, cancel := s.bound(ctx, timeouts.Short())
	defer cancel()
	err := s.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	return s.wrap("get", coll, err)
}

// FindOne decodes the first document matching filter into out.
func (s *Store) FindOne(ctx context.Context, coll string, filter bson.M, out any) error {
	ctx, cancel := s.bound(ctx, timeouts.Short())
	defer cancel()
	err := s.db.Collection(coll).FindOne(ctx, filter).Decode(out)
	return s.wrap("find_one", coll, err)
}

// Update applies update to the document with the given id. Reports whether a
// document matched; a miss is not an error here so callers can decide
// between no-op and NotFound semantics.
func (s *Store) Update(ctx context.Context, coll string, id primitive.ObjectID, update bson.M) (bool, error) {
	ctx, cancel := s.bound(ctx, timeouts.Medium())
	defer cancel()
	res, err := s.db.Collection(coll).UpdateByID(ctx, id, update)
	if err != nil {
		return false, s.wrap("update", coll, err)
	}
	return res.MatchedCount > 0, nil
}

// UpdateMatching applies update to the single document matching filter and
// decodes the post-update document into out. Returns apperr.ErrNotFound when
// nothing matches. This is the primitive behind conditional (version- or
// status-guarded) writes.
func (s *Store) UpdateMatching(ctx context.Context, coll string, filter, update bson.M, out any) error {
	ctx, cancel := s.bound(ctx, timeouts.Medium())
	defer cancel()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.db.Collection(coll).FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
	return s.wrap("update_matching", coll, err)
}

// Delete removes the document with the given id. Reports whether anything
// was deleted; deleting an absent id is not an error.
func (s *Store) Delete(ctx context.Context, coll string, id primitive.ObjectID) (bool, error) {
	ctx, cancel := s.bound(ctx, timeouts.Medium())
	defer cancel()
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, s.wrap("delete", coll, err)
	}
	return res.DeletedCount > 0, nil
}

// Find decodes all documents matching filter into out (a pointer to slice).
func (s *Store) Find(ctx context.Context, coll string, filter any, out any, opts ...*options.FindOptions) error {
	ctx, cancel := s.bound(ctx, timeouts.Medium())
	defer cancel()
	cur, err := s.db.Collection(coll).Find(ctx, filter, opts...)
	if err != nil {
		return s.wrap("find", coll, err)
	}
	defer cur.Close(ctx)
	return s.wrap("find", coll, cur.All(ctx, out))
}

// Count returns the number of documents matching filter.
func (s *Store) Count(ctx context.Context, coll string, filter any) (int64, error) {
	ctx, cancel := s.bound(ctx, timeouts.Medium())
	defer cancel()
	n, err := s.db.Collection(coll).CountDocuments(ctx, filter)
	return n, s.wrap("count", coll, err)
}

// Aggregate runs pipe and decodes all results into out (a pointer to slice).
func (s *Store) Aggregate(ctx context.Context, coll string, pipe mongo.Pipeline, out any) error {
	ctx, cancel := s.bound(ctx, timeouts.Long())
	defer cancel()
	cur, err := s.db.Collection(coll).Aggregate(ctx, pipe)
	if err != nil {
		return s.wrap("aggregate", coll, err)
	}
	defer cur.Close(ctx)
	return s.wrap("aggregate", coll, cur.All(ctx, out))
}

// Bucket is one value/count pair from a terms aggregation.
type Bucket struct {
	Value string `bson:"_id"`
	Count int64  `bson:"count"`
}

// TermCounts buckets documents matching filter by the exact values of field,
// descending by count, capped at maxBuckets. Array fields are unwound so
// each element counts as its own value.
func (s *Store) TermCounts(ctx context.Context, coll, field string, filter bson.M, maxBuckets int, unwindArray bool) ([]Bucket, error) {
	if filter == nil {
		filter = bson.M{}
	}
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
	}
	if unwindArray {
		pipe = append(pipe, bson.D{{Key: "$unwind", Value: "$" + field}})
	}
	pipe = append(pipe,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: maxBuckets}},
	)

	var out []Bucket
	if err := s.Aggregate(ctx, coll, pipe, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the given indexes on coll if missing.
func (s *Store) EnsureIndexes(ctx context.Context, coll string, models []mongo.IndexModel) error {
	ctx, cancel := s.bound(ctx, timeouts.Long())
	defer cancel()
	_, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models)
	return s.wrap("ensure_indexes", coll, err)
}

// bound attaches a deadline when the caller did not bring one.
func (s *Store) bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// wrap normalizes driver errors into the domain taxonomy. Duplicate-key
// errors pass through untouched; stores classify them per collection.
func (s *Store) wrap(op, coll string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		s.log.Warn("document store unavailable",
			zap.String("op", op),
			zap.String("collection", coll),
			zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", apperr.ErrStoreUnavailable, op, coll, err)
	default:
		return err
	}
}
