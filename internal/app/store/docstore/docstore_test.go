package docstore_test

import (
	"errors"
	"testing"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type doc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Tags  []string           `bson:"tags,omitempty"`
	Count int                `bson:"count"`
}

func TestInsertGetUpdateDelete(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Insert(ctx, "things", doc{Name: "alpha", Count: 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id.IsZero() {
		t.Fatal("Insert returned zero id")
	}

	var got doc
	if err := store.Get(ctx, "things", id, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "alpha" {
		t.Errorf("Name: got %q, want %q", got.Name, "alpha")
	}

	matched, err := store.Update(ctx, "things", id, bson.M{"$set": bson.M{"name": "beta"}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !matched {
		t.Error("Update: expected a match")
	}

	if err := store.Get(ctx, "things", id, &got); err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Name != "beta" {
		t.Errorf("Name after update: got %q, want %q", got.Name, "beta")
	}

	deleted, err := store.Delete(ctx, "things", id)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("Delete: expected a deletion")
	}

	deleted, err = store.Delete(ctx, "things", id)
	if err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
	if deleted {
		t.Error("Delete absent: expected no deletion")
	}
}

func TestGet_NotFound(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var got doc
	err := store.Get(ctx, "things", primitive.NewObjectID(), &got)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get absent id: got %v, want ErrNotFound", err)
	}
}

func TestUpdateMatching_ConditionalWrite(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Insert(ctx, "things", doc{Name: "alpha", Count: 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	var got doc
	err = store.UpdateMatching(ctx, "things",
		bson.M{"_id": id, "count": 1},
		bson.M{"$set": bson.M{"name": "beta"}, "$inc": bson.M{"count": 1}},
		&got)
	if err != nil {
		t.Fatalf("UpdateMatching: %v", err)
	}
	if got.Name != "beta" || got.Count != 2 {
		t.Errorf("post-update doc: got %+v", got)
	}

	// Guard no longer matches.
	err = store.UpdateMatching(ctx, "things",
		bson.M{"_id": id, "count": 1},
		bson.M{"$inc": bson.M{"count": 1}},
		&got)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stale guard: got %v, want ErrNotFound", err)
	}
}

func TestFindAndCount(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, d := range []doc{
		{Name: "a", Count: 1},
		{Name: "b", Count: 2},
		{Name: "c", Count: 2},
	} {
		if _, err := store.Insert(ctx, "things", d); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	var out []doc
	if err := store.Find(ctx, "things", bson.M{"count": 2}, &out); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("Find: got %d docs, want 2", len(out))
	}

	n, err := store.Count(ctx, "things", bson.M{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}

func TestTermCounts(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, d := range []doc{
		{Name: "ml", Tags: []string{"pytorch", "nlp"}},
		{Name: "ml", Tags: []string{"pytorch"}},
		{Name: "cv", Tags: []string{"vision"}},
	} {
		if _, err := store.Insert(ctx, "things", d); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	t.Run("scalar field", func(t *testing.T) {
		buckets, err := store.TermCounts(ctx, "things", "name", nil, 10, false)
		if err != nil {
			t.Fatalf("TermCounts: %v", err)
		}
		if len(buckets) != 2 {
			t.Fatalf("buckets: got %d, want 2", len(buckets))
		}
		if buckets[0].Value != "ml" || buckets[0].Count != 2 {
			t.Errorf("top bucket: got %+v, want ml/2", buckets[0])
		}
	})

	t.Run("array field unwound", func(t *testing.T) {
		buckets, err := store.TermCounts(ctx, "things", "tags", nil, 10, true)
		if err != nil {
			t.Fatalf("TermCounts: %v", err)
		}
		if len(buckets) != 3 {
			t.Fatalf("buckets: got %d, want 3", len(buckets))
		}
		if buckets[0].Value != "pytorch" || buckets[0].Count != 2 {
			t.Errorf("top bucket: got %+v, want pytorch/2", buckets[0])
		}
	})

	t.Run("cap respected", func(t *testing.T) {
		buckets, err := store.TermCounts(ctx, "things", "tags", nil, 1, true)
		if err != nil {
			t.Fatalf("TermCounts: %v", err)
		}
		if len(buckets) != 1 {
			t.Errorf("buckets: got %d, want 1", len(buckets))
		}
	})
}

func TestPing(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
