package bookmarkstore

import (
	"errors"
	"sync"
	"testing"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddListRemove(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	store := New(docs)
	fx := testutil.NewFixtures(t, docs.Database())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Jane", testutil.UniqueEmail("jane"), "user")
	r1 := fx.CreateApprovedResource(ctx, "First Resource")
	r2 := fx.CreateApprovedResource(ctx, "Second Resource")

	changed, err := store.Add(ctx, user.ID, r1.ID)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !changed {
		t.Error("first add should change the list")
	}

	changed, err = store.Add(ctx, user.ID, r1.ID)
	if err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	if changed {
		t.Error("duplicate add should be a no-op")
	}

	if _, err := store.Add(ctx, user.ID, r2.ID); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	ids, err := store.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != r1.ID || ids[1] != r2.ID {
		t.Errorf("list order: got %v, want [%s %s]", ids, r1.ID.Hex(), r2.ID.Hex())
	}

	changed, err = store.Remove(ctx, user.ID, r1.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !changed {
		t.Error("remove should change the list")
	}

	changed, err = store.Remove(ctx, user.ID, r1.ID)
	if err != nil {
		t.Fatalf("re-Remove: %v", err)
	}
	if changed {
		t.Error("removing an absent bookmark should be a no-op")
	}

	ids, err = store.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List after remove: %v", err)
	}
	if len(ids) != 1 || ids[0] != r2.ID {
		t.Errorf("list after remove: got %v", ids)
	}
}

// Two writers editing the same list at once must not drop each other's
// bookmark: the loser of the version guard reloads and retries. With two
// writers at most one guard miss can occur per pair, so the single retry
// always suffices and neither call may report ErrConflict.
func TestConcurrentAddsBothSurvive(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	store := New(docs)
	fx := testutil.NewFixtures(t, docs.Database())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Jane", testutil.UniqueEmail("jane"), "user")

	const rounds = 3
	var ids []primitive.ObjectID
	for round := 0; round < rounds; round++ {
		a := fx.CreateApprovedResource(ctx, "Left "+string(rune('A'+round)))
		b := fx.CreateApprovedResource(ctx, "Right "+string(rune('A'+round)))
		ids = append(ids, a.ID, b.ID)

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for _, id := range []primitive.ObjectID{a.ID, b.ID} {
			wg.Add(1)
			go func(id primitive.ObjectID) {
				defer wg.Done()
				changed, err := store.Add(ctx, user.ID, id)
				if err == nil && !changed {
					err = errors.New("concurrent add reported no change")
				}
				errs <- err
			}(id)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("round %d: %v", round, err)
			}
		}
	}

	got, err := store.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("bookmarks: got %d, want %d", len(got), len(ids))
	}
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected bookmark %s", id.Hex())
		}
	}
}

func TestAdd_UnknownResourceOrUser(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	store := New(docs)
	fx := testutil.NewFixtures(t, docs.Database())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Jane", testutil.UniqueEmail("jane"), "user")
	res := fx.CreateApprovedResource(ctx, "A Resource")

	if _, err := store.Add(ctx, user.ID, primitive.NewObjectID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown resource: got %v, want ErrNotFound", err)
	}
	if _, err := store.Add(ctx, primitive.NewObjectID(), res.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestResolve_DropsDeletedResources(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	store := New(docs)
	fx := testutil.NewFixtures(t, docs.Database())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Jane", testutil.UniqueEmail("jane"), "user")
	r1 := fx.CreateApprovedResource(ctx, "Kept Resource")
	r2 := fx.CreateApprovedResource(ctx, "Doomed Resource")

	for _, id := range []primitive.ObjectID{r1.ID, r2.ID} {
		if _, err := store.Add(ctx, user.ID, id); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if _, err := docs.Delete(ctx, "resources", r2.ID); err != nil {
		t.Fatalf("delete resource: %v", err)
	}

	resolved, err := store.Resolve(ctx, user.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("resolved: got %d, want 1", len(resolved))
	}
	if resolved[0].ID != r1.ID {
		t.Errorf("resolved id: got %s, want %s", resolved[0].ID.Hex(), r1.ID.Hex())
	}
}

func TestResolve_Empty(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	store := New(docs)
	fx := testutil.NewFixtures(t, docs.Database())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Jane", testutil.UniqueEmail("jane"), "user")

	resolved, err := store.Resolve(ctx, user.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved) != 0 {
		t.Errorf("resolved: got %d, want 0", len(resolved))
	}
}
