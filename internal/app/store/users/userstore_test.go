package userstore

import (
	"errors"
	"testing"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/indexes"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"github.com/opencurio/resourcehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bcrypt minimum cost keeps the hashing fast in tests.
const testBcryptCost = 4

func setup(t *testing.T) *Store {
	t.Helper()
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, docs.Database()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return New(docs, testBcryptCost)
}

func TestRegister(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Register(ctx, "  Jane.Doe@Example.COM ", "correct-horse", "Jane Doe")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "jane.doe@example.com" {
		t.Errorf("email not normalized: got %q", u.Email)
	}
	if u.Role != models.RoleUser {
		t.Errorf("role: got %q, want user", u.Role)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct-horse" {
		t.Error("password not hashed")
	}
}

func TestRegister_DefaultNameFromEmail(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Register(ctx, "jane.doe@example.com", "correct-horse", "  ")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Name != "jane.doe" {
		t.Errorf("default name: got %q, want jane.doe", u.Name)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Register(ctx, "jane@example.com", "correct-horse", "Jane"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := store.Register(ctx, "JANE@example.com", "other-password", "Imposter")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate email: got %v, want ErrConflict", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Register(ctx, "  ", "short", "")
	verr, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 2 {
		t.Errorf("violations: got %d (%v), want 2", len(verr.Violations), verr.Violations)
	}
}

func TestAuthenticate(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Register(ctx, "jane@example.com", "correct-horse", "Jane"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := store.Authenticate(ctx, "Jane@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Email != "jane@example.com" {
		t.Errorf("email: got %q", u.Email)
	}

	if _, err := store.Authenticate(ctx, "jane@example.com", "wrong"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("wrong password: got %v, want ErrAuth", err)
	}
	if _, err := store.Authenticate(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("unknown email: got %v, want ErrAuth", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Register(ctx, "jane@example.com", "correct-horse", "Jane")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	name := "Jane D."
	updated, err := store.UpdateProfile(ctx, u.ID, ProfileFields{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Jane D." {
		t.Errorf("name: got %q", updated.Name)
	}
	if updated.Email != u.Email {
		t.Error("email changed by profile update")
	}
	if updated.Version != u.Version+1 {
		t.Errorf("version: got %d, want %d", updated.Version, u.Version+1)
	}

	empty := "  "
	if _, err := store.UpdateProfile(ctx, u.ID, ProfileFields{Name: &empty}); err == nil {
		t.Error("expected validation error for empty name")
	}
}

func TestSetRole(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Register(ctx, "jane@example.com", "correct-horse", "Jane")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := store.SetRole(ctx, u.ID, "ADMIN")
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", updated.Role)
	}

	if _, err := store.SetRole(ctx, u.ID, "superuser"); err == nil {
		t.Error("expected validation error for unknown role")
	}
	if _, err := store.SetRole(ctx, primitive.NewObjectID(), "admin"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := store.Register(ctx, email, "correct-horse", ""); err != nil {
			t.Fatalf("Register %s: %v", email, err)
		}
	}
	admin, err := store.Register(ctx, "admin@example.com", "correct-horse", "Admin")
	if err != nil {
		t.Fatalf("Register admin: %v", err)
	}
	if _, err := store.SetRole(ctx, admin.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}

	all, total, err := store.List(ctx, "", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 4 || len(all) != 4 {
		t.Errorf("all users: got total=%d len=%d, want 4/4", total, len(all))
	}

	admins, total, err := store.List(ctx, models.RoleAdmin, 1, 10)
	if err != nil {
		t.Fatalf("List admins: %v", err)
	}
	if total != 1 || len(admins) != 1 {
		t.Errorf("admins: got total=%d len=%d, want 1/1", total, len(admins))
	}

	page, _, err := store.List(ctx, "", 2, 3)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("page 2: got %d users, want 1", len(page))
	}
}
