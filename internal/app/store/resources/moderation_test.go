package resourcestore

import (
	"errors"
	"testing"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"github.com/opencurio/resourcehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApprove(t *testing.T) {
	store := New(testutil.SetupTestStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validResource())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	approved, err := store.Approve(ctx, created.ID, "Admin@Example.com", "looks good")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status: got %q, want approved", approved.Status)
	}
	if approved.ApprovedBy != "admin@example.com" {
		t.Errorf("approved_by: got %q", approved.ApprovedBy)
	}
	if approved.ApprovedAt == nil {
		t.Error("approved_at not set")
	}
	if approved.AdminNotes != "looks good" {
		t.Errorf("admin_notes: got %q", approved.AdminNotes)
	}
	if approved.Version != created.Version+1 {
		t.Errorf("version: got %d, want %d", approved.Version, created.Version+1)
	}
}

func TestReject(t *testing.T) {
	store := New(testutil.SetupTestStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validResource())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rejected, err := store.Reject(ctx, created.ID, "admin@example.com", "dead link")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("status: got %q, want rejected", rejected.Status)
	}
	if rejected.RejectedBy != "admin@example.com" {
		t.Errorf("rejected_by: got %q", rejected.RejectedBy)
	}
	if rejected.RejectedAt == nil {
		t.Error("rejected_at not set")
	}
}

func TestReject_RequiresNotes(t *testing.T) {
	store := New(testutil.SetupTestStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validResource())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = store.Reject(ctx, created.ID, "admin@example.com", "   ")
	if _, ok := apperr.AsValidation(err); !ok {
		t.Errorf("got %v, want ValidationError", err)
	}

	// The resource must be untouched.
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status after failed reject: got %q, want pending", got.Status)
	}
}

func TestModeration_OnlyFromPending(t *testing.T) {
	store := New(testutil.SetupTestStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validResource())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Approve(ctx, created.ID, "admin@example.com", ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if _, err := store.Approve(ctx, created.ID, "admin@example.com", ""); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("second approve: got %v, want ErrInvalidTransition", err)
	}
	if _, err := store.Reject(ctx, created.ID, "admin@example.com", "changed my mind"); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("reject after approve: got %v, want ErrInvalidTransition", err)
	}
}

func TestModeration_NotFound(t *testing.T) {
	store := New(testutil.SetupTestStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Approve(ctx, primitive.NewObjectID(), "admin@example.com", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("approve unknown: got %v, want ErrNotFound", err)
	}
	if _, err := store.Reject(ctx, primitive.NewObjectID(), "admin@example.com", "why"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("reject unknown: got %v, want ErrNotFound", err)
	}
}

func TestApprovedContentStaysApprovedAfterUpdate(t *testing.T) {
	store := New(testutil.SetupTestStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, validResource())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Approve(ctx, created.ID, "admin@example.com", ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	desc := "Fully revised description."
	updated, err := store.Update(ctx, created.ID, UpdateFields{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Errorf("status after content update: got %q, want approved", updated.Status)
	}
}
