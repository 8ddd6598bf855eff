package resourcestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/normalize"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approve moves a pending resource to approved, recording who approved it
// and when. Notes are optional. The write is conditional on the pending
// state, so two racing moderation decisions resolve to exactly one winner;
// the loser gets ErrInvalidTransition.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID, adminEmail, notes string) (models.Resource, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":      models.StatusApproved,
		"approved_by": normalize.Email(adminEmail),
		"approved_at": now,
		"updated_at":  now,
	}
	if notes = s.sanitize.Sanitize(strings.TrimSpace(notes)); notes != "" {
		set["admin_notes"] = notes
	}
	return s.transition(ctx, id, set)
}

// Reject moves a pending resource to rejected. Notes are mandatory: a
// rejection without a reason is useless to the submitter.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID, adminEmail, notes string) (models.Resource, error) {
	notes = s.sanitize.Sanitize(strings.TrimSpace(notes))
	if notes == "" {
		return models.Resource{}, apperr.Validationf("admin_notes is required when rejecting")
	}
	now := time.Now().UTC()
	return s.transition(ctx, id, bson.M{
		"status":      models.StatusRejected,
		"admin_notes": notes,
		"rejected_by": normalize.Email(adminEmail),
		"rejected_at": now,
		"updated_at":  now,
	})
}

// transition performs the conditional pending-only status write. A miss is
// disambiguated with a follow-up read: the resource either does not exist
// or has already left the pending state.
func (s *Store) transition(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Resource, error) {
	var updated models.Resource
	err := s.docs.UpdateMatching(ctx, collection,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return models.Resource{}, err
	}
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return models.Resource{}, getErr
	}
	return models.Resource{}, apperr.ErrInvalidTransition
}
