// Package bookmarkstore manages the bookmark list stored on each user
// document. Add and Remove are version-guarded so two concurrent edits to
// the same list cannot silently drop each other's writes.
package bookmarkstore

import (
	"context"
	"errors"
	"time"

	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection     = "users"
	resourcesCollection = "resources"
)

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

// Add bookmarks a resource for a user. Bookmarking an already-bookmarked
// resource is a no-op, not an error; the reported flag says whether the
// list changed. The resource must exist.
func (s *Store) Add(ctx context.Context, userID, resourceID primitive.ObjectID) (bool, error) {
	var r models.Resource
	if err := s.docs.Get(ctx, resourcesCollection, resourceID, &r); err != nil {
		return false, err
	}
	return s.mutate(ctx, userID, resourceID, true)
}

// Remove drops a resource from a user's bookmarks. Removing an absent
// bookmark is a no-op; the reported flag says whether the list changed.
// The resource itself may already be deleted from the catalog.
func (s *Store) Remove(ctx context.Context, userID, resourceID primitive.ObjectID) (bool, error) {
	return s.mutate(ctx, userID, resourceID, false)
}

// List returns a user's bookmark ids in insertion order.
func (s *Store) List(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var u models.User
	if err := s.docs.Get(ctx, usersCollection, userID, &u); err != nil {
		return nil, err
	}
	return u.Bookmarks, nil
}

// Resolve returns the bookmarked resources that still exist, in the order
// they were bookmarked. Dead ids (deleted resources) are dropped from the
// result without error.
func (s *Store) Resolve(ctx context.Context, userID primitive.ObjectID) ([]models.Resource, error) {
	ids, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var found []models.Resource
	err = s.docs.Find(ctx, resourcesCollection, bson.M{"_id": bson.M{"$in": ids}}, &found)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Resource, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	out := make([]models.Resource, 0, len(found))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// mutate performs one version-guarded list edit with a single retry. If the
// guard misses twice in a row the caller is racing something persistent and
// gets ErrConflict.
func (s *Store) mutate(ctx context.Context, userID, resourceID primitive.ObjectID, add bool) (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var u models.User
		if err := s.docs.Get(ctx, usersCollection, userID, &u); err != nil {
			return false, err
		}

		has := false
		for _, id := range u.Bookmarks {
			if id == resourceID {
				has = true
				break
			}
		}
		if add == has {
			return false, nil // already in the desired state
		}

		var next []primitive.ObjectID
		if add {
			next = append(append(next, u.Bookmarks...), resourceID)
		} else {
			for _, id := range u.Bookmarks {
				if id != resourceID {
					next = append(next, id)
				}
			}
		}

		var updated models.User
		err := s.docs.UpdateMatching(ctx, usersCollection,
			bson.M{"_id": userID, "version": u.Version},
			bson.M{
				"$set": bson.M{"bookmarks": next, "updated_at": time.Now().UTC()},
				"$inc": bson.M{"version": 1},
			},
			&updated)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return false, err
		}
		// Version guard missed: someone else wrote the user doc. Reload once.
	}
	return false, apperr.ErrConflict
}
