// Package bookmarks exposes the signed-in user's bookmark list.
package bookmarks

import (
	"context"
	"net/http"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	bookmarkstore "github.com/opencurio/resourcehub/internal/app/store/bookmarks"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Store *bookmarkstore.Store
	Log   *zap.Logger
}

func NewHandler(store *bookmarkstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// List handles GET /bookmarks: the caller's bookmarked resources, resolved
// to full documents, in bookmarking order. Bookmarks whose resource has
// since been deleted are omitted.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	resources, err := h.Store.Resolve(r.Context(), userID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if resources == nil {
		resources = []models.Resource{}
	}
	shared.JSON(w, http.StatusOK, map[string]any{"resources": resources})
}

// Add handles PUT /bookmarks/{id}.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Store.Add)
}

// Remove handles DELETE /bookmarks/{id}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Store.Remove)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, userID, resourceID primitive.ObjectID) (bool, error)) {

	userID, err := callerID(r)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	resourceID, err := shared.PathID(r, "id")
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	changed, err := op(r.Context(), userID, resourceID)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

func callerID(r *http.Request) (primitive.ObjectID, error) {
	claims, _ := auth.CurrentUser(r)
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.ErrAuth
	}
	return id, nil
}
