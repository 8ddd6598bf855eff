// Package admin exposes the moderation and operations surface: the pending
// queue, approve/reject decisions, catalog statistics, and user management.
// Every route here sits behind the admin middleware.
package admin

import (
	"context"
	"net/http"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	"github.com/opencurio/resourcehub/internal/app/search"
	resourcestore "github.com/opencurio/resourcehub/internal/app/store/resources"
	userstore "github.com/opencurio/resourcehub/internal/app/store/users"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Resources *resourcestore.Store
	Users     *userstore.Store
	Search    *search.Service
	Log       *zap.Logger
}

func NewHandler(resources *resourcestore.Store, users *userstore.Store, searcher *search.Service, logger *zap.Logger) *Handler {
	return &Handler{Resources: resources, Users: users, Search: searcher, Log: logger}
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// Pending handles GET /admin/pending: the moderation queue, oldest first.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	page, err := shared.QueryInt(r, "page", 1)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	size, err := shared.QueryInt(r, "size", 20)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	items, total, err := h.Resources.ListByStatus(r.Context(), models.StatusPending, page, size)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if items == nil {
		items = []models.Resource{}
	}
	shared.JSON(w, http.StatusOK, listResponse[models.Resource]{Items: items, Total: total, Page: page, Size: size})
}

type decisionRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// Approve handles POST /admin/resources/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Resources.Approve)
}

// Reject handles POST /admin/resources/{id}/reject. Notes are required.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Resources.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id primitive.ObjectID, adminEmail, notes string) (models.Resource, error)) {

	id, err := shared.PathID(r, "id")
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	var req decisionRequest
	if r.ContentLength != 0 {
		if err := shared.Decode(r, &req); err != nil {
			shared.Error(w, h.Log, err)
			return
		}
	}

	claims, _ := auth.CurrentUser(r)
	res, err := op(r.Context(), id, claims.Email, req.AdminNotes)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	// A moderation decision changes the approved catalog.
	h.Search.Invalidate(r.Context())

	shared.JSON(w, http.StatusOK, res)
}

// Stats handles GET /admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Search.Stats(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, st)
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := shared.QueryInt(r, "page", 1)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	size, err := shared.QueryInt(r, "size", 20)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	users, total, err := h.Users.List(r.Context(), r.URL.Query().Get("role"), page, size)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	shared.JSON(w, http.StatusOK, listResponse[models.User]{Items: users, Total: total, Page: page, Size: size})
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PUT /admin/users/{id}/role.
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	var req roleRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.SetRole(r.Context(), id, req.Role)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, u)
}
