package resources

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	resourcestore "github.com/opencurio/resourcehub/internal/app/store/resources"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/domain/models"
)

// Submit handles POST /resources. Any authenticated user may submit; the
// entry always enters the moderation queue as pending.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	claims, _ := auth.CurrentUser(r)
	created, err := h.Store.Create(r.Context(), req.toModel(claims.Email))
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, created)
}

// Get handles GET /resources/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	res, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, res)
}

// Update handles PUT /resources/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if req.Status != nil {
		shared.Error(w, h.Log, apperr.Validationf("status cannot be changed here; use the moderation endpoints"))
		return
	}

	fields, err := req.toFields()
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	updated, err := h.Store.Update(r.Context(), id, fields)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /resources/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "id")
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	deleted, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if !deleted {
		shared.Error(w, h.Log, apperr.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req submitRequest) toModel(submittedBy string) models.Resource {
	return models.Resource{
		Title:           req.Title,
		URL:             req.URL,
		Description:     req.Description,
		Category:        req.Category,
		ResourceType:    req.ResourceType,
		Tags:            req.Tags,
		Author:          req.Author,
		PublicationDate: req.PublicationDate,
		GitHubStars:     req.GitHubStars,
		DifficultyLevel: req.DifficultyLevel,
		Prerequisites:   req.Prerequisites,
		SubmittedBy:     submittedBy,
		Status:          req.Status,
	}
}

var jsonNull = []byte("null")

func (req updateRequest) toFields() (resourcestore.UpdateFields, error) {
	fields := resourcestore.UpdateFields{
		Title:           req.Title,
		URL:             req.URL,
		Description:     req.Description,
		Category:        req.Category,
		ResourceType:    req.ResourceType,
		Tags:            req.Tags,
		Author:          req.Author,
		DifficultyLevel: req.DifficultyLevel,
		Prerequisites:   req.Prerequisites,
	}

	if len(req.PublicationDate) > 0 {
		var v *time.Time
		if !bytes.Equal(req.PublicationDate, jsonNull) {
			var t time.Time
			if err := json.Unmarshal(req.PublicationDate, &t); err != nil {
				return resourcestore.UpdateFields{}, apperr.Validationf("publication_date must be an RFC 3339 timestamp or null")
			}
			v = &t
		}
		fields.PublicationDate = &v
	}
	if len(req.GitHubStars) > 0 {
		var v *int
		if !bytes.Equal(req.GitHubStars, jsonNull) {
			var n int
			if err := json.Unmarshal(req.GitHubStars, &n); err != nil {
				return resourcestore.UpdateFields{}, apperr.Validationf("github_stars must be an integer or null")
			}
			v = &n
		}
		fields.GitHubStars = &v
	}
	return fields, nil
}
