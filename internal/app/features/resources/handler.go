// Package resources exposes the catalog CRUD endpoints: submission,
// lookup, partial update, delete, and bulk ingestion.
package resources

import (
	"encoding/json"
	"time"

	resourcestore "github.com/opencurio/resourcehub/internal/app/store/resources"
	"go.uber.org/zap"
)

// Handler owns the catalog resource endpoints. Constructed once at startup
// in bootstrap with the resource store and logger.
type Handler struct {
	Store *resourcestore.Store
	Log   *zap.Logger
}

func NewHandler(store *resourcestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// submitRequest is the payload for POST /resources and the elements of
// POST /resources/bulk.
type submitRequest struct {
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	ResourceType    string     `json:"resource_type"`
	Tags            []string   `json:"tags"`
	Author          string     `json:"author"`
	PublicationDate *time.Time `json:"publication_date"`
	GitHubStars     *int       `json:"github_stars"`
	DifficultyLevel string     `json:"difficulty_level"`
	Prerequisites   []string   `json:"prerequisites"`
	Status          string     `json:"status"` // honored only for trusted bulk ingestion
}

// updateRequest is the payload for PUT /resources/{id}. Absent fields are
// left untouched. PublicationDate and GitHubStars stay raw so an explicit
// JSON null (which clears the stored value) is distinguishable from an
// absent field. Status is decoded only so a client trying to flip it gets a
// clear rejection instead of a silent ignore.
type updateRequest struct {
	Title           *string         `json:"title"`
	URL             *string         `json:"url"`
	Description     *string         `json:"description"`
	Category        *string         `json:"category"`
	ResourceType    *string         `json:"resource_type"`
	Tags            *[]string       `json:"tags"`
	Author          *string         `json:"author"`
	PublicationDate json.RawMessage `json:"publication_date"`
	GitHubStars     json.RawMessage `json:"github_stars"`
	DifficultyLevel *string         `json:"difficulty_level"`
	Prerequisites   *[]string       `json:"prerequisites"`
	Status          *string         `json:"status"`
}
