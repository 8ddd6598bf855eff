package shared

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PathID parses an ObjectID URL parameter. A malformed id behaves exactly
// like an unknown one so probing ids reveals nothing about their shape.
func PathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}

// QueryInt parses an integer query parameter, returning def when absent.
// A non-numeric value yields a ValidationError rather than a silent default.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validationf("%s must be an integer", name)
	}
	return n, nil
}
