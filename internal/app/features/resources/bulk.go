package resources

import (
	"net/http"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/domain/models"
)

const maxBulkSize = 500

type bulkRequest struct {
	Resources []submitRequest `json:"resources"`
}

type bulkItemError struct {
	Index      int      `json:"index"`
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

type bulkResponse struct {
	BatchID string            `json:"batch_id"`
	Created []models.Resource `json:"created"`
	Errors  []bulkItemError   `json:"errors"`
}

// Bulk handles POST /resources/bulk, an admin-only ingestion path for
// curated imports. Elements are isolated: the response reports per-element
// outcomes and the call succeeds with 207 when some elements failed.
// Admin callers are trusted, so imported entries may carry approved status.
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if len(req.Resources) == 0 {
		shared.Error(w, h.Log, apperr.Validationf("resources must not be empty"))
		return
	}
	if len(req.Resources) > maxBulkSize {
		shared.Error(w, h.Log, apperr.Validationf("at most %d resources per bulk request", maxBulkSize))
		return
	}

	claims, _ := auth.CurrentUser(r)
	in := make([]models.Resource, 0, len(req.Resources))
	for _, sr := range req.Resources {
		in = append(in, sr.toModel(claims.Email))
	}

	res := h.Store.BulkCreate(r.Context(), in, true)

	resp := bulkResponse{BatchID: res.BatchID, Created: []models.Resource{}, Errors: []bulkItemError{}}
	for _, item := range res.Succeeded {
		resp.Created = append(resp.Created, item.Resource)
	}
	for _, item := range res.Failed {
		ie := bulkItemError{Index: item.Index, Error: item.Err.Error()}
		if verr, ok := apperr.AsValidation(item.Err); ok {
			ie.Error = "validation failed"
			ie.Violations = verr.Violations
		}
		resp.Errors = append(resp.Errors, ie)
	}

	status := http.StatusCreated
	if len(resp.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	shared.JSON(w, status, resp)
}
