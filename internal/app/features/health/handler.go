package health

import (
	"context"
	"net/http"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/opencurio/resourcehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Docs *docstore.Store
	Log  *zap.Logger
}

func NewHandler(docs *docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Docs: docs, Log: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and {"status":"ok","database":"connected"}.
// On DB failure: 503 and {"status":"error","database":"disconnected",...}.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Docs.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed", zap.Error(err))
		shared.JSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "disconnected",
			Message:  "Database unavailable",
		})
		return
	}
	shared.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected"})
}
