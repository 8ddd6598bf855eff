// Package assistant exposes the suggestion endpoint backed by the
// catalog-grounded completion service.
package assistant

import (
	"net/http"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	"github.com/opencurio/resourcehub/internal/app/suggest"
	"go.uber.org/zap"
)

type Handler struct {
	Suggest *suggest.Service
	Log     *zap.Logger
}

func NewHandler(svc *suggest.Service, logger *zap.Logger) *Handler {
	return &Handler{Suggest: svc, Log: logger}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /suggest.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	resp, err := h.Suggest.Suggest(r.Context(), req.Question)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, resp)
}
