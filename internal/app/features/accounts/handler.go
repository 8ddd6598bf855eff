// Package accounts exposes registration, login, and the signed-in user's
// profile.
package accounts

import (
	"net/http"
	"time"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	userstore "github.com/opencurio/resourcehub/internal/app/store/users"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/app/system/ratelimit"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Users   *userstore.Store
	Tokens  auth.TokenIssuer
	Limiter *ratelimit.LoginLimiter
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, tokens auth.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Tokens:  tokens,
		Limiter: ratelimit.NewLoginLimiter(),
		Log:     logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      models.User `json:"user"`
}

// Register handles POST /auth/register and signs the new account in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if !h.Limiter.Allow(r, req.Email) {
		shared.Error(w, h.Log, apperr.ErrRateLimited)
		return
	}

	u, err := h.Users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	h.session(w, u, http.StatusCreated)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if !h.Limiter.Allow(r, req.Email) {
		shared.Error(w, h.Log, apperr.ErrRateLimited)
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	h.Limiter.Succeeded(req.Email)
	h.session(w, u, http.StatusOK)
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, u)
}

type profileRequest struct {
	Name *string `json:"name"`
}

// UpdateMe handles PUT /auth/me. Only the display name is editable; the
// email is the permanent login identifier.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.CurrentUser(r)
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		shared.Error(w, h.Log, apperr.ErrAuth)
		return
	}

	var req profileRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), id, userstore.ProfileFields{Name: req.Name})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, u)
}

func (h *Handler) session(w http.ResponseWriter, u models.User, status int) {
	token, exp, err := h.Tokens.Issue(auth.Claims{UserID: u.ID.Hex(), Email: u.Email, Role: u.Role})
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: exp.Format(time.RFC3339),
		User:      u,
	})
}

func (h *Handler) currentUser(r *http.Request) (models.User, error) {
	claims, _ := auth.CurrentUser(r)
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.User{}, apperr.ErrAuth
	}
	return h.Users.GetByID(r.Context(), id)
}
