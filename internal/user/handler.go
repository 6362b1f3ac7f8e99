package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/revenue-management/internal/auth"
	"github.com/frahmantamala/revenue-management/internal/transport"
	"github.com/frahmantamala/revenue-management/pkg/logger"
)

type ServiceAPI interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	Matrix() MatrixResponse
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetCurrentUser: user not found in context", "ok", ok)
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetProfile failed", "user_id", user.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// GetAccessMatrix handles GET /access/matrix
func (h *Handler) GetAccessMatrix(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Matrix())
}
