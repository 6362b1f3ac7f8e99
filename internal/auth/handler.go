package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/transport"
	"github.com/frahmantamala/revenue-management/pkg/logger"
)

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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	var verr ValidationError
	switch {
	case errors.As(err, &verr):
		h.HandleServiceError(w, internal.NewValidationError(verr.Msg, internal.ErrCodeValidationFailed))
	case errors.Is(err, ErrInvalidCredentials):
		h.HandleServiceError(w, internal.ErrInvalidCredentials)
	case errors.Is(err, ErrUserInactive):
		h.HandleServiceError(w, internal.ErrUserInactive)
	case errors.Is(err, ErrTokenExpired):
		h.HandleServiceError(w, internal.ErrTokenExpired)
	case errors.Is(err, ErrInvalidToken):
		h.HandleServiceError(w, internal.ErrInvalidToken)
	default:
		h.HandleServiceError(w, err)
	}
}

// AuthMiddleware validates the bearer token and stores the user with its groups in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token validation failed", "error", err)
			h.handleAuthError(w, err)
			return
		}

		user, err := h.Service.GetUserWithGroups(r.Context(), claims.UserID)
		if err != nil {
			h.Logger.Warn("auth middleware: failed to load user", "user_id", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		h.Logger.Debug("auth middleware: user authenticated", "user_id", user.ID, "groups", user.Groups)

		ctx := ContextWithUser(r.Context(), user)
		ctx = internal.ContextWithUserID(ctx, user.ID)
		ctx = logger.With(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
