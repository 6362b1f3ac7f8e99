package revenue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/auth"
	"github.com/frahmantamala/revenue-management/internal/transport"
	"github.com/frahmantamala/revenue-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, id *access.Identity, q ListQuery) (*ListResponse, error)
	Get(ctx context.Context, id *access.Identity, revenueID int64) (*access.RevenueView, error)
	Export(ctx context.Context, id *access.Identity, q ListQuery, w io.Writer) (int, error)
	Summary(ctx context.Context, id *access.Identity, q ListQuery) (*SummaryResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListRevenues(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListRevenues: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.List(r.Context(), user.Identity(), q)
	if err != nil {
		h.Logger.Error("ListRevenues: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetRevenue: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	revenueID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || revenueID <= 0 {
		h.HandleServiceError(w, internal.NewValidationFieldError("id", "invalid revenue ID", internal.ErrCodeInvalidQuery))
		return
	}

	view, err := h.Service.Get(r.Context(), user.Identity(), revenueID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ExportRevenues(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ExportRevenues: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	rows, err := h.Service.Export(r.Context(), user.Identity(), q, &buf)
	if err != nil {
		h.Logger.Error("ExportRevenues: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("revenues-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Total-Count", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("ExportRevenues: failed to write response", "error", err)
	}
}

func (h *Handler) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("GetDashboardSummary: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.Summary(r.Context(), user.Identity(), q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
