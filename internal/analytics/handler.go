package analytics

import (
	"context"
	"net/http"

	"github.com/frahmantamala/household-finance/internal/forecast"
	"github.com/frahmantamala/household-finance/internal/transport"
)

type ServiceAPI interface {
	Monthly(ctx context.Context, months int) ([]MonthlyPoint, error)
	Categories(ctx context.Context, month, txType string) ([]CategoryBreakdown, error)
	Summary(ctx context.Context, month string) (*Summary, error)
	Trend(ctx context.Context, months int) ([]TrendPoint, error)
	Forecast(ctx context.Context) (*forecast.Result, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	points, err := h.Service.Monthly(r.Context(), transport.IntQuery(r, "months", DefaultMonthlyMonths))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	breakdown, err := h.Service.Categories(r.Context(), q.Get("month"), q.Get("type"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, breakdown)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	points, err := h.Service.Trend(r.Context(), transport.IntQuery(r, "months", DefaultTrendMonths))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Forecast(r.Context())
	if err != nil {
		h.Logger.Error("Forecast: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
