package transaction

import (
	"context"
	"net/http"

	"github.com/frahmantamala/household-finance/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) (*ListResponse, error)
	Months(ctx context.Context) ([]string, error)
	UpdateCategory(ctx context.Context, id int64, dto UpdateCategoryDTO) error
	Delete(ctx context.Context, id int64) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query().Get)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Months(w http.ResponseWriter, r *http.Request) {
	months, err := h.Service.Months(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, months)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateCategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.UpdateCategory(r.Context(), id, dto); err != nil {
		h.Logger.Error("UpdateCategory: service error", "error", err, "transaction_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.IDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("Delete: service error", "error", err, "transaction_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
