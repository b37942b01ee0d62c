package handler

import (
	"net/http"

	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// TitleHandler handles title tenure endpoints
type TitleHandler struct {
	service *service.TitleService
	logger  *logger.Logger
}

// NewTitleHandler creates a new title handler
func NewTitleHandler(svc *service.TitleService, log *logger.Logger) *TitleHandler {
	return &TitleHandler{
		service: svc,
		logger:  log,
	}
}

// List handles listing an employee's title history
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	titles, err := h.service.ListForEmployee(r.Context(), empNo)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, titles)
}

// Create handles adding a title tenure
func (h *TitleHandler) Create(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.TitleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	t, err := h.service.Create(r.Context(), empNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, t)
}

// titleKeyRequest identifies one title row plus an optional end date
type titleKeyRequest struct {
	Title    string `json:"title" validate:"required,max=50"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
}

// End handles closing a title tenure
func (h *TitleHandler) End(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req titleKeyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	t, err := h.service.End(r.Context(), empNo, req.Title, req.FromDate, req.ToDate)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, t)
}

// Delete handles removing a title tenure row
func (h *TitleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req titleKeyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), empNo, req.Title, req.FromDate); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
