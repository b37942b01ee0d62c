package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// SalaryHandler handles salary tenure endpoints
type SalaryHandler struct {
	service *service.SalaryService
	logger  *logger.Logger
}

// NewSalaryHandler creates a new salary handler
func NewSalaryHandler(svc *service.SalaryService, log *logger.Logger) *SalaryHandler {
	return &SalaryHandler{
		service: svc,
		logger:  log,
	}
}

// List handles listing an employee's salary history
func (h *SalaryHandler) List(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	salaries, err := h.service.ListForEmployee(r.Context(), empNo)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, salaries)
}

// Create handles adding a salary period
func (h *SalaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.SalaryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	sal, err := h.service.Create(r.Context(), empNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sal)
}

// Update handles rewriting a salary row identified by its start date
func (h *SalaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	fromDate := chi.URLParam(r, "fromDate")

	var req service.SalaryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	sal, err := h.service.Update(r.Context(), empNo, fromDate, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, sal)
}

// End handles closing a salary period
func (h *SalaryHandler) End(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	fromDate := chi.URLParam(r, "fromDate")

	var req struct {
		ToDate string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	sal, err := h.service.End(r.Context(), empNo, fromDate, req.ToDate)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, sal)
}

// Delete handles removing a salary row
func (h *SalaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	fromDate := chi.URLParam(r, "fromDate")

	if err := h.service.Delete(r.Context(), empNo, fromDate); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
