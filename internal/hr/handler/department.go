package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	service *service.DepartmentService
	logger  *logger.Logger
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(svc *service.DepartmentService, log *logger.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		service: svc,
		logger:  log,
	}
}

func deptNoParam(r *http.Request) (int, error) {
	deptNo, err := strconv.Atoi(chi.URLParam(r, "deptNo"))
	if err != nil || deptNo <= 0 {
		return 0, errors.BadRequest("invalid department number")
	}
	return deptNo, nil
}

// Create handles department creation
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept, err := h.service.Create(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, dept)
}

// List handles listing departments
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, departments)
}

// Get handles fetching one department with its current manager
func (h *DepartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	detail, err := h.service.GetDetail(r.Context(), deptNo)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, detail)
}

// Update handles renaming a department
func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.DepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept, err := h.service.Update(r.Context(), deptNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, dept)
}

// Delete handles removing a department
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), deptNo); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// ListManagers handles listing a department's manager tenure history
func (h *DepartmentHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	managers, err := h.service.ListManagers(r.Context(), deptNo)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, managers)
}

// AssignManager handles appointing a department manager
func (h *DepartmentHandler) AssignManager(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.ManagerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	m, err := h.service.AssignManager(r.Context(), deptNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, m)
}

// EndManagerTenure handles closing a manager tenure
func (h *DepartmentHandler) EndManagerTenure(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

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

	m, err := h.service.EndManagerTenure(r.Context(), deptNo, empNo, req.ToDate)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, m)
}

// DeleteManagerTenure handles removing a manager tenure row
func (h *DepartmentHandler) DeleteManagerTenure(w http.ResponseWriter, r *http.Request) {
	deptNo, err := deptNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.DeleteManagerTenure(r.Context(), deptNo, empNo); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
