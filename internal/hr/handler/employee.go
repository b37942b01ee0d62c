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

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	service     *service.EmployeeService
	assignments *service.AssignmentService
	logger      *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(svc *service.EmployeeService, assignments *service.AssignmentService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service:     svc,
		assignments: assignments,
		logger:      log,
	}
}

// empNoParam extracts the employee number path parameter
func empNoParam(r *http.Request) (int, error) {
	empNo, err := strconv.Atoi(chi.URLParam(r, "empNo"))
	if err != nil || empNo <= 0 {
		return 0, errors.BadRequest("invalid employee number")
	}
	return empNo, nil
}

// Create handles employee creation
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, emp)
}

// List handles paginated employee listing
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	employees, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	httputil.JSONWithMeta(w, http.StatusOK, employees, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Get handles fetching one employee with its current standing
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	detail, err := h.service.GetDetail(r.Context(), empNo)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, detail)
}

// Update handles updating an employee record
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.UpdateEmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Update(r.Context(), empNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}

// Delete handles removing an employee and its user account
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), empNo); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// ListAssignments handles listing an employee's assignment history
func (h *EmployeeHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	assignments, err := h.assignments.ListForEmployee(r.Context(), empNo)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, assignments)
}

// CreateAssignment handles adding an assignment period
func (h *EmployeeHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.AssignmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	a, err := h.assignments.Create(r.Context(), empNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, a)
}

// UpdateAssignment handles rewriting an assignment period
func (h *EmployeeHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	deptNo, err := strconv.Atoi(chi.URLParam(r, "deptNo"))
	if err != nil || deptNo <= 0 {
		httputil.Error(w, errors.BadRequest("invalid department number"))
		return
	}

	var req service.AssignmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	a, err := h.assignments.Update(r.Context(), empNo, deptNo, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, a)
}

// EndAssignment handles closing an open assignment
func (h *EmployeeHandler) EndAssignment(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	deptNo, err := strconv.Atoi(chi.URLParam(r, "deptNo"))
	if err != nil || deptNo <= 0 {
		httputil.Error(w, errors.BadRequest("invalid department number"))
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

	a, err := h.assignments.End(r.Context(), empNo, deptNo, req.ToDate)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, a)
}

// DeleteAssignment handles removing an assignment row
func (h *EmployeeHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	deptNo, err := strconv.Atoi(chi.URLParam(r, "deptNo"))
	if err != nil || deptNo <= 0 {
		httputil.Error(w, errors.BadRequest("invalid department number"))
		return
	}

	if err := h.assignments.Delete(r.Context(), empNo, deptNo); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
