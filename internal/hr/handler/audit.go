package handler

import (
	"net/http"
	"strconv"

	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// AuditHandler handles audit trail viewing endpoints
type AuditHandler struct {
	service *service.AuditService
	logger  *logger.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(svc *service.AuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		service: svc,
		logger:  log,
	}
}

func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// ListRecent handles listing the newest general audit entries
func (h *AuditHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListRecent(r.Context(), limitParam(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// Trail handles the combined audit trail
func (h *AuditHandler) Trail(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Trail(r.Context(), limitParam(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}

// ListByEmployee handles listing one employee's audit history
func (h *AuditHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	entries, err := h.service.ListByEmployee(r.Context(), empNo, limitParam(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// ListSalaryRecent handles listing the newest salary audit entries
func (h *AuditHandler) ListSalaryRecent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListSalaryRecent(r.Context(), limitParam(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// ListSalaryByEmployee handles listing one employee's salary audit history
func (h *AuditHandler) ListSalaryByEmployee(w http.ResponseWriter, r *http.Request) {
	empNo, err := empNoParam(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	entries, err := h.service.ListSalaryByEmployee(r.Context(), empNo, limitParam(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}
