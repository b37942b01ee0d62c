package handler

import (
	"net/http"

	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	service *service.ReportService
	seeder  *service.SeederService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportService, seeder *service.SeederService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		seeder:  seeder,
		logger:  log,
	}
}

// Payroll handles the payroll report
func (h *ReportHandler) Payroll(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Payroll(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Organization handles the organizational overview
func (h *ReportHandler) Organization(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Organization(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// ExportPayrollCSV streams the payroll report as a CSV download
func (h *ReportHandler) ExportPayrollCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll.csv"`)

	if err := h.service.ExportPayrollCSV(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Msg("csv export failed")
	}
}

// ExportEmployeesCSV streams the employee roster as a CSV download
func (h *ReportHandler) ExportEmployeesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.csv"`)

	if err := h.service.ExportEmployeesCSV(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Msg("csv export failed")
	}
}

// Seed loads the demo data set
func (h *ReportHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.seeder.Seed(r.Context()); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}
