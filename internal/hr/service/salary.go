package service

import (
	"context"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/tenure"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/money"
)

// SalaryService handles salary tenures. Amounts cross the API boundary as
// decimal major-unit strings and are stored as integer cents.
type SalaryService struct {
	salaries  *repository.SalaryRepository
	employees *repository.EmployeeRepository
	audit     *AuditService
	events    *events.Publisher
	logger    *logger.Logger
}

// NewSalaryService creates a new salary service
func NewSalaryService(
	salaries *repository.SalaryRepository,
	employees *repository.EmployeeRepository,
	audit *AuditService,
	publisher *events.Publisher,
	log *logger.Logger,
) *SalaryService {
	return &SalaryService{
		salaries:  salaries,
		employees: employees,
		audit:     audit,
		events:    publisher,
		logger:    log.WithComponent("salary"),
	}
}

// SalaryRequest carries a new salary period. Amount is a decimal string in
// major units, e.g. "8000" or "8000.50". An empty or sentinel ToDate leaves
// the period open-ended.
type SalaryRequest struct {
	Amount   string `json:"amount" validate:"required"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListForEmployee returns an employee's salary history, newest first
func (s *SalaryService) ListForEmployee(ctx context.Context, empNo int) ([]*domain.SalaryTenure, error) {
	if _, err := s.employees.GetByNo(ctx, empNo); err != nil {
		return nil, err
	}
	return s.salaries.ListByEmployee(ctx, empNo)
}

// Create adds a salary period for an employee. The proposed interval is
// checked against the employee's existing salary rows, so at most one can be
// open-ended at a time. There is no locking between the check and the
// insert; two concurrent requests can both pass and leave two open rows.
func (s *SalaryService) Create(ctx context.Context, empNo int, req *SalaryRequest) (*domain.SalaryTenure, error) {
	if _, err := s.employees.GetByNo(ctx, empNo); err != nil {
		return nil, err
	}

	amountCents, err := money.ParseMajor(req.Amount)
	if err != nil {
		return nil, errors.BadRequest("invalid amount")
	}
	if amountCents < 0 {
		return nil, errors.BadRequest("amount must not be negative")
	}

	fromDate, err := domain.ParseDate(req.FromDate)
	if err != nil {
		return nil, errors.BadRequest("invalid from date")
	}
	toDate, err := domain.ParseEndDate(req.ToDate)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}

	existing, err := s.salaries.ListByEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	proposed := tenure.Interval{Start: fromDate, End: toDate}
	if !tenure.Validate(salaryRecords(existing), proposed, "") {
		return nil, errors.Conflict("salary period overlaps an existing salary")
	}

	var oldCents *int64
	previous, err := s.salaries.LatestForEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		oldCents = &previous.AmountCents
	}

	sal := &domain.SalaryTenure{
		EmpNo:       empNo,
		AmountCents: amountCents,
		FromDate:    fromDate,
		ToDate:      toDate,
	}

	if err := s.salaries.Create(ctx, sal); err != nil {
		return nil, err
	}

	s.audit.RecordSalaryChange(ctx, empNo, oldCents, amountCents)

	var oldForEvent int64
	if oldCents != nil {
		oldForEvent = *oldCents
	}
	s.events.SalaryChanged(ctx, sal, oldForEvent)

	return sal, nil
}

// Update rewrites an existing salary row's amount and end date. The overlap
// check excludes the row itself so edits do not collide with themselves.
func (s *SalaryService) Update(ctx context.Context, empNo int, fromDateStr string, req *SalaryRequest) (*domain.SalaryTenure, error) {
	fromDate, err := domain.ParseDate(fromDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid from date")
	}

	sal, err := s.salaries.Get(ctx, empNo, fromDate)
	if err != nil {
		return nil, err
	}

	amountCents, err := money.ParseMajor(req.Amount)
	if err != nil {
		return nil, errors.BadRequest("invalid amount")
	}
	if amountCents < 0 {
		return nil, errors.BadRequest("amount must not be negative")
	}

	toDate, err := domain.ParseEndDate(req.ToDate)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}

	existing, err := s.salaries.ListByEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	proposed := tenure.Interval{Start: sal.FromDate, End: toDate}
	if !tenure.Validate(salaryRecords(existing), proposed, sal.Key()) {
		return nil, errors.Conflict("salary period overlaps an existing salary")
	}

	oldCents := sal.AmountCents
	if err := s.salaries.Update(ctx, empNo, sal.FromDate, amountCents, toDate); err != nil {
		return nil, err
	}
	sal.AmountCents = amountCents
	sal.ToDate = toDate

	if amountCents != oldCents {
		s.audit.RecordSalaryChange(ctx, empNo, &oldCents, amountCents)
		s.events.SalaryChanged(ctx, sal, oldCents)
	}

	return sal, nil
}

// End closes a salary period by writing its end date
func (s *SalaryService) End(ctx context.Context, empNo int, fromDateStr, toDateStr string) (*domain.SalaryTenure, error) {
	fromDate, err := domain.ParseDate(fromDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid from date")
	}

	sal, err := s.salaries.Get(ctx, empNo, fromDate)
	if err != nil {
		return nil, err
	}

	toDate, err := domain.ParseEndDate(toDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}
	if toDate != nil && !toDate.After(sal.FromDate) {
		return nil, errors.BadRequest("end date must be after the start date")
	}

	if err := s.salaries.SetEndDate(ctx, empNo, fromDate, toDate); err != nil {
		return nil, err
	}
	sal.ToDate = toDate

	return sal, nil
}

// Delete removes a salary row entirely
func (s *SalaryService) Delete(ctx context.Context, empNo int, fromDateStr string) error {
	fromDate, err := domain.ParseDate(fromDateStr)
	if err != nil {
		return errors.BadRequest("invalid from date")
	}

	if _, err := s.salaries.Get(ctx, empNo, fromDate); err != nil {
		return err
	}

	if err := s.salaries.Delete(ctx, empNo, fromDate); err != nil {
		return err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpDelete,
		Table:       domain.TableSalaries,
		Description: "Removed salary period starting " + fromDateStr,
		EmpNo:       &empNo,
	})

	return nil
}

func salaryRecords(salaries []*domain.SalaryTenure) []tenure.Record {
	records := make([]tenure.Record, 0, len(salaries))
	for _, sal := range salaries {
		records = append(records, tenure.Record{Key: sal.Key(), Interval: sal.Interval()})
	}
	return records
}
