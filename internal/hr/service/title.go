package service

import (
	"context"
	"fmt"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/tenure"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// TitleService handles job title tenures
type TitleService struct {
	titles    *repository.TitleRepository
	employees *repository.EmployeeRepository
	audit     *AuditService
	events    *events.Publisher
	logger    *logger.Logger
}

// NewTitleService creates a new title service
func NewTitleService(
	titles *repository.TitleRepository,
	employees *repository.EmployeeRepository,
	audit *AuditService,
	publisher *events.Publisher,
	log *logger.Logger,
) *TitleService {
	return &TitleService{
		titles:    titles,
		employees: employees,
		audit:     audit,
		events:    publisher,
		logger:    log.WithComponent("title"),
	}
}

// TitleRequest carries a new title tenure. An empty or sentinel ToDate
// leaves the tenure open-ended.
type TitleRequest struct {
	Title    string `json:"title" validate:"required,max=50"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListForEmployee returns an employee's title history
func (s *TitleService) ListForEmployee(ctx context.Context, empNo int) ([]*domain.TitleTenure, error) {
	if _, err := s.employees.GetByNo(ctx, empNo); err != nil {
		return nil, err
	}
	return s.titles.ListByEmployee(ctx, empNo)
}

// Create adds a title tenure for an employee. The proposed interval is
// checked against all of the employee's titles, so an employee holds one
// title at a time. The check reads a snapshot with no locking before the
// insert.
func (s *TitleService) Create(ctx context.Context, empNo int, req *TitleRequest) (*domain.TitleTenure, error) {
	if _, err := s.employees.GetByNo(ctx, empNo); err != nil {
		return nil, err
	}

	fromDate, err := domain.ParseDate(req.FromDate)
	if err != nil {
		return nil, errors.BadRequest("invalid from date")
	}
	toDate, err := domain.ParseEndDate(req.ToDate)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}

	existing, err := s.titles.ListByEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	proposed := tenure.Interval{Start: fromDate, End: toDate}
	if !tenure.Validate(titleRecords(existing), proposed, "") {
		return nil, errors.Conflict("title period overlaps an existing title")
	}

	t := &domain.TitleTenure{
		EmpNo:    empNo,
		Title:    req.Title,
		FromDate: fromDate,
		ToDate:   toDate,
	}

	if err := s.titles.Create(ctx, t); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableTitles,
		Description: fmt.Sprintf("Gave employee #%d title %q from %s", empNo, req.Title, req.FromDate),
		EmpNo:       &empNo,
	})
	s.events.TitleChanged(ctx, t)

	return t, nil
}

// End closes a title tenure by writing its end date
func (s *TitleService) End(ctx context.Context, empNo int, title, fromDateStr, toDateStr string) (*domain.TitleTenure, error) {
	fromDate, err := domain.ParseDate(fromDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid from date")
	}

	t, err := s.titles.Get(ctx, empNo, title, fromDate)
	if err != nil {
		return nil, err
	}

	toDate, err := domain.ParseEndDate(toDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}
	if toDate != nil && !toDate.After(t.FromDate) {
		return nil, errors.BadRequest("end date must be after the start date")
	}

	if err := s.titles.SetEndDate(ctx, empNo, title, fromDate, toDate); err != nil {
		return nil, err
	}
	t.ToDate = toDate

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableTitles,
		Description: fmt.Sprintf("Ended title %q of employee #%d on %s", title, empNo, domain.FormatEndDate(toDate)),
		EmpNo:       &empNo,
	})

	return t, nil
}

// Delete removes a title tenure row entirely
func (s *TitleService) Delete(ctx context.Context, empNo int, title, fromDateStr string) error {
	fromDate, err := domain.ParseDate(fromDateStr)
	if err != nil {
		return errors.BadRequest("invalid from date")
	}

	if _, err := s.titles.Get(ctx, empNo, title, fromDate); err != nil {
		return err
	}

	if err := s.titles.Delete(ctx, empNo, title, fromDate); err != nil {
		return err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpDelete,
		Table:       domain.TableTitles,
		Description: fmt.Sprintf("Removed title %q of employee #%d starting %s", title, empNo, fromDateStr),
		EmpNo:       &empNo,
	})

	return nil
}

func titleRecords(titles []*domain.TitleTenure) []tenure.Record {
	records := make([]tenure.Record, 0, len(titles))
	for _, t := range titles {
		records = append(records, tenure.Record{Key: t.Key(), Interval: t.Interval()})
	}
	return records
}
