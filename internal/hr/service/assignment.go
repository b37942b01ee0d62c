package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/tenure"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// AssignmentService handles department assignment tenures
type AssignmentService struct {
	db          *database.DB
	assignments *repository.AssignmentRepository
	employees   *repository.EmployeeRepository
	departments *repository.DepartmentRepository
	audit       *AuditService
	events      *events.Publisher
	logger      *logger.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	db *database.DB,
	assignments *repository.AssignmentRepository,
	employees *repository.EmployeeRepository,
	departments *repository.DepartmentRepository,
	audit *AuditService,
	publisher *events.Publisher,
	log *logger.Logger,
) *AssignmentService {
	return &AssignmentService{
		db:          db,
		assignments: assignments,
		employees:   employees,
		departments: departments,
		audit:       audit,
		events:      publisher,
		logger:      log.WithComponent("assignment"),
	}
}

// AssignmentRequest carries a new or edited assignment period. An empty or
// sentinel ToDate leaves the assignment open-ended.
type AssignmentRequest struct {
	DeptNo   int    `json:"dept_no" validate:"required,gt=0"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListForEmployee returns an employee's assignment history
func (s *AssignmentService) ListForEmployee(ctx context.Context, empNo int) ([]*domain.Assignment, error) {
	if _, err := s.employees.GetByNo(ctx, empNo); err != nil {
		return nil, err
	}
	return s.assignments.ListByEmployee(ctx, empNo)
}

// ListForDepartment returns a department's assignment history
func (s *AssignmentService) ListForDepartment(ctx context.Context, deptNo int) ([]*domain.Assignment, error) {
	if _, err := s.departments.GetByNo(ctx, deptNo); err != nil {
		return nil, err
	}
	return s.assignments.ListByDepartment(ctx, deptNo)
}

// Create adds an assignment period for an employee. The proposed interval is
// checked against all of the employee's existing assignments, so at most one
// can be open-ended at a time. The check reads a snapshot and the insert is
// a separate statement, so two concurrent requests can both pass.
func (s *AssignmentService) Create(ctx context.Context, empNo int, req *AssignmentRequest) (*domain.Assignment, error) {
	if _, err := s.employees.GetByNo(ctx, empNo); err != nil {
		return nil, err
	}
	if _, err := s.departments.GetByNo(ctx, req.DeptNo); err != nil {
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

	existing, err := s.assignments.ListByEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	proposed := tenure.Interval{Start: fromDate, End: toDate}
	if !tenure.Validate(assignmentRecords(existing), proposed, "") {
		return nil, errors.Conflict("assignment period overlaps an existing assignment")
	}

	a := &domain.Assignment{
		EmpNo:    empNo,
		DeptNo:   req.DeptNo,
		FromDate: fromDate,
		ToDate:   toDate,
	}

	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableAssignments,
		Description: fmt.Sprintf("Assigned employee #%d to department #%d from %s", empNo, req.DeptNo, req.FromDate),
		EmpNo:       &empNo,
	})
	s.events.AssignmentStarted(ctx, a)

	return a, nil
}

// Update rewrites an assignment's period in place. The overlap check
// excludes the assignment's own row so edits do not collide with themselves.
func (s *AssignmentService) Update(ctx context.Context, empNo, deptNo int, req *AssignmentRequest) (*domain.Assignment, error) {
	a, err := s.assignments.Get(ctx, empNo, deptNo)
	if err != nil {
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

	existing, err := s.assignments.ListByEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	proposed := tenure.Interval{Start: fromDate, End: toDate}
	if !tenure.Validate(assignmentRecords(existing), proposed, a.Key()) {
		return nil, errors.Conflict("assignment period overlaps an existing assignment")
	}

	// Assignments are keyed (emp_no, dept_no); rewriting the period means
	// replacing the row. Delete and re-insert run in one transaction so a
	// failed insert cannot leave the assignment gone.
	a.FromDate = fromDate
	a.ToDate = toDate
	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.assignments.DeleteTx(ctx, tx, empNo, deptNo); err != nil {
			return err
		}
		return s.assignments.CreateTx(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableAssignments,
		Description: fmt.Sprintf("Changed assignment of employee #%d in department #%d", empNo, deptNo),
		EmpNo:       &empNo,
	})

	return a, nil
}

// End closes an open assignment by writing its end date
func (s *AssignmentService) End(ctx context.Context, empNo, deptNo int, toDateStr string) (*domain.Assignment, error) {
	a, err := s.assignments.Get(ctx, empNo, deptNo)
	if err != nil {
		return nil, err
	}

	toDate, err := domain.ParseEndDate(toDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}
	if toDate != nil && !toDate.After(a.FromDate) {
		return nil, errors.BadRequest("end date must be after the start date")
	}

	if err := s.assignments.SetEndDate(ctx, empNo, deptNo, toDate); err != nil {
		return nil, err
	}
	a.ToDate = toDate

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableAssignments,
		Description: fmt.Sprintf("Ended assignment of employee #%d in department #%d on %s", empNo, deptNo, domain.FormatEndDate(toDate)),
		EmpNo:       &empNo,
	})
	s.events.AssignmentEnded(ctx, a)

	return a, nil
}

// Delete removes an assignment row entirely
func (s *AssignmentService) Delete(ctx context.Context, empNo, deptNo int) error {
	if _, err := s.assignments.Get(ctx, empNo, deptNo); err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, empNo, deptNo); err != nil {
		return err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpDelete,
		Table:       domain.TableAssignments,
		Description: fmt.Sprintf("Removed assignment of employee #%d in department #%d", empNo, deptNo),
		EmpNo:       &empNo,
	})

	return nil
}

func assignmentRecords(assignments []*domain.Assignment) []tenure.Record {
	records := make([]tenure.Record, 0, len(assignments))
	for _, a := range assignments {
		records = append(records, tenure.Record{Key: a.Key(), Interval: a.Interval()})
	}
	return records
}
