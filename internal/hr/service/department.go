package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/tenure"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// DepartmentService handles departments and their manager tenures
type DepartmentService struct {
	departments *repository.DepartmentRepository
	managers    *repository.ManagerRepository
	employees   *repository.EmployeeRepository
	audit       *AuditService
	logger      *logger.Logger
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	departments *repository.DepartmentRepository,
	managers *repository.ManagerRepository,
	employees *repository.EmployeeRepository,
	audit *AuditService,
	log *logger.Logger,
) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		managers:    managers,
		employees:   employees,
		audit:       audit,
		logger:      log.WithComponent("department"),
	}
}

// DepartmentRequest carries a new or edited department
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ManagerRequest carries a new manager tenure. An empty or sentinel ToDate
// leaves the tenure open-ended.
type ManagerRequest struct {
	EmpNo    int    `json:"emp_no" validate:"required,gt=0"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
}

// DepartmentDetail aggregates a department with its current manager
type DepartmentDetail struct {
	Department     *domain.Department `json:"department"`
	CurrentManager *domain.Employee   `json:"current_manager,omitempty"`
}

// Create adds a department
func (s *DepartmentService) Create(ctx context.Context, req *DepartmentRequest) (*domain.Department, error) {
	exists, err := s.departments.NameExists(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("department name already exists")
	}

	dept := &domain.Department{Name: req.Name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}

	key := strconv.Itoa(dept.DeptNo)
	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableDepartments,
		Description: fmt.Sprintf("Created department %q (#%d)", dept.Name, dept.DeptNo),
		RecordKey:   &key,
	})

	return dept, nil
}

// Get returns one department
func (s *DepartmentService) Get(ctx context.Context, deptNo int) (*domain.Department, error) {
	return s.departments.GetByNo(ctx, deptNo)
}

// GetDetail returns a department with its current manager
func (s *DepartmentService) GetDetail(ctx context.Context, deptNo int) (*DepartmentDetail, error) {
	dept, err := s.departments.GetByNo(ctx, deptNo)
	if err != nil {
		return nil, err
	}

	detail := &DepartmentDetail{Department: dept}

	current, err := s.managers.CurrentForDepartment(ctx, deptNo)
	if err != nil {
		return nil, err
	}
	if current != nil {
		mgr, err := s.employees.GetByNo(ctx, current.EmpNo)
		if err != nil {
			return nil, err
		}
		detail.CurrentManager = mgr
	}

	return detail, nil
}

// List returns all departments ordered by name
func (s *DepartmentService) List(ctx context.Context) ([]*domain.Department, error) {
	return s.departments.List(ctx)
}

// Update renames a department
func (s *DepartmentService) Update(ctx context.Context, deptNo int, req *DepartmentRequest) (*domain.Department, error) {
	dept, err := s.departments.GetByNo(ctx, deptNo)
	if err != nil {
		return nil, err
	}

	exists, err := s.departments.NameExists(ctx, req.Name, deptNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("department name already exists")
	}

	oldName := dept.Name
	dept.Name = req.Name
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}

	key := strconv.Itoa(deptNo)
	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableDepartments,
		Description: fmt.Sprintf("Renamed department #%d from %q to %q", deptNo, oldName, dept.Name),
		RecordKey:   &key,
		OldValue:    &oldName,
		NewValue:    &dept.Name,
	})

	return dept, nil
}

// Delete removes a department. Departments with assignment history cannot be
// removed; the storage layer rejects the delete.
func (s *DepartmentService) Delete(ctx context.Context, deptNo int) error {
	dept, err := s.departments.GetByNo(ctx, deptNo)
	if err != nil {
		return err
	}

	if err := s.departments.Delete(ctx, deptNo); err != nil {
		return err
	}

	key := strconv.Itoa(deptNo)
	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpDelete,
		Table:       domain.TableDepartments,
		Description: fmt.Sprintf("Deleted department %q (#%d)", dept.Name, deptNo),
		RecordKey:   &key,
	})

	return nil
}

// ListManagers returns a department's manager tenure history
func (s *DepartmentService) ListManagers(ctx context.Context, deptNo int) ([]*domain.ManagerTenure, error) {
	if _, err := s.departments.GetByNo(ctx, deptNo); err != nil {
		return nil, err
	}
	return s.managers.ListByDepartment(ctx, deptNo)
}

// AssignManager adds a manager tenure to a department. The proposed interval
// is checked against the department's existing tenures, so at most one
// manager can be active per department. The check is advisory: it reads a
// snapshot and the insert follows in a separate statement.
func (s *DepartmentService) AssignManager(ctx context.Context, deptNo int, req *ManagerRequest) (*domain.ManagerTenure, error) {
	if _, err := s.departments.GetByNo(ctx, deptNo); err != nil {
		return nil, err
	}
	if _, err := s.employees.GetByNo(ctx, req.EmpNo); err != nil {
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

	existing, err := s.managers.ListByDepartment(ctx, deptNo)
	if err != nil {
		return nil, err
	}

	proposed := tenure.Interval{Start: fromDate, End: toDate}
	if !tenure.Validate(managerRecords(existing), proposed, "") {
		return nil, errors.Conflict("manager tenure overlaps an existing tenure for this department")
	}

	m := &domain.ManagerTenure{
		EmpNo:    req.EmpNo,
		DeptNo:   deptNo,
		FromDate: fromDate,
		ToDate:   toDate,
	}

	if err := s.managers.Create(ctx, m); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableManagers,
		Description: fmt.Sprintf("Appointed employee #%d manager of department #%d from %s", req.EmpNo, deptNo, req.FromDate),
		EmpNo:       &m.EmpNo,
	})

	return m, nil
}

// EndManagerTenure closes a manager tenure by writing its end date
func (s *DepartmentService) EndManagerTenure(ctx context.Context, deptNo, empNo int, toDateStr string) (*domain.ManagerTenure, error) {
	m, err := s.managers.Get(ctx, empNo, deptNo)
	if err != nil {
		return nil, err
	}

	toDate, err := domain.ParseEndDate(toDateStr)
	if err != nil {
		return nil, errors.BadRequest("invalid to date")
	}
	if toDate != nil && !toDate.After(m.FromDate) {
		return nil, errors.BadRequest("end date must be after the start date")
	}

	if err := s.managers.SetEndDate(ctx, empNo, deptNo, toDate); err != nil {
		return nil, err
	}
	m.ToDate = toDate

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableManagers,
		Description: fmt.Sprintf("Ended manager tenure of employee #%d in department #%d on %s", empNo, deptNo, domain.FormatEndDate(toDate)),
		EmpNo:       &empNo,
	})

	return m, nil
}

// DeleteManagerTenure removes a manager tenure row entirely
func (s *DepartmentService) DeleteManagerTenure(ctx context.Context, deptNo, empNo int) error {
	if _, err := s.managers.Get(ctx, empNo, deptNo); err != nil {
		return err
	}

	if err := s.managers.Delete(ctx, empNo, deptNo); err != nil {
		return err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpDelete,
		Table:       domain.TableManagers,
		Description: fmt.Sprintf("Removed manager tenure of employee #%d in department #%d", empNo, deptNo),
		EmpNo:       &empNo,
	})

	return nil
}

func managerRecords(tenures []*domain.ManagerTenure) []tenure.Record {
	records := make([]tenure.Record, 0, len(tenures))
	for _, m := range tenures {
		records = append(records, tenure.Record{Key: m.Key(), Interval: m.Interval()})
	}
	return records
}
