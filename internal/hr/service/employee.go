package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// EmployeeService handles employee records
type EmployeeService struct {
	db          *database.DB
	employees   *repository.EmployeeRepository
	users       *repository.UserRepository
	assignments *repository.AssignmentRepository
	departments *repository.DepartmentRepository
	titles      *repository.TitleRepository
	salaries    *repository.SalaryRepository
	audit       *AuditService
	events      *events.Publisher
	logger      *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	db *database.DB,
	employees *repository.EmployeeRepository,
	users *repository.UserRepository,
	assignments *repository.AssignmentRepository,
	departments *repository.DepartmentRepository,
	titles *repository.TitleRepository,
	salaries *repository.SalaryRepository,
	audit *AuditService,
	publisher *events.Publisher,
	log *logger.Logger,
) *EmployeeService {
	return &EmployeeService{
		db:          db,
		employees:   employees,
		users:       users,
		assignments: assignments,
		departments: departments,
		titles:      titles,
		salaries:    salaries,
		audit:       audit,
		events:      publisher,
		logger:      log.WithComponent("employee"),
	}
}

// CreateEmployeeRequest carries a new employee record. An initial department
// assignment may be created in the same transaction.
type CreateEmployeeRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Gender     string `json:"gender" validate:"required,oneof=M F O"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate   string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	NationalID string `json:"national_id" validate:"required,max=20"`
	Email      string `json:"email" validate:"required,email"`

	InitialDeptNo *int `json:"initial_dept_no" validate:"omitempty,gt=0"`
}

// UpdateEmployeeRequest carries an employee update
type UpdateEmployeeRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Gender     string `json:"gender" validate:"required,oneof=M F O"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate   string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	NationalID string `json:"national_id" validate:"required,max=20"`
	Email      string `json:"email" validate:"required,email"`
}

// EmployeeDetail aggregates an employee with its current standing
type EmployeeDetail struct {
	Employee          *domain.Employee     `json:"employee"`
	CurrentDepartment *domain.Department   `json:"current_department,omitempty"`
	CurrentTitle      *domain.TitleTenure  `json:"current_title,omitempty"`
	CurrentSalary     *domain.SalaryTenure `json:"current_salary,omitempty"`
}

// Create allocates the next employee number and persists the record. When an
// initial department is given, the assignment row is written in the same
// transaction, open-ended from the hire date.
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*domain.Employee, error) {
	exists, err := s.employees.EmailExists(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("email already in use")
	}

	exists, err = s.employees.NationalIDExists(ctx, req.NationalID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("national ID already registered")
	}

	birthDate, err := domain.ParseDate(req.BirthDate)
	if err != nil {
		return nil, errors.BadRequest("invalid birth date")
	}
	hireDate, err := domain.ParseDate(req.HireDate)
	if err != nil {
		return nil, errors.BadRequest("invalid hire date")
	}

	if req.InitialDeptNo != nil {
		if _, err := s.departments.GetByNo(ctx, *req.InitialDeptNo); err != nil {
			return nil, err
		}
	}

	empNo, err := s.employees.NextEmpNo(ctx)
	if err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		EmpNo:      empNo,
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		BirthDate:  birthDate,
		HireDate:   hireDate,
		Email:      req.Email,
	}

	var assignment *domain.Assignment
	if req.InitialDeptNo != nil {
		assignment = &domain.Assignment{
			EmpNo:    empNo,
			DeptNo:   *req.InitialDeptNo,
			FromDate: hireDate,
		}
	}

	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.employees.CreateTx(ctx, tx, emp); err != nil {
			return err
		}
		if assignment != nil {
			return s.assignments.CreateTx(ctx, tx, assignment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableEmployees,
		Description: fmt.Sprintf("Created employee %s (#%d)", emp.FullName(), emp.EmpNo),
		EmpNo:       &emp.EmpNo,
	})
	s.events.EmployeeCreated(ctx, emp)

	if assignment != nil {
		s.audit.RecordChange(ctx, ChangeRecord{
			Operation:   domain.OpCreate,
			Table:       domain.TableAssignments,
			Description: fmt.Sprintf("Assigned employee #%d to department #%d", emp.EmpNo, assignment.DeptNo),
			EmpNo:       &emp.EmpNo,
		})
		s.events.AssignmentStarted(ctx, assignment)
	}

	return emp, nil
}

// Get returns one employee record
func (s *EmployeeService) Get(ctx context.Context, empNo int) (*domain.Employee, error) {
	return s.employees.GetByNo(ctx, empNo)
}

// GetDetail returns an employee with its current department, title and salary
func (s *EmployeeService) GetDetail(ctx context.Context, empNo int) (*EmployeeDetail, error) {
	emp, err := s.employees.GetByNo(ctx, empNo)
	if err != nil {
		return nil, err
	}

	detail := &EmployeeDetail{Employee: emp}

	assignment, err := s.assignments.CurrentForEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}
	if assignment != nil {
		dept, err := s.departments.GetByNo(ctx, assignment.DeptNo)
		if err != nil {
			return nil, err
		}
		detail.CurrentDepartment = dept
	}

	detail.CurrentTitle, err = s.titles.CurrentForEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	detail.CurrentSalary, err = s.salaries.CurrentForEmployee(ctx, empNo)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// List returns a page of employees plus the total count
func (s *EmployeeService) List(ctx context.Context, page, perPage int) ([]*domain.Employee, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.employees.List(ctx, page, perPage)
}

// Update rewrites an employee record
func (s *EmployeeService) Update(ctx context.Context, empNo int, req *UpdateEmployeeRequest) (*domain.Employee, error) {
	existing, err := s.employees.GetByNo(ctx, empNo)
	if err != nil {
		return nil, err
	}

	exists, err := s.employees.EmailExists(ctx, req.Email, empNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("email already in use")
	}

	exists, err = s.employees.NationalIDExists(ctx, req.NationalID, empNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("national ID already registered")
	}

	birthDate, err := domain.ParseDate(req.BirthDate)
	if err != nil {
		return nil, errors.BadRequest("invalid birth date")
	}
	hireDate, err := domain.ParseDate(req.HireDate)
	if err != nil {
		return nil, errors.BadRequest("invalid hire date")
	}

	updated := &domain.Employee{
		EmpNo:      empNo,
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		BirthDate:  birthDate,
		HireDate:   hireDate,
		Email:      req.Email,
	}

	if err := s.employees.Update(ctx, updated); err != nil {
		return nil, err
	}

	oldJSON := marshalForAudit(existing)
	newJSON := marshalForAudit(updated)
	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableEmployees,
		Description: fmt.Sprintf("Updated employee %s (#%d)", updated.FullName(), empNo),
		EmpNo:       &empNo,
		OldValue:    oldJSON,
		NewValue:    newJSON,
	})
	s.events.EmployeeUpdated(ctx, empNo, map[string]any{
		"first_name": updated.FirstName,
		"last_name":  updated.LastName,
		"email":      updated.Email,
	})

	return updated, nil
}

// Delete removes an employee and its user account. The user row goes first
// in the same transaction so no orphaned credentials survive. Tenure rows
// are not cascaded: an employee with assignment, title or salary history is
// rejected with a conflict. Audit rows carry no foreign keys, so the trail
// outlives the record.
func (s *EmployeeService) Delete(ctx context.Context, empNo int) error {
	emp, err := s.employees.GetByNo(ctx, empNo)
	if err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.DeleteTx(ctx, tx, empNo); err != nil {
			return err
		}
		return s.employees.DeleteTx(ctx, tx, empNo)
	})
	if database.IsForeignKeyViolation(err) {
		return errors.Conflict("employee has tenure records and cannot be deleted")
	}
	if err != nil {
		return err
	}

	s.audit.RecordChange(ctx, ChangeRecord{
		Operation:   domain.OpDelete,
		Table:       domain.TableEmployees,
		Description: fmt.Sprintf("Deleted employee %s (#%d)", emp.FullName(), empNo),
		EmpNo:       &empNo,
	})
	s.events.EmployeeDeleted(ctx, empNo)

	return nil
}

func marshalForAudit(v any) *string {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// now is replaceable in tests
var now = time.Now

// workingDay truncates a timestamp to its calendar date
func workingDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
