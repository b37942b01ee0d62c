package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/money"
)

// ReportService builds payroll and organizational summaries
type ReportService struct {
	employees   *repository.EmployeeRepository
	departments *repository.DepartmentRepository
	assignments *repository.AssignmentRepository
	managers    *repository.ManagerRepository
	titles      *repository.TitleRepository
	salaries    *repository.SalaryRepository
	logger      *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(
	employees *repository.EmployeeRepository,
	departments *repository.DepartmentRepository,
	assignments *repository.AssignmentRepository,
	managers *repository.ManagerRepository,
	titles *repository.TitleRepository,
	salaries *repository.SalaryRepository,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		employees:   employees,
		departments: departments,
		assignments: assignments,
		managers:    managers,
		titles:      titles,
		salaries:    salaries,
		logger:      log.WithComponent("report"),
	}
}

// PayrollRow is one employee's line in the payroll report
type PayrollRow struct {
	EmpNo       int    `json:"emp_no"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Department  string `json:"department,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

// PayrollReport is the payroll report for all employees with an active salary
type PayrollReport struct {
	Rows       []PayrollRow `json:"rows"`
	TotalCents int64        `json:"total_cents"`
	Total      string       `json:"total"`
}

// OrgDepartment is one department's line in the organizational report
type OrgDepartment struct {
	DeptNo    int    `json:"dept_no"`
	Name      string `json:"name"`
	Manager   string `json:"manager,omitempty"`
	Headcount int    `json:"headcount"`
}

// OrgReport is the organizational overview
type OrgReport struct {
	Departments    []OrgDepartment `json:"departments"`
	TotalEmployees int             `json:"total_employees"`
}

// Payroll builds the payroll report. Only employees with an active salary
// appear; amounts are summed in cents and rendered in major units.
func (s *ReportService) Payroll(ctx context.Context) (*PayrollReport, error) {
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &PayrollReport{Rows: []PayrollRow{}}
	for _, emp := range employees {
		salary, err := s.salaries.CurrentForEmployee(ctx, emp.EmpNo)
		if err != nil {
			return nil, err
		}
		if salary == nil {
			continue
		}

		row := PayrollRow{
			EmpNo:       emp.EmpNo,
			Name:        emp.FullName(),
			AmountCents: salary.AmountCents,
			Amount:      money.FormatCents(salary.AmountCents),
		}

		title, err := s.titles.CurrentForEmployee(ctx, emp.EmpNo)
		if err != nil {
			return nil, err
		}
		if title != nil {
			row.Title = title.Title
		}

		assignment, err := s.assignments.CurrentForEmployee(ctx, emp.EmpNo)
		if err != nil {
			return nil, err
		}
		if assignment != nil {
			dept, err := s.departments.GetByNo(ctx, assignment.DeptNo)
			if err != nil {
				return nil, err
			}
			row.Department = dept.Name
		}

		report.Rows = append(report.Rows, row)
		report.TotalCents += salary.AmountCents
	}

	report.Total = money.FormatCents(report.TotalCents)
	return report, nil
}

// Organization builds the organizational overview: each department with its
// current manager and active headcount.
func (s *ReportService) Organization(ctx context.Context) (*OrgReport, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &OrgReport{Departments: []OrgDepartment{}}
	seen := map[int]bool{}

	for _, dept := range departments {
		row := OrgDepartment{DeptNo: dept.DeptNo, Name: dept.Name}

		current, err := s.managers.CurrentForDepartment(ctx, dept.DeptNo)
		if err != nil {
			return nil, err
		}
		if current != nil {
			mgr, err := s.employees.GetByNo(ctx, current.EmpNo)
			if err != nil {
				return nil, err
			}
			row.Manager = mgr.FullName()
		}

		assignments, err := s.assignments.ListByDepartment(ctx, dept.DeptNo)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			if a.Active(workingDay(now())) {
				row.Headcount++
				seen[a.EmpNo] = true
			}
		}

		report.Departments = append(report.Departments, row)
	}

	report.TotalEmployees = len(seen)
	return report, nil
}

var payrollCSVHeader = []string{"emp_no", "name", "title", "department", "amount"}

// ExportPayrollCSV streams the payroll report as CSV, one row per employee
// with an active salary plus a trailing total row.
func (s *ReportService) ExportPayrollCSV(ctx context.Context, w io.Writer) error {
	report, err := s.Payroll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(payrollCSVHeader); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			strconv.Itoa(row.EmpNo),
			row.Name,
			row.Title,
			row.Department,
			row.Amount,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "Total", "", "", report.Total}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

var csvHeader = []string{"emp_no", "national_id", "first_name", "last_name", "gender", "birth_date", "hire_date", "email"}

// ExportEmployeesCSV streams all employee records as CSV
func (s *ReportService) ExportEmployeesCSV(ctx context.Context, w io.Writer) error {
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, emp := range employees {
		record := []string{
			strconv.Itoa(emp.EmpNo),
			emp.NationalID,
			emp.FirstName,
			emp.LastName,
			emp.Gender,
			domain.FormatDate(emp.BirthDate),
			domain.FormatDate(emp.HireDate),
			emp.Email,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
