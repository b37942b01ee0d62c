package service

import (
	"context"

	"github.com/tenurehq/tenure-backend/pkg/actor"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// SeederService loads demo data through the ordinary service operations so
// seeded rows go through the same validation, audit and event paths as
// interactive ones.
type SeederService struct {
	employees   *EmployeeService
	departments *DepartmentService
	assignments *AssignmentService
	titles      *TitleService
	salaries    *SalaryService
	logger      *logger.Logger
}

// NewSeederService creates a new seeder service
func NewSeederService(
	employees *EmployeeService,
	departments *DepartmentService,
	assignments *AssignmentService,
	titles *TitleService,
	salaries *SalaryService,
	log *logger.Logger,
) *SeederService {
	return &SeederService{
		employees:   employees,
		departments: departments,
		assignments: assignments,
		titles:      titles,
		salaries:    salaries,
		logger:      log.WithComponent("seeder"),
	}
}

// HasData reports whether any employee records exist
func (s *SeederService) HasData(ctx context.Context) (bool, error) {
	_, total, err := s.employees.List(ctx, 1, 1)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

type seedEmployee struct {
	employee   CreateEmployeeRequest
	department string
	title      string
	salary     string
	manager    bool
}

var seedDepartments = []string{"Development", "Human Resources", "Sales"}

var seedEmployees = []seedEmployee{
	{
		employee: CreateEmployeeRequest{
			FirstName: "Juan", LastName: "Perez", Gender: "M",
			BirthDate: "1985-05-15", HireDate: "2020-01-15",
			NationalID: "12345678", Email: "juan.perez@example.com",
		},
		department: "Development", title: "Senior Engineer", salary: "8000", manager: true,
	},
	{
		employee: CreateEmployeeRequest{
			FirstName: "Maria", LastName: "Gonzalez", Gender: "F",
			BirthDate: "1990-08-22", HireDate: "2019-03-10",
			NationalID: "87654321", Email: "maria.gonzalez@example.com",
		},
		department: "Human Resources", title: "HR Specialist", salary: "5500", manager: true,
	},
	{
		employee: CreateEmployeeRequest{
			FirstName: "Carlos", LastName: "Rodriguez", Gender: "M",
			BirthDate: "1988-12-03", HireDate: "2021-06-01",
			NationalID: "11223344", Email: "carlos.rodriguez@example.com",
		},
		department: "Sales", title: "Account Executive", salary: "6200",
	},
}

// Seed loads the demo data set. It is idempotent: when employee records
// already exist, nothing is written. All writes run as the system actor.
func (s *SeederService) Seed(ctx context.Context) error {
	has, err := s.HasData(ctx)
	if err != nil {
		return err
	}
	if has {
		s.logger.Info().Msg("seed skipped, data already present")
		return nil
	}

	ctx = actor.WithActor(ctx, actor.System())

	deptNos := map[string]int{}
	for _, name := range seedDepartments {
		dept, err := s.departments.Create(ctx, &DepartmentRequest{Name: name})
		if err != nil {
			return err
		}
		deptNos[name] = dept.DeptNo
	}

	for _, seed := range seedEmployees {
		deptNo := deptNos[seed.department]
		req := seed.employee
		req.InitialDeptNo = &deptNo

		emp, err := s.employees.Create(ctx, &req)
		if err != nil {
			return err
		}

		_, err = s.titles.Create(ctx, emp.EmpNo, &TitleRequest{
			Title:    seed.title,
			FromDate: seed.employee.HireDate,
		})
		if err != nil {
			return err
		}

		_, err = s.salaries.Create(ctx, emp.EmpNo, &SalaryRequest{
			Amount:   seed.salary,
			FromDate: seed.employee.HireDate,
		})
		if err != nil {
			return err
		}

		if seed.manager {
			_, err = s.departments.AssignManager(ctx, deptNo, &ManagerRequest{
				EmpNo:    emp.EmpNo,
				FromDate: seed.employee.HireDate,
			})
			if err != nil {
				return err
			}
		}
	}

	s.logger.Info().
		Int("departments", len(seedDepartments)).
		Int("employees", len(seedEmployees)).
		Msg("demo data seeded")

	return nil
}
