package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `emp_no, national_id, first_name, last_name, gender, birth_date, hire_date, email`

// NextEmpNo allocates the next employee number. Numbers start at 1001.
func (r *EmployeeRepository) NextEmpNo(ctx context.Context) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(emp_no), 1000) FROM employees`
	if err := r.db.GetContext(ctx, &max, query); err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create inserts a new employee
func (r *EmployeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return r.create(ctx, r.db, emp)
}

// CreateTx inserts a new employee inside an existing transaction
func (r *EmployeeRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, emp *domain.Employee) error {
	return r.create(ctx, tx, emp)
}

func (r *EmployeeRepository) create(ctx context.Context, ext sqlx.ExtContext, emp *domain.Employee) error {
	query := `
		INSERT INTO employees (emp_no, national_id, first_name, last_name, gender, birth_date, hire_date, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := ext.ExecContext(ctx, query,
		emp.EmpNo, emp.NationalID, emp.FirstName, emp.LastName,
		emp.Gender, emp.BirthDate, emp.HireDate, emp.Email,
	)
	return err
}

// GetByNo gets an employee by employee number
func (r *EmployeeRepository) GetByNo(ctx context.Context, empNo int) (*domain.Employee, error) {
	var emp domain.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE emp_no = $1`

	err := r.db.GetContext(ctx, &emp, query, empNo)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// List lists employees with pagination, ordered by employee number
func (r *EmployeeRepository) List(ctx context.Context, page, perPage int) ([]*domain.Employee, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM employees`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY emp_no LIMIT $1 OFFSET $2`

	var employees []*domain.Employee
	if err := r.db.SelectContext(ctx, &employees, query, perPage, offset); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListAll returns every employee, ordered by employee number. Used by the
// report builders.
func (r *EmployeeRepository) ListAll(ctx context.Context) ([]*domain.Employee, error) {
	var employees []*domain.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY emp_no`
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, err
	}
	return employees, nil
}

// Update updates an employee
func (r *EmployeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	query := `
		UPDATE employees SET
			national_id = $2, first_name = $3, last_name = $4, gender = $5,
			birth_date = $6, hire_date = $7, email = $8
		WHERE emp_no = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		emp.EmpNo, emp.NationalID, emp.FirstName, emp.LastName,
		emp.Gender, emp.BirthDate, emp.HireDate, emp.Email,
	)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}

	return nil
}

// DeleteTx deletes an employee inside an existing transaction. The caller
// removes the linked user row first.
func (r *EmployeeRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, empNo int) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE emp_no = $1`, empNo)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("employee")
	}

	return nil
}

// EmailExists reports whether another employee already uses the email
func (r *EmployeeRepository) EmailExists(ctx context.Context, email string, excludeEmpNo int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM employees WHERE email = $1 AND emp_no <> $2`
	if err := r.db.GetContext(ctx, &count, query, email, excludeEmpNo); err != nil {
		return false, err
	}
	return count > 0, nil
}

// NationalIDExists reports whether another employee already uses the national ID
func (r *EmployeeRepository) NationalIDExists(ctx context.Context, nationalID string, excludeEmpNo int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM employees WHERE national_id = $1 AND emp_no <> $2`
	if err := r.db.GetContext(ctx, &count, query, nationalID, excludeEmpNo); err != nil {
		return false, err
	}
	return count > 0, nil
}
