package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// ManagerRepository handles department manager tenure rows
type ManagerRepository struct {
	db *database.DB
}

// NewManagerRepository creates a new manager repository
func NewManagerRepository(db *database.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

const managerColumns = `emp_no, dept_no, from_date, to_date`

// ListByDepartment returns every manager tenure a department has ever had
func (r *ManagerRepository) ListByDepartment(ctx context.Context, deptNo int) ([]*domain.ManagerTenure, error) {
	var tenures []*domain.ManagerTenure
	query := `SELECT ` + managerColumns + ` FROM dept_manager WHERE dept_no = $1 ORDER BY from_date`
	if err := r.db.SelectContext(ctx, &tenures, query, deptNo); err != nil {
		return nil, err
	}
	return tenures, nil
}

// ListByEmployee returns every manager tenure an employee has ever held
func (r *ManagerRepository) ListByEmployee(ctx context.Context, empNo int) ([]*domain.ManagerTenure, error) {
	var tenures []*domain.ManagerTenure
	query := `SELECT ` + managerColumns + ` FROM dept_manager WHERE emp_no = $1 ORDER BY from_date`
	if err := r.db.SelectContext(ctx, &tenures, query, empNo); err != nil {
		return nil, err
	}
	return tenures, nil
}

// CurrentForDepartment returns the department's active manager tenure, or
// nil when the chair is empty.
func (r *ManagerRepository) CurrentForDepartment(ctx context.Context, deptNo int) (*domain.ManagerTenure, error) {
	var m domain.ManagerTenure
	query := `
		SELECT ` + managerColumns + ` FROM dept_manager
		WHERE dept_no = $1 AND (to_date IS NULL OR to_date > now())
		ORDER BY from_date DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &m, query, deptNo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// Get fetches one manager tenure by its composite key
func (r *ManagerRepository) Get(ctx context.Context, empNo, deptNo int) (*domain.ManagerTenure, error) {
	var m domain.ManagerTenure
	query := `SELECT ` + managerColumns + ` FROM dept_manager WHERE emp_no = $1 AND dept_no = $2`

	err := r.db.GetContext(ctx, &m, query, empNo, deptNo)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("manager tenure")
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// Create inserts a new manager tenure row
func (r *ManagerRepository) Create(ctx context.Context, m *domain.ManagerTenure) error {
	query := `INSERT INTO dept_manager (emp_no, dept_no, from_date, to_date) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, m.EmpNo, m.DeptNo, m.FromDate, m.ToDate)
	return err
}

// SetEndDate closes a manager tenure by writing its end date
func (r *ManagerRepository) SetEndDate(ctx context.Context, empNo, deptNo int, toDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE dept_manager SET to_date = $3 WHERE emp_no = $1 AND dept_no = $2`,
		empNo, deptNo, toDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("manager tenure")
	}

	return nil
}

// Delete removes a manager tenure row
func (r *ManagerRepository) Delete(ctx context.Context, empNo, deptNo int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM dept_manager WHERE emp_no = $1 AND dept_no = $2`, empNo, deptNo)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("manager tenure")
	}

	return nil
}
