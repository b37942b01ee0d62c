package repository

import (
	"context"
	"database/sql"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// DepartmentRepository handles department persistence
type DepartmentRepository struct {
	db *database.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *database.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a new department and fills in the assigned number
func (r *DepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	query := `INSERT INTO departments (dept_name) VALUES ($1) RETURNING dept_no`
	return r.db.QueryRowxContext(ctx, query, dept.Name).Scan(&dept.DeptNo)
}

// GetByNo gets a department by number
func (r *DepartmentRepository) GetByNo(ctx context.Context, deptNo int) (*domain.Department, error) {
	var dept domain.Department
	query := `SELECT dept_no, dept_name FROM departments WHERE dept_no = $1`

	err := r.db.GetContext(ctx, &dept, query, deptNo)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("department")
	}
	if err != nil {
		return nil, err
	}

	return &dept, nil
}

// List returns all departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	var departments []*domain.Department
	query := `SELECT dept_no, dept_name FROM departments ORDER BY dept_name`
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, err
	}
	return departments, nil
}

// Update renames a department
func (r *DepartmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE departments SET dept_name = $2 WHERE dept_no = $1`, dept.DeptNo, dept.Name)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("department")
	}

	return nil
}

// Delete removes a department
func (r *DepartmentRepository) Delete(ctx context.Context, deptNo int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE dept_no = $1`, deptNo)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("department")
	}

	return nil
}

// NameExists reports whether another department already uses the name
func (r *DepartmentRepository) NameExists(ctx context.Context, name string, excludeDeptNo int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM departments WHERE dept_name = $1 AND dept_no <> $2`
	if err := r.db.GetContext(ctx, &count, query, name, excludeDeptNo); err != nil {
		return false, err
	}
	return count > 0, nil
}
