package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// AssignmentRepository handles department assignment tenure rows
type AssignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `emp_no, dept_no, from_date, to_date`

// ListByEmployee returns every assignment an employee has ever had
func (r *AssignmentRepository) ListByEmployee(ctx context.Context, empNo int) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM dept_emp WHERE emp_no = $1 ORDER BY from_date`
	if err := r.db.SelectContext(ctx, &assignments, query, empNo); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByDepartment returns every assignment a department has ever had
func (r *AssignmentRepository) ListByDepartment(ctx context.Context, deptNo int) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM dept_emp WHERE dept_no = $1 ORDER BY from_date`
	if err := r.db.SelectContext(ctx, &assignments, query, deptNo); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Get fetches one assignment by its composite key
func (r *AssignmentRepository) Get(ctx context.Context, empNo, deptNo int) (*domain.Assignment, error) {
	var a domain.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM dept_emp WHERE emp_no = $1 AND dept_no = $2`

	err := r.db.GetContext(ctx, &a, query, empNo, deptNo)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("assignment")
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CurrentForEmployee returns the employee's active assignment, or nil when
// there is none.
func (r *AssignmentRepository) CurrentForEmployee(ctx context.Context, empNo int) (*domain.Assignment, error) {
	var a domain.Assignment
	query := `
		SELECT ` + assignmentColumns + ` FROM dept_emp
		WHERE emp_no = $1 AND (to_date IS NULL OR to_date > now())
		ORDER BY from_date DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &a, query, empNo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// Create inserts a new assignment row
func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	return r.create(ctx, r.db, a)
}

// CreateTx inserts a new assignment row inside an existing transaction
func (r *AssignmentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, a *domain.Assignment) error {
	return r.create(ctx, tx, a)
}

func (r *AssignmentRepository) create(ctx context.Context, ext sqlx.ExtContext, a *domain.Assignment) error {
	query := `INSERT INTO dept_emp (emp_no, dept_no, from_date, to_date) VALUES ($1, $2, $3, $4)`
	_, err := ext.ExecContext(ctx, query, a.EmpNo, a.DeptNo, a.FromDate, a.ToDate)
	return err
}

// SetEndDate closes (or reopens) an assignment by writing its end date
func (r *AssignmentRepository) SetEndDate(ctx context.Context, empNo, deptNo int, toDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE dept_emp SET to_date = $3 WHERE emp_no = $1 AND dept_no = $2`,
		empNo, deptNo, toDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("assignment")
	}

	return nil
}

// Delete removes an assignment row
func (r *AssignmentRepository) Delete(ctx context.Context, empNo, deptNo int) error {
	return r.delete(ctx, r.db, empNo, deptNo)
}

// DeleteTx removes an assignment row inside an existing transaction
func (r *AssignmentRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, empNo, deptNo int) error {
	return r.delete(ctx, tx, empNo, deptNo)
}

func (r *AssignmentRepository) delete(ctx context.Context, ext sqlx.ExtContext, empNo, deptNo int) error {
	result, err := ext.ExecContext(ctx,
		`DELETE FROM dept_emp WHERE emp_no = $1 AND dept_no = $2`, empNo, deptNo)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("assignment")
	}

	return nil
}
