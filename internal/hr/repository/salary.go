package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// SalaryRepository handles salary tenure rows
type SalaryRepository struct {
	db *database.DB
}

// NewSalaryRepository creates a new salary repository
func NewSalaryRepository(db *database.DB) *SalaryRepository {
	return &SalaryRepository{db: db}
}

const salaryColumns = `emp_no, amount_cents, from_date, to_date`

// ListByEmployee returns an employee's full salary history, newest first
func (r *SalaryRepository) ListByEmployee(ctx context.Context, empNo int) ([]*domain.SalaryTenure, error) {
	var salaries []*domain.SalaryTenure
	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE emp_no = $1 ORDER BY from_date DESC`
	if err := r.db.SelectContext(ctx, &salaries, query, empNo); err != nil {
		return nil, err
	}
	return salaries, nil
}

// Get fetches one salary row by its composite key
func (r *SalaryRepository) Get(ctx context.Context, empNo int, fromDate time.Time) (*domain.SalaryTenure, error) {
	var s domain.SalaryTenure
	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE emp_no = $1 AND from_date = $2`

	err := r.db.GetContext(ctx, &s, query, empNo, fromDate)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("salary")
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// CurrentForEmployee returns the employee's active salary, or nil when none
func (r *SalaryRepository) CurrentForEmployee(ctx context.Context, empNo int) (*domain.SalaryTenure, error) {
	var s domain.SalaryTenure
	query := `
		SELECT ` + salaryColumns + ` FROM salaries
		WHERE emp_no = $1 AND (to_date IS NULL OR to_date > now())
		ORDER BY from_date DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &s, query, empNo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// LatestForEmployee returns the most recent salary row regardless of whether
// it is still open, or nil when the employee has no salary history at all.
func (r *SalaryRepository) LatestForEmployee(ctx context.Context, empNo int) (*domain.SalaryTenure, error) {
	var s domain.SalaryTenure
	query := `SELECT ` + salaryColumns + ` FROM salaries WHERE emp_no = $1 ORDER BY from_date DESC LIMIT 1`

	err := r.db.GetContext(ctx, &s, query, empNo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Create inserts a new salary row
func (r *SalaryRepository) Create(ctx context.Context, s *domain.SalaryTenure) error {
	query := `INSERT INTO salaries (emp_no, amount_cents, from_date, to_date) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, s.EmpNo, s.AmountCents, s.FromDate, s.ToDate)
	return err
}

// Update rewrites the amount and end date of an existing salary row
func (r *SalaryRepository) Update(ctx context.Context, empNo int, fromDate time.Time, amountCents int64, toDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE salaries SET amount_cents = $3, to_date = $4 WHERE emp_no = $1 AND from_date = $2`,
		empNo, fromDate, amountCents, toDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("salary")
	}

	return nil
}

// SetEndDate closes a salary row by writing its end date
func (r *SalaryRepository) SetEndDate(ctx context.Context, empNo int, fromDate time.Time, toDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE salaries SET to_date = $3 WHERE emp_no = $1 AND from_date = $2`,
		empNo, fromDate, toDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("salary")
	}

	return nil
}

// Delete removes a salary row
func (r *SalaryRepository) Delete(ctx context.Context, empNo int, fromDate time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM salaries WHERE emp_no = $1 AND from_date = $2`, empNo, fromDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("salary")
	}

	return nil
}
