package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// TitleRepository handles title tenure rows
type TitleRepository struct {
	db *database.DB
}

// NewTitleRepository creates a new title repository
func NewTitleRepository(db *database.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

const titleColumns = `emp_no, title, from_date, to_date`

// ListByEmployee returns every title an employee has ever held
func (r *TitleRepository) ListByEmployee(ctx context.Context, empNo int) ([]*domain.TitleTenure, error) {
	var titles []*domain.TitleTenure
	query := `SELECT ` + titleColumns + ` FROM titles WHERE emp_no = $1 ORDER BY from_date`
	if err := r.db.SelectContext(ctx, &titles, query, empNo); err != nil {
		return nil, err
	}
	return titles, nil
}

// Get fetches one title tenure by its composite key
func (r *TitleRepository) Get(ctx context.Context, empNo int, title string, fromDate time.Time) (*domain.TitleTenure, error) {
	var t domain.TitleTenure
	query := `SELECT ` + titleColumns + ` FROM titles WHERE emp_no = $1 AND title = $2 AND from_date = $3`

	err := r.db.GetContext(ctx, &t, query, empNo, title, fromDate)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("title")
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CurrentForEmployee returns the employee's active title, or nil when none
func (r *TitleRepository) CurrentForEmployee(ctx context.Context, empNo int) (*domain.TitleTenure, error) {
	var t domain.TitleTenure
	query := `
		SELECT ` + titleColumns + ` FROM titles
		WHERE emp_no = $1 AND (to_date IS NULL OR to_date > now())
		ORDER BY from_date DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &t, query, empNo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// Create inserts a new title tenure row
func (r *TitleRepository) Create(ctx context.Context, t *domain.TitleTenure) error {
	query := `INSERT INTO titles (emp_no, title, from_date, to_date) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, t.EmpNo, t.Title, t.FromDate, t.ToDate)
	return err
}

// SetEndDate closes a title tenure by writing its end date
func (r *TitleRepository) SetEndDate(ctx context.Context, empNo int, title string, fromDate time.Time, toDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE titles SET to_date = $4 WHERE emp_no = $1 AND title = $2 AND from_date = $3`,
		empNo, title, fromDate, toDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("title")
	}

	return nil
}

// Delete removes a title tenure row
func (r *TitleRepository) Delete(ctx context.Context, empNo int, title string, fromDate time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM titles WHERE emp_no = $1 AND title = $2 AND from_date = $3`,
		empNo, title, fromDate)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("title")
	}

	return nil
}
