package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
)

// UserRepository handles login account persistence
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT emp_no, username, password_hash FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &user, query, username)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmpNo gets the user linked to an employee
func (r *UserRepository) GetByEmpNo(ctx context.Context, empNo int) (*domain.User, error) {
	var user domain.User
	query := `SELECT emp_no, username, password_hash FROM users WHERE emp_no = $1`

	err := r.db.GetContext(ctx, &user, query, empNo)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CreateTx inserts a new user inside an existing transaction
func (r *UserRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, user *domain.User) error {
	query := `INSERT INTO users (emp_no, username, password_hash) VALUES ($1, $2, $3)`
	_, err := tx.ExecContext(ctx, query, user.EmpNo, user.Username, user.PasswordHash)
	return err
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, empNo int, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE emp_no = $1`, empNo, passwordHash)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("user")
	}

	return nil
}

// DeleteTx removes the user linked to an employee inside an existing
// transaction. Missing rows are not an error: not every employee has a
// login account.
func (r *UserRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, empNo int) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM users WHERE emp_no = $1`, empNo)
	return err
}

// UsernameExists reports whether the username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &count, query, username); err != nil {
		return false, err
	}
	return count > 0, nil
}
