package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/database"
)

// AuditRepository persists and queries audit trail rows
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

const auditColumns = `id, actor, recorded_at, operation, table_name, description, record_key, emp_no, old_value, new_value`

const salaryAuditColumns = `id, emp_no, actor, recorded_at, amount_cents, description`

// CreateGeneral inserts a general audit entry
func (r *AuditRepository) CreateGeneral(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := `
		INSERT INTO audit_log (id, actor, recorded_at, operation, table_name, description, record_key, emp_no, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Actor, e.RecordedAt, e.Operation, e.TableName, e.Description,
		e.RecordKey, e.EmpNo, e.OldValue, e.NewValue)
	return err
}

// CreateSalary inserts a salary audit entry
func (r *AuditRepository) CreateSalary(ctx context.Context, e *domain.SalaryAuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query := `
		INSERT INTO salary_audit_log (id, emp_no, actor, recorded_at, amount_cents, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.EmpNo, e.Actor, e.RecordedAt, e.AmountCents, e.Description)
	return err
}

// ListRecent returns the newest general audit entries up to limit
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	query := `SELECT ` + auditColumns + ` FROM audit_log ORDER BY recorded_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRecentByEmployee returns the newest general audit entries for one employee
func (r *AuditRepository) ListRecentByEmployee(ctx context.Context, empNo, limit int) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE emp_no = $1 ORDER BY recorded_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &entries, query, empNo, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSalaryRecent returns the newest salary audit entries up to limit
func (r *AuditRepository) ListSalaryRecent(ctx context.Context, limit int) ([]*domain.SalaryAuditEntry, error) {
	var entries []*domain.SalaryAuditEntry
	query := `SELECT ` + salaryAuditColumns + ` FROM salary_audit_log ORDER BY recorded_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSalaryByEmployee returns the newest salary audit entries for one employee
func (r *AuditRepository) ListSalaryByEmployee(ctx context.Context, empNo, limit int) ([]*domain.SalaryAuditEntry, error) {
	var entries []*domain.SalaryAuditEntry
	query := `SELECT ` + salaryAuditColumns + ` FROM salary_audit_log WHERE emp_no = $1 ORDER BY recorded_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &entries, query, empNo, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
