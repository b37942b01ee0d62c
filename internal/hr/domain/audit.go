package domain

import (
	"time"

	"github.com/google/uuid"
)

// Operation kinds recorded in audit entries
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Audited table names
const (
	TableEmployees   = "employees"
	TableDepartments = "departments"
	TableAssignments = "dept_emp"
	TableManagers    = "dept_manager"
	TableTitles      = "titles"
	TableSalaries    = "salaries"
	TableUsers       = "users"
)

// AuditEntry is one immutable record of a mutation: who, when, what table,
// what changed. Entries are append-only and never updated.
type AuditEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Actor       string    `json:"actor" db:"actor"`
	RecordedAt  time.Time `json:"recorded_at" db:"recorded_at"`
	Operation   string    `json:"operation" db:"operation"`
	TableName   string    `json:"table_name" db:"table_name"`
	Description string    `json:"description" db:"description"`
	RecordKey   *string   `json:"record_key,omitempty" db:"record_key"`
	EmpNo       *int      `json:"emp_no,omitempty" db:"emp_no"`
	OldValue    *string   `json:"old_value,omitempty" db:"old_value"`
	NewValue    *string   `json:"new_value,omitempty" db:"new_value"`
}

// SalaryAuditEntry is the salary-specific audit trail kept alongside the
// general one. The amount is the new salary in minor units.
type SalaryAuditEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	EmpNo       int       `json:"emp_no" db:"emp_no"`
	Actor       string    `json:"actor" db:"actor"`
	RecordedAt  time.Time `json:"recorded_at" db:"recorded_at"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	Description string    `json:"description" db:"description"`
}

// Audit view kinds
const (
	AuditKindGeneral = "general"
	AuditKindSalary  = "salary"
)

// AuditView is the typed display model for the audit trail. Kind selects
// which of the two entry shapes is populated; there is no untyped field bag.
type AuditView struct {
	Kind    string            `json:"kind"`
	General *AuditEntry       `json:"general,omitempty"`
	Salary  *SalaryAuditEntry `json:"salary,omitempty"`
}

// RecordedAt returns the timestamp of whichever entry the view carries
func (v *AuditView) RecordedAt() time.Time {
	if v.Kind == AuditKindSalary && v.Salary != nil {
		return v.Salary.RecordedAt
	}
	if v.General != nil {
		return v.General.RecordedAt
	}
	return time.Time{}
}
