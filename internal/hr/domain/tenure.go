package domain

import (
	"strconv"
	"time"

	"github.com/tenurehq/tenure-backend/internal/hr/tenure"
)

// Tenure records are append-only, date-ranged facts valid over [from, to).
// An open-ended record carries a nil ToDate; new facts are added as new rows
// rather than mutating old ones.

// Assignment links an employee to a department for a date range.
// Composite key: (emp_no, dept_no).
type Assignment struct {
	EmpNo    int        `json:"emp_no" db:"emp_no"`
	DeptNo   int        `json:"dept_no" db:"dept_no"`
	FromDate time.Time  `json:"from_date" db:"from_date"`
	ToDate   *time.Time `json:"to_date" db:"to_date"`
}

// Interval returns the assignment's validity range.
func (a *Assignment) Interval() tenure.Interval {
	return tenure.Interval{Start: a.FromDate, End: a.ToDate}
}

// Active reports whether the assignment is open-ended or ends in the future.
func (a *Assignment) Active(now time.Time) bool {
	return a.ToDate == nil || a.ToDate.After(now)
}

// Key identifies the assignment within its employee's records.
func (a *Assignment) Key() string {
	return strconv.Itoa(a.DeptNo)
}

// ManagerTenure records an employee managing a department for a date range.
// Composite key: (emp_no, dept_no). At most one manager tenure per
// department may be active at a time.
type ManagerTenure struct {
	EmpNo    int        `json:"emp_no" db:"emp_no"`
	DeptNo   int        `json:"dept_no" db:"dept_no"`
	FromDate time.Time  `json:"from_date" db:"from_date"`
	ToDate   *time.Time `json:"to_date" db:"to_date"`
}

func (m *ManagerTenure) Interval() tenure.Interval {
	return tenure.Interval{Start: m.FromDate, End: m.ToDate}
}

func (m *ManagerTenure) Active(now time.Time) bool {
	return m.ToDate == nil || m.ToDate.After(now)
}

// Key identifies the manager tenure within its department's records.
func (m *ManagerTenure) Key() string {
	return strconv.Itoa(m.EmpNo)
}

// TitleTenure records a job title held by an employee for a date range.
// Composite key: (emp_no, title, from_date).
type TitleTenure struct {
	EmpNo    int        `json:"emp_no" db:"emp_no"`
	Title    string     `json:"title" db:"title"`
	FromDate time.Time  `json:"from_date" db:"from_date"`
	ToDate   *time.Time `json:"to_date" db:"to_date"`
}

func (t *TitleTenure) Interval() tenure.Interval {
	return tenure.Interval{Start: t.FromDate, End: t.ToDate}
}

func (t *TitleTenure) Active(now time.Time) bool {
	return t.ToDate == nil || t.ToDate.After(now)
}

// Key identifies the title tenure within its employee's records.
func (t *TitleTenure) Key() string {
	return t.Title + "|" + FormatDate(t.FromDate)
}

// SalaryTenure records an employee's salary for a date range. The amount is
// stored in minor units (cents) for exact integer arithmetic.
// Composite key: (emp_no, from_date).
type SalaryTenure struct {
	EmpNo       int        `json:"emp_no" db:"emp_no"`
	AmountCents int64      `json:"amount_cents" db:"amount_cents"`
	FromDate    time.Time  `json:"from_date" db:"from_date"`
	ToDate      *time.Time `json:"to_date" db:"to_date"`
}

func (s *SalaryTenure) Interval() tenure.Interval {
	return tenure.Interval{Start: s.FromDate, End: s.ToDate}
}

func (s *SalaryTenure) Active(now time.Time) bool {
	return s.ToDate == nil || s.ToDate.After(now)
}

// Key identifies the salary tenure within its employee's records.
func (s *SalaryTenure) Key() string {
	return FormatDate(s.FromDate)
}
