package domain

import "time"

// Employee represents one employee record
type Employee struct {
	EmpNo      int       `json:"emp_no" db:"emp_no"`
	NationalID string    `json:"national_id" db:"national_id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Gender     string    `json:"gender" db:"gender"` // M, F, O
	BirthDate  time.Time `json:"birth_date" db:"birth_date"`
	HireDate   time.Time `json:"hire_date" db:"hire_date"`
	Email      string    `json:"email" db:"email"`
}

// FullName returns the employee's display name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// User is the optional login account linked one-to-one with an employee.
// The password is stored only as a bcrypt hash.
type User struct {
	EmpNo        int    `json:"emp_no" db:"emp_no"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Department represents one department
type Department struct {
	DeptNo int    `json:"dept_no" db:"dept_no"`
	Name   string `json:"name" db:"dept_name"`
}
