package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/testutil"
)

func newEmployeeService(t *testing.T) (*service.EmployeeService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")

	employees := repository.NewEmployeeRepository(mockDB.DB)
	users := repository.NewUserRepository(mockDB.DB)
	assignments := repository.NewAssignmentRepository(mockDB.DB)
	departments := repository.NewDepartmentRepository(mockDB.DB)
	titles := repository.NewTitleRepository(mockDB.DB)
	salaries := repository.NewSalaryRepository(mockDB.DB)
	audit := service.NewAuditService(repository.NewAuditRepository(mockDB.DB), log)
	publisher := events.NewPublisher(nil, log)

	svc := service.NewEmployeeService(mockDB.DB, employees, users, assignments,
		departments, titles, salaries, audit, publisher, log)
	return svc, mockDB
}

func validCreateRequest() *service.CreateEmployeeRequest {
	return &service.CreateEmployeeRequest{
		FirstName:  "Juan",
		LastName:   "Perez",
		Gender:     "M",
		BirthDate:  "1985-05-15",
		HireDate:   "2020-01-15",
		NationalID: "12345678",
		Email:      "juan.perez@example.com",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	t.Run("allocates next number and writes in one transaction", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE email").
			WillReturnRows(testutil.MockRows("count").AddRow(0))
		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE national_id").
			WillReturnRows(testutil.MockRows("count").AddRow(0))
		mockDB.ExpectQuery("SELECT COALESCE(MAX(emp_no), 1000) FROM employees").
			WillReturnRows(testutil.MockRows("coalesce").AddRow(1000))

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO employees").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectCommit()

		// audit entry, outside the transaction
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		emp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 1001, emp.EmpNo)
		assert.Equal(t, "Juan Perez", emp.FullName())
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("initial assignment lands in the same transaction", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE email").
			WillReturnRows(testutil.MockRows("count").AddRow(0))
		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE national_id").
			WillReturnRows(testutil.MockRows("count").AddRow(0))
		mockDB.ExpectQuery("SELECT dept_no, dept_name FROM departments").
			WillReturnRows(testutil.MockRows("dept_no", "dept_name").AddRow(3, "Development"))
		mockDB.ExpectQuery("SELECT COALESCE(MAX(emp_no), 1000) FROM employees").
			WillReturnRows(testutil.MockRows("coalesce").AddRow(1042))

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO employees").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO dept_emp").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectCommit()

		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := validCreateRequest()
		deptNo := 3
		req.InitialDeptNo = &deptNo

		emp, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 1043, emp.EmpNo)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("assignment failure rolls back the employee insert", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE email").
			WillReturnRows(testutil.MockRows("count").AddRow(0))
		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE national_id").
			WillReturnRows(testutil.MockRows("count").AddRow(0))
		mockDB.ExpectQuery("SELECT dept_no, dept_name FROM departments").
			WillReturnRows(testutil.MockRows("dept_no", "dept_name").AddRow(3, "Development"))
		mockDB.ExpectQuery("SELECT COALESCE(MAX(emp_no), 1000) FROM employees").
			WillReturnRows(testutil.MockRows("coalesce").AddRow(1000))

		mockDB.ExpectBegin()
		mockDB.ExpectExec("INSERT INTO employees").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO dept_emp").
			WillReturnError(fmt.Errorf("constraint violation"))
		mockDB.ExpectRollback()

		req := validCreateRequest()
		deptNo := 3
		req.InitialDeptNo = &deptNo

		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("duplicate email is rejected before any write", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT COUNT(*) FROM employees WHERE email").
			WillReturnRows(testutil.MockRows("count").AddRow(1))

		_, err := svc.Create(context.Background(), validCreateRequest())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConflict))
		mockDB.ExpectationsWereMet(t)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	employeeRow := func() *sqlmock.Rows {
		return testutil.MockRows("emp_no", "national_id", "first_name", "last_name",
			"gender", "birth_date", "hire_date", "email").
			AddRow(1001, "12345678", "Juan", "Perez", "M",
				time.Date(1985, 5, 15, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
				"juan.perez@example.com")
	}

	t.Run("user row is removed before the employee in one transaction", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(employeeRow())

		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("DELETE FROM employees").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectCommit()

		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.Delete(context.Background(), 1001)
		require.NoError(t, err)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("employee delete failure rolls back the user delete", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(employeeRow())

		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("DELETE FROM employees").
			WillReturnError(fmt.Errorf("referential integrity"))
		mockDB.ExpectRollback()

		err := svc.Delete(context.Background(), 1001)
		assert.Error(t, err)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("tenure history surfaces as a conflict", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(employeeRow())

		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("DELETE FROM employees").
			WillReturnError(&pq.Error{Code: "23503"})
		mockDB.ExpectRollback()

		err := svc.Delete(context.Background(), 1001)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConflict))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(testutil.MockRows("emp_no"))

		err := svc.Delete(context.Background(), 9999)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		mockDB.ExpectationsWereMet(t)
	})
}
