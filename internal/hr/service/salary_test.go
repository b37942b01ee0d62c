package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/testutil"
)

func newSalaryService(t *testing.T) (*service.SalaryService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")

	salaries := repository.NewSalaryRepository(mockDB.DB)
	employees := repository.NewEmployeeRepository(mockDB.DB)
	audit := service.NewAuditService(repository.NewAuditRepository(mockDB.DB), log)
	publisher := events.NewPublisher(nil, log)

	return service.NewSalaryService(salaries, employees, audit, publisher, log), mockDB
}

func salaryEmployeeRow() *sqlmock.Rows {
	return testutil.MockRows("emp_no", "national_id", "first_name", "last_name",
		"gender", "birth_date", "hire_date", "email").
		AddRow(1001, "12345678", "Juan", "Perez", "M",
			time.Date(1985, 5, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
			"juan.perez@example.com")
}

func salaryColumns() *sqlmock.Rows {
	return testutil.MockRows("emp_no", "amount_cents", "from_date", "to_date")
}

func TestSalaryService_Create(t *testing.T) {
	t.Run("first salary converts major units to cents", func(t *testing.T) {
		svc, mockDB := newSalaryService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(salaryEmployeeRow())
		// existing salary history
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(salaryColumns())
		// previous salary for the audit description
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(salaryColumns())
		mockDB.ExpectExec("INSERT INTO salaries").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO salary_audit_log").
			WithArgs(sqlmock.AnyArg(), int64(1001), sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(800000), contains("Initial salary set to $8,000.00")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		sal, err := svc.Create(context.Background(), 1001, &service.SalaryRequest{
			Amount:   "8000",
			FromDate: "2026-01-01",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(800000), sal.AmountCents)
		assert.Nil(t, sal.ToDate)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("second open salary is rejected as overlapping", func(t *testing.T) {
		svc, mockDB := newSalaryService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(salaryEmployeeRow())
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(salaryColumns().
				AddRow(1001, int64(750000), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil))

		_, err := svc.Create(context.Background(), 1001, &service.SalaryRequest{
			Amount:   "8000",
			FromDate: "2026-01-01",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConflict))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("adjacent period after a closed one is accepted", func(t *testing.T) {
		svc, mockDB := newSalaryService(t)
		defer mockDB.Close()

		closedEnd := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		history := salaryColumns().
			AddRow(1001, int64(750000), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), closedEnd)

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(salaryEmployeeRow())
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(history)
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(salaryColumns().
				AddRow(1001, int64(750000), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), closedEnd))
		mockDB.ExpectExec("INSERT INTO salaries").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO salary_audit_log").
			WithArgs(sqlmock.AnyArg(), int64(1001), sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(800000), contains("from $7,500.00 to $8,000.00")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		sal, err := svc.Create(context.Background(), 1001, &service.SalaryRequest{
			Amount:   "8000",
			FromDate: "2026-01-01",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(800000), sal.AmountCents)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("bad amount is rejected", func(t *testing.T) {
		svc, mockDB := newSalaryService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(salaryEmployeeRow())

		_, err := svc.Create(context.Background(), 1001, &service.SalaryRequest{
			Amount:   "12.345",
			FromDate: "2026-01-01",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBadRequest))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("audit failure does not fail the salary write", func(t *testing.T) {
		svc, mockDB := newSalaryService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("SELECT emp_no, national_id").
			WillReturnRows(salaryEmployeeRow())
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(salaryColumns())
		mockDB.ExpectQuery("FROM salaries").
			WillReturnRows(salaryColumns())
		mockDB.ExpectExec("INSERT INTO salaries").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO salary_audit_log").
			WillReturnError(assert.AnError)
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnError(assert.AnError)

		sal, err := svc.Create(context.Background(), 1001, &service.SalaryRequest{
			Amount:   "5500",
			FromDate: "2026-01-01",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(550000), sal.AmountCents)
		mockDB.ExpectationsWereMet(t)
	})
}
