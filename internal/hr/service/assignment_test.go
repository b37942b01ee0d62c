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
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/testutil"
)

func newAssignmentService(t *testing.T) (*service.AssignmentService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")

	assignments := repository.NewAssignmentRepository(mockDB.DB)
	employees := repository.NewEmployeeRepository(mockDB.DB)
	departments := repository.NewDepartmentRepository(mockDB.DB)
	audit := service.NewAuditService(repository.NewAuditRepository(mockDB.DB), log)
	publisher := events.NewPublisher(nil, log)

	return service.NewAssignmentService(mockDB.DB, assignments, employees, departments, audit, publisher, log), mockDB
}

func assignmentColumns() *sqlmock.Rows {
	return testutil.MockRows("emp_no", "dept_no", "from_date", "to_date")
}

func TestAssignmentService_Update(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rewrites the row inside one transaction", func(t *testing.T) {
		svc, mockDB := newAssignmentService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("FROM dept_emp").
			WillReturnRows(assignmentColumns().AddRow(1001, 1, from, nil))
		mockDB.ExpectQuery("FROM dept_emp").
			WillReturnRows(assignmentColumns().AddRow(1001, 1, from, nil))
		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM dept_emp").
			WithArgs(int64(1001), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO dept_emp").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectCommit()
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		a, err := svc.Update(context.Background(), 1001, 1, &service.AssignmentRequest{
			DeptNo:   1,
			FromDate: "2024-06-01",
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), a.FromDate)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("failed re-insert rolls the delete back", func(t *testing.T) {
		svc, mockDB := newAssignmentService(t)
		defer mockDB.Close()

		mockDB.ExpectQuery("FROM dept_emp").
			WillReturnRows(assignmentColumns().AddRow(1001, 1, from, nil))
		mockDB.ExpectQuery("FROM dept_emp").
			WillReturnRows(assignmentColumns().AddRow(1001, 1, from, nil))
		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM dept_emp").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO dept_emp").
			WillReturnError(assert.AnError)
		mockDB.ExpectRollback()

		_, err := svc.Update(context.Background(), 1001, 1, &service.AssignmentRequest{
			DeptNo:   1,
			FromDate: "2024-06-01",
		})
		require.Error(t, err)
		mockDB.ExpectationsWereMet(t)
	})
}
