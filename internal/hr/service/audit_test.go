package service_test

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/actor"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/testutil"
)

// contains matches any argument whose string form contains the substring
type contains string

func (c contains) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && strings.Contains(s, string(c))
}

// equals matches an exact string argument
type equals string

func (e equals) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && s == string(e)
}

func newAuditService(t *testing.T) (*service.AuditService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(mockDB.DB)
	return service.NewAuditService(repo, logger.New("test", "test")), mockDB
}

func TestAuditService_RecordChange(t *testing.T) {
	t.Run("persists entry with actor from context", func(t *testing.T) {
		svc, mockDB := newAuditService(t)
		defer mockDB.Close()

		ctx := actor.WithActor(context.Background(), &actor.Actor{
			EmployeeNo: 1001, Username: "jperez", Name: "Juan Perez",
		})

		mockDB.ExpectExec("INSERT INTO audit_log").
			WithArgs(sqlmock.AnyArg(), equals("jperez"), sqlmock.AnyArg(),
				equals(domain.OpUpdate), equals(domain.TableEmployees),
				contains("Updated employee"), nil, sqlmock.AnyArg(), nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		empNo := 1002
		outcome := svc.RecordChange(ctx, service.ChangeRecord{
			Operation:   domain.OpUpdate,
			Table:       domain.TableEmployees,
			Description: "Updated employee Maria Gonzalez (#1002)",
			EmpNo:       &empNo,
		})

		assert.Equal(t, service.Recorded, outcome)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("falls back to system actor", func(t *testing.T) {
		svc, mockDB := newAuditService(t)
		defer mockDB.Close()

		mockDB.ExpectExec("INSERT INTO audit_log").
			WithArgs(sqlmock.AnyArg(), equals(actor.SystemName), sqlmock.AnyArg(),
				equals(domain.OpCreate), equals(domain.TableDepartments),
				sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		key := "1"
		outcome := svc.RecordChange(context.Background(), service.ChangeRecord{
			Operation:   domain.OpCreate,
			Table:       domain.TableDepartments,
			Description: "Created department",
			RecordKey:   &key,
		})

		assert.Equal(t, service.Recorded, outcome)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("storage failure is swallowed and reported as dropped", func(t *testing.T) {
		svc, mockDB := newAuditService(t)
		defer mockDB.Close()

		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnError(fmt.Errorf("connection reset"))

		outcome := svc.RecordChange(context.Background(), service.ChangeRecord{
			Operation:   domain.OpDelete,
			Table:       domain.TableTitles,
			Description: "Removed title",
		})

		// The caller's business mutation must never fail or roll back
		// because the trail could not be written.
		assert.Equal(t, service.Dropped, outcome)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestAuditService_RecordSalaryChange(t *testing.T) {
	t.Run("description carries both amounts in major units", func(t *testing.T) {
		svc, mockDB := newAuditService(t)
		defer mockDB.Close()

		old := int64(750000)
		mockDB.ExpectExec("INSERT INTO salary_audit_log").
			WithArgs(sqlmock.AnyArg(), int64(1001), sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(800000), contains("$7,500.00")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO audit_log").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				equals(domain.OpUpdate), equals(domain.TableSalaries),
				contains("$8,000.00"), nil, sqlmock.AnyArg(), nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		outcome := svc.RecordSalaryChange(context.Background(), 1001, &old, 800000)

		assert.Equal(t, service.Recorded, outcome)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("initial salary has no previous amount", func(t *testing.T) {
		svc, mockDB := newAuditService(t)
		defer mockDB.Close()

		mockDB.ExpectExec("INSERT INTO salary_audit_log").
			WithArgs(sqlmock.AnyArg(), int64(1001), sqlmock.AnyArg(), sqlmock.AnyArg(),
				int64(550000), contains("Initial salary set to $5,500.00")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectExec("INSERT INTO audit_log").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				equals(domain.OpCreate), equals(domain.TableSalaries),
				contains("Initial salary"), nil, sqlmock.AnyArg(), nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		outcome := svc.RecordSalaryChange(context.Background(), 1001, nil, 550000)

		assert.Equal(t, service.Recorded, outcome)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("storage failure is swallowed", func(t *testing.T) {
		svc, mockDB := newAuditService(t)
		defer mockDB.Close()

		mockDB.ExpectExec("INSERT INTO salary_audit_log").
			WillReturnError(fmt.Errorf("disk full"))
		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnError(fmt.Errorf("disk full"))

		outcome := svc.RecordSalaryChange(context.Background(), 1001, nil, 100)

		assert.Equal(t, service.Dropped, outcome)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestAuditService_ListRecent(t *testing.T) {
	svc, mockDB := newAuditService(t)
	defer mockDB.Close()

	rows := testutil.MockRows("id", "actor", "recorded_at", "operation", "table_name",
		"description", "record_key", "emp_no", "old_value", "new_value")

	mockDB.ExpectQuery("SELECT").WillReturnRows(rows)

	entries, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	mockDB.ExpectationsWereMet(t)
}
