package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/pkg/testutil"
)

func TestAuditRepository_CreateGeneral(t *testing.T) {
	t.Run("assigns an id when none is set", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()
		repo := repository.NewAuditRepository(mockDB.DB)

		mockDB.ExpectExec("INSERT INTO audit_log").
			WillReturnResult(sqlmock.NewResult(0, 1))

		entry := &domain.AuditEntry{
			Actor:       "jperez",
			RecordedAt:  time.Now(),
			Operation:   domain.OpCreate,
			TableName:   domain.TableEmployees,
			Description: "Created employee",
		}
		require.NoError(t, repo.CreateGeneral(context.Background(), entry))
		assert.NotEqual(t, uuid.Nil, entry.ID)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("keeps a preset id", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()
		repo := repository.NewAuditRepository(mockDB.DB)

		id := uuid.New()
		mockDB.ExpectExec("INSERT INTO audit_log").
			WithArgs(id, "jperez", sqlmock.AnyArg(), domain.OpDelete, domain.TableTitles,
				"Removed title", nil, nil, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		entry := &domain.AuditEntry{
			ID:          id,
			Actor:       "jperez",
			RecordedAt:  time.Now(),
			Operation:   domain.OpDelete,
			TableName:   domain.TableTitles,
			Description: "Removed title",
		}
		require.NoError(t, repo.CreateGeneral(context.Background(), entry))
		assert.Equal(t, id, entry.ID)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestAuditRepository_CreateSalary(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewAuditRepository(mockDB.DB)

	mockDB.ExpectExec("INSERT INTO salary_audit_log").
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &domain.SalaryAuditEntry{
		EmpNo:       1001,
		Actor:       "jperez",
		RecordedAt:  time.Now(),
		AmountCents: 800000,
		Description: "Initial salary set to $8,000.00",
	}
	require.NoError(t, repo.CreateSalary(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	mockDB.ExpectationsWereMet(t)
}
