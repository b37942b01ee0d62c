package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/pkg/actor"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/money"
)

// Outcome reports whether an audit entry made it to storage. Recording is
// best-effort: a failed write is logged and reported as Dropped, never
// returned as an error, so business mutations are never rolled back or
// failed because the trail could not be written.
type Outcome string

const (
	// Recorded means the entry was persisted
	Recorded Outcome = "recorded"
	// Dropped means persistence failed and the entry was discarded
	Dropped Outcome = "dropped"
)

// ChangeRecord describes one mutation for the general audit trail
type ChangeRecord struct {
	Operation   string
	Table       string
	Description string
	RecordKey   *string
	EmpNo       *int
	OldValue    *string
	NewValue    *string
}

// AuditService records and queries the audit trail
type AuditService struct {
	repo   *repository.AuditRepository
	logger *logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo *repository.AuditRepository, log *logger.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: log.WithComponent("audit"),
	}
}

// RecordChange writes a general audit entry. The acting user is taken from
// the context, falling back to the system actor for unattended work.
func (s *AuditService) RecordChange(ctx context.Context, rec ChangeRecord) Outcome {
	entry := &domain.AuditEntry{
		Actor:       actor.FromContext(ctx).DisplayName(),
		RecordedAt:  time.Now(),
		Operation:   rec.Operation,
		TableName:   rec.Table,
		Description: rec.Description,
		RecordKey:   rec.RecordKey,
		EmpNo:       rec.EmpNo,
		OldValue:    rec.OldValue,
		NewValue:    rec.NewValue,
	}

	if err := s.repo.CreateGeneral(ctx, entry); err != nil {
		s.logger.Warn().Err(err).
			Str("operation", rec.Operation).
			Str("table", rec.Table).
			Msg("audit entry dropped")
		return Dropped
	}

	return Recorded
}

// RecordSalaryChange writes a salary audit entry and a matching general
// entry. Amounts are stored in cents and rendered in major units for the
// description.
func (s *AuditService) RecordSalaryChange(ctx context.Context, empNo int, oldCents *int64, newCents int64) Outcome {
	operation := domain.OpCreate
	var description string
	if oldCents != nil {
		operation = domain.OpUpdate
		description = fmt.Sprintf("Salary changed from %s to %s",
			money.FormatCents(*oldCents), money.FormatCents(newCents))
	} else {
		description = fmt.Sprintf("Initial salary set to %s", money.FormatCents(newCents))
	}

	entry := &domain.SalaryAuditEntry{
		EmpNo:       empNo,
		Actor:       actor.FromContext(ctx).DisplayName(),
		RecordedAt:  time.Now(),
		AmountCents: newCents,
		Description: description,
	}

	outcome := Recorded
	if err := s.repo.CreateSalary(ctx, entry); err != nil {
		s.logger.Warn().Err(err).
			Int("emp_no", empNo).
			Msg("salary audit entry dropped")
		outcome = Dropped
	}

	if s.RecordChange(ctx, ChangeRecord{
		Operation:   operation,
		Table:       domain.TableSalaries,
		Description: description,
		EmpNo:       &empNo,
	}) == Dropped {
		outcome = Dropped
	}

	return outcome
}

const defaultAuditLimit = 100

// ListRecent returns the newest general audit entries
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// ListByEmployee returns the newest general audit entries for one employee
func (s *AuditService) ListByEmployee(ctx context.Context, empNo, limit int) ([]*domain.AuditEntry, error) {
	if empNo <= 0 {
		return nil, errors.BadRequest("invalid employee number")
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.ListRecentByEmployee(ctx, empNo, limit)
}

// ListSalaryRecent returns the newest salary audit entries
func (s *AuditService) ListSalaryRecent(ctx context.Context, limit int) ([]*domain.SalaryAuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.ListSalaryRecent(ctx, limit)
}

// Trail returns the combined audit trail, general and salary entries merged
// and ordered newest first. Each row is a tagged view carrying exactly one
// of the two entry shapes.
func (s *AuditService) Trail(ctx context.Context, limit int) ([]domain.AuditView, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	general, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	salary, err := s.repo.ListSalaryRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]domain.AuditView, 0, len(general)+len(salary))
	for _, e := range general {
		views = append(views, domain.AuditView{Kind: domain.AuditKindGeneral, General: e})
	}
	for _, e := range salary {
		views = append(views, domain.AuditView{Kind: domain.AuditKindSalary, Salary: e})
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].RecordedAt().After(views[j].RecordedAt())
	})
	if len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

// ListSalaryByEmployee returns the newest salary audit entries for one employee
func (s *AuditService) ListSalaryByEmployee(ctx context.Context, empNo, limit int) ([]*domain.SalaryAuditEntry, error) {
	if empNo <= 0 {
		return nil, errors.BadRequest("invalid employee number")
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.ListSalaryByEmployee(ctx, empNo, limit)
}
