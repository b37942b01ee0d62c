package events

import (
	"context"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/messaging"
)

// Publisher emits domain events for downstream consumers. Publishing is
// fire-and-forget: a broker failure is logged and the mutation proceeds.
type Publisher struct {
	pub    *messaging.Publisher
	logger *logger.Logger
}

// NewPublisher creates a new event publisher. A nil messaging publisher is
// allowed and turns every emit into a no-op, for deployments without a broker.
func NewPublisher(pub *messaging.Publisher, log *logger.Logger) *Publisher {
	return &Publisher{
		pub:    pub,
		logger: log.WithComponent("events"),
	}
}

// EmployeeCreated emits an employee created event
func (p *Publisher) EmployeeCreated(ctx context.Context, e *domain.Employee) {
	p.emit(ctx, messaging.EventEmployeeCreated, messaging.EmployeeCreatedEvent{
		EmployeeNo: e.EmpNo,
		Name:       e.FullName(),
		HireDate:   domain.FormatDate(e.HireDate),
	})
}

// EmployeeUpdated emits an employee updated event
func (p *Publisher) EmployeeUpdated(ctx context.Context, empNo int, fields map[string]any) {
	p.emit(ctx, messaging.EventEmployeeUpdated, messaging.EmployeeUpdatedEvent{
		EmployeeNo: empNo,
		Fields:     fields,
	})
}

// EmployeeDeleted emits an employee deleted event
func (p *Publisher) EmployeeDeleted(ctx context.Context, empNo int) {
	p.emit(ctx, messaging.EventEmployeeDeleted, messaging.EmployeeDeletedEvent{
		EmployeeNo: empNo,
	})
}

// AssignmentStarted emits an assignment started event
func (p *Publisher) AssignmentStarted(ctx context.Context, a *domain.Assignment) {
	p.emit(ctx, messaging.EventAssignmentStarted, messaging.AssignmentEvent{
		EmployeeNo:   a.EmpNo,
		DepartmentNo: a.DeptNo,
		FromDate:     domain.FormatDate(a.FromDate),
	})
}

// AssignmentEnded emits an assignment ended event
func (p *Publisher) AssignmentEnded(ctx context.Context, a *domain.Assignment) {
	evt := messaging.AssignmentEvent{
		EmployeeNo:   a.EmpNo,
		DepartmentNo: a.DeptNo,
		FromDate:     domain.FormatDate(a.FromDate),
	}
	if a.ToDate != nil {
		evt.ToDate = domain.FormatDate(*a.ToDate)
	}
	p.emit(ctx, messaging.EventAssignmentEnded, evt)
}

// SalaryChanged emits a salary changed event
func (p *Publisher) SalaryChanged(ctx context.Context, s *domain.SalaryTenure, oldCents int64) {
	p.emit(ctx, messaging.EventSalaryChanged, messaging.SalaryChangedEvent{
		EmployeeNo:     s.EmpNo,
		OldAmountCents: oldCents,
		NewAmountCents: s.AmountCents,
		FromDate:       domain.FormatDate(s.FromDate),
	})
}

// TitleChanged emits a title changed event
func (p *Publisher) TitleChanged(ctx context.Context, t *domain.TitleTenure) {
	p.emit(ctx, messaging.EventTitleChanged, messaging.TitleChangedEvent{
		EmployeeNo: t.EmpNo,
		Title:      t.Title,
		FromDate:   domain.FormatDate(t.FromDate),
	})
}

func (p *Publisher) emit(ctx context.Context, eventType string, data interface{}) {
	if p.pub == nil {
		return
	}
	if err := p.pub.Publish(ctx, eventType, data); err != nil {
		p.logger.Warn().Err(err).Str("event_type", eventType).Msg("event publish failed")
	}
}
