package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

func TestPublisher_NilBroker(t *testing.T) {
	// Without a broker every emit is a no-op; mutations must still proceed.
	p := events.NewPublisher(nil, logger.New("test", "test"))
	ctx := context.Background()

	require.NotPanics(t, func() {
		p.EmployeeCreated(ctx, &domain.Employee{
			EmpNo:     1001,
			FirstName: "Juan",
			LastName:  "Perez",
			HireDate:  time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		})
		p.EmployeeDeleted(ctx, 1001)
		p.SalaryChanged(ctx, &domain.SalaryTenure{
			EmpNo:       1001,
			AmountCents: 800000,
			FromDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}, 750000)
	})
}
