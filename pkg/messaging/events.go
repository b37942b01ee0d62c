package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventEmployeeCreated = "hr.employee.created"
	EventEmployeeUpdated = "hr.employee.updated"
	EventEmployeeDeleted = "hr.employee.deleted"

	EventAssignmentStarted = "hr.assignment.started"
	EventAssignmentEnded   = "hr.assignment.ended"

	EventSalaryChanged = "hr.salary.changed"
	EventTitleChanged  = "hr.title.changed"
)

// Exchange names
const (
	ExchangeHREvents = "hr.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// EmployeeCreatedEvent is published when an employee record is created
type EmployeeCreatedEvent struct {
	EmployeeNo int    `json:"employee_no"`
	Name       string `json:"name"`
	HireDate   string `json:"hire_date"`
}

// EmployeeUpdatedEvent is published when an employee record changes
type EmployeeUpdatedEvent struct {
	EmployeeNo int            `json:"employee_no"`
	Fields     map[string]any `json:"fields"`
}

// EmployeeDeletedEvent is published when an employee record is removed
type EmployeeDeletedEvent struct {
	EmployeeNo int `json:"employee_no"`
}

// AssignmentEvent is published when a department assignment starts or ends
type AssignmentEvent struct {
	EmployeeNo   int    `json:"employee_no"`
	DepartmentNo int    `json:"department_no"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date,omitempty"`
}

// SalaryChangedEvent is published when a salary tenure is written
type SalaryChangedEvent struct {
	EmployeeNo    int    `json:"employee_no"`
	OldAmountCents int64 `json:"old_amount_cents"`
	NewAmountCents int64 `json:"new_amount_cents"`
	FromDate      string `json:"from_date"`
}

// TitleChangedEvent is published when a title tenure is written
type TitleChangedEvent struct {
	EmployeeNo int    `json:"employee_no"`
	Title      string `json:"title"`
	FromDate   string `json:"from_date"`
}
