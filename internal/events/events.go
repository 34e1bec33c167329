package events

import (
	"time"

	"workforce/internal/model"
)

// EventType names a domain event.
type EventType string

const (
	EmployeeCreated       EventType = "employee_created"
	EmployeeStatusChanged EventType = "employee_status_changed"
	EmployeeTransferred   EventType = "employee_transferred"
	EmployeeDeleted       EventType = "employee_deleted"
	CompanyDeleted        EventType = "company_deleted"
)

// Event is the JSON payload written to the events topic.
type Event struct {
	ID           string               `json:"id"`
	Type         EventType            `json:"type"`
	OccurredAt   time.Time            `json:"occurred_at"`
	ActorID      uint                 `json:"actor_id,omitempty"`
	CompanyID    uint                 `json:"company_id,omitempty"`
	DepartmentID uint                 `json:"department_id,omitempty"`
	EmployeeID   uint                 `json:"employee_id,omitempty"`
	FromStatus   model.EmployeeStatus `json:"from_status,omitempty"`
	ToStatus     model.EmployeeStatus `json:"to_status,omitempty"`
}

// Publisher accepts events for asynchronous delivery. Publish never blocks.
type Publisher interface {
	Publish(event Event)
	Close()
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
func (NopPublisher) Close()        {}
