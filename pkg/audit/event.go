// Package audit provides audit logging for provisioning runs.
package audit

import (
	"fmt"
	"time"
)

// StepRecord captures the outcome of one provisioning step.
type StepRecord struct {
	Name      string `json:"name"`
	Succeeded bool   `json:"succeeded"`
	TimedOut  bool   `json:"timed_out,omitempty"`
	Advisory  bool   `json:"advisory,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Event represents one provisioning run.
type Event struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	User       string        `json:"user"`
	Target     string        `json:"target"`      // address the run started against
	NewAddress string        `json:"new_address"` // static address assigned
	Operation  string        `json:"operation"`
	Steps      []StepRecord  `json:"steps,omitempty"`
	Success    bool          `json:"success"`
	RolledBack bool          `json:"rolled_back"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// NewEvent creates a new audit event.
func NewEvent(user, target, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Target:    target,
		Operation: operation,
	}
}

// WithNewAddress sets the assigned static address.
func (e *Event) WithNewAddress(addr string) *Event {
	e.NewAddress = addr
	return e
}

// WithStep appends a step record.
func (e *Event) WithStep(rec StepRecord) *Event {
	e.Steps = append(e.Steps, rec)
	return e
}

// WithSuccess marks the event as successful.
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed.
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithRollback records that the temporary route was removed on abort.
func (e *Event) WithRollback() *Event {
	e.RolledBack = true
	return e
}

// WithDuration sets the run duration.
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
