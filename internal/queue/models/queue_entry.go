package models

import (
	"errors"
	"fmt"
	"time"
)

// Status is the closed set of queue entry states.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusServing Status = "serving"
	StatusServed  Status = "served"
	StatusSkipped Status = "skipped"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// ParseStatus rejects anything outside the closed enum.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaiting, StatusServing, StatusServed, StatusSkipped:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown queue status %q", s)
}

// transitions lists the legal moves; served and skipped are terminal.
var transitions = map[Status][]Status{
	StatusWaiting: {StatusServing, StatusSkipped},
	StatusServing: {StatusServed},
	StatusServed:  {},
	StatusSkipped: {},
}

// CanTransitionTo reports whether target is reachable from s. Re-applying
// the current status is always accepted as a no-op.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// QueueEntry is one patient's position in a single day's visit queue.
type QueueEntry struct {
	ID             int64      `json:"id"`
	QueueNumber    int        `json:"queue_number"`
	PatientID      int64      `json:"patient_id"`
	ReasonForVisit string     `json:"reason_for_visit"`
	Status         Status     `json:"status"`
	CalledAt       *time.Time `json:"called_at"`
	ServedAt       *time.Time `json:"served_at"`
	QueueDate      time.Time  `json:"queue_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Transition applies the state machine in place. CalledAt and ServedAt are
// stamped on the first entry into serving/served and never rewritten; a
// no-op transition leaves the entry untouched.
func (e *QueueEntry) Transition(target Status, now time.Time) error {
	if !e.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, target)
	}
	if e.Status == target {
		return nil
	}

	e.Status = target
	switch target {
	case StatusServing:
		if e.CalledAt == nil {
			t := now
			e.CalledAt = &t
		}
	case StatusServed:
		if e.ServedAt == nil {
			t := now
			e.ServedAt = &t
		}
	}
	e.UpdatedAt = now
	return nil
}
