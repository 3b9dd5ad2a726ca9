// Package booking owns customer booking state and narrates every committed
// booking mutation into the audit trail.
package booking

import (
	"strings"

	"github.com/google/uuid"
)

// Status is the booking lifecycle status
type Status string

const (
	StatusBooked    Status = "Booked"
	StatusArrived   Status = "Arrived"
	StatusDone      Status = "Done"
	StatusNoShow    Status = "No-show"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether the status is a known lifecycle status
func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusArrived, StatusDone, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// Statuses returns every lifecycle status
func Statuses() []Status {
	return []Status{StatusBooked, StatusArrived, StatusDone, StatusNoShow, StatusCancelled}
}

// Booking is a customer reservation against a slot. The string reference is
// the booking's identity everywhere, including the audit trail.
type Booking struct {
	Ref          string `json:"ref"`
	ProjectName  string `json:"project_name"`
	SlotName     string `json:"slot_name"`
	CustomerName string `json:"customer_name"`
	Contact      string `json:"contact,omitempty"`
	Email        string `json:"email,omitempty"`
	Status       Status `json:"status"`
	AssignedRep  string `json:"assigned_sales_rep,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// NewRef generates a booking reference of the form BK-3F2A91C4
func NewRef() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(raw[:8])
}
