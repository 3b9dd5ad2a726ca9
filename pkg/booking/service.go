package booking

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/smartslot/smartslot/pkg/audit"
	"github.com/smartslot/smartslot/pkg/identity"
	"github.com/smartslot/smartslot/pkg/observability"
)

var (
	// ErrBookingNotFound is returned when a booking reference is unknown
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidBooking is returned when required booking fields are missing
	ErrInvalidBooking = errors.New("invalid booking")

	// ErrUnknownStatus is returned for a status outside the lifecycle
	ErrUnknownStatus = errors.New("unknown booking status")

	// ErrAlreadyCancelled is returned when cancelling a cancelled booking
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// ServiceConfig configures a booking Service
type ServiceConfig struct {
	Recorder *audit.Recorder
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// Service owns booking state and narrates every committed mutation
type Service struct {
	mu       sync.Mutex
	recorder *audit.Recorder
	logger   *observability.Logger
	metrics  *observability.Metrics
	bookings map[string]*Booking
}

// NewService creates an empty booking service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		recorder: cfg.Recorder,
		logger:   logger.WithField("component", "booking"),
		metrics:  cfg.Metrics,
		bookings: make(map[string]*Booking),
	}
}

// Load installs fixture bookings without narrating them
func (s *Service) Load(bookings []Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bookings {
		copied := b
		s.bookings[copied.Ref] = &copied
	}
	if s.metrics != nil {
		s.metrics.BookingsTotal.Set(float64(len(s.bookings)))
	}
	s.logger.Infof("loaded %d bookings", len(s.bookings))
}

// ConfirmParams holds the caller-supplied fields for a confirmed booking
type ConfirmParams struct {
	ProjectName  string
	SlotName     string
	CustomerName string
	Contact      string
	Email        string
	AssignedRep  string
	Date         string
	Time         string
}

// Confirm commits a new booking and narrates its confirmation
func (s *Service) Confirm(actor identity.Actor, p ConfirmParams) (Booking, error) {
	if p.ProjectName == "" || p.SlotName == "" || p.CustomerName == "" || p.Date == "" {
		return Booking{}, fmt.Errorf("confirm booking: %w", ErrInvalidBooking)
	}

	b := Booking{
		Ref:          NewRef(),
		ProjectName:  p.ProjectName,
		SlotName:     p.SlotName,
		CustomerName: p.CustomerName,
		Contact:      p.Contact,
		Email:        p.Email,
		Status:       StatusBooked,
		AssignedRep:  p.AssignedRep,
		Date:         p.Date,
		Time:         p.Time,
	}

	s.mu.Lock()
	stored := b
	s.bookings[b.Ref] = &stored
	total := len(s.bookings)
	s.mu.Unlock()

	s.recorder.BookingConfirmed(auditActor(actor), b.Ref, b.ProjectName, b.SlotName, b.CustomerName, b.Email)
	s.countBookingOp("confirm", total)
	return b, nil
}

// Reschedule commits moving a booking to a different slot or date
func (s *Service) Reschedule(actor identity.Actor, ref, newSlotName, newDate string) (Booking, error) {
	if newSlotName == "" || newDate == "" {
		return Booking{}, fmt.Errorf("reschedule booking %s: %w", ref, ErrInvalidBooking)
	}

	s.mu.Lock()
	b, ok := s.bookings[ref]
	if !ok {
		s.mu.Unlock()
		return Booking{}, fmt.Errorf("reschedule booking %s: %w", ref, ErrBookingNotFound)
	}
	oldSlotName, oldDate := b.SlotName, b.Date
	b.SlotName = newSlotName
	b.Date = newDate
	result := *b
	s.mu.Unlock()

	s.recorder.BookingRescheduled(auditActor(actor), ref, result.ProjectName, oldSlotName, newSlotName, oldDate, newDate)
	s.countBookingOp("reschedule", -1)
	return result, nil
}

// Cancel commits cancelling a booking with an optional reason
func (s *Service) Cancel(actor identity.Actor, ref, reason string) (Booking, error) {
	s.mu.Lock()
	b, ok := s.bookings[ref]
	if !ok {
		s.mu.Unlock()
		return Booking{}, fmt.Errorf("cancel booking %s: %w", ref, ErrBookingNotFound)
	}
	if b.Status == StatusCancelled {
		s.mu.Unlock()
		return Booking{}, fmt.Errorf("cancel booking %s: %w", ref, ErrAlreadyCancelled)
	}
	b.Status = StatusCancelled
	result := *b
	s.mu.Unlock()

	s.recorder.BookingCancelled(auditActor(actor), ref, result.ProjectName, result.SlotName, reason)
	s.countBookingOp("cancel", -1)
	return result, nil
}

// SetStatus commits a lifecycle status change; unchanged status is a no-op
func (s *Service) SetStatus(actor identity.Actor, ref string, status Status) (Booking, error) {
	if !status.Valid() {
		return Booking{}, fmt.Errorf("set status on booking %s: %q: %w", ref, status, ErrUnknownStatus)
	}

	s.mu.Lock()
	b, ok := s.bookings[ref]
	if !ok {
		s.mu.Unlock()
		return Booking{}, fmt.Errorf("set status on booking %s: %w", ref, ErrBookingNotFound)
	}
	if b.Status == status {
		result := *b
		s.mu.Unlock()
		return result, nil
	}
	oldStatus := b.Status
	b.Status = status
	result := *b
	s.mu.Unlock()

	s.recorder.StatusChanged(auditActor(actor), ref, result.ProjectName, result.SlotName, string(oldStatus), string(status))
	s.countBookingOp("status_change", -1)
	return result, nil
}

// Booking returns a copy of the booking with the given reference
func (s *Service) Booking(ref string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[ref]
	if !ok {
		return Booking{}, fmt.Errorf("booking %s: %w", ref, ErrBookingNotFound)
	}
	return *b, nil
}

// Bookings returns copies of every booking, optionally restricted to a
// project, ordered by reference
func (s *Service) Bookings(projectName string) []Booking {
	s.mu.Lock()
	out := make([]Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if projectName != "" && b.ProjectName != projectName {
			continue
		}
		out = append(out, *b)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

func (s *Service) countBookingOp(operation string, total int) {
	if s.metrics == nil {
		return
	}
	s.metrics.BookingOperationsTotal.WithLabelValues(operation).Inc()
	if total >= 0 {
		s.metrics.BookingsTotal.Set(float64(total))
	}
}

// auditActor converts the identity boundary type to the audit pair
func auditActor(a identity.Actor) audit.Actor {
	return audit.Actor{Name: a.Name, Role: string(a.Role)}
}
