package scheduling

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
	// ErrSlotNotFound is returned when a slot ID is unknown
	ErrSlotNotFound = errors.New("slot not found")

	// ErrInvalidSlot is returned when required slot fields are missing
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrRepAlreadyAssigned is returned when assigning a representative twice
	ErrRepAlreadyAssigned = errors.New("representative already assigned")

	// ErrRepNotAssigned is returned when unassigning an unknown representative
	ErrRepNotAssigned = errors.New("representative not assigned")
)

// autoCapacityReason narrates capacity recomputed from the rep list.
const autoCapacityReason = "recomputed from assigned representatives"

// ServiceConfig configures a scheduling Service
type ServiceConfig struct {
	Recorder *audit.Recorder
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// Service owns project and slot state and narrates every committed mutation
// into the audit trail. All mutations run synchronously; ordering between
// two calls is the call order.
type Service struct {
	mu       sync.Mutex
	recorder *audit.Recorder
	logger   *observability.Logger
	metrics  *observability.Metrics
	projects []Project
	slots    map[int64]*Slot
	nextID   int64
}

// NewService creates an empty scheduling service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		recorder: cfg.Recorder,
		logger:   logger.WithField("component", "scheduling"),
		metrics:  cfg.Metrics,
		slots:    make(map[int64]*Slot),
		nextID:   1,
	}
}

// Load installs fixture state without narrating it. Fixtures predate the
// audit trail, so loading them must not fabricate history.
func (s *Service) Load(projects []Project, slots []Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = append([]Project(nil), projects...)
	for _, slot := range slots {
		copied := slot.clone()
		s.slots[copied.ID] = &copied
		if copied.ID >= s.nextID {
			s.nextID = copied.ID + 1
		}
	}
	if s.metrics != nil {
		s.metrics.SlotsTotal.Set(float64(len(s.slots)))
	}
	s.logger.Infof("loaded %d projects and %d slots", len(s.projects), len(s.slots))
}

// SlotParams holds the caller-supplied fields for a new slot
type SlotParams struct {
	ProjectName string
	Date        string
	SlotName    string
	StartTime   string
	EndTime     string
	Reps        []string
	// Capacity, when positive, fixes the capacity manually. When zero the
	// capacity is derived from the representative count and tracks it.
	Capacity  int
	Published bool
	Notes     string
}

// CreateSlot commits a new slot and narrates its creation
func (s *Service) CreateSlot(actor identity.Actor, p SlotParams) (Slot, error) {
	if p.ProjectName == "" || p.Date == "" || p.SlotName == "" || p.StartTime == "" || p.EndTime == "" {
		return Slot{}, fmt.Errorf("create slot: %w", ErrInvalidSlot)
	}
	if p.Capacity < 0 {
		return Slot{}, fmt.Errorf("create slot: negative capacity: %w", ErrInvalidSlot)
	}

	slot := Slot{
		ProjectName:    p.ProjectName,
		Date:           p.Date,
		SlotName:       p.SlotName,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		Reps:           append([]string(nil), p.Reps...),
		Capacity:       p.Capacity,
		ManualCapacity: p.Capacity > 0,
		Published:      p.Published,
		Notes:          p.Notes,
	}
	if !slot.ManualCapacity {
		slot.Capacity = len(slot.Reps)
	}

	s.mu.Lock()
	slot.ID = s.nextID
	s.nextID++
	stored := slot.clone()
	s.slots[slot.ID] = &stored
	total := len(s.slots)
	s.mu.Unlock()

	s.recorder.SlotCreated(auditActor(actor), slot.ID, slot.ProjectName, slot.SlotName, slot.Date, slot.snapshot())
	s.countSlotOp("create", total)
	return slot, nil
}

// SlotUpdate holds the editable slot fields; nil fields are left unchanged
type SlotUpdate struct {
	Date      *string
	StartTime *string
	EndTime   *string
	Capacity  *int
	Notes     *string
}

// UpdateSlot commits an edit and narrates the changed fields. A capacity
// change additionally narrates a capacity override: capacity and the edit
// are distinct audited facts.
func (s *Service) UpdateSlot(actor identity.Actor, slotID int64, update SlotUpdate) (Slot, error) {
	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return Slot{}, fmt.Errorf("update slot %d: %w", slotID, ErrSlotNotFound)
	}

	before := slot.editSnapshot()
	oldCapacity := slot.Capacity

	if update.Date != nil {
		slot.Date = *update.Date
	}
	if update.StartTime != nil {
		slot.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		slot.EndTime = *update.EndTime
	}
	if update.Capacity != nil && *update.Capacity != slot.Capacity {
		slot.Capacity = *update.Capacity
		slot.ManualCapacity = true
	}
	if update.Notes != nil {
		slot.Notes = *update.Notes
	}

	after := slot.editSnapshot()
	result := slot.clone()
	s.mu.Unlock()

	if changed(before, after) {
		a := auditActor(actor)
		s.recorder.SlotEdited(a, result.ID, result.ProjectName, result.SlotName, before, after)
		if result.Capacity != oldCapacity {
			s.recorder.CapacityOverride(a, result.ID, result.ProjectName, result.SlotName, oldCapacity, result.Capacity, "")
		}
		s.countSlotOp("update", -1)
	}
	return result, nil
}

// SetPublished commits a publish state change; unchanged state is a no-op
func (s *Service) SetPublished(actor identity.Actor, slotID int64, published bool) (Slot, error) {
	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return Slot{}, fmt.Errorf("publish slot %d: %w", slotID, ErrSlotNotFound)
	}
	if slot.Published == published {
		result := slot.clone()
		s.mu.Unlock()
		return result, nil
	}
	slot.Published = published
	result := slot.clone()
	s.mu.Unlock()

	s.recorder.SlotPublished(auditActor(actor), result.ID, result.ProjectName, result.SlotName, published)
	s.countSlotOp("publish", -1)
	return result, nil
}

// AssignRep commits adding a representative to a slot. When the slot's
// capacity is auto-derived and the recompute changes it, a separate capacity
// override entry is narrated as well.
func (s *Service) AssignRep(actor identity.Actor, slotID int64, repName string) (Slot, error) {
	if repName == "" {
		return Slot{}, fmt.Errorf("assign rep: empty name: %w", ErrInvalidSlot)
	}

	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return Slot{}, fmt.Errorf("assign rep to slot %d: %w", slotID, ErrSlotNotFound)
	}
	for _, rep := range slot.Reps {
		if rep == repName {
			s.mu.Unlock()
			return Slot{}, fmt.Errorf("assign rep %q to slot %d: %w", repName, slotID, ErrRepAlreadyAssigned)
		}
	}
	slot.Reps = append(slot.Reps, repName)
	oldCapacity, newCapacity := slot.Capacity, slot.Capacity
	if !slot.ManualCapacity {
		newCapacity = len(slot.Reps)
		slot.Capacity = newCapacity
	}
	result := slot.clone()
	s.mu.Unlock()

	a := auditActor(actor)
	s.recorder.RepAssignment(a, result.ID, result.ProjectName, result.SlotName, repName, "")
	if newCapacity != oldCapacity {
		s.recorder.CapacityOverride(a, result.ID, result.ProjectName, result.SlotName, oldCapacity, newCapacity, autoCapacityReason)
	}
	s.countSlotOp("assign_rep", -1)
	return result, nil
}

// UnassignRep commits removing a representative from a slot
func (s *Service) UnassignRep(actor identity.Actor, slotID int64, repName string) (Slot, error) {
	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return Slot{}, fmt.Errorf("unassign rep from slot %d: %w", slotID, ErrSlotNotFound)
	}
	idx := -1
	for i, rep := range slot.Reps {
		if rep == repName {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return Slot{}, fmt.Errorf("unassign rep %q from slot %d: %w", repName, slotID, ErrRepNotAssigned)
	}
	slot.Reps = append(slot.Reps[:idx], slot.Reps[idx+1:]...)
	oldCapacity, newCapacity := slot.Capacity, slot.Capacity
	if !slot.ManualCapacity {
		newCapacity = len(slot.Reps)
		slot.Capacity = newCapacity
	}
	result := slot.clone()
	s.mu.Unlock()

	a := auditActor(actor)
	s.recorder.RepAssignment(a, result.ID, result.ProjectName, result.SlotName, "", repName)
	if newCapacity != oldCapacity {
		s.recorder.CapacityOverride(a, result.ID, result.ProjectName, result.SlotName, oldCapacity, newCapacity, autoCapacityReason)
	}
	s.countSlotOp("unassign_rep", -1)
	return result, nil
}

// OverrideCapacity commits an explicit manual capacity override with an
// optional reason. The capacity stops tracking the representative count.
func (s *Service) OverrideCapacity(actor identity.Actor, slotID int64, capacity int, reason string) (Slot, error) {
	if capacity < 0 {
		return Slot{}, fmt.Errorf("override capacity on slot %d: %w", slotID, ErrInvalidSlot)
	}

	s.mu.Lock()
	slot, ok := s.slots[slotID]
	if !ok {
		s.mu.Unlock()
		return Slot{}, fmt.Errorf("override capacity on slot %d: %w", slotID, ErrSlotNotFound)
	}
	oldCapacity := slot.Capacity
	slot.Capacity = capacity
	slot.ManualCapacity = true
	result := slot.clone()
	s.mu.Unlock()

	if capacity != oldCapacity {
		s.recorder.CapacityOverride(auditActor(actor), result.ID, result.ProjectName, result.SlotName, oldCapacity, capacity, reason)
		s.countSlotOp("override_capacity", -1)
	}
	return result, nil
}

// Slot returns a copy of the slot with the given ID
func (s *Service) Slot(slotID int64) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	if !ok {
		return Slot{}, fmt.Errorf("slot %d: %w", slotID, ErrSlotNotFound)
	}
	return slot.clone(), nil
}

// Slots returns copies of every slot, optionally restricted to a project,
// ordered by ID
func (s *Service) Slots(projectName string) []Slot {
	s.mu.Lock()
	out := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if projectName != "" && slot.ProjectName != projectName {
			continue
		}
		out = append(out, slot.clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Projects returns copies of the known projects
func (s *Service) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project(nil), s.projects...)
}

func (s *Service) countSlotOp(operation string, total int) {
	if s.metrics == nil {
		return
	}
	s.metrics.SlotOperationsTotal.WithLabelValues(operation).Inc()
	if total >= 0 {
		s.metrics.SlotsTotal.Set(float64(total))
	}
}

// changed reports whether any tracked field differs between the snapshots
func changed(before, after audit.Snapshot) bool {
	for key, value := range before {
		if fmt.Sprint(after[key]) != fmt.Sprint(value) {
			return true
		}
	}
	return false
}

// auditActor converts the identity boundary type to the audit pair
func auditActor(a identity.Actor) audit.Actor {
	return audit.Actor{Name: a.Name, Role: string(a.Role)}
}
