package audit

import (
	"strconv"
	"time"
)

// Action represents the kind of audited mutation
type Action string

const (
	ActionSlotCreate        Action = "slot_create"
	ActionSlotEdit          Action = "slot_edit"
	ActionSlotPublish       Action = "slot_publish"
	ActionSlotUnpublish     Action = "slot_unpublish"
	ActionRepAssign         Action = "rep_assign"
	ActionRepUnassign       Action = "rep_unassign"
	ActionCapacityOverride  Action = "capacity_override"
	ActionBookingConfirm    Action = "booking_confirm"
	ActionBookingReschedule Action = "booking_reschedule"
	ActionBookingCancel     Action = "booking_cancel"
	ActionStatusChange      Action = "status_change"

	// ActionAll is the filter sentinel matching every action
	ActionAll Action = "all"
)

// actionLabels maps each action to its display label, used by exports
// and the timeline view.
var actionLabels = map[Action]string{
	ActionSlotCreate:        "Slot Created",
	ActionSlotEdit:          "Slot Edited",
	ActionSlotPublish:       "Slot Published",
	ActionSlotUnpublish:     "Slot Unpublished",
	ActionRepAssign:         "Rep Assigned",
	ActionRepUnassign:       "Rep Unassigned",
	ActionCapacityOverride:  "Capacity Override",
	ActionBookingConfirm:    "Booking Confirmed",
	ActionBookingReschedule: "Booking Rescheduled",
	ActionBookingCancel:     "Booking Cancelled",
	ActionStatusChange:      "Status Changed",
}

// Valid reports whether the action is one of the recordable kinds
func (a Action) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

// Label returns the human-readable display label for the action
func (a Action) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// Actions returns every recordable action kind
func Actions() []Action {
	return []Action{
		ActionSlotCreate,
		ActionSlotEdit,
		ActionSlotPublish,
		ActionSlotUnpublish,
		ActionRepAssign,
		ActionRepUnassign,
		ActionCapacityOverride,
		ActionBookingConfirm,
		ActionBookingReschedule,
		ActionBookingCancel,
		ActionStatusChange,
	}
}

// EntityType identifies which subsystem owns the audited entity
type EntityType string

const (
	EntityTypeSlot       EntityType = "slot"
	EntityTypeBooking    EntityType = "booking"
	EntityTypeAssignment EntityType = "assignment"

	// EntityTypeAll is the filter sentinel matching every entity type
	EntityTypeAll EntityType = "all"
)

// EntityRef identifies the entity an entry belongs to. Slot and assignment
// entries carry a numeric slot ID, booking entries carry the string booking
// reference; the owning subsystem decides which, not the audit core.
type EntityRef struct {
	Type       EntityType `json:"type"`
	SlotID     int64      `json:"slot_id,omitempty"`
	BookingRef string     `json:"booking_ref,omitempty"`
}

// SlotRef references a slot entity
func SlotRef(slotID int64) EntityRef {
	return EntityRef{Type: EntityTypeSlot, SlotID: slotID}
}

// AssignmentRef references the rep assignment decorating a slot
func AssignmentRef(slotID int64) EntityRef {
	return EntityRef{Type: EntityTypeAssignment, SlotID: slotID}
}

// BookingRef references a booking entity
func BookingRef(ref string) EntityRef {
	return EntityRef{Type: EntityTypeBooking, BookingRef: ref}
}

// ID returns the display form of the entity identifier
func (r EntityRef) ID() string {
	if r.Type == EntityTypeBooking {
		return r.BookingRef
	}
	return strconv.FormatInt(r.SlotID, 10)
}

// Actor is the opaque (name, role) pair credited with an action. The audit
// core never validates it against a user registry.
type Actor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Snapshot is a point-in-time copy of an entity's relevant fields, used as
// the before/after payload of a diff. The keys each action carries are a
// convention of the recorder, not a schema of the store.
type Snapshot map[string]interface{}

// Clone returns a deep copy of the snapshot. Nested maps and slices are
// copied recursively; any other value is assumed immutable and kept as is.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Snapshot:
		return val.Clone()
	case map[string]interface{}:
		return Snapshot(val).Clone()
	case []string:
		return append([]string(nil), val...)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Entry is a single immutable audit record. Entries are constructed only by
// the store, which keeps a private copy; every Entry handed out is a deep
// copy, so mutating one never affects what the store returns later.
type Entry struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Action          Action    `json:"action"`
	PerformedBy     string    `json:"performed_by"`
	PerformedByRole string    `json:"performed_by_role"`
	Entity          EntityRef `json:"entity"`
	ProjectName     string    `json:"project_name,omitempty"`
	SlotName        string    `json:"slot_name,omitempty"`
	Details         string    `json:"details"`
	Before          Snapshot  `json:"before,omitempty"`
	After           Snapshot  `json:"after,omitempty"`
	Metadata        Snapshot  `json:"metadata,omitempty"`
}

// clone returns a deep copy of the entry
func (e Entry) clone() Entry {
	out := e
	out.Before = e.Before.Clone()
	out.After = e.After.Clone()
	out.Metadata = e.Metadata.Clone()
	return out
}

// cloneEntries returns deep copies of all entries
func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// EntryParams holds every caller-supplied field of an entry. The store
// assigns ID and Timestamp itself.
type EntryParams struct {
	Action          Action
	PerformedBy     string
	PerformedByRole string
	Entity          EntityRef
	ProjectName     string
	SlotName        string
	Details         string
	Before          Snapshot
	After           Snapshot
	Metadata        Snapshot
}
