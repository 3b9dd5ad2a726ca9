package audit

import (
	"fmt"
	"strings"
	"time"
)

// slotEditFields is the fixed fieldset compared when narrating a slot edit,
// paired with the wording used for each change.
var slotEditFields = []struct {
	key   string
	label string
}{
	{"date", "date"},
	{"startTime", "start time"},
	{"endTime", "end time"},
	{"capacity", "capacity"},
	{"notes", "notes"},
}

// Recorder narrates entity mutations into audit entries. Each method
// computes the human-readable details line and the before/after payloads
// from the supplied snapshots, then appends through the store. Callers must
// pass already-committed state; the recorder never fetches or validates it.
type Recorder struct {
	store *Store
}

// NewRecorder creates a recorder bound to a store
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Store returns the underlying store
func (r *Recorder) Store() *Store {
	return r.store
}

// SlotCreated records the creation of a slot. There is no before state;
// after holds the full initial slot snapshot.
func (r *Recorder) SlotCreated(actor Actor, slotID int64, projectName, slotName, date string, after Snapshot) Entry {
	return r.store.Append(EntryParams{
		Action:          ActionSlotCreate,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          SlotRef(slotID),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         fmt.Sprintf("Created new slot %q for %s", slotName, date),
		After:           after,
	})
}

// SlotEdited records a slot edit. Only fields from the fixed edit fieldset
// that actually differ between the snapshots are narrated; deciding whether
// anything changed at all is the caller's job.
func (r *Recorder) SlotEdited(actor Actor, slotID int64, projectName, slotName string, before, after Snapshot) Entry {
	var changes []string
	for _, field := range slotEditFields {
		if !fieldChanged(before, after, field.key) {
			continue
		}
		if field.key == "notes" {
			changes = append(changes, "notes")
			continue
		}
		changes = append(changes, fmt.Sprintf("%s from %v to %v", field.label, before[field.key], after[field.key]))
	}

	return r.store.Append(EntryParams{
		Action:          ActionSlotEdit,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          SlotRef(slotID),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         "Updated slot: " + strings.Join(changes, ", "),
		Before:          before,
		After:           after,
	})
}

// SlotPublished records a publish state change; published selects between
// slot_publish and slot_unpublish.
func (r *Recorder) SlotPublished(actor Actor, slotID int64, projectName, slotName string, published bool) Entry {
	action := ActionSlotUnpublish
	details := fmt.Sprintf("Unpublished slot %q", slotName)
	if published {
		action = ActionSlotPublish
		details = fmt.Sprintf("Published slot %q", slotName)
	}

	return r.store.Append(EntryParams{
		Action:          action,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          SlotRef(slotID),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         details,
		Before:          Snapshot{"published": !published},
		After:           Snapshot{"published": published},
	})
}

// RepAssignment records a representative assignment change on a slot. An
// empty repName means the representative was unassigned. The entity type is
// always assignment even though it decorates a slot.
func (r *Recorder) RepAssignment(actor Actor, slotID int64, projectName, slotName, repName, previousRep string) Entry {
	action := ActionRepAssign
	details := fmt.Sprintf("Assigned sales representative %q to slot", repName)
	if repName == "" {
		action = ActionRepUnassign
		details = fmt.Sprintf("Unassigned sales representative %q from slot", previousRep)
	}

	return r.store.Append(EntryParams{
		Action:          action,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          AssignmentRef(slotID),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         details,
		Before:          Snapshot{"assignedSalesUser": nullable(previousRep)},
		After:           Snapshot{"assignedSalesUser": nullable(repName)},
	})
}

// CapacityOverride records a capacity change, whether it came from an
// explicit manual override or an automatic recompute. The optional reason is
// embedded in the details and in the after payload.
func (r *Recorder) CapacityOverride(actor Actor, slotID int64, projectName, slotName string, oldCapacity, newCapacity int, reason string) Entry {
	details := fmt.Sprintf("Capacity overridden from %d to %d", oldCapacity, newCapacity)
	if reason != "" {
		details += " - " + reason
	}

	after := Snapshot{"capacity": newCapacity}
	if reason != "" {
		after["reason"] = reason
	}

	return r.store.Append(EntryParams{
		Action:          ActionCapacityOverride,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          SlotRef(slotID),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         details,
		Before:          Snapshot{"capacity": oldCapacity},
		After:           after,
	})
}

// BookingConfirmed records a confirmed booking for a customer
func (r *Recorder) BookingConfirmed(actor Actor, bookingRef, projectName, slotName, customerName, customerEmail string) Entry {
	return r.store.Append(EntryParams{
		Action:          ActionBookingConfirm,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          BookingRef(bookingRef),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         fmt.Sprintf("Booking confirmed for customer %s", customerName),
		After: Snapshot{
			"customerName":  customerName,
			"customerEmail": customerEmail,
			"status":        "confirmed",
		},
	})
}

// BookingRescheduled records a booking moved to a different slot or date
func (r *Recorder) BookingRescheduled(actor Actor, bookingRef, projectName, oldSlotName, newSlotName, oldDate, newDate string) Entry {
	return r.store.Append(EntryParams{
		Action:          ActionBookingReschedule,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          BookingRef(bookingRef),
		ProjectName:     projectName,
		SlotName:        newSlotName,
		Details:         fmt.Sprintf("Booking rescheduled from %s (%s) to %s (%s)", oldDate, oldSlotName, newDate, newSlotName),
		Before:          Snapshot{"date": oldDate, "slotName": oldSlotName},
		After:           Snapshot{"date": newDate, "slotName": newSlotName},
	})
}

// BookingCancelled records a cancelled booking, stamping the cancellation
// time into the after payload.
func (r *Recorder) BookingCancelled(actor Actor, bookingRef, projectName, slotName, reason string) Entry {
	details := "Booking cancelled"
	if reason != "" {
		details += " - " + reason
	}

	after := Snapshot{
		"status":      "cancelled",
		"cancelledAt": r.store.now().UTC().Format(time.RFC3339),
	}
	if reason != "" {
		after["reason"] = reason
	}

	return r.store.Append(EntryParams{
		Action:          ActionBookingCancel,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          BookingRef(bookingRef),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         details,
		Before:          Snapshot{"status": "confirmed"},
		After:           after,
	})
}

// StatusChanged records a booking lifecycle status transition
func (r *Recorder) StatusChanged(actor Actor, bookingRef, projectName, slotName, oldStatus, newStatus string) Entry {
	return r.store.Append(EntryParams{
		Action:          ActionStatusChange,
		PerformedBy:     actor.Name,
		PerformedByRole: actor.Role,
		Entity:          BookingRef(bookingRef),
		ProjectName:     projectName,
		SlotName:        slotName,
		Details:         fmt.Sprintf("Booking status changed from %s to %s", oldStatus, newStatus),
		Before:          Snapshot{"status": oldStatus},
		After:           Snapshot{"status": newStatus},
	})
}

// fieldChanged compares a single snapshot field by display value
func fieldChanged(before, after Snapshot, key string) bool {
	return fmt.Sprint(before[key]) != fmt.Sprint(after[key])
}

// nullable maps an empty string to nil so absent values serialize as null
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
