// Package audit provides the append-only audit trail behind the slot-booking
// dashboard.
//
// # Overview
//
// Every slot, booking, and assignment mutation is narrated into an immutable
// Entry with a monotonically increasing ID, an actor, a one-line details
// string, and optional before/after snapshots. Entries are appended once and
// never updated, reordered, or removed; Reset exists for local development
// only and fails everywhere else.
//
// # Usage Example
//
// Record a mutation:
//
//	store := audit.NewStore(audit.StoreConfig{Mode: cfg.Mode})
//	recorder := audit.NewRecorder(store)
//
//	recorder.SlotEdited(actor, slot.ID, slot.ProjectName, slot.SlotName, before, after)
//
// Query and export:
//
//	entries := store.Query(audit.Filter{
//		Action:   audit.ActionSlotEdit,
//		FromDate: "2025-12-10",
//		ToDate:   "2025-12-10",
//	})
//
//	csvBytes, err := store.Export(audit.Filter{}, audit.CSVRenderer{})
//
// Results are sorted newest first with descending ID as the tie break; the
// caller slices the returned sequence for pagination.
//
// # Related Packages
//
//   - pkg/scheduling: slot and assignment mutation flows
//   - pkg/booking: booking mutation flows
//   - pkg/config: runtime mode gating Reset
package audit
