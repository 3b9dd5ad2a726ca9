package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartslot/smartslot/pkg/audit"
	"github.com/smartslot/smartslot/pkg/config"
	"github.com/smartslot/smartslot/pkg/identity"
	"github.com/smartslot/smartslot/pkg/observability"
)

func newTestService(t *testing.T) (*Service, *audit.Store) {
	t.Helper()
	store := audit.NewStore(audit.StoreConfig{
		Mode:    config.ModeProduction,
		Logger:  observability.NopLogger(),
		Metrics: observability.NewTestMetrics(),
	})
	svc := NewService(ServiceConfig{Recorder: audit.NewRecorder(store)})
	return svc, store
}

func adminActor() identity.Actor {
	return identity.Actor{Name: "Project Admin", Role: identity.RoleProjectAdmin}
}

func TestService_CreateSlot(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX",
		Date:        "2025-12-15",
		SlotName:    "Early Bird Special A",
		StartTime:   "07:00",
		EndTime:     "10:00",
		Capacity:    40,
		Published:   true,
		Notes:       "Green Tower - Hall A",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), slot.ID)
	assert.True(t, slot.ManualCapacity)

	entries := store.All()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionSlotCreate, entries[0].Action)
	assert.Equal(t, `Created new slot "Early Bird Special A" for 2025-12-15`, entries[0].Details)
	assert.Equal(t, "Project Admin", entries[0].PerformedBy)
	assert.Equal(t, "project-admin", entries[0].PerformedByRole)
	assert.Equal(t, 40, entries[0].After["capacity"])
}

func TestService_CreateSlot_AutoCapacityFromReps(t *testing.T) {
	svc, _ := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX",
		Date:        "2025-12-15",
		SlotName:    "Early Bird Special A",
		StartTime:   "07:00",
		EndTime:     "10:00",
		Reps:        []string{"John Smith", "Emily Davis"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, slot.Capacity)
	assert.False(t, slot.ManualCapacity)
}

func TestService_CreateSlot_MissingFields(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CreateSlot(adminActor(), SlotParams{ProjectName: "GreenX"})
	assert.ErrorIs(t, err, ErrInvalidSlot)
	assert.Equal(t, 0, store.Len(), "rejected mutations leave no trail")
}

func TestService_UpdateSlot_NarratesEditAndCapacityOverride(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Capacity: 40,
	})
	require.NoError(t, err)

	capacity := 50
	updated, err := svc.UpdateSlot(adminActor(), slot.ID, SlotUpdate{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Capacity)

	// The edit and the capacity change are distinct audited facts.
	entries := store.Query(audit.Filter{})
	require.Len(t, entries, 3)

	edits := store.Query(audit.Filter{Action: audit.ActionSlotEdit})
	require.Len(t, edits, 1)
	assert.Equal(t, "Updated slot: capacity from 40 to 50", edits[0].Details)

	overrides := store.Query(audit.Filter{Action: audit.ActionCapacityOverride})
	require.Len(t, overrides, 1)
	assert.Equal(t, "Capacity overridden from 40 to 50", overrides[0].Details)
}

func TestService_UpdateSlot_NoChangesNoEntries(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Capacity: 40,
	})
	require.NoError(t, err)
	created := store.Len()

	_, err = svc.UpdateSlot(adminActor(), slot.ID, SlotUpdate{})
	require.NoError(t, err)
	assert.Equal(t, created, store.Len())
}

func TestService_UpdateSlot_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateSlot(adminActor(), 999, SlotUpdate{})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_SetPublished(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Capacity: 40,
	})
	require.NoError(t, err)

	published, err := svc.SetPublished(adminActor(), slot.ID, true)
	require.NoError(t, err)
	assert.True(t, published.Published)

	entries := store.Query(audit.Filter{Action: audit.ActionSlotPublish})
	require.Len(t, entries, 1)
	assert.Equal(t, `Published slot "Early Bird Special A"`, entries[0].Details)

	// Publishing an already-published slot records nothing.
	before := store.Len()
	_, err = svc.SetPublished(adminActor(), slot.ID, true)
	require.NoError(t, err)
	assert.Equal(t, before, store.Len())

	_, err = svc.SetPublished(adminActor(), slot.ID, false)
	require.NoError(t, err)
	unpublish := store.Query(audit.Filter{Action: audit.ActionSlotUnpublish})
	require.Len(t, unpublish, 1)
}

func TestService_AssignRep_EmitsAssignmentAndCapacityEntries(t *testing.T) {
	svc, store := newTestService(t)

	// Auto capacity tracks the rep list: two reps, capacity two.
	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00",
		Reps: []string{"John Smith", "Emily Davis"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, slot.Capacity)
	baseline := store.Len()

	updated, err := svc.AssignRep(adminActor(), slot.ID, "Michael Brown")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)
	assert.Len(t, updated.Reps, 3)

	// One user action, two audited facts.
	assert.Equal(t, baseline+2, store.Len())

	assigns := store.Query(audit.Filter{Action: audit.ActionRepAssign})
	require.Len(t, assigns, 1)
	assert.Equal(t, audit.EntityTypeAssignment, assigns[0].Entity.Type)
	assert.Equal(t, `Assigned sales representative "Michael Brown" to slot`, assigns[0].Details)

	overrides := store.Query(audit.Filter{Action: audit.ActionCapacityOverride})
	require.Len(t, overrides, 1)
	assert.Equal(t, 2, overrides[0].Before["capacity"])
	assert.Equal(t, 3, overrides[0].After["capacity"])
	assert.Contains(t, overrides[0].Details, "recomputed from assigned representatives")
}

func TestService_AssignRep_ManualCapacityUntouched(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Capacity: 40,
	})
	require.NoError(t, err)

	updated, err := svc.AssignRep(adminActor(), slot.ID, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Capacity)

	assert.Empty(t, store.Query(audit.Filter{Action: audit.ActionCapacityOverride}))
}

func TestService_AssignRep_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Reps: []string{"John Smith"},
	})
	require.NoError(t, err)

	_, err = svc.AssignRep(adminActor(), slot.ID, "John Smith")
	assert.ErrorIs(t, err, ErrRepAlreadyAssigned)
}

func TestService_UnassignRep(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Reps: []string{"John Smith", "Emily Davis"},
	})
	require.NoError(t, err)
	baseline := store.Len()

	updated, err := svc.UnassignRep(adminActor(), slot.ID, "Emily Davis")
	require.NoError(t, err)
	assert.Equal(t, []string{"John Smith"}, updated.Reps)
	assert.Equal(t, 1, updated.Capacity)
	assert.Equal(t, baseline+2, store.Len())

	unassigns := store.Query(audit.Filter{Action: audit.ActionRepUnassign})
	require.Len(t, unassigns, 1)
	assert.Equal(t, `Unassigned sales representative "Emily Davis" from slot`, unassigns[0].Details)

	_, err = svc.UnassignRep(adminActor(), slot.ID, "Nobody")
	assert.ErrorIs(t, err, ErrRepNotAssigned)
}

func TestService_OverrideCapacity(t *testing.T) {
	svc, store := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Reps: []string{"John Smith"},
	})
	require.NoError(t, err)

	updated, err := svc.OverrideCapacity(adminActor(), slot.ID, 50, "walk-in demand")
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Capacity)
	assert.True(t, updated.ManualCapacity)

	overrides := store.Query(audit.Filter{Action: audit.ActionCapacityOverride})
	require.Len(t, overrides, 1)
	assert.Equal(t, "Capacity overridden from 1 to 50 - walk-in demand", overrides[0].Details)

	// Once overridden, the capacity stops tracking the rep list.
	_, err = svc.AssignRep(adminActor(), slot.ID, "Emily Davis")
	require.NoError(t, err)
	after, err := svc.Slot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, after.Capacity)
}

func TestService_ReturnedSlotsAreCopies(t *testing.T) {
	svc, _ := newTestService(t)

	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-15", SlotName: "Early Bird Special A",
		StartTime: "07:00", EndTime: "10:00", Reps: []string{"John Smith"},
	})
	require.NoError(t, err)

	slot.Reps[0] = "tampered"

	stored, err := svc.Slot(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", stored.Reps[0])
}

func TestService_LoadFixturesWithoutNarration(t *testing.T) {
	svc, store := newTestService(t)

	svc.Load(DemoProjects(), DemoSlots())

	assert.Equal(t, 0, store.Len(), "fixtures predate the audit trail")
	assert.Len(t, svc.Projects(), 2)
	assert.Len(t, svc.Slots(""), 40)
	assert.Len(t, svc.Slots("GreenX"), 20)
	assert.Len(t, svc.Slots("Timber"), 20)

	// New slots continue the fixture ID sequence.
	slot, err := svc.CreateSlot(adminActor(), SlotParams{
		ProjectName: "GreenX", Date: "2025-12-30", SlotName: "Holiday Special",
		StartTime: "09:00", EndTime: "12:00", Capacity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), slot.ID)
}

func TestDemoSlots_Deterministic(t *testing.T) {
	first := DemoSlots()
	second := DemoSlots()
	require.Equal(t, first, second)

	require.Len(t, first, 40)
	assert.Equal(t, "GreenX", first[0].ProjectName)
	assert.Equal(t, "Early Bird Special A", first[0].SlotName)
	assert.Equal(t, "2025-12-10", first[0].Date)
	assert.Equal(t, 40, first[0].Capacity)

	timber := first[20]
	assert.Equal(t, "Timber", timber.ProjectName)
	assert.Equal(t, "Dawn Sunrise Slot A", timber.SlotName)
	assert.Equal(t, "2025-12-12", timber.Date)
}
