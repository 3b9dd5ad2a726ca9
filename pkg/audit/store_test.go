package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartslot/smartslot/pkg/config"
	"github.com/smartslot/smartslot/pkg/observability"
)

func newTestStore(t *testing.T, mode config.Mode) *Store {
	t.Helper()
	return NewStore(StoreConfig{
		Mode:    mode,
		Logger:  observability.NopLogger(),
		Metrics: observability.NewTestMetrics(),
	})
}

func testActor() Actor {
	return Actor{Name: "Project Admin", Role: "project-admin"}
}

func TestStore_Append_MonotonicIDs(t *testing.T) {
	store := newTestStore(t, config.ModeProduction)

	for i := 1; i <= 25; i++ {
		entry := store.Append(EntryParams{
			Action:          ActionSlotCreate,
			PerformedBy:     "Project Admin",
			PerformedByRole: "project-admin",
			Entity:          SlotRef(int64(i)),
			Details:         "Created new slot",
		})
		assert.Equal(t, int64(i), entry.ID)
	}

	entries := store.All()
	require.Len(t, entries, 25)
	for i, entry := range entries {
		assert.Equal(t, int64(i+1), entry.ID, "ids must be gap-free in call order")
	}
}

func TestStore_Append_StampsUTCTimestamp(t *testing.T) {
	store := newTestStore(t, config.ModeProduction)
	fixed := time.Date(2025, 12, 10, 10, 30, 0, 0, time.FixedZone("EST", -5*3600))
	store.now = func() time.Time { return fixed }

	entry := store.Append(EntryParams{Action: ActionSlotCreate, Entity: SlotRef(1)})

	assert.Equal(t, time.UTC, entry.Timestamp.Location())
	assert.True(t, entry.Timestamp.Equal(fixed))
}

func TestStore_AppendOnlyOrdering(t *testing.T) {
	store := newTestStore(t, config.ModeProduction)

	first := store.Append(EntryParams{Action: ActionSlotCreate, Entity: SlotRef(101), Details: "first"})
	second := store.Append(EntryParams{Action: ActionSlotEdit, Entity: SlotRef(101), Details: "second"})
	third := store.Append(EntryParams{Action: ActionSlotPublish, Entity: SlotRef(101), Details: "third"})

	entries := store.All()
	require.Len(t, entries, 3)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.Equal(t, third.ID, entries[2].ID)

	// A query must not change the stored order.
	store.Query(Filter{Action: ActionSlotEdit})
	store.Query(Filter{})
	again := store.All()
	require.Len(t, again, 3)
	for i := range entries {
		assert.Equal(t, entries[i].ID, again[i].ID)
		assert.Equal(t, entries[i].Details, again[i].Details)
	}
}

func TestStore_Immutability(t *testing.T) {
	store := newTestStore(t, config.ModeProduction)

	returned := store.Append(EntryParams{
		Action:  ActionCapacityOverride,
		Entity:  SlotRef(101),
		Details: "Capacity overridden from 40 to 50",
		Before:  Snapshot{"capacity": 40},
		After:   Snapshot{"capacity": 50},
	})

	// Mutating the returned copy must not affect later reads.
	returned.Details = "tampered"
	returned.Before["capacity"] = 999
	returned.After["capacity"] = 999

	fromAll := store.All()[0]
	assert.Equal(t, "Capacity overridden from 40 to 50", fromAll.Details)
	assert.Equal(t, 40, fromAll.Before["capacity"])
	assert.Equal(t, 50, fromAll.After["capacity"])

	// Mutating a read result must not affect the next read either.
	fromAll.Before["capacity"] = 7
	assert.Equal(t, 40, store.All()[0].Before["capacity"])

	fromQuery := store.Query(Filter{})[0]
	fromQuery.After["capacity"] = 7
	assert.Equal(t, 50, store.Query(Filter{})[0].After["capacity"])
}

func TestStore_Reset_DevelopmentMode(t *testing.T) {
	store := newTestStore(t, config.ModeDevelopment)

	store.Append(EntryParams{Action: ActionSlotCreate, Entity: SlotRef(1)})
	store.Append(EntryParams{Action: ActionSlotEdit, Entity: SlotRef(1)})
	require.Equal(t, 2, store.Len())

	require.NoError(t, store.Reset())
	assert.Equal(t, 0, store.Len())

	// The counter restarts at 1.
	entry := store.Append(EntryParams{Action: ActionSlotCreate, Entity: SlotRef(2)})
	assert.Equal(t, int64(1), entry.ID)
}

func TestStore_Reset_RefusedOutsideDevelopment(t *testing.T) {
	store := newTestStore(t, config.ModeProduction)

	store.Append(EntryParams{Action: ActionSlotCreate, Entity: SlotRef(1)})
	store.Append(EntryParams{Action: ActionBookingConfirm, Entity: BookingRef("BK-2001")})

	err := store.Reset()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImmutableLog)

	// The failed call must leave the store untouched.
	assert.Equal(t, 2, store.Len())
	entries := store.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, int64(2), entries[1].ID)
}

func TestStore_Reset_RefusedForZeroMode(t *testing.T) {
	// A store built without an explicit mode must behave like production.
	store := NewStore(StoreConfig{})
	store.Append(EntryParams{Action: ActionSlotCreate, Entity: SlotRef(1)})

	assert.ErrorIs(t, store.Reset(), ErrImmutableLog)
	assert.Equal(t, 1, store.Len())
}
