package audit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/smartslot/smartslot/pkg/config"
	"github.com/smartslot/smartslot/pkg/observability"
)

// ErrImmutableLog is returned when a destructive operation is attempted
// outside development mode.
var ErrImmutableLog = errors.New("audit log is immutable outside development mode")

// queryCacheSize bounds the memoized query results kept per store.
const queryCacheSize = 128

// StoreConfig configures a Store
type StoreConfig struct {
	// Mode gates Reset; anything other than config.ModeDevelopment
	// makes Reset fail with ErrImmutableLog.
	Mode config.Mode

	// Logger receives one record per append. Optional.
	Logger *observability.Logger

	// Metrics receives append/query/reset counters. Optional.
	Metrics *observability.Metrics
}

// Store is the process-wide append-only audit log. Entries receive strictly
// increasing IDs starting at 1 and are never updated, reordered, or removed.
// The store keeps private deep copies of every entry and hands out deep
// copies, so callers can never mutate recorded history.
type Store struct {
	mu         sync.Mutex
	mode       config.Mode
	logger     *observability.Logger
	metrics    *observability.Metrics
	entries    []Entry
	nextID     int64
	generation uint64

	// queries memoizes filtered-and-sorted results per (generation, filter)
	// so repeated dashboard pagination reads skip the scan. Entries in the
	// cache alias the live slice, which is safe because stored entries are
	// never mutated; copies are taken at the API boundary.
	queries *lru.Cache[string, []Entry]

	now func() time.Time
}

// NewStore creates an empty audit store
func NewStore(cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	queries, err := lru.New[string, []Entry](queryCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(fmt.Sprintf("audit: query cache: %v", err))
	}

	return &Store{
		mode:    cfg.Mode,
		logger:  logger.WithField("component", "audit"),
		metrics: cfg.Metrics,
		nextID:  1,
		queries: queries,
		now:     time.Now,
	}
}

// Append constructs the next entry from params, stamps it with the current
// UTC time and the next sequence ID, appends it, and returns a copy. This is
// the only write path into the store and does not fail.
func (s *Store) Append(p EntryParams) Entry {
	entry := Entry{
		Action:          p.Action,
		PerformedBy:     p.PerformedBy,
		PerformedByRole: p.PerformedByRole,
		Entity:          p.Entity,
		ProjectName:     p.ProjectName,
		SlotName:        p.SlotName,
		Details:         p.Details,
		Before:          p.Before.Clone(),
		After:           p.After.Clone(),
		Metadata:        p.Metadata.Clone(),
	}

	s.mu.Lock()
	entry.ID = s.nextID
	entry.Timestamp = s.now().UTC()
	s.nextID++
	s.entries = append(s.entries, entry)
	s.generation++
	stored := len(s.entries)
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"id":     entry.ID,
		"action": string(entry.Action),
		"actor":  entry.PerformedBy,
	}).Info(entry.Details)

	if s.metrics != nil {
		s.metrics.AuditEntriesTotal.WithLabelValues(string(entry.Action), string(entry.Entity.Type)).Inc()
		s.metrics.AuditEntriesStored.Set(float64(stored))
	}

	return entry.clone()
}

// All returns a copy of every entry in insertion order
func (s *Store) All() []Entry {
	s.mu.Lock()
	snapshot := s.entries
	s.mu.Unlock()

	return cloneEntries(snapshot)
}

// Len returns the number of entries recorded so far
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Reset clears the store and restarts the sequence at 1. It refuses to run
// outside development mode: audit integrity is the entire point of the
// subsystem, so misuse fails loudly instead of silently doing nothing.
func (s *Store) Reset() error {
	if s.mode != config.ModeDevelopment {
		if s.metrics != nil {
			s.metrics.AuditResetAttemptsTotal.WithLabelValues("refused").Inc()
		}
		s.logger.WithField("mode", string(s.mode)).Error("refused to reset audit log")
		return fmt.Errorf("reset in %q mode: %w", s.mode, ErrImmutableLog)
	}

	s.mu.Lock()
	s.entries = nil
	s.nextID = 1
	s.generation++
	s.queries.Purge()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.AuditResetAttemptsTotal.WithLabelValues("reset").Inc()
		s.metrics.AuditEntriesStored.Set(0)
	}
	s.logger.Warn("audit log cleared (development mode)")
	return nil
}
