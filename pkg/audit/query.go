package audit

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the calendar-day layout accepted by the date-range filters.
const dateLayout = "2006-01-02"

// Filter selects audit entries. All set conditions must hold for an entry to
// match, including Search; zero values (and the "all" sentinels) match
// everything.
type Filter struct {
	// Action matches exactly; empty or ActionAll matches every action.
	Action Action `json:"action,omitempty"`

	// PerformedBy is a case-insensitive substring match on the actor name.
	PerformedBy string `json:"performed_by,omitempty"`

	// ProjectName matches exactly.
	ProjectName string `json:"project_name,omitempty"`

	// EntityType matches exactly; empty or EntityTypeAll matches every type.
	EntityType EntityType `json:"entity_type,omitempty"`

	// FromDate and ToDate are inclusive calendar-day bounds (YYYY-MM-DD)
	// on the entry timestamp. A bound that fails to parse matches nothing.
	FromDate string `json:"from_date,omitempty"`
	ToDate   string `json:"to_date,omitempty"`

	// Search is a case-insensitive substring match over details, slot name,
	// project name, and actor name.
	Search string `json:"search,omitempty"`
}

// key returns a stable cache key for the filter
func (f Filter) key() string {
	return strings.Join([]string{
		string(f.Action),
		f.PerformedBy,
		f.ProjectName,
		string(f.EntityType),
		f.FromDate,
		f.ToDate,
		f.Search,
	}, "\x1f")
}

// matches reports whether the entry satisfies every set condition
func (f Filter) matches(e Entry) bool {
	if f.Action != "" && f.Action != ActionAll && e.Action != f.Action {
		return false
	}
	if f.PerformedBy != "" && !containsFold(e.PerformedBy, f.PerformedBy) {
		return false
	}
	if f.ProjectName != "" && e.ProjectName != f.ProjectName {
		return false
	}
	if f.EntityType != "" && f.EntityType != EntityTypeAll && e.Entity.Type != f.EntityType {
		return false
	}
	if f.FromDate != "" {
		from, err := time.Parse(dateLayout, f.FromDate)
		if err != nil || e.Timestamp.Before(from) {
			return false
		}
	}
	if f.ToDate != "" {
		to, err := time.Parse(dateLayout, f.ToDate)
		if err != nil || !e.Timestamp.Before(to.AddDate(0, 0, 1)) {
			return false
		}
	}
	if f.Search != "" {
		if !containsFold(e.Details, f.Search) &&
			!containsFold(e.SlotName, f.Search) &&
			!containsFold(e.ProjectName, f.Search) &&
			!containsFold(e.PerformedBy, f.Search) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Apply filters entries and sorts the result newest first, with descending
// ID as the tie break. The input is not modified; the result is a pure
// function of (entries, filter).
func Apply(entries []Entry, f Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Query returns a copy of every entry matching the filter, newest first.
// Results are memoized per store generation; the stored order is never
// touched, sorting is purely a read-time projection.
func (s *Store) Query(f Filter) []Entry {
	start := time.Now()

	s.mu.Lock()
	generation := s.generation
	snapshot := s.entries
	s.mu.Unlock()

	key := strconv.FormatUint(generation, 10) + "\x1e" + f.key()

	if s.metrics != nil {
		s.metrics.AuditQueriesTotal.Inc()
		defer func() {
			s.metrics.AuditQueryDuration.Observe(time.Since(start).Seconds())
		}()
	}

	if cached, ok := s.queries.Get(key); ok {
		if s.metrics != nil {
			s.metrics.AuditQueryCacheHitsTotal.Inc()
		}
		return cloneEntries(cached)
	}

	filtered := Apply(snapshot, f)
	s.queries.Add(key, filtered)
	return cloneEntries(filtered)
}
