package scheduling

import (
	"github.com/smartslot/smartslot/pkg/audit"
)

// Project is a bookable project with its descriptive metadata
type Project struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Status   string `json:"status"`
	Location string `json:"location"`
	Timezone string `json:"timezone"`
}

// Slot is a schedulable time block within a project. Capacity is derived
// from the assigned representative count until it is explicitly overridden
// or edited, after which it is manual.
type Slot struct {
	ID             int64    `json:"id"`
	ProjectName    string   `json:"project_name"`
	Date           string   `json:"date"`
	SlotName       string   `json:"slot_name"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Reps           []string `json:"assigned_sales_users"`
	Capacity       int      `json:"capacity"`
	ManualCapacity bool     `json:"manual_capacity"`
	Published      bool     `json:"published"`
	Notes          string   `json:"notes,omitempty"`
}

// clone returns a copy that shares no state with the receiver
func (s Slot) clone() Slot {
	out := s
	out.Reps = append([]string(nil), s.Reps...)
	return out
}

// editSnapshot captures the fields tracked by slot-edit narration
func (s Slot) editSnapshot() audit.Snapshot {
	return audit.Snapshot{
		"date":      s.Date,
		"startTime": s.StartTime,
		"endTime":   s.EndTime,
		"capacity":  s.Capacity,
		"notes":     s.Notes,
	}
}

// snapshot captures the full slot state for creation narration
func (s Slot) snapshot() audit.Snapshot {
	snap := s.editSnapshot()
	snap["published"] = s.Published
	snap["assignedSalesUsers"] = append([]string(nil), s.Reps...)
	return snap
}
