package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"
)

// Renderer serializes query results for a presentation consumer (timeline
// view, CSV download). Implementations must treat the entries as read-only.
type Renderer interface {
	Render(entries []Entry) ([]byte, error)
}

// CSVRenderer serializes entries to the flat tabular download format
type CSVRenderer struct{}

// Render writes one row per entry with the fixed export columns
func (CSVRenderer) Render(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{
		"Timestamp",
		"Action",
		"Performed By",
		"Role",
		"Project",
		"Slot Name",
		"Entity Type",
		"Entity ID",
		"Details",
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		row := []string{
			entry.Timestamp.Format(time.RFC3339),
			entry.Action.Label(),
			entry.PerformedBy,
			entry.PerformedByRole,
			entry.ProjectName,
			entry.SlotName,
			string(entry.Entity.Type),
			entry.Entity.ID(),
			entry.Details,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// JSONRenderer serializes entries as a JSON array for the timeline view
type JSONRenderer struct {
	Indent bool
}

// Render marshals the entries to JSON
func (r JSONRenderer) Render(entries []Entry) ([]byte, error) {
	if r.Indent {
		return json.MarshalIndent(entries, "", "  ")
	}
	return json.Marshal(entries)
}

// Export runs a query and renders the result, counting the export by format
func (s *Store) Export(f Filter, renderer Renderer) ([]byte, error) {
	entries := s.Query(f)
	out, err := renderer.Render(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to render audit export: %w", err)
	}
	if s.metrics != nil {
		s.metrics.AuditExportsTotal.WithLabelValues(formatLabel(renderer)).Inc()
	}
	return out, nil
}

func formatLabel(r Renderer) string {
	switch r.(type) {
	case CSVRenderer:
		return "csv"
	case JSONRenderer:
		return "json"
	default:
		return "custom"
	}
}
