// Package scheduling owns project and slot state for the dashboard and
// narrates every committed slot, assignment, and capacity mutation into the
// audit trail. Snapshots are computed around each commit and handed to the
// recorder; the audit core never reaches back into this package.
package scheduling
