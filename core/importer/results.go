// Package importer orchestrates the legacy data import: it parses the
// Access extracts, maps them through the legacy mappers and reconciles the
// mapped entities against the store by legacy id, one transaction per
// entity family.
package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// ConflictResolutionMode is the run-level policy governing how a detected
// legacy-id collision is handled.
type ConflictResolutionMode int

const (
	// FailOnConflict aborts the colliding family's whole transaction; the
	// operator signalled they expect a clean first-time import.
	FailOnConflict ConflictResolutionMode = iota
	// SkipExisting leaves existing rows untouched.
	SkipExisting
	// Update overwrites all mutable columns on existing rows.
	Update
)

func (m ConflictResolutionMode) String() string {
	switch m {
	case FailOnConflict:
		return "fail"
	case SkipExisting:
		return "skip"
	case Update:
		return "update"
	}
	return "unknown"
}

func ParseConflictResolutionMode(s string) (ConflictResolutionMode, error) {
	switch s {
	case "fail":
		return FailOnConflict, nil
	case "skip":
		return SkipExisting, nil
	case "update":
		return Update, nil
	}
	return 0, errors.Errorf("unknown conflict resolution mode %q (want fail, skip or update)", s)
}

// EntityImportResult counts the outcomes for one entity family.
type EntityImportResult struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

func (r EntityImportResult) Processed() int {
	return r.Imported + r.Updated + r.Skipped + r.Failed
}

// ImportException is one durable record per failed row, surfaced to
// operators in the run report. Field carries the offending column, or one of
// the pseudo-fields "_parse", "_conflict", "_db".
type ImportException struct {
	EntityType    string      `json:"entity_type"`
	LegacyID      string      `json:"legacy_id,omitempty"`
	Field         string      `json:"field"`
	Reason        string      `json:"reason"`
	OriginalValue null.String `json:"original_value,omitempty"`
}

// ImportExecutionResult aggregates a whole run.
type ImportExecutionResult struct {
	RunID     uuid.UUID              `json:"run_id"`
	Mode      ConflictResolutionMode `json:"-"`
	StartedAt time.Time              `json:"started_at"` // UTC
	Duration  time.Duration          `json:"duration"`

	Schools     EntityImportResult `json:"schools"`
	ClassGroups EntityImportResult `json:"class_groups"`
	Activities  EntityImportResult `json:"activities"`
	Students    EntityImportResult `json:"students"`

	Exceptions []ImportException `json:"exceptions"`
}

func (r *ImportExecutionResult) families() []EntityImportResult {
	return []EntityImportResult{r.Schools, r.ClassGroups, r.Activities, r.Students}
}

func (r *ImportExecutionResult) TotalImported() int {
	var n int
	for _, f := range r.families() {
		n += f.Imported
	}
	return n
}

func (r *ImportExecutionResult) TotalUpdated() int {
	var n int
	for _, f := range r.families() {
		n += f.Updated
	}
	return n
}

func (r *ImportExecutionResult) TotalSkipped() int {
	var n int
	for _, f := range r.families() {
		n += f.Skipped
	}
	return n
}

func (r *ImportExecutionResult) TotalFailed() int {
	var n int
	for _, f := range r.families() {
		n += f.Failed
	}
	return n
}

func (r *ImportExecutionResult) TotalProcessed() int {
	var n int
	for _, f := range r.families() {
		n += f.Processed()
	}
	return n
}

// SuccessRate is the share of processed records that ended up in the store.
func (r *ImportExecutionResult) SuccessRate() float64 {
	total := r.TotalProcessed()
	if total == 0 {
		return 0
	}
	return float64(r.TotalImported()+r.TotalUpdated()) / float64(total)
}
