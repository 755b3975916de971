// Package policy holds the batch resolution and content inheritance rules in
// one place. Everything here is pure: callers fetch rows, the policy decides.
package policy

import (
	"errors"
	"sort"
	"time"
)

// ErrForeignBatch is returned when a write targets a batch other than the
// requester's own. Ownership is the single hard invariant of the system.
var ErrForeignBatch = errors.New("target batch is not the requester's own batch")

// Config carries the cohort constants that used to live as inline literals.
type Config struct {
	// LookbackWindow is how many senior cohorts a student may view in
	// addition to their own.
	LookbackWindow int
	// YearOffset derives a cohort's academic year as YearOffset - batchNumber.
	YearOffset int
	// MaxCASlots caps the number of continuous assessment components per
	// module before the configuration is flagged.
	MaxCASlots int
}

// Default returns the production cohort constants.
func Default() Config {
	return Config{
		LookbackWindow: 3,
		YearOffset:     25,
		MaxCASlots:     2,
	}
}

// AvailabilityRow is the minimal metadata the resolver needs from one stored
// row of any of the three content sources.
type AvailabilityRow struct {
	BatchNumber  int
	UpdatedAt    time.Time
	LecturerName string
}

// BatchSummary describes what one viewable batch holds for a module. Batches
// with no data at all still get a summary so callers can render placeholders.
type BatchSummary struct {
	BatchNumber       int        `json:"batchNumber"`
	HasContent        bool       `json:"hasContent"`
	HasPaperStructure bool       `json:"hasPaperStructure"`
	HasCAs            bool       `json:"hasCAs"`
	ContentUpdatedAt  *time.Time `json:"contentUpdatedAt,omitempty"`
	PaperUpdatedAt    *time.Time `json:"paperUpdatedAt,omitempty"`
	CAUpdatedAt       *time.Time `json:"caUpdatedAt,omitempty"`
	LecturerName      string     `json:"lecturerName,omitempty"`
}

// HasAnyData reports whether at least one of the three sources exists.
func (s BatchSummary) HasAnyData() bool {
	return s.HasContent || s.HasPaperStructure || s.HasCAs
}

// LatestUpdatedAt returns the most recent timestamp among the sources that
// exist for this batch, or the zero time when the batch is empty.
func (s BatchSummary) LatestUpdatedAt() time.Time {
	var latest time.Time
	for _, ts := range []*time.Time{s.ContentUpdatedAt, s.PaperUpdatedAt, s.CAUpdatedAt} {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}

// ViewableBatches returns the batches a student may view: their own cohort
// plus up to LookbackWindow more-senior cohorts, strictly positive, in
// descending order. More-junior cohorts are never included. A non-positive
// student batch yields an empty list.
func (c Config) ViewableBatches(studentBatch int) []int {
	if studentBatch <= 0 {
		return nil
	}

	batches := make([]int, 0, c.LookbackWindow+1)
	for offset := 0; offset <= c.LookbackWindow; offset++ {
		batch := studentBatch - offset
		if batch <= 0 {
			break
		}
		batches = append(batches, batch)
	}
	return batches
}

// AnnotateAvailability merges the three independently fetched row sets into
// one summary per viewable batch. A batch present in any set is flagged
// accordingly; a batch present in none still appears with all flags false.
// The result is sorted by batch number, descending.
func (c Config) AnnotateAvailability(viewable []int, contentRows, paperRows, caRows []AvailabilityRow) []BatchSummary {
	byBatch := make(map[int]*BatchSummary, len(viewable))
	for _, batch := range viewable {
		byBatch[batch] = &BatchSummary{BatchNumber: batch}
	}

	for _, row := range contentRows {
		summary, ok := byBatch[row.BatchNumber]
		if !ok {
			continue
		}
		ts := row.UpdatedAt
		summary.HasContent = true
		summary.ContentUpdatedAt = &ts
		summary.LecturerName = row.LecturerName
	}

	for _, row := range paperRows {
		summary, ok := byBatch[row.BatchNumber]
		if !ok {
			continue
		}
		ts := row.UpdatedAt
		summary.HasPaperStructure = true
		summary.PaperUpdatedAt = &ts
	}

	for _, row := range caRows {
		summary, ok := byBatch[row.BatchNumber]
		if !ok {
			continue
		}
		// CA rows come one per component; keep the newest timestamp.
		if summary.CAUpdatedAt == nil || row.UpdatedAt.After(*summary.CAUpdatedAt) {
			ts := row.UpdatedAt
			summary.CAUpdatedAt = &ts
		}
		summary.HasCAs = true
	}

	summaries := make([]BatchSummary, 0, len(byBatch))
	for _, summary := range byBatch {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].BatchNumber > summaries[j].BatchNumber
	})
	return summaries
}

// PickDefaultBatch selects the batch shown first: the one with the most
// recent update among batches holding any data, ties going to the higher
// batch number. When every summary is empty the student's own batch wins.
func (c Config) PickDefaultBatch(summaries []BatchSummary, studentBatch int) int {
	best := -1
	var bestTime time.Time
	for _, summary := range summaries {
		if !summary.HasAnyData() {
			continue
		}
		latest := summary.LatestUpdatedAt()
		switch {
		case best == -1,
			latest.After(bestTime),
			latest.Equal(bestTime) && summary.BatchNumber > best:
			best = summary.BatchNumber
			bestTime = latest
		}
	}
	if best == -1 {
		return studentBatch
	}
	return best
}

// DerivedYear converts a batch number into the cohort's academic year.
// Higher batch numbers are more junior and map to smaller years.
func (c Config) DerivedYear(batchNumber int) int {
	return c.YearOffset - batchNumber
}

// CanEditModule reports whether the student has general edit rights for a
// module: their derived year must have reached the module's nominal year.
func (c Config) CanEditModule(studentBatch, moduleYear int) bool {
	if studentBatch <= 0 {
		return false
	}
	return moduleYear <= c.DerivedYear(studentBatch)
}

// CanEditTopics gates topic outline edits: own batch only, on top of the
// general edit right. Topics are batch-exclusive to prevent cross-cohort
// corruption.
func (c Config) CanEditTopics(studentBatch, viewingBatch, moduleYear int) bool {
	return studentBatch == viewingBatch && c.CanEditModule(studentBatch, moduleYear)
}

// CanEditPapersAndCA gates exam/assessment metadata edits. These are
// collaboratively maintained, so the viewing batch does not matter.
func (c Config) CanEditPapersAndCA(studentBatch, moduleYear int) bool {
	return c.CanEditModule(studentBatch, moduleYear)
}

// GuardOwnBatch is the single ownership check invoked before any mutation:
// a student may only write into the row keyed by their own batch number.
func GuardOwnBatch(requesterBatch, targetBatch int) error {
	if requesterBatch <= 0 || requesterBatch != targetBatch {
		return ErrForeignBatch
	}
	return nil
}

// CAComponent is the weight/slot view of a continuous assessment entry.
type CAComponent struct {
	CANumber int
	CAType   string
	Weight   int
}

// ImpliedWrittenExamWeight is the final exam share left once every CA weight
// is subtracted from 100. Negative values mean an over-allocated set.
func ImpliedWrittenExamWeight(cas []CAComponent) int {
	total := 0
	for _, ca := range cas {
		total += ca.Weight
	}
	return 100 - total
}

// ValidateCASet flags configuration problems with a CA set. Violations are
// advisory: saves proceed, the warnings travel back to the caller.
func (c Config) ValidateCASet(cas []CAComponent, allowedWeights []int) []string {
	var warnings []string

	if len(cas) > c.MaxCASlots {
		warnings = append(warnings, "too many continuous assessment components for this module")
	}

	for _, ca := range cas {
		allowed := false
		for _, weight := range allowedWeights {
			if ca.Weight == weight {
				allowed = true
				break
			}
		}
		if !allowed {
			warnings = append(warnings, "continuous assessment weight is outside the allowed set")
			break
		}
	}

	if ImpliedWrittenExamWeight(cas) < 0 {
		warnings = append(warnings, "total CA weight exceeds 100%, written exam weight is negative")
	}

	return warnings
}
