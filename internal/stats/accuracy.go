// Package stats contains accuracy tracking, selection and reporting.
package stats

import (
	"fmt"

	"github.com/ceylinesp/quizlet/internal/model"
)

// Accuracy owns the term -> record mapping for one dataset.
type Accuracy struct {
	records map[string]*model.AccuracyRecord
}

// NewAccuracy returns an empty accuracy model.
func NewAccuracy() *Accuracy {
	return &Accuracy{records: map[string]*model.AccuracyRecord{}}
}

// Add registers term with rec. An existing term keeps its record.
func (a *Accuracy) Add(term string, rec model.AccuracyRecord) bool {
	if _, ok := a.records[term]; ok {
		return false
	}
	r := rec
	a.records[term] = &r
	return true
}

// Set overwrites the record for term.
func (a *Accuracy) Set(term string, rec model.AccuracyRecord) {
	r := rec
	a.records[term] = &r
}

// Has reports whether term is tracked.
func (a *Accuracy) Has(term string) bool {
	_, ok := a.records[term]
	return ok
}

// Len returns the number of tracked terms.
func (a *Accuracy) Len() int {
	return len(a.records)
}

// Record returns a copy of the record for term.
func (a *Accuracy) Record(term string) (model.AccuracyRecord, bool) {
	r, ok := a.records[term]
	if !ok {
		return model.AccuracyRecord{}, false
	}
	return *r, true
}

// RecordAttempt counts one attempt for term. The term must already exist.
func (a *Accuracy) RecordAttempt(term string, wasCorrect bool) {
	r, ok := a.records[term]
	if !ok {
		panic(fmt.Sprintf("stats: attempt recorded for unknown term %q", term))
	}
	r.Attempted++
	if wasCorrect {
		r.Correct++
	}
}

// AccuracyOf returns the accuracy for term, 0 when never attempted or unknown.
func (a *Accuracy) AccuracyOf(term string) float64 {
	r, ok := a.records[term]
	if !ok {
		return 0
	}
	return r.Accuracy()
}

// Reset zeroes every record.
func (a *Accuracy) Reset() {
	for _, r := range a.records {
		r.Correct = 0
		r.Attempted = 0
	}
}

// Clone returns a deep copy.
func (a *Accuracy) Clone() *Accuracy {
	out := &Accuracy{records: make(map[string]*model.AccuracyRecord, len(a.records))}
	for term, r := range a.records {
		c := *r
		out.records[term] = &c
	}
	return out
}
