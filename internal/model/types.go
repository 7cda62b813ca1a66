// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// WordPair is one vocabulary item. Term is the unique key across a dataset.
type WordPair struct {
	Term        string
	Translation string
}

// AccuracyRecord counts attempts for a single term. Correct never exceeds Attempted.
type AccuracyRecord struct {
	Correct   int
	Attempted int
}

// Accuracy returns Correct/Attempted, or 0 when the term was never attempted.
func (r AccuracyRecord) Accuracy() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempted)
}

// Valid reports whether the record satisfies 0 <= Correct <= Attempted.
func (r AccuracyRecord) Valid() bool {
	return r.Correct >= 0 && r.Attempted >= 0 && r.Correct <= r.Attempted
}

// Direction selects which field is shown and which one is expected.
type Direction int

const (
	// TermToTranslation shows the term and expects the translation.
	TermToTranslation Direction = iota
	// TranslationToTerm shows the translation and expects the term.
	TranslationToTerm
)

// String returns the config spelling of the direction.
func (d Direction) String() string {
	switch d {
	case TranslationToTerm:
		return "translation-to-term"
	default:
		return "term-to-translation"
	}
}

// ParseDirection parses a config value into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "term-to-translation", "forward":
		return TermToTranslation, nil
	case "translation-to-term", "reverse":
		return TranslationToTerm, nil
	default:
		return TermToTranslation, fmt.Errorf("unknown direction %q", s)
	}
}

// Prompt returns the shown field of a pair.
func (d Direction) Prompt(p WordPair) string {
	if d == TranslationToTerm {
		return p.Translation
	}
	return p.Term
}

// Answer returns the expected field of a pair.
func (d Direction) Answer(p WordPair) string {
	if d == TranslationToTerm {
		return p.Term
	}
	return p.Translation
}

// Modality is the kind of a single question.
type Modality int

const (
	// Written expects a free-text answer.
	Written Modality = iota
	// MultipleChoice offers a fixed set of options.
	MultipleChoice
)

func (m Modality) String() string {
	if m == MultipleChoice {
		return "choice"
	}
	return "written"
}

// ModalityMode restricts which modalities a round may use.
type ModalityMode int

const (
	// ModeMixed flips a coin for every question.
	ModeMixed ModalityMode = iota
	// ModeWritten asks written questions only.
	ModeWritten
	// ModeChoice asks multiple-choice questions only.
	ModeChoice
)

func (m ModalityMode) String() string {
	switch m {
	case ModeWritten:
		return "written"
	case ModeChoice:
		return "choice"
	default:
		return "mixed"
	}
}

// ParseModalityMode parses a config value into a ModalityMode.
func ParseModalityMode(s string) (ModalityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mixed":
		return ModeMixed, nil
	case "written":
		return ModeWritten, nil
	case "choice", "multiple-choice":
		return ModeChoice, nil
	default:
		return ModeMixed, fmt.Errorf("unknown modality %q", s)
	}
}

// Question is the item currently presented to the learner.
type Question struct {
	Term     string
	Prompt   string
	Answer   string
	Modality Modality
	Options  []string
}

// Config defines drill settings.
type Config struct {
	DatasetPath string
	Delimiter   string
	Size        int
	Direction   string
	Modality    string
	Threshold   int
	LogLevel    string
}

// Attempt captures one scored answer inside a round.
type Attempt struct {
	Term       string
	Modality   Modality
	Correct    bool
	AnsweredAt time.Time
}

// RoundSummary captures a completed round.
type RoundSummary struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	DatasetPath string
	Direction   Direction
	Terms       []string
	Attempts    []Attempt
}

// CorrectCount returns the number of correct attempts.
func (s RoundSummary) CorrectCount() int {
	n := 0
	for _, a := range s.Attempts {
		if a.Correct {
			n++
		}
	}
	return n
}

// RoundAggregate summarizes a stored round for reporting.
type RoundAggregate struct {
	ID          string
	EndedAt     time.Time
	DatasetPath string
	Terms       int
	Questions   int
	Correct     int
}

// TermAggregate aggregates attempts for a term across rounds.
type TermAggregate struct {
	Term      string
	Attempted int
	Correct   int
}

// RoundFilter narrows round history queries.
type RoundFilter struct {
	DatasetPath string
	Since       *time.Time
	Last        int
}
