// Package generator draws terms, modalities and multiple-choice options.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"golang.org/x/text/cases"

	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/model"
)

// OptionCount is the number of options offered in a multiple-choice question.
const OptionCount = 4

// Source is the randomness used by a Generator. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Generator makes the random choices of a round.
type Generator struct {
	rnd Source
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src Source) *Generator {
	return &Generator{rnd: src}
}

// PickTerm draws uniformly from pool, redrawing while the draw equals last
// and another term exists. An empty pool yields "".
func (g *Generator) PickTerm(pool []string, last string) string {
	if len(pool) == 0 {
		return ""
	}
	term := pool[g.rnd.Intn(len(pool))]
	if len(pool) == 1 || !containsOther(pool, last) {
		return term
	}
	for term == last {
		term = pool[g.rnd.Intn(len(pool))]
	}
	return term
}

func containsOther(pool []string, last string) bool {
	for _, t := range pool {
		if t != last {
			return true
		}
	}
	return false
}

// ChooseModality flips a fair coin.
func (g *Generator) ChooseModality() model.Modality {
	if g.rnd.Intn(2) == 0 {
		return model.Written
	}
	return model.MultipleChoice
}

// BuildOptions returns n values containing correct, drawn from candidates
// and shuffled. No two options share an AnswerKey.
func (g *Generator) BuildOptions(correct string, candidates []string, n int) ([]string, error) {
	if have := DistinctCount(append([]string{correct}, candidates...)); have < n {
		return nil, apperrors.NewTooFewOptionsError(have, n)
	}
	options := make([]string, 0, n)
	options = append(options, correct)
	seen := map[string]struct{}{AnswerKey(correct): {}}
	for len(options) < n {
		candidate := candidates[g.rnd.Intn(len(candidates))]
		key := AnswerKey(candidate)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		options = append(options, candidate)
	}
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options, nil
}

// DistinctCount counts values with distinct answer keys.
func DistinctCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[AnswerKey(v)] = struct{}{}
	}
	return len(seen)
}

// AnswerKey is the form answers are compared in: trimmed and case-folded.
func AnswerKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
