package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/model"
)

// scripted returns queued draws modulo n and never shuffles.
type scripted struct {
	draws []int
	calls int
}

func (s *scripted) Intn(n int) int {
	if len(s.draws) == 0 {
		return 0
	}
	v := s.draws[s.calls%len(s.draws)]
	s.calls++
	return v % n
}

func (s *scripted) Shuffle(int, func(i, j int)) {}

func TestPickTermAvoidsRepeat(t *testing.T) {
	src := &scripted{draws: []int{0, 0, 0, 1}}
	g := NewWithSource(src)
	got := g.PickTerm([]string{"Hund", "Katze"}, "Hund")
	assert.Equal(t, "Katze", got)
	assert.Equal(t, 4, src.calls)
}

func TestPickTermSingleton(t *testing.T) {
	g := NewWithSource(&scripted{})
	assert.Equal(t, "Hund", g.PickTerm([]string{"Hund"}, "Hund"))
	assert.Equal(t, "", g.PickTerm(nil, "Hund"))
}

func TestPickTermNeverRepeatsRandom(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(7)))
	pool := []string{"a", "b", "c"}
	last := ""
	for i := 0; i < 500; i++ {
		term := g.PickTerm(pool, last)
		require.NotEqual(t, last, term)
		last = term
	}
}

func TestChooseModality(t *testing.T) {
	g := NewWithSource(&scripted{draws: []int{0, 1}})
	assert.Equal(t, model.Written, g.ChooseModality())
	assert.Equal(t, model.MultipleChoice, g.ChooseModality())
}

func TestBuildOptionsDistinct(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(42)))
	candidates := []string{"dog", "cat", "cat", "mouse", "bird", "dog"}
	for i := 0; i < 100; i++ {
		opts, err := g.BuildOptions("dog", candidates, OptionCount)
		require.NoError(t, err)
		require.Len(t, opts, OptionCount)
		assert.Equal(t, OptionCount, DistinctCount(opts))
		assert.Contains(t, opts, "dog")
	}
}

func TestBuildOptionsScriptedOrder(t *testing.T) {
	g := NewWithSource(&scripted{draws: []int{0, 1, 1, 2, 3}})
	opts, err := g.BuildOptions("dog", []string{"dog", "cat", "mouse", "bird"}, OptionCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "cat", "mouse", "bird"}, opts)
}

func TestBuildOptionsTooFew(t *testing.T) {
	g := NewWithSource(&scripted{})
	_, err := g.BuildOptions("dog", []string{"dog", "cat", "cat"}, OptionCount)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTooFewOptions))
}

func TestBuildOptionsFoldsCase(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(7)))
	candidates := []string{"dog", "Dog", " DOG ", "cat", "bird", "mouse"}
	for i := 0; i < 100; i++ {
		opts, err := g.BuildOptions("dog", candidates, OptionCount)
		require.NoError(t, err)
		assert.Equal(t, OptionCount, DistinctCount(opts))
		assert.NotContains(t, opts, "Dog")
		assert.NotContains(t, opts, " DOG ")
	}

	_, err := g.BuildOptions("dog", []string{"Dog", "cat", "bird"}, OptionCount)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTooFewOptions))
}

func TestAnswerKey(t *testing.T) {
	assert.Equal(t, AnswerKey("essen"), AnswerKey(" Essen "))
	assert.Equal(t, AnswerKey("strasse"), AnswerKey("STRASSE"))
	assert.NotEqual(t, AnswerKey("dog"), AnswerKey("dogs"))
}
