package tui

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ceylinesp/quizlet/internal/dataset"
	"github.com/ceylinesp/quizlet/internal/generator"
	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/round"
)

type fakeHistory struct {
	rounds []model.RoundAggregate
}

func (f fakeHistory) ListRounds(context.Context, model.RoundFilter) ([]model.RoundAggregate, error) {
	return f.rounds, nil
}

func newTestModel(t *testing.T, mode model.ModalityMode, history History, n int) (*Model, *dataset.Dataset) {
	t.Helper()
	ds := dataset.New([]model.WordPair{
		{Term: "Hund", Translation: "dog"},
		{Term: "Katze", Translation: "cat"},
		{Term: "Maus", Translation: "mouse"},
		{Term: "Vogel", Translation: "bird"},
	})
	gen := generator.NewWithSource(rand.New(rand.NewSource(1)))
	engine := round.New(ds, gen, round.WithModalityMode(mode), round.WithThreshold(1))
	m, err := NewModel(context.Background(), engine, history, "words.csv", ds.Pairs[:n])
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m, ds
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestWrittenAnswerFlow(t *testing.T) {
	m, ds := newTestModel(t, model.ModeWritten, nil, 1)
	if m.prompt != "Hund" {
		t.Fatalf("expected Hund prompt, got %q", m.prompt)
	}

	typeText(m, "cat")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.engine.State() != round.StateAwaitingCorrection {
		t.Fatalf("expected correction state, got %s", m.engine.State())
	}
	if !strings.Contains(m.feedback, "Incorrect") {
		t.Fatalf("unexpected feedback %q", m.feedback)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input reset after submit")
	}

	typeText(m, "DOG")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.engine.State() != round.StateAwaitingAnswer {
		t.Fatalf("expected next question, got %s", m.engine.State())
	}

	typeText(m, "dog")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.engine.State() != round.StateComplete {
		t.Fatalf("expected complete round, got %s", m.engine.State())
	}
	if !strings.Contains(m.View(), "Accuracy Report") {
		t.Fatalf("expected report in view:\n%s", m.View())
	}
	rec, _ := ds.Accuracy.Record("Hund")
	if rec.Correct != 1 || rec.Attempted != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command after report")
	}
}

func TestEscCancelsWrittenAnswer(t *testing.T) {
	m, ds := newTestModel(t, model.ModeWritten, nil, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !strings.HasPrefix(m.feedback, "Skipped") {
		t.Fatalf("unexpected feedback %q", m.feedback)
	}
	rec, _ := ds.Accuracy.Record("Hund")
	if rec.Attempted != 1 || rec.Correct != 0 {
		t.Fatalf("cancel must count as incorrect attempt, got %+v", rec)
	}
}

func TestChoiceByNumber(t *testing.T) {
	m, _ := newTestModel(t, model.ModeChoice, nil, 2)
	if len(m.options) != generator.OptionCount {
		t.Fatalf("expected %d options, got %v", generator.OptionCount, m.options)
	}
	q := m.engine.Current()
	idx := -1
	for i, opt := range m.options {
		if opt == q.Answer {
			idx = i
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune('1' + idx)}})
	if !m.ok || m.engine.Remaining() != 1 {
		t.Fatalf("expected correct choice to retire the term, feedback %q", m.feedback)
	}
}

func TestChoiceCursorWraps(t *testing.T) {
	m, _ := newTestModel(t, model.ModeChoice, nil, 2)
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != len(m.options)-1 {
		t.Fatalf("expected cursor to wrap to last option, got %d", m.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 0 {
		t.Fatalf("expected cursor back at first option, got %d", m.cursor)
	}
}

func TestCtrlCAbandons(t *testing.T) {
	m, _ := newTestModel(t, model.ModeWritten, nil, 2)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.engine.State() != round.StateIdle {
		t.Fatalf("expected idle after abandon, got %s", m.engine.State())
	}
}

func TestRenderFooterFormats(t *testing.T) {
	history := fakeHistory{rounds: []model.RoundAggregate{
		{EndedAt: time.Unix(0, 0), Questions: 10, Correct: 7},
		{EndedAt: time.Unix(60, 0), Questions: 6, Correct: 5},
	}}
	m, _ := newTestModel(t, model.ModeWritten, history, 2)
	out := m.renderFooter()
	for _, want := range []string{"Remaining 2", "Last round 83.3%", "All-time 75.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestNewModelEmptySelection(t *testing.T) {
	ds := dataset.New(nil)
	engine := round.New(ds, generator.New())
	m, err := NewModel(context.Background(), engine, nil, "words.csv", nil)
	if err == nil {
		t.Fatalf("expected error for empty selection")
	}
	if len(m.Notices()) != 1 {
		t.Fatalf("expected one notice, got %v", m.Notices())
	}
}
