package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/store"
)

func TestBuildHistoryReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "quizlet.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		summary := model.RoundSummary{
			ID:          store.NewRoundID(),
			StartedAt:   start,
			EndedAt:     start.Add(30 * time.Second),
			DatasetPath: "words.csv",
			Terms:       []string{"Hund", "Katze"},
			Attempts: []model.Attempt{
				{Term: "Hund", Correct: false, AnsweredAt: start},
				{Term: "Hund", Correct: true, AnsweredAt: start},
				{Term: "Katze", Correct: true, AnsweredAt: start},
			},
		}
		if err := st.InsertRound(ctx, summary); err != nil {
			t.Fatalf("insert round: %v", err)
		}
		ids = append(ids, summary.ID)
	}

	report, err := BuildHistoryReport(ctx, st, model.RoundFilter{Last: 2}, 5)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(report.Rounds))
	}
	if report.Rounds[0].ID != ids[1] || report.Rounds[1].ID != ids[2] {
		t.Fatalf("unexpected round ids: %+v", report.Rounds)
	}
	if len(report.TermAggs) != 2 {
		t.Fatalf("expected aggregates for 2 terms, got %d", len(report.TermAggs))
	}
	if len(report.MostMissed) != 1 || report.MostMissed[0].Term != "Hund" {
		t.Fatalf("expected Hund as most missed, got %+v", report.MostMissed)
	}

	var buf bytes.Buffer
	if err := RenderRounds(&buf, report.Rounds, 5); err != nil {
		t.Fatalf("render rounds: %v", err)
	}
	if err := RenderMostMissed(&buf, report.MostMissed); err != nil {
		t.Fatalf("render most missed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Count: 2", "Overall accuracy: 66.67%", "Most missed", "Hund"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
