package stats

import (
	"context"

	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/store"
)

// HistoryReport contains precomputed data for history rendering.
type HistoryReport struct {
	Rounds     []model.RoundAggregate
	TermAggs   []model.TermAggregate
	MostMissed []model.TermAggregate
}

// BuildHistoryReport loads rounds and per-term aggregates for rendering.
func BuildHistoryReport(ctx context.Context, st *store.Store, filter model.RoundFilter, missedTop int) (HistoryReport, error) {
	rounds, err := st.ListRounds(ctx, filter)
	if err != nil {
		return HistoryReport{}, err
	}
	termAggs, err := st.ListTermAggregates(ctx, roundIDs(rounds))
	if err != nil {
		return HistoryReport{}, err
	}
	return HistoryReport{
		Rounds:     rounds,
		TermAggs:   termAggs,
		MostMissed: MostMissed(termAggs, missedTop),
	}, nil
}

func roundIDs(rounds []model.RoundAggregate) []string {
	ids := make([]string, len(rounds))
	for i, r := range rounds {
		ids[i] = r.ID
	}
	return ids
}
