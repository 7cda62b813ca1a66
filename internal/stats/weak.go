package stats

import (
	"sort"

	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/model"
)

// SelectWeakest returns the k lowest-accuracy pairs. Ties keep dataset order.
// A non-positive k selects every pair.
func SelectWeakest(pairs []model.WordPair, acc *Accuracy, k int) ([]model.WordPair, error) {
	if len(pairs) == 0 {
		return nil, apperrors.NewEmptyDatasetError()
	}
	candidates := make([]model.WordPair, len(pairs))
	copy(candidates, pairs)
	sort.SliceStable(candidates, func(i, j int) bool {
		return acc.AccuracyOf(candidates[i].Term) < acc.AccuracyOf(candidates[j].Term)
	})
	if k <= 0 || k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], nil
}

// MostMissed returns up to n terms ordered by most incorrect attempts.
func MostMissed(aggs []model.TermAggregate, n int) []model.TermAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.TermAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Attempted-agg.Correct > 0 {
			items = append(items, agg)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		mi := items[i].Attempted - items[i].Correct
		mj := items[j].Attempted - items[j].Correct
		if mi == mj {
			return items[i].Term < items[j].Term
		}
		return mi > mj
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
