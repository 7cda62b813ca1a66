package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ceylinesp/quizlet/internal/model"
)

const sparkChars = " .:-=+*#%@"

// FormatAccuracyReport renders every pair with its accuracy to two decimals.
func FormatAccuracyReport(pairs []model.WordPair, acc *Accuracy) string {
	var b strings.Builder
	if err := RenderAccuracyReport(&b, pairs, acc); err != nil {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderAccuracyReport prints the accuracy table in dataset order.
func RenderAccuracyReport(w io.Writer, pairs []model.WordPair, acc *Accuracy) error {
	if len(pairs) == 0 {
		_, err := fmt.Fprintln(w, "No word pairs loaded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Accuracy Report"); err != nil {
		return err
	}
	headers := []string{"Term", "Translation", "Accuracy", "Correct", "Attempted"}
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rec, _ := acc.Record(p.Term)
		rows = append(rows, []string{
			p.Term,
			p.Translation,
			fmt.Sprintf("%.2f", rec.Accuracy()),
			fmt.Sprintf("%d", rec.Correct),
			fmt.Sprintf("%d", rec.Attempted),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true}))
}

// RenderSelection prints the selected pairs with their current accuracy.
func RenderSelection(w io.Writer, selection []model.WordPair, acc *Accuracy) error {
	headers := []string{"#", "Term", "Translation", "Accuracy"}
	rows := make([][]string, 0, len(selection))
	for i, p := range selection {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			p.Term,
			p.Translation,
			fmt.Sprintf("%.2f", acc.AccuracyOf(p.Term)),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 3: true}))
}

// RoundAccuracy returns the share of correct answers in a round.
func RoundAccuracy(r model.RoundAggregate) float64 {
	if r.Questions == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Questions)
}

// OverallAccuracy pools every question across rounds.
func OverallAccuracy(rounds []model.RoundAggregate) float64 {
	var correct, total int
	for _, r := range rounds {
		correct += r.Correct
		total += r.Questions
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// RenderRounds prints a summary of stored rounds with an accuracy trend.
func RenderRounds(w io.Writer, rounds []model.RoundAggregate, window int) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	accs := make([]float64, len(rounds))
	for i, r := range rounds {
		accs[i] = RoundAccuracy(r)
	}
	if _, err := fmt.Fprintln(w, "Rounds"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Count: %d\n", len(rounds)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall accuracy: %.2f%%\n", OverallAccuracy(rounds)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Trend: [%s]\n\n", Sparkline(MovingAverage(accs, window))); err != nil {
		return err
	}
	headers := []string{"Ended", "Dataset", "Words", "Questions", "Accuracy"}
	rows := make([][]string, 0, len(rounds))
	for _, r := range rounds {
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			r.DatasetPath,
			fmt.Sprintf("%d", r.Terms),
			fmt.Sprintf("%d", r.Questions),
			fmt.Sprintf("%.2f%%", RoundAccuracy(r)*100),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true}))
}

// RenderMostMissed prints terms with the most incorrect attempts.
func RenderMostMissed(w io.Writer, aggs []model.TermAggregate) error {
	if len(aggs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nMost missed"); err != nil {
		return err
	}
	headers := []string{"Term", "Missed", "Attempted"}
	rows := make([][]string, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []string{a.Term, fmt.Sprintf("%d", a.Attempted-a.Correct), fmt.Sprintf("%d", a.Attempted)})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true}))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
