package round

import (
	"context"

	"github.com/ceylinesp/quizlet/internal/dataset"
	"github.com/ceylinesp/quizlet/internal/model"
)

// Shell renders what the engine asks for. Answers flow back through
// Engine.SubmitWrittenAnswer and Engine.SubmitChoice.
type Shell interface {
	ShowPrompt(text string)
	ShowOptions(options []string)
	ShowReport(text string)
	NotifyError(message string)
}

// Persister writes the dataset once a round completes.
type Persister interface {
	Save(ds *dataset.Dataset) error
}

// Recorder stores the summary of a completed round.
type Recorder interface {
	InsertRound(ctx context.Context, summary model.RoundSummary) error
}

// Feedback describes the outcome of one submission.
type Feedback struct {
	// Correct is true when the answer matched.
	Correct bool
	// Cancelled is true for a declined written answer.
	Cancelled bool
	// Expected is the correct answer of the question.
	Expected string
	// Removed is true when the term left the pool.
	Removed bool
	// Correcting is true while the learner must retype Expected.
	Correcting bool
	// Complete is true when the round finished with this submission.
	Complete bool
}
