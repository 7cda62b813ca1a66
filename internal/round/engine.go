// Package round runs a drill round over a selection of word pairs.
package round

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ceylinesp/quizlet/internal/dataset"
	apperrors "github.com/ceylinesp/quizlet/internal/errors"
	"github.com/ceylinesp/quizlet/internal/generator"
	"github.com/ceylinesp/quizlet/internal/logger"
	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/stats"
)

// DefaultThreshold is the number of correct answers that retires a term.
const DefaultThreshold = 2

// State is the phase of the engine.
type State int

const (
	// StateIdle means no round is running.
	StateIdle State = iota
	// StateAwaitingAnswer waits for an answer to the current question.
	StateAwaitingAnswer
	// StateAwaitingCorrection waits for the learner to retype the correct answer.
	StateAwaitingCorrection
	// StateComplete means the pool emptied and the round was reported.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting-answer"
	case StateAwaitingCorrection:
		return "awaiting-correction"
	case StateComplete:
		return "complete"
	default:
		return "idle"
	}
}

// InRound reports whether a question is outstanding.
func (s State) InRound() bool {
	return s == StateAwaitingAnswer || s == StateAwaitingCorrection
}

var (
	// ErrNotInRound is returned when an answer arrives without a question.
	ErrNotInRound = errors.New("no question is awaiting an answer")
	// ErrWrongModality is returned when the answer kind does not fit the question.
	ErrWrongModality = errors.New("answer does not match the question modality")
	// ErrRoundActive is returned when starting while a round runs.
	ErrRoundActive = errors.New("a round is already in progress")
)

// Option configures an Engine.
type Option func(*Engine)

// WithDirection sets which field is asked.
func WithDirection(d model.Direction) Option {
	return func(e *Engine) {
		e.direction = d
	}
}

// WithThreshold sets how many correct answers retire a term.
func WithThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.threshold = n
		}
	}
}

// WithModalityMode restricts question modalities.
func WithModalityMode(m model.ModalityMode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithPersister sets where the dataset is saved on completion.
func WithPersister(p Persister) Option {
	return func(e *Engine) {
		e.persister = p
	}
}

// WithRecorder sets where round summaries are stored.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithDatasetPath labels round summaries with the dataset location.
func WithDatasetPath(path string) Option {
	return func(e *Engine) {
		e.datasetPath = path
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine is the round state machine. It is not safe for concurrent use.
type Engine struct {
	ds          *dataset.Dataset
	gen         *generator.Generator
	direction   model.Direction
	threshold   int
	mode        model.ModalityMode
	persister   Persister
	recorder    Recorder
	datasetPath string
	now         func() time.Time

	state        State
	shell        Shell
	pool         []string
	roundCorrect map[string]int
	last         string
	current      *model.Question
	choiceOK     bool
	summary      model.RoundSummary
	report       string
}

// New returns an idle engine over ds.
func New(ds *dataset.Dataset, gen *generator.Generator, opts ...Option) *Engine {
	e := &Engine{
		ds:        ds,
		gen:       gen,
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current phase.
func (e *Engine) State() State {
	return e.state
}

// Current returns the outstanding question, or nil.
func (e *Engine) Current() *model.Question {
	if !e.state.InRound() {
		return nil
	}
	q := *e.current
	return &q
}

// Remaining returns the number of terms left in the pool.
func (e *Engine) Remaining() int {
	return len(e.pool)
}

// PoolTerms returns a copy of the pool.
func (e *Engine) PoolTerms() []string {
	out := make([]string, len(e.pool))
	copy(out, e.pool)
	return out
}

// RoundCorrect returns the correct answers for term in this round.
func (e *Engine) RoundCorrect(term string) int {
	return e.roundCorrect[term]
}

// Summary returns the attempts recorded so far.
func (e *Engine) Summary() model.RoundSummary {
	s := e.summary
	s.Terms = append([]string(nil), e.summary.Terms...)
	s.Attempts = append([]model.Attempt(nil), e.summary.Attempts...)
	return s
}

// Report returns the accuracy report of the last completed round.
func (e *Engine) Report() string {
	return e.report
}

// Start begins a round over selection and issues the first question.
func (e *Engine) Start(ctx context.Context, shell Shell, selection []model.WordPair) error {
	log := logger.FromContext(ctx).WithPrefix("round")
	if e.state.InRound() {
		return ErrRoundActive
	}
	if len(selection) == 0 {
		err := apperrors.NewEmptySelectionError()
		shell.NotifyError(apperrors.Notice(err))
		e.state = StateIdle
		return err
	}

	e.shell = shell
	e.pool = e.pool[:0]
	e.roundCorrect = make(map[string]int, len(selection))
	e.last = ""
	e.report = ""
	for _, p := range selection {
		if _, dup := e.roundCorrect[p.Term]; dup {
			continue
		}
		e.roundCorrect[p.Term] = 0
		e.pool = append(e.pool, p.Term)
	}
	e.summary = model.RoundSummary{
		ID:          uuid.NewString(),
		StartedAt:   e.now(),
		DatasetPath: e.datasetPath,
		Direction:   e.direction,
		Terms:       append([]string(nil), e.pool...),
	}

	have := generator.DistinctCount(e.answerValues())
	e.choiceOK = have >= generator.OptionCount
	if !e.choiceOK && e.mode != model.ModeWritten {
		shell.NotifyError(apperrors.Notice(apperrors.NewTooFewOptionsError(have, generator.OptionCount)) + ". Asking written questions only.")
	}
	log.WithField("round", e.summary.ID).Info("round started with %d terms", len(e.pool))
	e.nextQuestion()
	return nil
}

// Abandon drops the running round without saving.
func (e *Engine) Abandon() {
	e.state = StateIdle
	e.current = nil
	e.pool = nil
}

// SubmitWrittenAnswer scores a written answer. A nil answer is a
// cancellation and counts as incorrect. During correction it checks the
// retyped answer and records nothing.
func (e *Engine) SubmitWrittenAnswer(ctx context.Context, answer *string) (Feedback, error) {
	switch e.state {
	case StateAwaitingCorrection:
		return e.correct(ctx, answer), nil
	case StateAwaitingAnswer:
	default:
		return Feedback{}, ErrNotInRound
	}
	if e.current.Modality != model.Written {
		return Feedback{}, ErrWrongModality
	}
	ok := answer != nil && Matches(*answer, e.current.Answer)
	fb := e.score(ctx, ok)
	fb.Cancelled = answer == nil
	if !ok {
		e.state = StateAwaitingCorrection
		fb.Correcting = true
		e.shell.ShowPrompt(e.correctionPrompt())
		return fb, nil
	}
	fb.Complete = e.advance(ctx)
	return fb, nil
}

// SubmitChoice scores a multiple-choice answer.
func (e *Engine) SubmitChoice(ctx context.Context, choice string) (Feedback, error) {
	if e.state != StateAwaitingAnswer {
		return Feedback{}, ErrNotInRound
	}
	if e.current.Modality != model.MultipleChoice {
		return Feedback{}, ErrWrongModality
	}
	fb := e.score(ctx, Matches(choice, e.current.Answer))
	fb.Complete = e.advance(ctx)
	return fb, nil
}

func (e *Engine) score(ctx context.Context, ok bool) Feedback {
	term := e.current.Term
	e.ds.Accuracy.RecordAttempt(term, ok)
	e.summary.Attempts = append(e.summary.Attempts, model.Attempt{
		Term:       term,
		Modality:   e.current.Modality,
		Correct:    ok,
		AnsweredAt: e.now(),
	})
	fb := Feedback{Correct: ok, Expected: e.current.Answer}
	if ok {
		e.roundCorrect[term]++
		if e.roundCorrect[term] >= e.threshold {
			e.remove(term)
			fb.Removed = true
		}
	}
	logger.FromContext(ctx).WithPrefix("round").
		WithField("term", term).
		WithField("correct", ok).
		Debug("scored %s answer", e.current.Modality)
	return fb
}

func (e *Engine) correct(ctx context.Context, answer *string) Feedback {
	fb := Feedback{Expected: e.current.Answer}
	if answer == nil || !Matches(*answer, e.current.Answer) {
		fb.Correcting = true
		fb.Cancelled = answer == nil
		e.shell.ShowPrompt(e.correctionPrompt())
		return fb
	}
	fb.Complete = e.advance(ctx)
	return fb
}

func (e *Engine) correctionPrompt() string {
	return fmt.Sprintf("%s\nThe correct answer is %q. Type it to continue.", e.current.Prompt, e.current.Answer)
}

func (e *Engine) remove(term string) {
	for i, t := range e.pool {
		if t == term {
			e.pool = append(e.pool[:i], e.pool[i+1:]...)
			return
		}
	}
}

// advance issues the next question or completes the round. It reports
// whether the round completed.
func (e *Engine) advance(ctx context.Context) bool {
	if len(e.pool) > 0 {
		e.nextQuestion()
		return false
	}
	e.complete(ctx)
	return true
}

func (e *Engine) nextQuestion() {
	term := e.gen.PickTerm(e.pool, e.last)
	e.last = term
	pair, _ := e.ds.Pair(term)
	q := &model.Question{
		Term:     term,
		Prompt:   e.direction.Prompt(pair),
		Answer:   e.direction.Answer(pair),
		Modality: e.chooseModality(),
	}
	if q.Modality == model.MultipleChoice {
		opts, err := e.gen.BuildOptions(q.Answer, e.answerValues(), generator.OptionCount)
		if err != nil {
			q.Modality = model.Written
		} else {
			q.Options = opts
		}
	}
	e.current = q
	e.state = StateAwaitingAnswer
	e.shell.ShowPrompt(q.Prompt)
	if q.Modality == model.MultipleChoice {
		e.shell.ShowOptions(q.Options)
	}
}

func (e *Engine) chooseModality() model.Modality {
	if !e.choiceOK {
		return model.Written
	}
	switch e.mode {
	case model.ModeWritten:
		return model.Written
	case model.ModeChoice:
		return model.MultipleChoice
	default:
		return e.gen.ChooseModality()
	}
}

func (e *Engine) answerValues() []string {
	values := make([]string, len(e.ds.Pairs))
	for i, p := range e.ds.Pairs {
		values[i] = e.direction.Answer(p)
	}
	return values
}

func (e *Engine) complete(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("round")
	e.state = StateComplete
	e.current = nil
	e.summary.EndedAt = e.now()
	e.report = stats.FormatAccuracyReport(e.ds.Pairs, e.ds.Accuracy)
	e.shell.ShowReport(e.report)

	if e.persister != nil {
		if err := e.persister.Save(e.ds); err != nil {
			log.Error("failed to save dataset: %v", err)
			e.shell.NotifyError(apperrors.Notice(err))
		}
	}
	if e.recorder != nil {
		if err := e.recorder.InsertRound(ctx, e.summary); err != nil {
			log.Error("failed to record round: %v", err)
			e.shell.NotifyError(fmt.Sprintf("Failed to record round history: %v", err))
		}
	}
	log.WithField("round", e.summary.ID).Info("round complete: %d/%d correct", e.summary.CorrectCount(), len(e.summary.Attempts))
}
