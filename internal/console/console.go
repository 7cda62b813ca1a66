// Package console provides a plain line-based drill shell.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/round"
)

// Shell reads answers line by line and prints prompts and feedback.
type Shell struct {
	in  *bufio.Scanner
	out io.Writer

	options []string
	err     error
}

// New returns a shell reading from r and writing to w.
func New(r io.Reader, w io.Writer) *Shell {
	return &Shell{in: bufio.NewScanner(r), out: w}
}

// ShowPrompt implements round.Shell.
func (s *Shell) ShowPrompt(text string) {
	s.options = nil
	s.printf("\n%s\n", text)
}

// ShowOptions implements round.Shell.
func (s *Shell) ShowOptions(options []string) {
	s.options = append([]string(nil), options...)
	for i, opt := range options {
		s.printf("  %d. %s\n", i+1, opt)
	}
}

// ShowReport implements round.Shell.
func (s *Shell) ShowReport(text string) {
	s.printf("\n%s\n", text)
}

// NotifyError implements round.Shell.
func (s *Shell) NotifyError(message string) {
	s.printf("! %s\n", message)
}

func (s *Shell) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.out, format, args...)
}

// Run plays one round over selection. End of input abandons the round.
func (s *Shell) Run(ctx context.Context, engine *round.Engine, selection []model.WordPair) error {
	if err := engine.Start(ctx, s, selection); err != nil {
		return err
	}
	for engine.State().InRound() {
		if err := ctx.Err(); err != nil {
			engine.Abandon()
			return err
		}
		q := engine.Current()
		choice := q.Modality == model.MultipleChoice && engine.State() == round.StateAwaitingAnswer
		if choice {
			s.printf("choice> ")
		} else {
			s.printf("> ")
		}
		if !s.in.Scan() {
			engine.Abandon()
			s.printf("\nRound abandoned.\n")
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			return s.err
		}
		line := s.in.Text()

		var (
			fb  round.Feedback
			err error
		)
		if choice {
			fb, err = engine.SubmitChoice(ctx, s.resolveChoice(line))
		} else {
			var answer *string
			if strings.TrimSpace(line) != "" {
				answer = &line
			}
			fb, err = engine.SubmitWrittenAnswer(ctx, answer)
		}
		if err != nil {
			return err
		}
		s.printFeedback(fb)
	}
	return s.err
}

// resolveChoice maps "1".."n" to the option text. Anything else is
// returned as typed.
func (s *Shell) resolveChoice(line string) string {
	line = strings.TrimSpace(line)
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(s.options) {
		return s.options[n-1]
	}
	return line
}

func (s *Shell) printFeedback(fb round.Feedback) {
	switch {
	case fb.Correct && fb.Removed:
		s.printf("Correct! Word learned for this round.\n")
	case fb.Correct:
		s.printf("Correct!\n")
	case fb.Correcting:
		// the correction prompt already shows the answer
	default:
		s.printf("Incorrect. The correct answer was %q.\n", fb.Expected)
	}
}
