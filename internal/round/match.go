package round

import "github.com/ceylinesp/quizlet/internal/generator"

// Matches reports whether answer equals expected ignoring case and
// surrounding whitespace.
func Matches(answer, expected string) bool {
	return generator.AnswerKey(answer) == generator.AnswerKey(expected)
}
