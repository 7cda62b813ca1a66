// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ceylinesp/quizlet/internal/logger"
	"github.com/ceylinesp/quizlet/internal/model"
	"github.com/ceylinesp/quizlet/internal/round"
	statsPkg "github.com/ceylinesp/quizlet/internal/stats"
)

// History provides stored rounds for the footer.
type History interface {
	ListRounds(ctx context.Context, filter model.RoundFilter) ([]model.RoundAggregate, error)
}

// Model implements the Bubble Tea drill UI and the round.Shell contract.
type Model struct {
	ctx         context.Context
	engine      *round.Engine
	history     History
	datasetPath string

	width  int
	height int

	input    textinput.Model
	prompt   string
	options  []string
	cursor   int
	feedback string
	ok       bool
	notices  []string
	report   string

	lastAcc    float64
	hasLast    bool
	allCorrect int
	allTotal   int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	goodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cursorStyle    = pendingStyle.Copy().Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel builds the UI and starts a round over selection. A failed start
// returns the error after the notice was recorded.
func NewModel(ctx context.Context, engine *round.Engine, history History, datasetPath string, selection []model.WordPair) (*Model, error) {
	input := textinput.New()
	input.Placeholder = "answer"
	input.Prompt = "> "
	input.Focus()

	m := &Model{
		ctx:         ctx,
		engine:      engine,
		history:     history,
		datasetPath: datasetPath,
		input:       input,
	}
	m.loadFooterStats()
	if err := engine.Start(ctx, m, selection); err != nil {
		return m, err
	}
	return m, nil
}

// ShowPrompt implements round.Shell.
func (m *Model) ShowPrompt(text string) {
	m.prompt = text
	m.options = nil
	m.cursor = 0
}

// ShowOptions implements round.Shell.
func (m *Model) ShowOptions(options []string) {
	m.options = append([]string(nil), options...)
	m.cursor = 0
}

// ShowReport implements round.Shell.
func (m *Model) ShowReport(text string) {
	m.report = text
}

// NotifyError implements round.Shell.
func (m *Model) NotifyError(message string) {
	m.notices = append(m.notices, message)
}

// Notices returns the messages reported by the engine.
func (m *Model) Notices() []string {
	return append([]string(nil), m.notices...)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.engine.State().InRound() {
				m.engine.Abandon()
			}
			return m, tea.Quit
		}
		if !m.engine.State().InRound() {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				return m, tea.Quit
			case tea.KeyRunes:
				if string(msg.Runes) == "q" {
					return m, tea.Quit
				}
			}
			return m, nil
		}
		q := m.engine.Current()
		if q.Modality == model.MultipleChoice && m.engine.State() == round.StateAwaitingAnswer {
			return m, m.handleChoiceKey(msg)
		}
		return m, m.handleWrittenKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleWrittenKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		answer := m.input.Value()
		m.submitWritten(&answer)
		return nil
	case tea.KeyEsc:
		m.submitWritten(nil)
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleChoiceKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
	case tea.KeyDown, tea.KeyTab:
		m.moveCursor(1)
	case tea.KeyEnter:
		m.submitChoice(m.cursor)
	case tea.KeyRunes:
		key := string(msg.Runes)
		switch key {
		case "k":
			m.moveCursor(-1)
		case "j":
			m.moveCursor(1)
		default:
			if len(key) == 1 && key[0] >= '1' && int(key[0]-'0') <= len(m.options) {
				m.submitChoice(int(key[0] - '1'))
			}
		}
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.options) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.options)) % len(m.options)
}

func (m *Model) submitWritten(answer *string) {
	fb, err := m.engine.SubmitWrittenAnswer(m.ctx, answer)
	m.input.Reset()
	if err != nil {
		logger.FromContext(m.ctx).WithPrefix("tui").Warn("written answer rejected: %v", err)
		return
	}
	m.applyFeedback(fb)
}

func (m *Model) submitChoice(idx int) {
	if idx < 0 || idx >= len(m.options) {
		return
	}
	fb, err := m.engine.SubmitChoice(m.ctx, m.options[idx])
	if err != nil {
		logger.FromContext(m.ctx).WithPrefix("tui").Warn("choice rejected: %v", err)
		return
	}
	m.applyFeedback(fb)
}

func (m *Model) applyFeedback(fb round.Feedback) {
	m.ok = fb.Correct
	switch {
	case fb.Correct && fb.Removed:
		m.feedback = "Correct! Word learned for this round."
	case fb.Correct:
		m.feedback = "Correct!"
	case fb.Correcting && fb.Cancelled:
		m.feedback = "Skipped. Type the correct answer to continue."
	case fb.Correcting:
		m.feedback = "Incorrect. Type the correct answer to continue."
	default:
		m.feedback = fmt.Sprintf("Incorrect. The correct answer was %q.", fb.Expected)
	}
	if fb.Complete {
		m.finishRound()
	}
}

func (m *Model) loadFooterStats() {
	if m.history == nil {
		return
	}
	rounds, err := m.history.ListRounds(m.ctx, model.RoundFilter{DatasetPath: m.datasetPath})
	if err != nil {
		logger.FromContext(m.ctx).WithPrefix("tui").Warn("failed to load round history: %v", err)
		return
	}
	if len(rounds) == 0 {
		return
	}
	m.lastAcc = statsPkg.RoundAccuracy(rounds[len(rounds)-1])
	m.hasLast = true
	for _, r := range rounds {
		m.allCorrect += r.Correct
		m.allTotal += r.Questions
	}
}

func (m *Model) finishRound() {
	summary := m.engine.Summary()
	total := len(summary.Attempts)
	if total == 0 {
		return
	}
	m.lastAcc = float64(summary.CorrectCount()) / float64(total)
	m.hasLast = true
	m.allCorrect += summary.CorrectCount()
	m.allTotal += total
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.engine.State().InRound() {
		segments = append(segments, fmt.Sprintf("Remaining %d", m.engine.Remaining()))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last round %.1f%%", m.lastAcc*100))
	}
	if m.allTotal > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f%%", float64(m.allCorrect)/float64(m.allTotal)*100))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := int(float64(m.width) * 0.70)
	if m.width == 0 {
		contentWidth = 0
	} else if contentWidth < 1 {
		contentWidth = 1
	}

	var sections []string
	for _, notice := range m.notices {
		sections = append(sections, wrapText(notice, contentWidth, incorrectStyle))
	}
	if m.engine.State() == round.StateComplete {
		sections = append(sections, m.report, footerStyle.Render("Press enter to exit."))
	} else if m.engine.State().InRound() {
		sections = append(sections, m.renderQuestion(contentWidth)...)
	} else {
		sections = append(sections, footerStyle.Render("No round in progress. Press enter to exit."))
	}
	content := strings.Join(sections, "\n\n")

	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderQuestion(width int) []string {
	var sections []string
	if m.feedback != "" {
		style := incorrectStyle
		if m.ok {
			style = goodStyle
		}
		sections = append(sections, wrapText(m.feedback, width, style))
	}
	sections = append(sections, wrapText(m.prompt, width, promptStyle))

	if m.engine.State() == round.StateAwaitingCorrection {
		q := m.engine.Current()
		echo := buildRetypeRunes([]rune(q.Answer), []rune(m.input.Value()))
		sections = append(sections, wrapStyledRunes(echo, width), m.input.View())
		return sections
	}
	if len(m.options) > 0 {
		lines := make([]string, len(m.options))
		for i, opt := range m.options {
			line := fmt.Sprintf("%d. %s", i+1, opt)
			if i == m.cursor {
				lines[i] = selectedStyle.Render("› " + line)
			} else {
				lines[i] = pendingStyle.Render("  " + line)
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
		return sections
	}
	sections = append(sections, m.input.View(), footerStyle.Render("enter: submit  esc: give up"))
	return sections
}
