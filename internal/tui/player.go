// Package tui holds the terminal quiz player and flashcard reviewer used by
// quizctl. Both are Bubble Tea models driven by the application services.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quizforge/internal/dto"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SessionDriver is the part of the session service the player needs.
type SessionDriver interface {
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	SelectOption(ctx context.Context, id string, optionIndex int) (*dto.SessionResponse, error)
	Next(ctx context.Context, id string) (*dto.SessionResponse, error)
	Prev(ctx context.Context, id string) (*dto.SessionResponse, error)
	ToggleFlag(ctx context.Context, id string) (*dto.FlagResponse, error)
	Submit(ctx context.Context, id string) (*dto.SessionResponse, error)
}

// Analyzer produces the results report of a finished session.
type Analyzer interface {
	AnalyzeSession(ctx context.Context, sessionID string) (*dto.AnalysisResponse, error)
}

// PlayerOptions configures NewPlayer.
type PlayerOptions struct {
	// TickInterval is how often the countdown is refreshed. Default 1s.
	TickInterval time.Duration
	// Analyzer is called once the session is done. Nil skips analysis.
	Analyzer Analyzer
}

// Player plays one session in the terminal.
type Player struct {
	ctx      context.Context
	driver   SessionDriver
	analyzer Analyzer
	interval time.Duration

	state    *dto.SessionResponse
	report   *dto.AnalysisResponse
	cursor   int
	err      error
	busy     bool
	spinner  spinner.Model
	progress progress.Model
}

type tickMsg time.Time

// stateMsg carries a session state. poll marks a timer refresh as opposed
// to the reply of a key action.
type stateMsg struct {
	state *dto.SessionResponse
	err   error
	poll  bool
}

type flagMsg struct {
	err error
}

type reportMsg struct {
	report *dto.AnalysisResponse
	err    error
}

// NewPlayer wraps an already started session.
func NewPlayer(ctx context.Context, driver SessionDriver, state *dto.SessionResponse, opts PlayerOptions) Player {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Player{
		ctx:      ctx,
		driver:   driver,
		analyzer: opts.Analyzer,
		interval: interval,
		state:    state,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// State returns the last session state the player saw.
func (m Player) State() *dto.SessionResponse { return m.state }

// Report returns the analysis, if it finished.
func (m Player) Report() *dto.AnalysisResponse { return m.report }

func (m Player) done() bool { return m.state != nil && m.state.Phase == "done" }

func (m Player) Init() tea.Cmd {
	return tea.Batch(tick(m.interval), m.spinner.Tick)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Player) call(fn func(ctx context.Context, id string) (*dto.SessionResponse, error)) tea.Cmd {
	ctx, id := m.ctx, m.state.ID
	return func() tea.Msg {
		state, err := fn(ctx, id)
		return stateMsg{state: state, err: err}
	}
}

func (m Player) refresh() tea.Cmd {
	ctx, id, driver := m.ctx, m.state.ID, m.driver
	return func() tea.Msg {
		state, err := driver.GetSession(ctx, id)
		return stateMsg{state: state, err: err, poll: true}
	}
}

func (m Player) analyze() tea.Cmd {
	ctx, id, analyzer := m.ctx, m.state.ID, m.analyzer
	return func() tea.Msg {
		report, err := analyzer.AnalyzeSession(ctx, id)
		return reportMsg{report: report, err: err}
	}
}

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done() {
			return m, nil
		}
		return m, tea.Batch(m.refresh(), tick(m.interval))

	case stateMsg:
		if msg.poll {
			// A refresh started before a pending action may be stale.
			if m.busy {
				return m, nil
			}
		} else {
			m.busy = false
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.state == nil {
			return m, nil
		}
		wasDone := m.done()
		if msg.state.CurrentIndex != m.state.CurrentIndex {
			m.cursor = 0
		}
		m.state = msg.state
		m.err = nil
		if !wasDone && m.done() && m.analyzer != nil {
			m.busy = true
			return m, m.analyze()
		}
		return m, nil

	case flagMsg:
		m.err = msg.err
		return m, m.refresh()

	case reportMsg:
		m.busy = false
		m.report, m.err = msg.report, msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" || key == "esc" {
		return m, tea.Quit
	}
	if m.done() {
		if key == "enter" && !m.busy {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	options := 0
	if q, ok := m.currentQuestion(); ok {
		options = len(q.Options)
	}

	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < options-1 {
			m.cursor++
		}
	case "enter", " ", "space":
		m.busy = true
		return m, m.selectOption(m.cursor)
	case "right", "l", "n":
		m.busy = true
		return m, m.call(m.driver.Next)
	case "left", "h", "p":
		m.busy = true
		return m, m.call(m.driver.Prev)
	case "f":
		ctx, id := m.ctx, m.state.ID
		return m, func() tea.Msg {
			_, err := m.driver.ToggleFlag(ctx, id)
			return flagMsg{err: err}
		}
	case "s":
		m.busy = true
		return m, m.call(m.driver.Submit)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= options {
			m.cursor = n - 1
			m.busy = true
			return m, m.selectOption(n - 1)
		}
	}
	return m, nil
}

func (m Player) selectOption(index int) tea.Cmd {
	return m.call(func(ctx context.Context, id string) (*dto.SessionResponse, error) {
		return m.driver.SelectOption(ctx, id, index)
	})
}

func (m Player) currentQuestion() (dto.QuestionDTO, bool) {
	if m.state == nil || m.state.CurrentIndex < 0 || m.state.CurrentIndex >= len(m.state.Questions) {
		return dto.QuestionDTO{}, false
	}
	return m.state.Questions[m.state.CurrentIndex], true
}

func (m Player) View() string {
	if m.state == nil {
		return m.spinner.View() + " Loading quiz..."
	}
	if m.done() {
		return m.resultView()
	}
	return m.questionView()
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func itoa(n int) string { return strconv.Itoa(n) }

func (m Player) questionView() string {
	s := m.state
	clock := formatClock(s.TimeRemaining)
	if s.TimeRemaining == 0 {
		clock = wrongStyle.Render(clock + " time is up, press s to submit")
	} else if s.TimeRemaining <= 60 {
		clock = warnStyle.Render(clock)
	}
	header := titleStyle.Render(s.Title) + "  " + mutedStyle.Render(s.Topic) + "  " + clock

	answered := float64(len(s.Answers))
	total := float64(len(s.Questions))
	bar := m.progress.ViewAs(answered / max(total, 1))

	cells := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		cells[i] = statusGlyph(st, i+1)
	}
	nav := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	q, _ := m.currentQuestion()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("Q%d. %s", s.CurrentIndex+1, q.Question)))
	chosen, hasAnswer := s.Answers[q.ID]
	for i, opt := range q.Options {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%d) %s", i+1, opt)
		if hasAnswer && chosen == i {
			line = selectedStyle.Render(line + "  *")
		}
		b.WriteString(prefix + line + "\n")
	}

	if fb := s.Feedback; fb != nil {
		b.WriteString("\n")
		if fb.Correct {
			b.WriteString(correctStyle.Render("Correct!"))
		} else {
			b.WriteString(wrongStyle.Render("Wrong. Answer: " + fb.CorrectAnswer))
		}
		if fb.Explanation != "" {
			b.WriteString("\n" + mutedStyle.Render(fb.Explanation))
		}
		b.WriteString("\n")
	}
	if s.Interactive {
		fmt.Fprintf(&b, "\nStreak %d  Cards queued %d\n", s.Streak, len(s.FlashcardQueue))
	}
	if m.err != nil {
		b.WriteString("\n" + wrongStyle.Render(m.err.Error()) + "\n")
	}

	help := mutedStyle.Render("↑/↓ move  enter select  ←/→ prev/next  f flag  s submit  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, bar, nav, "", b.String(), help)
}

func (m Player) resultView() string {
	s := m.state
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title+" finished") + "\n\n")
	if r := s.Result; r != nil {
		fmt.Fprintf(&b, "Score %d / %d\n", r.Score, r.TotalQuestions)
		if !r.Saved {
			b.WriteString(mutedStyle.Render("Result was not saved.") + "\n")
		}
		for _, w := range r.WrongAnswers {
			answer := w.UserAnswer
			if answer == "" {
				answer = "(unanswered)"
			}
			fmt.Fprintf(&b, "%s %s\n   you: %s  correct: %s\n", wrongStyle.Render("x"), w.Question, answer, w.CorrectAnswer)
		}
	}

	switch {
	case m.busy:
		b.WriteString("\n" + m.spinner.View() + " Analyzing results...\n")
	case m.report != nil:
		b.WriteString("\n" + m.report.Feedback + "\n")
		fmt.Fprintf(&b, "%d flashcards proposed\n", len(m.report.Flashcards))
	}
	if m.err != nil {
		b.WriteString("\n" + wrongStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("enter/q exit"))
	return b.String()
}
