package tui

import (
	"fmt"
	"strings"

	"quizforge/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Review flips through a deck of flashcards. Cards can be marked as known;
// the rest are reported by Remaining when the reviewer exits.
type Review struct {
	title   string
	cards   []domain.Flashcard
	index   int
	flipped bool
	known   map[int]bool
}

func NewReview(title string, cards []domain.Flashcard) Review {
	return Review{title: title, cards: cards, known: map[int]bool{}}
}

// Remaining returns the cards not marked as known, in deck order.
func (m Review) Remaining() []domain.Flashcard {
	out := make([]domain.Flashcard, 0, len(m.cards))
	for i, c := range m.cards {
		if !m.known[i] {
			out = append(out, c)
		}
	}
	return out
}

func (m Review) Init() tea.Cmd { return nil }

func (m Review) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case " ", "space", "enter":
		m.flipped = !m.flipped
	case "right", "l", "n":
		if m.index < len(m.cards)-1 {
			m.index++
			m.flipped = false
		}
	case "left", "h", "p":
		if m.index > 0 {
			m.index--
			m.flipped = false
		}
	case "k":
		if len(m.cards) > 0 {
			m.known[m.index] = !m.known[m.index]
		}
	}
	return m, nil
}

func (m Review) View() string {
	if len(m.cards) == 0 {
		return mutedStyle.Render("No flashcards to review.") + "\n"
	}
	card := m.cards[m.index]
	face, label := card.Front, "front"
	if m.flipped {
		face, label = card.Back, "back"
	}
	status := fmt.Sprintf("%d / %d  %s", m.index+1, len(m.cards), label)
	if m.known[m.index] {
		status += "  " + correctStyle.Render("known")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(mutedStyle.Render(status) + "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		b.String(),
		cardStyle.Render(face),
		mutedStyle.Render("space flip  ←/→ prev/next  k known  q quit"),
	)
}
