package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the requested difficulty of a generated quiz.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// ParseDifficulty normalizes s, falling back to medium for an empty value.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return d, nil
	default:
		return "", NewFieldError("difficulty", fmt.Sprintf("unsupported difficulty %q", s))
	}
}

// TopicSource turns a topic request into generation source text.
func TopicSource(topic string, difficulty Difficulty, count int) string {
	return fmt.Sprintf("Generate a %s difficulty quiz about %s with %d questions.", difficulty, topic, count)
}

// Titles and topics given to quizzes generated from pasted notes.
const (
	NotesQuizTitle = "Notes Analysis"
	NotesQuizTopic = "Imported Content"
)

// CustomQuizID addresses the ephemeral quiz held in the scratch slot.
const CustomQuizID = "custom"

// Question is a single multiple-choice item. IDs are 1-based and
// sequential within a quiz.
type Question struct {
	ID          int      `json:"id" yaml:"id"`
	Question    string   `json:"question" yaml:"question"`
	Options     []string `json:"options" yaml:"options"`
	Answer      string   `json:"answer" yaml:"answer"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Validate checks the question invariants. The answer must be one of the
// options; no repair is attempted.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewFieldError("question", "question text is required")
	}
	if len(q.Options) < 2 {
		return NewFieldError("options", fmt.Sprintf("question %q needs at least 2 options, got %d", q.Question, len(q.Options)))
	}
	seen := make(map[string]struct{}, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return NewFieldError("options", fmt.Sprintf("question %q has duplicate option %q", q.Question, opt))
		}
		seen[opt] = struct{}{}
		if opt == q.Answer {
			found = true
		}
	}
	if !found {
		return NewFieldError("answer", fmt.Sprintf("answer %q of question %q is not among its options", q.Answer, q.Question))
	}
	return nil
}

// Renumber assigns sequential 1-based IDs in slice order.
func Renumber(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.ID = i + 1
		out[i] = q
	}
	return out
}

// ValidateQuestions validates every question and returns the first failure.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return NewFieldError("questions", "at least one question is required")
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			if fe, ok := err.(*ValidationError); ok {
				fe.Index = i
			}
			return err
		}
	}
	return nil
}

// Quiz is a persisted set of questions. It is only changed by an edit that
// replaces title and questions wholesale.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewQuiz creates a Quiz with renumbered questions and creation timestamps.
func NewQuiz(title, topic string, difficulty Difficulty, questions []Question) *Quiz {
	now := time.Now()
	return &Quiz{
		Title:      title,
		Topic:      topic,
		Difficulty: difficulty,
		Questions:  Renumber(questions),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the quiz metadata and all questions.
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return NewFieldError("title", "title is required")
	}
	return ValidateQuestions(q.Questions)
}

// AnswerMap maps question ID to the chosen option index. It is sparse.
type AnswerMap map[int]int

// Clone returns an independent copy.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
