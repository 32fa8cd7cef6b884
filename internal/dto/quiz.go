package dto

import (
	"time"

	"quizforge/internal/domain"
)

// Generation modes.
const (
	ModeTopic = "topic"
	ModeText  = "text"
)

// GenerateQuizRequest asks for a new quiz from a topic or from pasted notes.
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Mode       string `json:"mode" example:"topic"`
	Topic      string `json:"topic,omitempty" example:"Go channels"`
	Text       string `json:"text,omitempty"`
	Difficulty string `json:"difficulty,omitempty" example:"medium"`
	Count      int    `json:"count,omitempty" example:"10"`
	// Save defaults to true. A guest quiz (false) is kept only in the
	// scratch slot and is addressed as "custom".
	Save *bool `json:"save,omitempty"`
}

// ShouldSave reports whether the quiz is persisted.
func (r *GenerateQuizRequest) ShouldSave() bool {
	return r.Save == nil || *r.Save
}

// QuestionDTO is a question as exchanged with clients. Answer and
// Explanation are withheld while a session is in progress.
type QuestionDTO struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Topic      string        `json:"topic"`
	Difficulty string        `json:"difficulty"`
	Questions  []QuestionDTO `json:"questions"`
	Saved      bool          `json:"saved"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt,omitempty"`
}

// QuizSummary is one row of the quiz list.
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Difficulty    string    `json:"difficulty"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// QuizListResponse lists the most recent quizzes.
type QuizListResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
}

// UpdateQuizRequest replaces a quiz's title and questions wholesale.
// @Description Request body for editing a quiz
type UpdateQuizRequest struct {
	Title     string        `json:"title"`
	Questions []QuestionDTO `json:"questions"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToQuestionDTOs maps questions, dropping answers unless reveal is set.
func ToQuestionDTOs(questions []domain.Question, reveal bool) []QuestionDTO {
	out := make([]QuestionDTO, len(questions))
	for i, q := range questions {
		out[i] = QuestionDTO{ID: q.ID, Question: q.Question, Options: append([]string(nil), q.Options...)}
		if reveal {
			out[i].Answer = q.Answer
			out[i].Explanation = q.Explanation
		}
	}
	return out
}

// ToDomainQuestions maps client questions; ids are reassigned by the caller.
func ToDomainQuestions(in []QuestionDTO) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		out[i] = domain.Question{
			ID:          q.ID,
			Question:    q.Question,
			Options:     append([]string(nil), q.Options...),
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}
	return out
}

// ToQuizResponse maps a stored quiz with its answers revealed.
func ToQuizResponse(q *domain.Quiz, saved bool) *QuizResponse {
	return &QuizResponse{
		ID:         q.ID,
		Title:      q.Title,
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
		Questions:  ToQuestionDTOs(q.Questions, true),
		Saved:      saved,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}

// ToQuizSummary maps a quiz to a list row.
func ToQuizSummary(q *domain.Quiz) QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		Topic:         q.Topic,
		Difficulty:    string(q.Difficulty),
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
	}
}
