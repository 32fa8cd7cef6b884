package session

import "quizforge/internal/domain"

// QuestionStatus is the navigator marker of one question.
type QuestionStatus string

const (
	StatusCurrent   QuestionStatus = "current"
	StatusFlagged   QuestionStatus = "flagged"
	StatusAnswered  QuestionStatus = "answered"
	StatusVisited   QuestionStatus = "visited"
	StatusUnvisited QuestionStatus = "unvisited"
)

// statusOf applies current > flagged > answered > visited > unvisited.
func statusOf(index, current int, q domain.Question, answers domain.AnswerMap, flagged, visited map[int]bool) QuestionStatus {
	switch {
	case index == current:
		return StatusCurrent
	case flagged[q.ID]:
		return StatusFlagged
	default:
		if _, ok := answers[q.ID]; ok {
			return StatusAnswered
		}
		if visited[q.ID] {
			return StatusVisited
		}
		return StatusUnvisited
	}
}
