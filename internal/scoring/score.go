// Package scoring holds the deterministic parts of result analysis: local
// scoring, flashcard merging and weak-area aggregation.
package scoring

import "quizforge/internal/domain"

// SkippedAnswer is recorded as the user answer of an unanswered question.
const SkippedAnswer = "Skipped"

// Outcome is the locally computed score of a session.
type Outcome struct {
	Score        int                  `json:"score"`
	Total        int                  `json:"total"`
	WrongAnswers []domain.WrongAnswer `json:"wrongAnswers"`
}

// AnswerTexts resolves chosen option indices to option text. Unanswered
// questions and out-of-range indices are absent from the result.
func AnswerTexts(questions []domain.Question, answers domain.AnswerMap) map[int]string {
	texts := make(map[int]string, len(answers))
	for _, q := range questions {
		idx, ok := answers[q.ID]
		if !ok || idx < 0 || idx >= len(q.Options) {
			continue
		}
		texts[q.ID] = q.Options[idx]
	}
	return texts
}

// ScoreTexts scores by exact string comparison of the chosen text with the
// answer. Wrong answers keep question order.
func ScoreTexts(questions []domain.Question, texts map[int]string) Outcome {
	out := Outcome{Total: len(questions), WrongAnswers: []domain.WrongAnswer{}}
	for _, q := range questions {
		chosen, ok := texts[q.ID]
		if ok && chosen == q.Answer {
			out.Score++
			continue
		}
		if !ok {
			chosen = SkippedAnswer
		}
		out.WrongAnswers = append(out.WrongAnswers, domain.WrongAnswer{
			Question:      q.Question,
			CorrectAnswer: q.Answer,
			UserAnswer:    chosen,
		})
	}
	return out
}

// Score is pure and idempotent over (questions, answers).
func Score(questions []domain.Question, answers domain.AnswerMap) Outcome {
	return ScoreTexts(questions, AnswerTexts(questions, answers))
}
