package quizgen

import (
	"fmt"
	"strings"

	"quizforge/internal/domain"
)

const generatePrompt = `You are an expert teacher. Create a multiple-choice quiz from the source text below.

Rules:
1. Write between 5 and 10 questions unless the source text asks for a specific number.
2. Every question has 2 to 5 distinct options and exactly one correct answer.
3. The "answer" field must repeat the text of the correct option exactly.
4. Add a short "explanation" for each question.
5. Use markdown code blocks for any code inside questions, options or explanations.

Respond with ONLY a JSON array, no prose and no markdown fences, in this structure:
[
  {
    "question": "What does the defer statement do in Go?",
    "options": ["Runs a function when the surrounding function returns", "Starts a goroutine", "Skips a loop iteration"],
    "answer": "Runs a function when the surrounding function returns",
    "explanation": "Deferred calls run in LIFO order as the function returns."
  }
]

Source text:
%s`

const analyzePrompt = `You are a supportive tutor reviewing a finished quiz.
The student scored %d out of %d. These are the questions they missed:

%s
Respond with ONLY a JSON object, no prose and no markdown fences, in this structure:
{
  "feedback": "Two sentences of encouraging, specific feedback.",
  "flashcards": [{"front": "concise question or concept", "back": "concise answer"}]
}
Create one concise flashcard per missed concept.`

func buildGeneratePrompt(source string) string {
	return fmt.Sprintf(generatePrompt, source)
}

func buildAnalyzePrompt(score, total int, mistakes []domain.WrongAnswer) string {
	var b strings.Builder
	for i, m := range mistakes {
		fmt.Fprintf(&b, "%d. Question: %s\n   Correct answer: %s\n   Student answer: %s\n", i+1, m.Question, m.CorrectAnswer, m.UserAnswer)
	}
	return fmt.Sprintf(analyzePrompt, score, total, b.String())
}
