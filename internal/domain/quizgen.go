package domain

import "context"

// QuizGenerator is the generation gateway consumed by the services.
type QuizGenerator interface {
	// GenerateQuestions returns validated questions numbered 1..N, or a
	// *GenerationError. A malformed question surfaces as a *ValidationError
	// wrapped in the GenerationError.
	GenerateQuestions(ctx context.Context, sourceText string) ([]Question, error)

	// AnalyzeResult never fails; it degrades to a deterministic result.
	AnalyzeResult(ctx context.Context, questions []Question, answerTexts map[int]string) QuizAnalysis
}
