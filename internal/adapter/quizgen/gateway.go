// Package quizgen is the generation gateway: it turns source text into
// validated questions and finished sessions into feedback, through an
// injected domain.Completer.
package quizgen

import (
	"context"
	"strings"
	"unicode/utf8"

	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/scoring"

	"go.uber.org/zap"
)

const (
	// DefaultMaxSourceChars caps the text sent for generation.
	DefaultMaxSourceChars = 15000

	PerfectFeedback  = "Perfect score! You have verified mastery of this topic."
	FallbackFeedback = "Good effort! Review the questions above to improve."
	DefaultFeedback  = "Good effort!"
)

// Gateway implements domain.QuizGenerator.
type Gateway struct {
	completer      domain.Completer
	retry          RetryPolicy
	maxSourceChars int
	generateModel  string
	analyzeModel   string
}

type Option func(*Gateway)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Gateway) { g.retry = p }
}

func WithMaxSourceChars(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxSourceChars = n
		}
	}
}

// WithModels selects per-purpose models; empty names keep the provider default.
func WithModels(generate, analyze string) Option {
	return func(g *Gateway) {
		g.generateModel = generate
		g.analyzeModel = analyze
	}
}

func NewGateway(completer domain.Completer, opts ...Option) *Gateway {
	g := &Gateway{
		completer:      completer,
		retry:          DefaultRetryPolicy(),
		maxSourceChars: DefaultMaxSourceChars,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ domain.QuizGenerator = (*Gateway)(nil)

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func (g *Gateway) GenerateQuestions(ctx context.Context, sourceText string) ([]domain.Question, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, domain.NewInvalidInputError("source text is empty")
	}
	source := truncateRunes(sourceText, g.maxSourceChars)
	if len(source) < len(sourceText) {
		logger.Get().Info("Source text truncated for generation",
			zap.Int("original_chars", utf8.RuneCountInString(sourceText)),
			zap.Int("max_chars", g.maxSourceChars))
	}

	raw, err := g.retry.complete(ctx, g.completer, domain.CompletionRequest{
		Prompt:  buildGeneratePrompt(source),
		Purpose: domain.PurposeGenerate,
		JSON:    true,
		Model:   g.generateModel,
	})
	if err != nil {
		return nil, domain.NewGenerationError("completion failed", err)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		logger.Get().Warn("Generated quiz rejected", zap.Error(err), zap.Int("response_chars", len(raw)))
		return nil, err
	}
	logger.Get().Info("Quiz generated", zap.Int("questions", len(questions)))
	return questions, nil
}

func (g *Gateway) AnalyzeResult(ctx context.Context, questions []domain.Question, answerTexts map[int]string) domain.QuizAnalysis {
	outcome := scoring.ScoreTexts(questions, answerTexts)
	if len(outcome.WrongAnswers) == 0 {
		return domain.QuizAnalysis{
			Score:      outcome.Score,
			Total:      outcome.Total,
			Feedback:   PerfectFeedback,
			Flashcards: []domain.Flashcard{},
		}
	}

	fallback := domain.QuizAnalysis{
		Score:      outcome.Score,
		Total:      outcome.Total,
		Feedback:   FallbackFeedback,
		Flashcards: []domain.Flashcard{},
	}

	raw, err := g.retry.complete(ctx, g.completer, domain.CompletionRequest{
		Prompt:  buildAnalyzePrompt(outcome.Score, outcome.Total, outcome.WrongAnswers),
		Purpose: domain.PurposeAnalyze,
		JSON:    true,
		Model:   g.analyzeModel,
	})
	if err != nil {
		logger.Get().Warn("Analysis unavailable, using fallback", zap.Error(&domain.AnalysisError{Err: err}))
		return fallback
	}

	feedback, cards, err := parseAnalysis(raw)
	if err != nil {
		logger.Get().Warn("Analysis response rejected, using fallback", zap.Error(&domain.AnalysisError{Err: err}))
		return fallback
	}
	if feedback == "" {
		feedback = DefaultFeedback
	}
	return domain.QuizAnalysis{
		Score:      outcome.Score,
		Total:      outcome.Total,
		Feedback:   feedback,
		Flashcards: cards,
	}
}
