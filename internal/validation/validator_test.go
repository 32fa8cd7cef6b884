package validation

import (
	"strings"
	"testing"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuizID(t *testing.T) {
	v := NewValidator(50, 15000)

	assert.Empty(t, v.ValidateQuizID("01HZX3K8Q6V7N2C4B5M9P0R1ST"))
	assert.Empty(t, v.ValidateQuizID(domain.CustomQuizID))
	assert.Len(t, v.ValidateQuizID(""), 1)
	assert.Len(t, v.ValidateQuizID("not-a-ulid"), 1)
	assert.Len(t, v.ValidateStoredQuizID(domain.CustomQuizID), 1)
}

func TestValidateGenerateQuizRequest(t *testing.T) {
	v := NewValidator(50, 15000)

	t.Run("topic defaults", func(t *testing.T) {
		req := &dto.GenerateQuizRequest{Topic: "Go"}
		assert.Empty(t, v.ValidateGenerateQuizRequest(req))
		assert.Equal(t, dto.ModeTopic, req.Mode)
		assert.Equal(t, 10, req.Count)
	})

	t.Run("count out of range", func(t *testing.T) {
		errs := v.ValidateGenerateQuizRequest(&dto.GenerateQuizRequest{Topic: "Go", Count: 51})
		require.Len(t, errs, 1)
		assert.Equal(t, "count", errs[0].Field)
	})

	t.Run("text mode requires text", func(t *testing.T) {
		errs := v.ValidateGenerateQuizRequest(&dto.GenerateQuizRequest{Mode: dto.ModeText, Text: "  "})
		require.Len(t, errs, 1)
		assert.Equal(t, "text", errs[0].Field)
	})

	t.Run("oversized text", func(t *testing.T) {
		errs := v.ValidateGenerateQuizRequest(&dto.GenerateQuizRequest{Mode: dto.ModeText, Text: strings.Repeat("a", 60001)})
		assert.Len(t, errs, 1)
	})

	t.Run("bad mode and difficulty", func(t *testing.T) {
		errs := v.ValidateGenerateQuizRequest(&dto.GenerateQuizRequest{Mode: "audio", Difficulty: "nightmare"})
		assert.Len(t, errs, 2)
	})
}

func TestValidateUpdateQuizRequest(t *testing.T) {
	v := NewValidator(50, 15000)

	ok := &dto.UpdateQuizRequest{
		Title:     "Edited",
		Questions: []dto.QuestionDTO{{Question: "Q", Options: []string{"a", "b"}, Answer: "a"}},
	}
	assert.Empty(t, v.ValidateUpdateQuizRequest(ok))

	bad := &dto.UpdateQuizRequest{
		Questions: []dto.QuestionDTO{
			{Question: "Q", Options: []string{"a", "b"}, Answer: "a"},
			{Question: "Q2", Options: []string{"a", "b"}, Answer: "c"},
		},
	}
	errs := v.ValidateUpdateQuizRequest(bad)
	require.Len(t, errs, 2)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "answer", errs[1].Field)
	assert.Equal(t, 1, errs[1].Index)
}

func TestValidateSaveFlashcardsRequest(t *testing.T) {
	v := NewValidator(50, 15000)

	assert.Empty(t, v.ValidateSaveFlashcardsRequest(&dto.SaveFlashcardsRequest{
		Cards: []domain.Flashcard{{Front: "f", Back: "b"}},
	}))
	assert.Len(t, v.ValidateSaveFlashcardsRequest(&dto.SaveFlashcardsRequest{}), 1)

	assert.Empty(t, v.ValidateSaveFlashcardsRequest(&dto.SaveFlashcardsRequest{
		Cards: []domain.Flashcard{{Front: "f", Back: "b"}, {Front: "", Back: "b"}},
	}), "blank cards are filtered later")

	errs := v.ValidateSaveFlashcardsRequest(&dto.SaveFlashcardsRequest{
		Cards: []domain.Flashcard{{Front: "f", Back: "b"}, {Front: strings.Repeat("x", 2001), Back: "b"}},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Index)
}

func TestValidateStartSessionRequest(t *testing.T) {
	v := NewValidator(50, 15000)
	assert.Empty(t, v.ValidateStartSessionRequest(&dto.StartSessionRequest{QuizID: domain.CustomQuizID}))
	assert.Len(t, v.ValidateStartSessionRequest(&dto.StartSessionRequest{QuizID: domain.CustomQuizID, TimeLimitSeconds: -1}), 1)
}
