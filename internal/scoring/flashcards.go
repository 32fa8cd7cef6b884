package scoring

import (
	"strings"

	"quizforge/internal/domain"
)

// MergeFlashcards concatenates the lists in order and drops any card whose
// front text was already seen, so earlier lists win.
func MergeFlashcards(lists ...[]domain.Flashcard) []domain.Flashcard {
	seen := make(map[string]struct{})
	merged := []domain.Flashcard{}
	for _, list := range lists {
		for _, c := range list {
			if _, dup := seen[c.Front]; dup {
				continue
			}
			seen[c.Front] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

// CleanFlashcards drops cards with a blank front or back.
func CleanFlashcards(cards []domain.Flashcard) []domain.Flashcard {
	out := make([]domain.Flashcard, 0, len(cards))
	for _, c := range cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MistakeCard builds the review card queued for a missed question.
func MistakeCard(q domain.Question) domain.Flashcard {
	return domain.Flashcard{Front: q.Question, Back: q.Answer}
}
