package scoring

import (
	"math"
	"sort"

	"quizforge/internal/domain"
)

const (
	// WeakAreaThreshold excludes topics at or above this accuracy.
	WeakAreaThreshold = 80
	// DefaultLastMistake is reported for a weak topic with no recorded mistake text.
	DefaultLastMistake = "General Improvement needed"
)

type topicStats struct {
	topic      string
	total      int
	correct    int
	mistakes   map[string]struct{}
	first      string
	lastQuizID string
	latest     int64
	seenQuiz   bool
}

// ComputeWeakAreas groups results by topic and returns topics with accuracy
// below WeakAreaThreshold, weakest first. Ties keep first-seen topic order.
func ComputeWeakAreas(results []*domain.QuizResult) []domain.WeakArea {
	var order []*topicStats
	byTopic := make(map[string]*topicStats)

	for _, r := range results {
		if r == nil {
			continue
		}
		s, ok := byTopic[r.Topic]
		if !ok {
			s = &topicStats{topic: r.Topic, mistakes: make(map[string]struct{})}
			byTopic[r.Topic] = s
			order = append(order, s)
		}
		s.total += r.TotalQuestions
		s.correct += r.Score
		for _, w := range r.WrongAnswers {
			if s.first == "" {
				s.first = w.Question
			}
			s.mistakes[w.Question] = struct{}{}
		}
		ts := r.CreatedAt.UnixNano()
		if !s.seenQuiz || ts > s.latest {
			s.latest = ts
			s.lastQuizID = r.QuizID
			s.seenQuiz = true
		}
	}

	areas := make([]domain.WeakArea, 0, len(order))
	for _, s := range order {
		if s.total == 0 {
			continue
		}
		accuracy := int(math.Round(100 * float64(s.correct) / float64(s.total)))
		if accuracy >= WeakAreaThreshold {
			continue
		}
		last := s.first
		if last == "" {
			last = DefaultLastMistake
		}
		areas = append(areas, domain.WeakArea{
			Topic:        s.topic,
			Accuracy:     accuracy,
			MistakeCount: len(s.mistakes),
			LastMistake:  last,
			LastQuizID:   s.lastQuizID,
		})
	}

	sort.SliceStable(areas, func(i, j int) bool { return areas[i].Accuracy < areas[j].Accuracy })
	return areas
}
