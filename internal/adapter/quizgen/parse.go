package quizgen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/scoring"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// cleanJSON strips reasoning blocks and markdown fences, then trims any
// prose around the outermost open/close pair. A payload that already starts
// with a JSON value is returned as is, so an object is never cut down to an
// array it contains.
func cleanJSON(raw string, opener, closer byte) string {
	s := thinkBlock.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if len(s) > 0 && !startsJSONValue(s[0]) {
		start := strings.IndexByte(s, opener)
		end := strings.LastIndexByte(s, closer)
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

func startsJSONValue(c byte) bool {
	switch c {
	case '{', '[', '"', '-':
		return true
	}
	return c >= '0' && c <= '9'
}

type rawQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type rawAnalysis struct {
	Feedback   string             `json:"feedback"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

func validateShape(schemaName, definition, cleaned string) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(cleaned))
	if err != nil {
		return domain.NewGenerationError("response is not valid JSON", err)
	}
	schema, err := compiledSchema(schemaName, definition)
	if err != nil {
		return domain.NewGenerationError("schema unavailable", err)
	}
	if err := schema.Validate(doc); err != nil {
		return domain.NewGenerationError("response has the wrong shape",
			&domain.ValidationError{Field: "response", Message: err.Error()})
	}
	return nil
}

// parseQuestions is the typed boundary for generation output.
func parseQuestions(raw string) ([]domain.Question, error) {
	cleaned := cleanJSON(raw, '[', ']')
	if !strings.HasPrefix(cleaned, "[") {
		return nil, domain.NewGenerationError("response is not a JSON array", nil)
	}
	if err := validateShape("question_list", questionListSchema, cleaned); err != nil {
		return nil, err
	}

	var items []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, domain.NewGenerationError("response is not valid JSON", err)
	}
	if len(items) == 0 {
		return nil, domain.NewGenerationError("no questions generated", nil)
	}

	questions := make([]domain.Question, 0, len(items))
	for i, it := range items {
		q := domain.Question{
			Question:    strings.TrimSpace(it.Question),
			Options:     it.Options,
			Answer:      it.Answer,
			Explanation: strings.TrimSpace(it.Explanation),
		}
		if err := q.Validate(); err != nil {
			if ve, ok := err.(*domain.ValidationError); ok {
				ve.Index = i
			}
			return nil, domain.NewGenerationError(fmt.Sprintf("question %d is malformed", i+1), err)
		}
		questions = append(questions, q)
	}
	return domain.Renumber(questions), nil
}

// parseAnalysis is the typed boundary for analysis output.
func parseAnalysis(raw string) (string, []domain.Flashcard, error) {
	cleaned := cleanJSON(raw, '{', '}')
	if !strings.HasPrefix(cleaned, "{") {
		return "", nil, domain.NewGenerationError("response is not a JSON object", nil)
	}
	if err := validateShape("analysis", analysisSchema, cleaned); err != nil {
		return "", nil, err
	}
	var out rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return "", nil, domain.NewGenerationError("response is not valid JSON", err)
	}
	return strings.TrimSpace(out.Feedback), scoring.CleanFlashcards(out.Flashcards), nil
}
