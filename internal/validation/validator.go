package validation

import (
	"regexp"
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

const (
	maxTopicLength = 200
	maxTitleLength = 200
	maxCardText    = 2000
)

// Validator checks request payloads before they reach the services.
type Validator struct {
	maxQuestionCount int
	maxSourceChars   int
}

// NewValidator creates a validator. maxSourceChars bounds pasted notes before
// truncation; requests far above it are rejected outright.
func NewValidator(maxQuestionCount, maxSourceChars int) *Validator {
	if maxQuestionCount <= 0 {
		maxQuestionCount = 50
	}
	return &Validator{maxQuestionCount: maxQuestionCount, maxSourceChars: maxSourceChars}
}

// ValidateQuizID accepts a ULID or the "custom" scratch id.
func (v *Validator) ValidateQuizID(id string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	switch {
	case strings.TrimSpace(id) == "":
		errs = append(errs, domain.NewMissingFieldError("quizId"))
	case id == domain.CustomQuizID:
	case !isValidULID(id):
		errs = append(errs, domain.NewInvalidFormatError("quizId", id))
	}
	return errs
}

// ValidateStoredQuizID accepts only a ULID; "custom" cannot be edited or deleted.
func (v *Validator) ValidateStoredQuizID(id string) domain.ValidationErrors {
	if id == domain.CustomQuizID {
		return domain.ValidationErrors{domain.NewFieldError("quizId", "the custom quiz is not stored")}
	}
	return v.ValidateQuizID(id)
}

// ValidateGenerateQuizRequest normalizes defaults in place and validates.
func (v *Validator) ValidateGenerateQuizRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req.Mode == "" {
		req.Mode = dto.ModeTopic
	}
	switch req.Mode {
	case dto.ModeTopic:
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			errs = append(errs, domain.NewMissingFieldError("topic"))
		} else if len(topic) > maxTopicLength {
			errs = append(errs, domain.NewOutOfRangeError("topic", len(topic), 1, maxTopicLength))
		}
		if req.Count == 0 {
			req.Count = 10
		}
		if req.Count < 1 || req.Count > v.maxQuestionCount {
			errs = append(errs, domain.NewOutOfRangeError("count", req.Count, 1, v.maxQuestionCount))
		}
	case dto.ModeText:
		if strings.TrimSpace(req.Text) == "" {
			errs = append(errs, domain.NewMissingFieldError("text"))
		} else if v.maxSourceChars > 0 && len(req.Text) > 4*v.maxSourceChars {
			errs = append(errs, domain.NewOutOfRangeError("text", len(req.Text), 1, 4*v.maxSourceChars))
		}
	default:
		errs = append(errs, domain.NewInvalidFormatError("mode", req.Mode))
	}

	if _, err := domain.ParseDifficulty(req.Difficulty); err != nil {
		errs = append(errs, domain.NewInvalidFormatError("difficulty", req.Difficulty))
	}
	return errs
}

// ValidateUpdateQuizRequest checks the title and every question invariant.
func (v *Validator) ValidateUpdateQuizRequest(req *dto.UpdateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, domain.NewMissingFieldError("title"))
	} else if len(title) > maxTitleLength {
		errs = append(errs, domain.NewOutOfRangeError("title", len(title), 1, maxTitleLength))
	}
	if len(req.Questions) == 0 {
		errs = append(errs, domain.NewMissingFieldError("questions"))
	}
	for i, q := range dto.ToDomainQuestions(req.Questions) {
		if err := q.Validate(); err != nil {
			if fe, ok := err.(*domain.ValidationError); ok {
				fe.Index = i
				errs = append(errs, fe)
			}
		}
	}
	return errs
}

// ValidateSaveFlashcardsRequest bounds card text. Blank cards are dropped
// by the service, not rejected here.
func (v *Validator) ValidateSaveFlashcardsRequest(req *dto.SaveFlashcardsRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if len(req.Topic) > maxTopicLength {
		errs = append(errs, domain.NewOutOfRangeError("topic", len(req.Topic), 0, maxTopicLength))
	}
	if len(req.Cards) == 0 {
		errs = append(errs, domain.NewMissingFieldError("cards"))
	}
	for i, c := range req.Cards {
		if len(c.Front) > maxCardText || len(c.Back) > maxCardText {
			fe := domain.NewOutOfRangeError("cards", max(len(c.Front), len(c.Back)), 1, maxCardText)
			fe.Index = i
			errs = append(errs, fe)
		}
	}
	return errs
}

// ValidateStartSessionRequest checks the quiz id and time limit.
func (v *Validator) ValidateStartSessionRequest(req *dto.StartSessionRequest) domain.ValidationErrors {
	errs := v.ValidateQuizID(req.QuizID)
	if req.TimeLimitSeconds < 0 || req.TimeLimitSeconds > 24*60*60 {
		errs = append(errs, domain.NewOutOfRangeError("timeLimitSeconds", req.TimeLimitSeconds, 0, 24*60*60))
	}
	return errs
}

func isValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
