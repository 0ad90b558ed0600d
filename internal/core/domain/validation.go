package domain

import (
	"fmt"
	"strings"
)

// ValidateForm returns the first rule the form breaks, or nil when it can be
// saved.
func ValidateForm(f *Form) error {
	if strings.TrimSpace(f.Title) == "" {
		return NewValidationError("Please enter a form title")
	}
	if len(f.Questions) == 0 {
		return NewValidationError("Please add at least one question")
	}
	for i, q := range f.Questions {
		if strings.TrimSpace(q.Title) == "" {
			return NewValidationError("Question %d is missing a title", i+1)
		}
		if !q.Type.Valid() {
			return NewValidationError("Question %d has an unknown type %q", i+1, q.Type)
		}
		if q.Type.IsChoice() && !validOptions(q.Options) {
			return NewValidationError("Question %d needs at least %d valid options", i+1, MinOptions)
		}
		if q.Type.IsChoice() && hasDuplicate(q.Options) {
			return NewValidationError("Question %d has duplicate options", i+1)
		}
	}
	return nil
}

func validOptions(opts []string) bool {
	if len(opts) < MinOptions {
		return false
	}
	for _, o := range opts {
		if strings.TrimSpace(o) == "" {
			return false
		}
	}
	return true
}

func hasDuplicate(opts []string) bool {
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		if _, dup := seen[o]; dup {
			return true
		}
		seen[o] = struct{}{}
	}
	return false
}

// FirstUnanswered returns the first required question whose answer is
// missing or empty.
func FirstUnanswered(f *Form, answers map[string]Answer) (Question, bool) {
	for _, q := range f.Questions {
		if !q.Required {
			continue
		}
		a, ok := answers[q.ID]
		if !ok || a.IsEmpty() {
			return q, true
		}
	}
	return Question{}, false
}

// CheckAnswer verifies that an answer fits the question it is given for.
// Empty answers are accepted; FirstUnanswered deals with required ones.
func CheckAnswer(q Question, a Answer) error {
	// A rating is never empty on the wire: 0 is out of range, not unanswered.
	if a.Kind == AnswerNone || (a.Kind != AnswerRating && a.IsEmpty()) {
		return nil
	}
	switch q.Type {
	case ShortText, LongText, Date:
		if a.Kind != AnswerText {
			return fmt.Errorf("%w: question %q expects text", ErrInvalidAnswer, q.ID)
		}
	case MultipleChoice, Dropdown:
		if a.Kind != AnswerText {
			return fmt.Errorf("%w: question %q expects a single option", ErrInvalidAnswer, q.ID)
		}
		if !q.HasOption(a.Text) {
			return fmt.Errorf("%w: %q is not an option of question %q", ErrInvalidAnswer, a.Text, q.ID)
		}
	case Checkboxes:
		if a.Kind != AnswerChoices {
			return fmt.Errorf("%w: question %q expects a list of options", ErrInvalidAnswer, q.ID)
		}
		for _, c := range a.Choices {
			if !q.HasOption(c) {
				return fmt.Errorf("%w: %q is not an option of question %q", ErrInvalidAnswer, c, q.ID)
			}
		}
	case Rating:
		if a.Kind != AnswerRating {
			return fmt.Errorf("%w: question %q expects a rating", ErrInvalidAnswer, q.ID)
		}
		if a.Rating < RatingMin || a.Rating > RatingMax {
			return fmt.Errorf("%w: rating %d out of range %d-%d", ErrInvalidAnswer, a.Rating, RatingMin, RatingMax)
		}
	}
	return nil
}
