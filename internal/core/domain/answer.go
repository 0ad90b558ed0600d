package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnswerKind tells which member of an Answer is meaningful.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerRating
	AnswerChoices
)

// Answer holds the value collected for one question. Text carries short and
// long text, dates and single choices, Rating a 1..5 score and Choices the
// selected checkbox options.
type Answer struct {
	Kind    AnswerKind
	Text    string
	Rating  int
	Choices []string
}

func TextAnswer(s string) Answer { return Answer{Kind: AnswerText, Text: s} }

func RatingAnswer(n int) Answer { return Answer{Kind: AnswerRating, Rating: n} }

func ChoicesAnswer(choices ...string) Answer {
	return Answer{Kind: AnswerChoices, Choices: append([]string{}, choices...)}
}

// EmptyAnswer returns the neutral starting value for a question type.
func EmptyAnswer(t QuestionType) Answer {
	switch t {
	case Checkboxes:
		return ChoicesAnswer()
	case Rating:
		return RatingAnswer(RatingMidpoint)
	case ShortText, LongText, MultipleChoice, Dropdown, Date:
		return TextAnswer("")
	}
	return Answer{}
}

// IsEmpty reports whether the answer counts as unanswered for a required
// question.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case AnswerText:
		return a.Text == ""
	case AnswerRating:
		return a.Rating == 0
	case AnswerChoices:
		return len(a.Choices) == 0
	}
	return true
}

// String renders the answer as a single cell of text.
func (a Answer) String() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerRating:
		return fmt.Sprint(a.Rating)
	case AnswerChoices:
		return strings.Join(a.Choices, ", ")
	}
	return ""
}

func (a Answer) Clone() Answer {
	if a.Choices != nil {
		a.Choices = append([]string{}, a.Choices...)
	}
	return a
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerRating:
		return json.Marshal(a.Rating)
	case AnswerChoices:
		if a.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Choices)
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
	case '[':
		var choices []string
		if err := json.Unmarshal(b, &choices); err != nil {
			return fmt.Errorf("invalid choice list: %w", err)
		}
		*a = ChoicesAnswer(choices...)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("invalid answer value: %w", err)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("rating must be a whole number, got %v", f)
		}
		*a = RatingAnswer(int(f))
	}
	return nil
}

// AnswerItem pairs an answer with the question it belongs to.
type AnswerItem struct {
	QuestionID string `json:"question_id"`
	Answer     Answer `json:"answer"`
}

// Submission is the payload a respondent sends for one form.
type Submission struct {
	FormID  uuid.UUID    `json:"form_id"`
	Answers []AnswerItem `json:"answers"`
}

// Response is a stored submission.
type Response struct {
	ID          uuid.UUID    `json:"id"`
	FormID      uuid.UUID    `json:"form_id"`
	Answers     []AnswerItem `json:"answers"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// Answer returns the answer recorded for a question, if any.
func (r *Response) Answer(questionID string) (Answer, bool) {
	for _, item := range r.Answers {
		if item.QuestionID == questionID {
			return item.Answer, true
		}
	}
	return Answer{}, false
}
