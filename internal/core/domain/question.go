package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionType tags the kind of input a question collects.
type QuestionType string

const (
	ShortText      QuestionType = "short_text"
	LongText       QuestionType = "long_text"
	MultipleChoice QuestionType = "multiple_choice"
	Checkboxes     QuestionType = "checkboxes"
	Dropdown       QuestionType = "dropdown"
	Date           QuestionType = "date"
	Rating         QuestionType = "rating"
)

// QuestionTypes lists every tag in display order.
var QuestionTypes = []QuestionType{
	ShortText, LongText, MultipleChoice, Checkboxes, Dropdown, Date, Rating,
}

const (
	RatingMin      = 1
	RatingMax      = 5
	RatingMidpoint = 3
	MinOptions     = 2
)

func (t QuestionType) Valid() bool {
	switch t {
	case ShortText, LongText, MultipleChoice, Checkboxes, Dropdown, Date, Rating:
		return true
	}
	return false
}

// IsChoice reports whether questions of this type carry an option list.
func (t QuestionType) IsChoice() bool {
	return t == MultipleChoice || t == Checkboxes || t == Dropdown
}

// Label is the human readable name shown in type pickers.
func (t QuestionType) Label() string {
	switch t {
	case ShortText:
		return "Short Text"
	case LongText:
		return "Long Text"
	case MultipleChoice:
		return "Multiple Choice"
	case Checkboxes:
		return "Checkboxes"
	case Dropdown:
		return "Dropdown"
	case Date:
		return "Date"
	case Rating:
		return "Rating Scale (1-5)"
	}
	return string(t)
}

func (t *QuestionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	qt := QuestionType(s)
	if !qt.Valid() {
		return fmt.Errorf("unknown question type %q", s)
	}
	*t = qt
	return nil
}

type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options"`
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string{}, q.Options...)
	}
	return c
}

type Form struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Question looks a question up by id.
func (f *Form) Question(id string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Clone returns a deep copy of the form.
func (f *Form) Clone() *Form {
	c := *f
	c.Questions = make([]Question, len(f.Questions))
	for i, q := range f.Questions {
		c.Questions[i] = q.Clone()
	}
	return &c
}

// NewQuestionID returns a fresh question identifier.
func NewQuestionID() string {
	return "q_" + uuid.NewString()
}

// Normalize drops options from questions whose type does not use them and
// makes every option list non-nil.
func (f *Form) Normalize() {
	if f.Questions == nil {
		f.Questions = []Question{}
	}
	for i := range f.Questions {
		q := &f.Questions[i]
		if !q.Type.IsChoice() || q.Options == nil {
			q.Options = []string{}
		}
	}
}
