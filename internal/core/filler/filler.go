// Package filler collects one respondent's answers for a public form and
// submits them once they pass the form's required-question checks.
package filler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateSubmitted
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNotReady         = errors.New("form is not ready for input")
	ErrAlreadySubmitted = errors.New("response already submitted")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrWrongAnswerType  = errors.New("answer does not fit question type")
)

// Control is the input widget used to answer a question.
type Control string

const (
	ControlTextInput     Control = "text_input"
	ControlTextArea      Control = "text_area"
	ControlRadioGroup    Control = "radio_group"
	ControlCheckboxGroup Control = "checkbox_group"
	ControlSelect        Control = "select"
	ControlDatePicker    Control = "date_picker"
	ControlRatingScale   Control = "rating_scale"
)

// ControlFor returns the input control for a question type.
func ControlFor(t domain.QuestionType) Control {
	switch t {
	case domain.ShortText:
		return ControlTextInput
	case domain.LongText:
		return ControlTextArea
	case domain.MultipleChoice:
		return ControlRadioGroup
	case domain.Checkboxes:
		return ControlCheckboxGroup
	case domain.Dropdown:
		return ControlSelect
	case domain.Date:
		return ControlDatePicker
	case domain.Rating:
		return ControlRatingScale
	}
	return ControlTextInput
}

// Filler drives a single fill session over one form. It is not safe for
// concurrent use.
type Filler struct {
	gateway ports.FormGateway
	formID  uuid.UUID
	state   State
	form    *domain.Form
	answers map[string]domain.Answer
	err     error
}

func New(gateway ports.FormGateway, formID uuid.UUID) *Filler {
	return &Filler{
		gateway: gateway,
		formID:  formID,
		state:   StateLoading,
	}
}

// Load fetches the public form and prepares one answer slot per question.
// Failures move the filler to StateError; Err returns the cause.
func (f *Filler) Load(ctx context.Context) error {
	if f.state != StateLoading {
		return fmt.Errorf("load in state %s: %w", f.state, ErrNotReady)
	}

	form, err := f.gateway.GetPublicForm(ctx, f.formID)
	if err != nil {
		if domain.IsNotFound(err) {
			err = fmt.Errorf("%w: %s", domain.ErrFormNotFound, f.formID)
		}
		f.state = StateError
		f.err = err
		return err
	}

	f.form = form
	f.answers = make(map[string]domain.Answer, len(form.Questions))
	for _, q := range form.Questions {
		f.answers[q.ID] = domain.EmptyAnswer(q.Type)
	}
	f.state = StateReady
	return nil
}

func (f *Filler) State() State { return f.state }

// Err is the error that put the filler into StateError.
func (f *Filler) Err() error { return f.err }

// Form returns a copy of the loaded form, or nil before loading.
func (f *Filler) Form() *domain.Form {
	if f.form == nil {
		return nil
	}
	return f.form.Clone()
}

// Answer returns the current value of a question's slot.
func (f *Filler) Answer(questionID string) (domain.Answer, bool) {
	a, ok := f.answers[questionID]
	return a.Clone(), ok
}

// SetText answers a short text, long text or date question.
func (f *Filler) SetText(questionID, value string) error {
	q, err := f.slot(questionID)
	if err != nil {
		return err
	}
	switch q.Type {
	case domain.ShortText, domain.LongText, domain.Date:
		f.answers[q.ID] = domain.TextAnswer(value)
		return nil
	}
	return fmt.Errorf("%w: %s question %q takes no free text", ErrWrongAnswerType, q.Type, q.ID)
}

// SetChoice answers a multiple choice or dropdown question. An empty value
// clears the selection.
func (f *Filler) SetChoice(questionID, option string) error {
	q, err := f.slot(questionID)
	if err != nil {
		return err
	}
	if q.Type != domain.MultipleChoice && q.Type != domain.Dropdown {
		return fmt.Errorf("%w: %s question %q has no single choice", ErrWrongAnswerType, q.Type, q.ID)
	}
	if option != "" && !q.HasOption(option) {
		return fmt.Errorf("%w: %q is not an option of %q", domain.ErrInvalidAnswer, option, q.ID)
	}
	f.answers[q.ID] = domain.TextAnswer(option)
	return nil
}

// ToggleChoice checks or unchecks one option of a checkboxes question.
func (f *Filler) ToggleChoice(questionID, option string, checked bool) error {
	q, err := f.slot(questionID)
	if err != nil {
		return err
	}
	if q.Type != domain.Checkboxes {
		return fmt.Errorf("%w: %s question %q has no checkboxes", ErrWrongAnswerType, q.Type, q.ID)
	}
	if !q.HasOption(option) {
		return fmt.Errorf("%w: %q is not an option of %q", domain.ErrInvalidAnswer, option, q.ID)
	}

	current := f.answers[q.ID].Choices
	next := make([]string, 0, len(current)+1)
	for _, c := range current {
		if c != option {
			next = append(next, c)
		}
	}
	if checked {
		next = append(next, option)
	}
	f.answers[q.ID] = domain.ChoicesAnswer(next...)
	return nil
}

// SetRating answers a rating question with a value in 1..5.
func (f *Filler) SetRating(questionID string, value int) error {
	q, err := f.slot(questionID)
	if err != nil {
		return err
	}
	if q.Type != domain.Rating {
		return fmt.Errorf("%w: %s question %q is not a rating", ErrWrongAnswerType, q.Type, q.ID)
	}
	if value < domain.RatingMin || value > domain.RatingMax {
		return fmt.Errorf("%w: rating %d out of range", domain.ErrInvalidAnswer, value)
	}
	f.answers[q.ID] = domain.RatingAnswer(value)
	return nil
}

// Submit checks required questions and sends the answers. A validation
// failure sends nothing; a network failure returns to StateReady with every
// answer kept.
func (f *Filler) Submit(ctx context.Context) error {
	switch f.state {
	case StateReady:
	case StateSubmitted:
		return ErrAlreadySubmitted
	default:
		return fmt.Errorf("submit in state %s: %w", f.state, ErrNotReady)
	}

	if q, missing := domain.FirstUnanswered(f.form, f.answers); missing {
		return domain.NewValidationError("Please answer: %s", q.Title)
	}

	f.state = StateSubmitting
	if err := f.gateway.SubmitResponse(ctx, f.submission()); err != nil {
		f.state = StateReady
		return err
	}
	f.state = StateSubmitted
	return nil
}

func (f *Filler) submission() domain.Submission {
	items := make([]domain.AnswerItem, 0, len(f.form.Questions))
	for _, q := range f.form.Questions {
		items = append(items, domain.AnswerItem{
			QuestionID: q.ID,
			Answer:     f.answers[q.ID].Clone(),
		})
	}
	return domain.Submission{FormID: f.formID, Answers: items}
}

func (f *Filler) slot(questionID string) (domain.Question, error) {
	switch f.state {
	case StateReady:
	case StateSubmitted:
		return domain.Question{}, ErrAlreadySubmitted
	default:
		return domain.Question{}, fmt.Errorf("answer in state %s: %w", f.state, ErrNotReady)
	}
	q, ok := f.form.Question(questionID)
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	return q, nil
}
