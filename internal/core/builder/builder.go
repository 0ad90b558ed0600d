// Package builder authors form schemas: it adds, edits, reorders and removes
// questions and their options, validates the result and saves it through a
// FormGateway.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

// Field names a question attribute that UpdateQuestion can change.
type Field string

const (
	FieldType        Field = "type"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldRequired    Field = "required"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Editor describes which editing controls a question type exposes.
type Editor struct {
	Options     bool
	RatingScale bool
}

// EditorFor returns the editing controls for a question type.
func EditorFor(t domain.QuestionType) Editor {
	switch t {
	case domain.MultipleChoice, domain.Checkboxes, domain.Dropdown:
		return Editor{Options: true}
	case domain.Rating:
		return Editor{RatingScale: true}
	case domain.ShortText, domain.LongText, domain.Date:
		return Editor{}
	}
	return Editor{}
}

// DefaultOptions are the placeholders a question gets when it becomes a
// choice question with no options.
func DefaultOptions() []string {
	return []string{"Option 1", "Option 2"}
}

type Option func(*Builder)

// WithIDGenerator replaces the question id generator.
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) { b.newID = gen }
}

// Builder holds one form being edited. It is not safe for concurrent use.
type Builder struct {
	gateway ports.FormGateway
	form    *domain.Form
	newID   func() string
}

func New(gateway ports.FormGateway, opts ...Option) *Builder {
	b := &Builder{
		gateway: gateway,
		form:    &domain.Form{Questions: []domain.Question{}},
		newID:   domain.NewQuestionID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the working copy with the stored form, switching the builder
// to edit mode. On failure the working copy is left as it was.
func (b *Builder) Load(ctx context.Context, id uuid.UUID) error {
	form, err := b.gateway.GetForm(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
		}
		return err
	}
	if form.Questions == nil {
		form.Questions = []domain.Question{}
	}
	b.form = form
	return nil
}

// Form returns a copy of the working form.
func (b *Builder) Form() *domain.Form {
	return b.form.Clone()
}

// EditMode reports whether the form is bound to a stored id.
func (b *Builder) EditMode() bool {
	return b.form.ID != uuid.Nil
}

func (b *Builder) SetTitle(title string) { b.form.Title = title }

func (b *Builder) SetDescription(description string) { b.form.Description = description }

// AddQuestion appends an empty short text question and returns its id.
func (b *Builder) AddQuestion() string {
	q := domain.Question{
		ID:      b.newID(),
		Type:    domain.ShortText,
		Options: []string{},
	}
	b.form.Questions = append(b.form.Questions, q)
	return q.ID
}

// UpdateQuestion sets one field of the question at index. Switching to a
// choice type seeds two placeholder options when the question has none.
func (b *Builder) UpdateQuestion(index int, field Field, value any) error {
	q, err := b.question(index)
	if err != nil {
		return err
	}

	switch field {
	case FieldType:
		t, ok := value.(domain.QuestionType)
		if !ok {
			s, isString := value.(string)
			if !isString {
				return fmt.Errorf("field %s expects a question type, got %T", field, value)
			}
			t = domain.QuestionType(s)
		}
		if !t.Valid() {
			return fmt.Errorf("unknown question type %q", t)
		}
		q.Type = t
		if t.IsChoice() && len(q.Options) == 0 {
			q.Options = DefaultOptions()
		}
	case FieldTitle:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string, got %T", field, value)
		}
		q.Title = s
	case FieldDescription:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string, got %T", field, value)
		}
		q.Description = s
	case FieldRequired:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s expects a bool, got %T", field, value)
		}
		q.Required = v
	default:
		return fmt.Errorf("unknown question field %q", field)
	}
	return nil
}

// DeleteQuestion removes the question at index; later questions move up.
func (b *Builder) DeleteQuestion(index int) error {
	if _, err := b.question(index); err != nil {
		return err
	}
	qs := b.form.Questions
	b.form.Questions = append(qs[:index:index], qs[index+1:]...)
	return nil
}

// MoveQuestion moves the question at from so that it ends up at to.
func (b *Builder) MoveQuestion(from, to int) error {
	if _, err := b.question(from); err != nil {
		return err
	}
	if _, err := b.question(to); err != nil {
		return err
	}
	qs := b.form.Questions
	q := qs[from]
	if from < to {
		copy(qs[from:to], qs[from+1:to+1])
	} else {
		copy(qs[to+1:from+1], qs[to:from])
	}
	qs[to] = q
	return nil
}

// AddOption appends an empty option to the question at questionIndex.
func (b *Builder) AddOption(questionIndex int) error {
	q, err := b.question(questionIndex)
	if err != nil {
		return err
	}
	q.Options = append(q.Options, "")
	return nil
}

func (b *Builder) UpdateOption(questionIndex, optionIndex int, value string) error {
	q, err := b.question(questionIndex)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("option %d: %w", optionIndex, ErrIndexOutOfRange)
	}
	q.Options[optionIndex] = value
	return nil
}

// DeleteOption removes an option; later options move up.
func (b *Builder) DeleteOption(questionIndex, optionIndex int) error {
	q, err := b.question(questionIndex)
	if err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("option %d: %w", optionIndex, ErrIndexOutOfRange)
	}
	q.Options = append(q.Options[:optionIndex:optionIndex], q.Options[optionIndex+1:]...)
	return nil
}

// Validate reports the first problem that blocks saving.
func (b *Builder) Validate() error {
	return domain.ValidateForm(b.form)
}

type SaveResult struct {
	ID      uuid.UUID
	Created bool
}

// Save validates the form and then creates or updates it. A created form is
// bound to its new id, so the next Save updates it.
func (b *Builder) Save(ctx context.Context) (SaveResult, error) {
	if err := b.Validate(); err != nil {
		return SaveResult{}, err
	}

	payload := b.form.Clone()
	payload.Normalize()
	if !b.EditMode() {
		created, err := b.gateway.CreateForm(ctx, payload)
		if err != nil {
			return SaveResult{}, err
		}
		b.form.ID = created.ID
		return SaveResult{ID: created.ID, Created: true}, nil
	}

	if _, err := b.gateway.UpdateForm(ctx, payload); err != nil {
		return SaveResult{}, err
	}
	return SaveResult{ID: b.form.ID}, nil
}

func (b *Builder) question(index int) (*domain.Question, error) {
	if index < 0 || index >= len(b.form.Questions) {
		return nil, fmt.Errorf("question %d: %w", index, ErrIndexOutOfRange)
	}
	return &b.form.Questions[index], nil
}
