package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type fakeGateway struct {
	ports.FormGateway
	stored    *domain.Form
	created   []*domain.Form
	updated   []*domain.Form
	createErr error
	updateErr error
	getErr    error
}

func (g *fakeGateway) GetForm(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.stored.Clone(), nil
}

func (g *fakeGateway) CreateForm(ctx context.Context, form *domain.Form) (*domain.Form, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, form)
	created := form.Clone()
	created.ID = uuid.New()
	return created, nil
}

func (g *fakeGateway) UpdateForm(ctx context.Context, form *domain.Form) (*domain.Form, error) {
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	g.updated = append(g.updated, form)
	return form, nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q_%d", n)
	}
}

func newBuilder(t *testing.T, gw *fakeGateway) *Builder {
	t.Helper()
	if gw == nil {
		gw = &fakeGateway{}
	}
	return New(gw, WithIDGenerator(sequentialIDs()))
}

func validBuilder(t *testing.T, gw *fakeGateway) *Builder {
	t.Helper()
	b := newBuilder(t, gw)
	b.SetTitle("Survey")
	b.AddQuestion()
	require.NoError(t, b.UpdateQuestion(0, FieldTitle, "Do you fish?"))
	require.NoError(t, b.UpdateQuestion(0, FieldType, domain.MultipleChoice))
	require.NoError(t, b.UpdateOption(0, 0, "Yes"))
	require.NoError(t, b.UpdateOption(0, 1, "No"))
	return b
}

func TestAddQuestionDefaults(t *testing.T) {
	b := newBuilder(t, nil)

	id1 := b.AddQuestion()
	id2 := b.AddQuestion()

	form := b.Form()
	require.Len(t, form.Questions, 2)
	assert.NotEqual(t, id1, id2)

	q := form.Questions[0]
	assert.Equal(t, id1, q.ID)
	assert.Equal(t, domain.ShortText, q.Type)
	assert.Empty(t, q.Title)
	assert.False(t, q.Required)
	assert.Empty(t, q.Options)
}

func TestUpdateQuestionTypeSeedsOptions(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.QuestionType
		options  []string
		to       domain.QuestionType
		expected []string
	}{
		{
			name:     "text to choice seeds defaults",
			from:     domain.ShortText,
			to:       domain.MultipleChoice,
			expected: []string{"Option 1", "Option 2"},
		},
		{
			name:     "choice to choice keeps options",
			from:     domain.MultipleChoice,
			options:  []string{"A", "B", "C"},
			to:       domain.Checkboxes,
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "text with leftover options keeps them",
			from:     domain.Rating,
			options:  []string{"kept"},
			to:       domain.Dropdown,
			expected: []string{"kept"},
		},
		{
			name:     "choice to text leaves options alone",
			from:     domain.Dropdown,
			options:  []string{"A", "B"},
			to:       domain.Date,
			expected: []string{"A", "B"},
		},
		{
			name:     "text to text adds nothing",
			from:     domain.ShortText,
			to:       domain.LongText,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t, nil)
			b.AddQuestion()
			b.form.Questions[0].Type = tt.from
			if tt.options != nil {
				b.form.Questions[0].Options = tt.options
			}

			require.NoError(t, b.UpdateQuestion(0, FieldType, tt.to))

			q := b.Form().Questions[0]
			assert.Equal(t, tt.to, q.Type)
			assert.Equal(t, tt.expected, q.Options)
		})
	}
}

func TestUpdateQuestionRejectsBadInput(t *testing.T) {
	b := newBuilder(t, nil)
	b.AddQuestion()
	before := b.Form()

	assert.ErrorIs(t, b.UpdateQuestion(3, FieldTitle, "x"), ErrIndexOutOfRange)
	assert.Error(t, b.UpdateQuestion(0, FieldType, "essay"))
	assert.Error(t, b.UpdateQuestion(0, FieldRequired, "yes"))
	assert.Error(t, b.UpdateQuestion(0, Field("color"), "red"))

	assert.Equal(t, before, b.Form())
}

func TestUpdateQuestionAcceptsStringType(t *testing.T) {
	b := newBuilder(t, nil)
	b.AddQuestion()

	require.NoError(t, b.UpdateQuestion(0, FieldType, "rating"))
	require.NoError(t, b.UpdateQuestion(0, FieldRequired, true))
	require.NoError(t, b.UpdateQuestion(0, FieldDescription, "1 is worst"))

	q := b.Form().Questions[0]
	assert.Equal(t, domain.Rating, q.Type)
	assert.True(t, q.Required)
	assert.Equal(t, "1 is worst", q.Description)
}

func TestDeleteQuestionShiftsIndices(t *testing.T) {
	b := newBuilder(t, nil)
	ids := []string{b.AddQuestion(), b.AddQuestion(), b.AddQuestion()}

	require.NoError(t, b.DeleteQuestion(1))

	form := b.Form()
	require.Len(t, form.Questions, 2)
	assert.Equal(t, ids[0], form.Questions[0].ID)
	assert.Equal(t, ids[2], form.Questions[1].ID)

	assert.ErrorIs(t, b.DeleteQuestion(2), ErrIndexOutOfRange)
}

func TestMoveQuestion(t *testing.T) {
	b := newBuilder(t, nil)
	a, c, d := b.AddQuestion(), b.AddQuestion(), b.AddQuestion()

	require.NoError(t, b.MoveQuestion(0, 2))
	assert.Equal(t, []string{c, d, a}, questionIDs(b.Form()))

	require.NoError(t, b.MoveQuestion(2, 0))
	assert.Equal(t, []string{a, c, d}, questionIDs(b.Form()))

	assert.ErrorIs(t, b.MoveQuestion(0, 5), ErrIndexOutOfRange)
}

func TestOptionEditing(t *testing.T) {
	b := newBuilder(t, nil)
	b.AddQuestion()
	require.NoError(t, b.UpdateQuestion(0, FieldType, domain.Checkboxes))

	require.NoError(t, b.AddOption(0))
	require.NoError(t, b.UpdateOption(0, 2, "Third"))
	assert.Equal(t, []string{"Option 1", "Option 2", "Third"}, b.Form().Questions[0].Options)

	require.NoError(t, b.DeleteOption(0, 0))
	assert.Equal(t, []string{"Option 2", "Third"}, b.Form().Questions[0].Options)

	assert.ErrorIs(t, b.UpdateOption(0, 2, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, b.DeleteOption(0, -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, b.AddOption(4), ErrIndexOutOfRange)
}

func TestFormReturnsCopy(t *testing.T) {
	b := validBuilder(t, nil)

	form := b.Form()
	form.Questions[0].Options[0] = "changed"
	form.Title = "changed"

	assert.Equal(t, "Yes", b.Form().Questions[0].Options[0])
	assert.Equal(t, "Survey", b.Form().Title)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *Builder)
		message string
	}{
		{
			name:   "valid form",
			mutate: func(b *Builder) {},
		},
		{
			name:    "blank title",
			mutate:  func(b *Builder) { b.SetTitle("   ") },
			message: "Please enter a form title",
		},
		{
			name:    "no questions",
			mutate:  func(b *Builder) { _ = b.DeleteQuestion(0) },
			message: "Please add at least one question",
		},
		{
			name: "blank question title",
			mutate: func(b *Builder) {
				b.AddQuestion()
			},
			message: "Question 2 is missing a title",
		},
		{
			name:    "single option",
			mutate:  func(b *Builder) { _ = b.DeleteOption(0, 1) },
			message: "Question 1 needs at least 2 valid options",
		},
		{
			name:    "whitespace option",
			mutate:  func(b *Builder) { _ = b.UpdateOption(0, 1, " \t") },
			message: "Question 1 needs at least 2 valid options",
		},
		{
			name: "text question needs no options",
			mutate: func(b *Builder) {
				b.AddQuestion()
				_ = b.UpdateQuestion(1, FieldTitle, "Name")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBuilder(t, nil)
			tt.mutate(b)

			err := b.Validate()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	gw := &fakeGateway{}
	b := validBuilder(t, gw)

	res, err := b.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.True(t, b.EditMode())
	require.Len(t, gw.created, 1)
	assert.Equal(t, uuid.Nil, gw.created[0].ID)

	b.SetDescription("second pass")
	res2, err := b.Save(context.Background())
	require.NoError(t, err)
	assert.False(t, res2.Created)
	assert.Equal(t, res.ID, res2.ID)
	require.Len(t, gw.updated, 1)
	assert.Equal(t, res.ID, gw.updated[0].ID)
	assert.Equal(t, "second pass", gw.updated[0].Description)
}

func TestSaveStripsUnusedOptions(t *testing.T) {
	gw := &fakeGateway{}
	b := validBuilder(t, gw)
	b.AddQuestion()
	require.NoError(t, b.UpdateQuestion(1, FieldTitle, "Comments"))
	b.form.Questions[1].Options = []string{"left over"}

	_, err := b.Save(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.created, 1)
	assert.Empty(t, gw.created[0].Questions[1].Options)
	assert.Equal(t, []string{"left over"}, b.Form().Questions[1].Options)
}

func TestSaveValidationBlocksNetwork(t *testing.T) {
	gw := &fakeGateway{}
	b := newBuilder(t, gw)

	_, err := b.Save(context.Background())

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, gw.created)
	assert.Empty(t, gw.updated)
}

func TestSaveFailureKeepsForm(t *testing.T) {
	gw := &fakeGateway{createErr: &domain.NetworkError{Op: "create form", Status: http.StatusInternalServerError}}
	b := validBuilder(t, gw)
	before := b.Form()

	_, err := b.Save(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, before, b.Form())
	assert.False(t, b.EditMode())
}

func TestLoad(t *testing.T) {
	stored := &domain.Form{
		ID:    uuid.New(),
		Title: "Stored",
		Questions: []domain.Question{
			{ID: "q_a", Type: domain.Rating, Title: "How was it?"},
		},
	}
	gw := &fakeGateway{stored: stored}
	b := newBuilder(t, gw)

	require.NoError(t, b.Load(context.Background(), stored.ID))
	assert.True(t, b.EditMode())
	assert.Equal(t, "Stored", b.Form().Title)

	gw.getErr = &domain.NetworkError{Op: "get form", Status: http.StatusNotFound}
	err := b.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
	assert.Equal(t, "Stored", b.Form().Title)

	gw.getErr = errors.New("connection refused")
	err = b.Load(context.Background(), uuid.New())
	assert.False(t, errors.Is(err, domain.ErrFormNotFound))
}

func TestEditorFor(t *testing.T) {
	for _, qt := range domain.QuestionTypes {
		e := EditorFor(qt)
		assert.Equal(t, qt.IsChoice(), e.Options, qt)
		assert.Equal(t, qt == domain.Rating, e.RatingScale, qt)
	}
}

func questionIDs(f *domain.Form) []string {
	ids := make([]string, len(f.Questions))
	for i, q := range f.Questions {
		ids[i] = q.ID
	}
	return ids
}
