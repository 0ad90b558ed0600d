package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
	"go.uber.org/zap"
)

type responseFixture struct {
	forms     *memFormRepo
	responses *memResponseRepo
	results   *memResultRepo
	formSvc   ports.FormService
	svc       ports.ResponseService
	form      *domain.Form
	owner     uuid.UUID
}

func newResponseFixture(t *testing.T) *responseFixture {
	t.Helper()
	f := &responseFixture{
		forms:     newMemFormRepo(),
		responses: &memResponseRepo{},
		owner:     uuid.New(),
	}
	f.results = &memResultRepo{forms: f.forms, responses: f.responses}
	f.formSvc = NewFormService(f.forms)
	f.svc = NewResponseService(f.formSvc, f.responses, f.results, zap.NewNop())

	form, err := f.formSvc.Create(context.Background(), ports.CreateFormInput{
		OwnerID: f.owner,
		Title:   "Port survey",
		Questions: []domain.Question{
			{ID: "name", Type: domain.ShortText, Title: "Name", Required: true},
			{ID: "port", Type: domain.MultipleChoice, Title: "Port", Options: []string{"Navotas", "Iloilo"}},
			{ID: "gear", Type: domain.Checkboxes, Title: "Gear", Options: []string{"Net", "Line", "Trap"}},
			{ID: "score", Type: domain.Rating, Title: "Score"},
		},
	})
	require.NoError(t, err)
	f.form = form
	return f
}

func TestSubmitStoresAnswersInSchemaOrder(t *testing.T) {
	f := newResponseFixture(t)

	resp, err := f.svc.Submit(context.Background(), domain.Submission{
		FormID: f.form.ID,
		Answers: []domain.AnswerItem{
			{QuestionID: "score", Answer: domain.RatingAnswer(4)},
			{QuestionID: "gear", Answer: domain.ChoicesAnswer("Net", "Trap")},
			{QuestionID: "name", Answer: domain.TextAnswer("Ana")},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.False(t, resp.SubmittedAt.IsZero())
	assert.Equal(t, []string{"name", "gear", "score"}, []string{
		resp.Answers[0].QuestionID, resp.Answers[1].QuestionID, resp.Answers[2].QuestionID,
	})
	assert.Equal(t, []uuid.UUID{f.form.ID}, f.results.summarized)
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name    string
		answers []domain.AnswerItem
		target  error
		message string
	}{
		{
			name:    "missing required",
			answers: []domain.AnswerItem{{QuestionID: "port", Answer: domain.TextAnswer("Iloilo")}},
			message: "Please answer: Name",
		},
		{
			name: "blank required",
			answers: []domain.AnswerItem{
				{QuestionID: "name", Answer: domain.TextAnswer("")},
			},
			message: "Please answer: Name",
		},
		{
			name: "unknown question",
			answers: []domain.AnswerItem{
				{QuestionID: "name", Answer: domain.TextAnswer("Ana")},
				{QuestionID: "ghost", Answer: domain.TextAnswer("boo")},
			},
			target: domain.ErrInvalidAnswer,
		},
		{
			name: "option not offered",
			answers: []domain.AnswerItem{
				{QuestionID: "name", Answer: domain.TextAnswer("Ana")},
				{QuestionID: "port", Answer: domain.TextAnswer("Manila")},
			},
			target: domain.ErrInvalidAnswer,
		},
		{
			name: "rating out of range",
			answers: []domain.AnswerItem{
				{QuestionID: "name", Answer: domain.TextAnswer("Ana")},
				{QuestionID: "score", Answer: domain.RatingAnswer(9)},
			},
			target: domain.ErrInvalidAnswer,
		},
		{
			name: "zero rating",
			answers: []domain.AnswerItem{
				{QuestionID: "name", Answer: domain.TextAnswer("Ana")},
				{QuestionID: "score", Answer: domain.RatingAnswer(0)},
			},
			target: domain.ErrInvalidAnswer,
		},
		{
			name: "answered twice",
			answers: []domain.AnswerItem{
				{QuestionID: "name", Answer: domain.TextAnswer("Ana")},
				{QuestionID: "name", Answer: domain.TextAnswer("Ben")},
			},
			target: domain.ErrInvalidAnswer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResponseFixture(t)

			_, err := f.svc.Submit(context.Background(), domain.Submission{FormID: f.form.ID, Answers: tt.answers})

			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			} else {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.message, verr.Message)
			}
			assert.Empty(t, f.responses.responses)
		})
	}
}

func TestSubmitUnknownForm(t *testing.T) {
	f := newResponseFixture(t)

	_, err := f.svc.Submit(context.Background(), domain.Submission{FormID: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestSubmitSurvivesTallyFailure(t *testing.T) {
	f := newResponseFixture(t)
	f.results.err = errors.New("deadlock detected")

	_, err := f.svc.Submit(context.Background(), domain.Submission{
		FormID:  f.form.ID,
		Answers: []domain.AnswerItem{{QuestionID: "name", Answer: domain.TextAnswer("Ana")}},
	})

	require.NoError(t, err)
	assert.Len(t, f.responses.responses, 1)
}

func TestListResponsesIsOwnerOnly(t *testing.T) {
	f := newResponseFixture(t)
	_, err := f.svc.Submit(context.Background(), domain.Submission{
		FormID:  f.form.ID,
		Answers: []domain.AnswerItem{{QuestionID: "name", Answer: domain.TextAnswer("Ana")}},
	})
	require.NoError(t, err)

	form, list, err := f.svc.ListResponses(context.Background(), f.owner, f.form.ID.String())
	require.NoError(t, err)
	assert.Equal(t, f.form.ID, form.ID)
	assert.Len(t, list, 1)

	_, _, err = f.svc.ListResponses(context.Background(), uuid.New(), f.form.ID.String())
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}
