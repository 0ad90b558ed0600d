package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/eforms/internal/adapters/client/rest"
	"github.com/vncsmyrnk/eforms/internal/core/analytics"
	"github.com/vncsmyrnk/eforms/internal/core/builder"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/filler"
)

// TestFormFlow: build a form -> fetch it publicly -> reject an empty submit ->
// submit -> read analytics.
func TestFormFlow(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	_, token := app.createUserAndToken(t)
	owner := rest.New(app.APIURL(), rest.WithHTTPClient(app.Client), rest.WithSession(&domain.Session{AccessToken: token}))
	public := rest.New(app.APIURL(), rest.WithHTTPClient(app.Client))

	// Step 1: build and save
	b := builder.New(owner)
	b.SetTitle("Survey")
	b.AddQuestion()
	require.NoError(t, b.UpdateQuestion(0, builder.FieldType, domain.MultipleChoice))
	require.NoError(t, b.UpdateQuestion(0, builder.FieldTitle, "Do you fish?"))
	require.NoError(t, b.UpdateQuestion(0, builder.FieldRequired, true))
	require.NoError(t, b.UpdateOption(0, 0, "Yes"))
	require.NoError(t, b.UpdateOption(0, 1, "No"))

	saved, err := b.Save(ctx)
	require.NoError(t, err)
	require.True(t, saved.Created)
	assert.True(t, b.EditMode())

	// Step 2: the public schema matches what was built
	f := filler.New(public, saved.ID)
	require.NoError(t, f.Load(ctx))
	built := b.Form()
	loaded := f.Form()
	assert.Equal(t, built.Title, loaded.Title)
	assert.Equal(t, built.Questions, loaded.Questions)

	// Step 3: empty submit is rejected locally
	err = f.Submit(ctx)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please answer: Do you fish?", verr.Message)
	assert.Equal(t, filler.StateReady, f.State())

	// Step 4: answer and submit
	qid := loaded.Questions[0].ID
	require.NoError(t, f.SetChoice(qid, "Yes"))
	require.NoError(t, f.Submit(ctx))
	assert.Equal(t, filler.StateSubmitted, f.State())

	// Step 5: analytics reflect the submission
	report, err := analytics.NewLoader(owner).Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, report.Empty)
	assert.Equal(t, 1, report.TotalResponses)
	require.Len(t, report.Cards, 1)
	assert.Equal(t, []analytics.Bar{
		{Option: "Yes", Count: 1, Percentage: 100},
		{Option: "No", Count: 0, Percentage: 0},
	}, report.Cards[0].Bars)

	// Step 6: a second save updates in place
	b.SetDescription("Quarterly check")
	again, err := b.Save(ctx)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, saved.ID, again.ID)

	stored, err := owner.GetForm(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly check", stored.Description)
}

func TestEditingSomeoneElsesFormLooksMissing(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	_, ownerToken := app.createUserAndToken(t)
	_, otherToken := app.createUserAndToken(t)
	owner := rest.New(app.APIURL(), rest.WithHTTPClient(app.Client), rest.WithSession(&domain.Session{AccessToken: ownerToken}))
	other := rest.New(app.APIURL(), rest.WithHTTPClient(app.Client), rest.WithSession(&domain.Session{AccessToken: otherToken}))

	b := builder.New(owner)
	b.SetTitle("Private")
	b.AddQuestion()
	require.NoError(t, b.UpdateQuestion(0, builder.FieldTitle, "Name"))
	saved, err := b.Save(ctx)
	require.NoError(t, err)

	err = builder.New(other).Load(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrFormNotFound)

	_, err = analytics.NewLoader(other).Load(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}
