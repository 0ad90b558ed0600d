package analytics

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

func TestHistogramAndAverage(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		histogram []int64
		average   float64
	}{
		{name: "mixed", ratings: []int{5, 5, 4, 3}, histogram: []int64{0, 0, 1, 1, 2}, average: 4.3},
		{name: "empty", ratings: nil, histogram: []int64{0, 0, 0, 0, 0}, average: 0},
		{name: "single", ratings: []int{1}, histogram: []int64{1, 0, 0, 0, 0}, average: 1},
		{name: "thirds", ratings: []int{1, 2, 2}, histogram: []int64{1, 2, 0, 0, 0}, average: 1.7},
		{name: "out of range skipped in histogram", ratings: []int{5, 9}, histogram: []int64{0, 0, 0, 0, 1}, average: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets := Histogram(tt.ratings)
			require.Len(t, buckets, 5)
			for i, b := range buckets {
				assert.Equal(t, i+1, b.Rating)
				assert.Equal(t, tt.histogram[i], b.Count, "bucket %d", b.Rating)
			}
			assert.Equal(t, tt.average, Average(tt.ratings))
		})
	}
}

func TestBars(t *testing.T) {
	bars := Bars([]domain.OptionCount{{Option: "Yes", Count: 3}, {Option: "No", Count: 1}})

	require.Len(t, bars, 2)
	assert.Equal(t, "Yes", bars[0].Option)
	assert.InDelta(t, 75.0, bars[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, bars[1].Percentage, 0.001)

	zero := Bars([]domain.OptionCount{{Option: "A"}})
	assert.Equal(t, 0.0, zero[0].Percentage)
	assert.Empty(t, Bars(nil))
}

func sampleForm() *domain.Form {
	return &domain.Form{
		ID:    uuid.New(),
		Title: "Survey",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.MultipleChoice, Title: "Fish today?", Options: []string{"Yes", "No"}},
			{ID: "q2", Type: domain.Rating, Title: "Weather"},
			{ID: "q3", Type: domain.ShortText, Title: "Boat"},
			{ID: "q4", Type: domain.Checkboxes, Title: "Species", Options: []string{"Tuna", "Squid"}},
		},
	}
}

func TestSummarizeEmpty(t *testing.T) {
	report := Summarize(sampleForm(), &domain.Analytics{TotalResponses: 0, Questions: []domain.QuestionAnalytics{
		{QuestionID: "q3", Type: domain.ShortText, Texts: []string{"ghost"}},
	}})

	assert.True(t, report.Empty)
	assert.Nil(t, report.Cards)

	assert.True(t, Summarize(sampleForm(), nil).Empty)
}

func TestSummarizeFollowsSchemaOrder(t *testing.T) {
	form := sampleForm()
	data := &domain.Analytics{
		FormID:         form.ID,
		TotalResponses: 4,
		Questions: []domain.QuestionAnalytics{
			{QuestionID: "q3", Type: domain.ShortText, Texts: []string{"Bangka", "Banca", "Bangka"}},
			{QuestionID: "q2", Type: domain.Rating, Ratings: []int{5, 5, 4, 3}},
			{QuestionID: "q1", Type: domain.MultipleChoice, Counts: []domain.OptionCount{{Option: "Yes", Count: 3}, {Option: "No", Count: 1}}},
		},
	}

	report := Summarize(form, data)

	assert.False(t, report.Empty)
	assert.Equal(t, 4, report.TotalResponses)
	require.Len(t, report.Cards, 4)

	c := report.Cards[0]
	assert.Equal(t, KindCounts, c.Kind)
	assert.Equal(t, 4, c.Responses)
	assert.Equal(t, "Yes", c.Bars[0].Option)

	c = report.Cards[1]
	assert.Equal(t, KindRating, c.Kind)
	assert.Equal(t, 4.3, c.Average)
	assert.Equal(t, int64(2), c.Histogram[4].Count)

	c = report.Cards[2]
	assert.Equal(t, KindText, c.Kind)
	assert.Equal(t, []string{"Bangka", "Banca", "Bangka"}, c.Texts)

	c = report.Cards[3]
	assert.Equal(t, KindCounts, c.Kind)
	assert.Empty(t, c.Bars)
	assert.Equal(t, 0, c.Responses)
}

func TestSummarizeFallsBackToPosition(t *testing.T) {
	form := sampleForm()
	data := &domain.Analytics{
		TotalResponses: 1,
		Questions: []domain.QuestionAnalytics{
			{Type: domain.MultipleChoice, Counts: []domain.OptionCount{{Option: "No", Count: 1}}},
			{Type: domain.Rating, Ratings: []int{2}},
		},
	}

	report := Summarize(form, data)

	require.Len(t, report.Cards, 4)
	assert.Equal(t, int64(1), report.Cards[0].Bars[0].Count)
	assert.Equal(t, 2.0, report.Cards[1].Average)
}

func TestClassify(t *testing.T) {
	for _, qt := range domain.QuestionTypes {
		switch {
		case qt.IsChoice():
			assert.Equal(t, KindCounts, Classify(qt), qt)
		case qt == domain.Rating:
			assert.Equal(t, KindRating, Classify(qt), qt)
		default:
			assert.Equal(t, KindText, Classify(qt), qt)
		}
	}
}

type fakeGateway struct {
	ports.FormGateway
	form   *domain.Form
	data   *domain.Analytics
	getErr error
	calls  int
}

func (g *fakeGateway) GetForm(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.form, nil
}

func (g *fakeGateway) GetAnalytics(ctx context.Context, id uuid.UUID) (*domain.Analytics, error) {
	g.calls++
	return g.data, nil
}

func TestLoaderAlwaysFetches(t *testing.T) {
	form := sampleForm()
	gw := &fakeGateway{form: form, data: &domain.Analytics{TotalResponses: 1}}
	l := NewLoader(gw)

	r1, err := l.Load(context.Background(), form.ID)
	require.NoError(t, err)
	assert.Len(t, r1.Cards, 4)

	gw.data = &domain.Analytics{TotalResponses: 0}
	r2, err := l.Load(context.Background(), form.ID)
	require.NoError(t, err)
	assert.True(t, r2.Empty)
	assert.Equal(t, 2, gw.calls)
}

func TestLoaderNotFound(t *testing.T) {
	gw := &fakeGateway{getErr: &domain.NetworkError{Op: "get form", Status: http.StatusNotFound}}

	_, err := NewLoader(gw).Load(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}
