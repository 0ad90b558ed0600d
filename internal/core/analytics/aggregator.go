// Package analytics turns the per-question responses served for a form into
// chart-ready cards, one per question in schema order.
package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

// Kind is how a question's responses are summarised.
type Kind string

const (
	KindCounts Kind = "counts"
	KindRating Kind = "rating"
	KindText   Kind = "text"
)

// Classify returns the summary kind for a question type.
func Classify(t domain.QuestionType) Kind {
	switch t {
	case domain.MultipleChoice, domain.Checkboxes, domain.Dropdown:
		return KindCounts
	case domain.Rating:
		return KindRating
	case domain.ShortText, domain.LongText, domain.Date:
		return KindText
	}
	return KindText
}

// Bar is one option of a counts card with its share of the card total.
type Bar struct {
	Option     string  `json:"option"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Bucket is one star value of a rating histogram.
type Bucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

type Card struct {
	QuestionID string              `json:"question_id"`
	Title      string              `json:"title"`
	Type       domain.QuestionType `json:"type"`
	Kind       Kind                `json:"kind"`
	Bars       []Bar               `json:"bars,omitempty"`
	Histogram  []Bucket            `json:"histogram,omitempty"`
	Average    float64             `json:"average"`
	Responses  int                 `json:"responses"`
	Texts      []string            `json:"texts,omitempty"`
}

type Report struct {
	FormID         uuid.UUID `json:"form_id"`
	Title          string    `json:"title"`
	TotalResponses int       `json:"total_responses"`
	// Empty is set when nobody has answered yet; Cards is nil then.
	Empty bool   `json:"empty"`
	Cards []Card `json:"cards"`
}

// Summarize builds the report for a form from its analytics payload.
// Questions are matched by id, falling back to position when the payload
// omits ids.
func Summarize(form *domain.Form, data *domain.Analytics) Report {
	report := Report{
		FormID: form.ID,
		Title:  form.Title,
	}
	if data != nil {
		report.TotalResponses = data.TotalResponses
	}
	if report.TotalResponses == 0 {
		report.Empty = true
		return report
	}

	byID := make(map[string]domain.QuestionAnalytics, len(data.Questions))
	for _, qa := range data.Questions {
		if qa.QuestionID != "" {
			byID[qa.QuestionID] = qa
		}
	}

	report.Cards = make([]Card, 0, len(form.Questions))
	for i, q := range form.Questions {
		qa, ok := byID[q.ID]
		if !ok && i < len(data.Questions) && data.Questions[i].QuestionID == "" {
			qa = data.Questions[i]
		}
		report.Cards = append(report.Cards, summarizeQuestion(q, qa))
	}
	return report
}

func summarizeQuestion(q domain.Question, qa domain.QuestionAnalytics) Card {
	card := Card{
		QuestionID: q.ID,
		Title:      q.Title,
		Type:       q.Type,
		Kind:       Classify(q.Type),
	}

	switch card.Kind {
	case KindCounts:
		card.Bars = Bars(qa.Counts)
		for _, b := range card.Bars {
			card.Responses += int(b.Count)
		}
	case KindRating:
		card.Histogram = Histogram(qa.Ratings)
		card.Average = Average(qa.Ratings)
		card.Responses = len(qa.Ratings)
	case KindText:
		card.Texts = append([]string{}, qa.Texts...)
		card.Responses = len(qa.Texts)
	}
	return card
}

// Bars converts option counts into bars carrying their percentage of the
// total, keeping the supplied order.
func Bars(counts []domain.OptionCount) []Bar {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(c.Count) / float64(total) * 100
		}
		bars = append(bars, Bar{Option: c.Option, Count: c.Count, Percentage: pct})
	}
	return bars
}

// Histogram tallies ratings into the fixed 1..5 buckets. Values outside the
// scale are not counted.
func Histogram(ratings []int) []Bucket {
	buckets := make([]Bucket, 0, domain.RatingMax-domain.RatingMin+1)
	for r := domain.RatingMin; r <= domain.RatingMax; r++ {
		buckets = append(buckets, Bucket{Rating: r})
	}
	for _, r := range ratings {
		if r >= domain.RatingMin && r <= domain.RatingMax {
			buckets[r-domain.RatingMin].Count++
		}
	}
	return buckets
}

// Average is the mean rating rounded to one decimal, 0 when there are none.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

// Loader fetches a form and its analytics and summarizes them. Every call
// goes to the backend; nothing is cached between calls.
type Loader struct {
	gateway ports.FormGateway
}

func NewLoader(gateway ports.FormGateway) *Loader {
	return &Loader{gateway: gateway}
}

func (l *Loader) Load(ctx context.Context, formID uuid.UUID) (Report, error) {
	form, err := l.gateway.GetForm(ctx, formID)
	if err != nil {
		return Report{}, notFound(err, formID)
	}
	data, err := l.gateway.GetAnalytics(ctx, formID)
	if err != nil {
		return Report{}, notFound(err, formID)
	}
	return Summarize(form, data), nil
}

func notFound(err error, formID uuid.UUID) error {
	if domain.IsNotFound(err) {
		return fmt.Errorf("%w: %s", domain.ErrFormNotFound, formID)
	}
	return err
}
