package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type analyticsService struct {
	forms     ports.FormService
	responses ports.ResponseRepository
	results   ports.FormResultRepository
}

func NewAnalyticsService(forms ports.FormService, responses ports.ResponseRepository, results ports.FormResultRepository) ports.AnalyticsService {
	return &analyticsService{
		forms:     forms,
		responses: responses,
		results:   results,
	}
}

// GetAnalytics reads straight from storage on every call. Choice questions
// use the stored option tallies, everything else the raw answers.
func (s *analyticsService) GetAnalytics(ctx context.Context, ownerID uuid.UUID, formID string) (*domain.Analytics, error) {
	form, err := s.forms.GetForm(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	counts, err := s.results.GetOptionCounts(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	return BuildAnalytics(form, responses, counts), nil
}

// BuildAnalytics assembles the analytics payload for a form. counts holds the
// tallies per choice question id; options nobody picked are reported with
// zero, and tallies for options no longer on the form come last, sorted.
func BuildAnalytics(form *domain.Form, responses []*domain.Response, counts map[string][]domain.OptionCount) *domain.Analytics {
	out := &domain.Analytics{
		FormID:         form.ID,
		TotalResponses: len(responses),
		Questions:      make([]domain.QuestionAnalytics, 0, len(form.Questions)),
	}

	for _, q := range form.Questions {
		qa := domain.QuestionAnalytics{QuestionID: q.ID, Type: q.Type, Title: q.Title}

		switch {
		case q.Type.IsChoice():
			qa.Counts = orderCounts(q.Options, counts[q.ID])
		case q.Type == domain.Rating:
			qa.Ratings = []int{}
			for _, r := range responses {
				if a, ok := r.Answer(q.ID); ok && a.Kind == domain.AnswerRating && a.Rating >= domain.RatingMin && a.Rating <= domain.RatingMax {
					qa.Ratings = append(qa.Ratings, a.Rating)
				}
			}
		default:
			qa.Texts = []string{}
			for _, r := range responses {
				if a, ok := r.Answer(q.ID); ok && !a.IsEmpty() {
					qa.Texts = append(qa.Texts, a.String())
				}
			}
		}

		out.Questions = append(out.Questions, qa)
	}
	return out
}

func orderCounts(options []string, tallies []domain.OptionCount) []domain.OptionCount {
	byOption := make(map[string]int64, len(tallies))
	for _, t := range tallies {
		byOption[t.Option] += t.Count
	}

	ordered := make([]domain.OptionCount, 0, len(options)+len(tallies))
	for _, opt := range options {
		ordered = append(ordered, domain.OptionCount{Option: opt, Count: byOption[opt]})
		delete(byOption, opt)
	}

	var stale []string
	for opt := range byOption {
		stale = append(stale, opt)
	}
	sort.Strings(stale)
	for _, opt := range stale {
		ordered = append(ordered, domain.OptionCount{Option: opt, Count: byOption[opt]})
	}
	return ordered
}
