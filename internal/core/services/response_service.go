package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
	"go.uber.org/zap"
)

type responseService struct {
	forms   ports.FormService
	repo    ports.ResponseRepository
	results ports.FormResultRepository
	log     *zap.Logger
	now     func() time.Time
}

func NewResponseService(forms ports.FormService, repo ports.ResponseRepository, results ports.FormResultRepository, log *zap.Logger) ports.ResponseService {
	return &responseService{
		forms:   forms,
		repo:    repo,
		results: results,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *responseService) Submit(ctx context.Context, submission domain.Submission) (*domain.Response, error) {
	form, err := s.forms.GetPublicForm(ctx, submission.FormID.String())
	if err != nil {
		return nil, err
	}

	answers := make(map[string]domain.Answer, len(submission.Answers))
	for _, item := range submission.Answers {
		q, ok := form.Question(item.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %q", domain.ErrInvalidAnswer, item.QuestionID)
		}
		if _, dup := answers[q.ID]; dup {
			return nil, fmt.Errorf("%w: question %q answered twice", domain.ErrInvalidAnswer, q.ID)
		}
		if err := domain.CheckAnswer(q, item.Answer); err != nil {
			return nil, err
		}
		answers[q.ID] = item.Answer
	}

	if q, missing := domain.FirstUnanswered(form, answers); missing {
		return nil, domain.NewValidationError("Please answer: %s", q.Title)
	}

	// Stored in schema order, one item per question.
	items := make([]domain.AnswerItem, 0, len(form.Questions))
	for _, q := range form.Questions {
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		items = append(items, domain.AnswerItem{QuestionID: q.ID, Answer: a})
	}

	response := &domain.Response{
		ID:          uuid.New(),
		FormID:      form.ID,
		Answers:     items,
		SubmittedAt: s.now(),
	}
	if err := s.repo.Save(ctx, response); err != nil {
		return nil, err
	}

	if err := s.results.SummarizeResponses(ctx, form.ID); err != nil {
		s.log.Warn("failed to refresh option tallies",
			zap.String("form_id", form.ID.String()),
			zap.Error(err),
		)
	}

	return response, nil
}

func (s *responseService) ListResponses(ctx context.Context, ownerID uuid.UUID, formID string) (*domain.Form, []*domain.Response, error) {
	form, err := s.forms.GetForm(ctx, ownerID, formID)
	if err != nil {
		return nil, nil, err
	}

	responses, err := s.repo.ListByForm(ctx, form.ID)
	if err != nil {
		return nil, nil, err
	}
	return form, responses, nil
}
