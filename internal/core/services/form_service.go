package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type formService struct {
	repo ports.FormRepository
	now  func() time.Time
}

func NewFormService(repo ports.FormRepository) ports.FormService {
	return &formService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *formService) Create(ctx context.Context, input ports.CreateFormInput) (*domain.Form, error) {
	now := s.now()
	form := &domain.Form{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Questions:   prepareQuestions(input.Questions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	form.Normalize()

	if err := domain.ValidateForm(form); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

func (s *formService) Update(ctx context.Context, input ports.UpdateFormInput) (*domain.Form, error) {
	form, err := s.GetForm(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	form.Title = input.Title
	form.Description = input.Description
	form.Questions = prepareQuestions(input.Questions)
	form.UpdatedAt = s.now()
	form.Normalize()

	if err := domain.ValidateForm(form); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

func (s *formService) GetForm(ctx context.Context, ownerID uuid.UUID, id string) (*domain.Form, error) {
	form, err := s.GetPublicForm(ctx, id)
	if err != nil {
		return nil, err
	}
	// Other people's forms look missing rather than forbidden.
	if form.OwnerID != ownerID {
		return nil, domain.ErrFormNotFound
	}
	return form, nil
}

func (s *formService) GetPublicForm(ctx context.Context, id string) (*domain.Form, error) {
	formID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidFormID
	}

	return s.repo.GetByID(ctx, formID)
}

// prepareQuestions copies the questions, giving an id to any question that
// arrived without one or with a duplicate.
func prepareQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, q := range in {
		q = q.Clone()
		if q.ID == "" || seen[q.ID] {
			q.ID = domain.NewQuestionID()
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
