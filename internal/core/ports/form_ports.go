package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

type FormRepository interface {
	Save(ctx context.Context, form *domain.Form) error
	Update(ctx context.Context, form *domain.Form) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	GetAllIDs(ctx context.Context) ([]uuid.UUID, error)
}

type CreateFormInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Questions   []domain.Question
}

type UpdateFormInput struct {
	ID          string
	OwnerID     uuid.UUID
	Title       string
	Description string
	Questions   []domain.Question
}

type FormService interface {
	Create(ctx context.Context, input CreateFormInput) (*domain.Form, error)
	Update(ctx context.Context, input UpdateFormInput) (*domain.Form, error)
	GetForm(ctx context.Context, ownerID uuid.UUID, id string) (*domain.Form, error)
	GetPublicForm(ctx context.Context, id string) (*domain.Form, error)
}
