package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

type ResponseRepository interface {
	Save(ctx context.Context, response *domain.Response) error
	ListByForm(ctx context.Context, formID uuid.UUID) ([]*domain.Response, error)
	CountByForm(ctx context.Context, formID uuid.UUID) (int, error)
}

type ResponseService interface {
	Submit(ctx context.Context, submission domain.Submission) (*domain.Response, error)
	ListResponses(ctx context.Context, ownerID uuid.UUID, formID string) (*domain.Form, []*domain.Response, error)
}
