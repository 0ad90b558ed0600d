package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

// FormGateway is the backend as seen by the builder, filler and analytics
// views. Failures are reported as *domain.NetworkError.
type FormGateway interface {
	GetForm(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	CreateForm(ctx context.Context, form *domain.Form) (*domain.Form, error)
	UpdateForm(ctx context.Context, form *domain.Form) (*domain.Form, error)
	GetPublicForm(ctx context.Context, id uuid.UUID) (*domain.Form, error)
	SubmitResponse(ctx context.Context, submission domain.Submission) error
	GetAnalytics(ctx context.Context, formID uuid.UUID) (*domain.Analytics, error)
	ListResponses(ctx context.Context, formID uuid.UUID) ([]*domain.Response, error)
}
