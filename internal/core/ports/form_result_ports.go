package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

// FormResultRepository keeps per-option tallies of choice answers.
type FormResultRepository interface {
	SummarizeResponses(ctx context.Context, formID uuid.UUID) error
	GetOptionCounts(ctx context.Context, formID uuid.UUID) (map[string][]domain.OptionCount, error)
}

type SummaryService interface {
	SummarizeAllForms(ctx context.Context) error
}

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, ownerID uuid.UUID, formID string) (*domain.Analytics, error)
}
