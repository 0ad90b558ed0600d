package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type summaryService struct {
	formRepo   ports.FormRepository
	resultRepo ports.FormResultRepository
}

func NewSummaryService(formRepo ports.FormRepository, resultRepo ports.FormResultRepository) ports.SummaryService {
	return &summaryService{
		formRepo:   formRepo,
		resultRepo: resultRepo,
	}
}

// SummarizeAllForms rebuilds the option tallies of every form concurrently
// and reports the first failure.
func (s *summaryService) SummarizeAllForms(ctx context.Context) error {
	ids, err := s.formRepo.GetAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all forms: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(ids))

	for _, id := range ids {
		wg.Add(1)
		go func(formID uuid.UUID) {
			defer wg.Done()
			if err := s.resultRepo.SummarizeResponses(ctx, formID); err != nil {
				errChan <- fmt.Errorf("failed to summarize form %s: %w", formID, err)
			}
		}(id)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
