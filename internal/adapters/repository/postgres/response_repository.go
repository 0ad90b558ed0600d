package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type responseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) ports.ResponseRepository {
	return &responseRepository{
		db: db,
	}
}

// Save stores the answers as a JSONB array of {question_id, answer} items.
func (r *responseRepository) Save(ctx context.Context, response *domain.Response) error {
	answers := response.Answers
	if answers == nil {
		answers = []domain.AnswerItem{}
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `
		INSERT INTO responses (id, form_id, answers, submitted_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err = r.db.ExecContext(ctx, query, response.ID, response.FormID, string(payload), response.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}
	return nil
}

func (r *responseRepository) ListByForm(ctx context.Context, formID uuid.UUID) ([]*domain.Response, error) {
	query := `
		SELECT id, form_id, answers, submitted_at
		FROM responses
		WHERE form_id = $1
		ORDER BY submitted_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	responses := []*domain.Response{}
	for rows.Next() {
		var (
			resp    domain.Response
			payload []byte
		)
		if err := rows.Scan(&resp.ID, &resp.FormID, &payload, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if err := json.Unmarshal(payload, &resp.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers of response %s: %w", resp.ID, err)
		}
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepository) CountByForm(ctx context.Context, formID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses WHERE form_id = $1`, formID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}
