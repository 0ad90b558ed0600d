package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type formResultRepository struct {
	db *sql.DB
}

func NewFormResultRepository(db *sql.DB) ports.FormResultRepository {
	return &formResultRepository{
		db: db,
	}
}

func (r *formResultRepository) GetOptionCounts(ctx context.Context, formID uuid.UUID) (map[string][]domain.OptionCount, error) {
	query := `
		SELECT question_id, option, response_count
		FROM form_results
		WHERE form_id = $1
		ORDER BY question_id, option
	`

	rows, err := r.db.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option counts: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.OptionCount)
	for rows.Next() {
		var (
			questionID string
			oc         domain.OptionCount
		)
		if err := rows.Scan(&questionID, &oc.Option, &oc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan option count: %w", err)
		}
		result[questionID] = append(result[questionID], oc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating option counts: %w", err)
	}

	return result, nil
}

// SummarizeResponses recounts every choice answer of a form. Checkbox
// answers add one to each selected option; empty answers are not counted.
func (r *formResultRepository) SummarizeResponses(ctx context.Context, formID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM form_results WHERE form_id = $1`, formID); err != nil {
		return fmt.Errorf("failed to clear results for form %s: %w", formID, err)
	}

	query := `
		INSERT INTO form_results (form_id, question_id, option, response_count, last_updated_at)
		SELECT r.form_id, item->>'question_id', opt.value, COUNT(*), NOW()
		FROM responses r
		CROSS JOIN LATERAL jsonb_array_elements(r.answers) AS item
		JOIN form_questions q
		  ON q.form_id = r.form_id
		 AND q.id = item->>'question_id'
		 AND q.type IN ('multiple_choice', 'checkboxes', 'dropdown')
		CROSS JOIN LATERAL jsonb_array_elements_text(
			CASE jsonb_typeof(item->'answer')
				WHEN 'array' THEN item->'answer'
				WHEN 'string' THEN jsonb_build_array(item->'answer')
				ELSE '[]'::jsonb
			END
		) AS opt(value)
		WHERE r.form_id = $1 AND opt.value <> ''
		GROUP BY r.form_id, item->>'question_id', opt.value
		ON CONFLICT (form_id, question_id, option) DO UPDATE
		SET response_count = EXCLUDED.response_count,
		    last_updated_at = NOW();
	`
	if _, err := tx.ExecContext(ctx, query, formID); err != nil {
		return fmt.Errorf("failed to summarize responses for form %s: %w", formID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
