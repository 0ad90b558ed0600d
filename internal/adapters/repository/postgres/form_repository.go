package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

type formRepository struct {
	db *sql.DB
}

func NewFormRepository(db *sql.DB) ports.FormRepository {
	return &formRepository{
		db: db,
	}
}

func (r *formRepository) Save(ctx context.Context, form *domain.Form) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryForm := `
		INSERT INTO forms (id, owner_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryForm,
		form.ID, form.OwnerID, form.Title, form.Description, form.CreatedAt, form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}

	if err := insertQuestions(ctx, tx, form); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update rewrites the form row and replaces its question list wholesale.
func (r *formRepository) Update(ctx context.Context, form *domain.Form) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryForm := `
		UPDATE forms
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, queryForm, form.ID, form.Title, form.Description, form.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrFormNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM form_questions WHERE form_id = $1`, form.ID); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}

	if err := insertQuestions(ctx, tx, form); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, form *domain.Form) error {
	queryQuestion := `
		INSERT INTO form_questions (form_id, id, position, type, title, description, required, options)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	stmt, err := tx.PrepareContext(ctx, queryQuestion)
	if err != nil {
		return fmt.Errorf("failed to prepare question statement: %w", err)
	}
	defer stmt.Close()

	for i, q := range form.Questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		_, err = stmt.ExecContext(ctx, form.ID, q.ID, i, q.Type, q.Title, q.Description, q.Required, pq.Array(options))
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}
	return nil
}

func (r *formRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	queryForm := `
		SELECT id, owner_id, title, description, created_at, updated_at
		FROM forms
		WHERE id = $1
	`

	var form domain.Form
	err := r.db.QueryRowContext(ctx, queryForm, id).Scan(
		&form.ID, &form.OwnerID, &form.Title, &form.Description, &form.CreatedAt, &form.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	questions, err := r.fetchQuestions(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	form.Questions = questions
	form.Normalize()

	return &form, nil
}

func (r *formRepository) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM forms ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all forms: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan form id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forms: %w", err)
	}
	return ids, nil
}

func (r *formRepository) fetchQuestions(ctx context.Context, formID uuid.UUID) ([]domain.Question, error) {
	queryQuestions := `
		SELECT id, type, title, description, required, options
		FROM form_questions
		WHERE form_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, queryQuestions, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Type, &q.Title, &q.Description, &q.Required, pq.Array(&q.Options)); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
