package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

type memFormRepo struct {
	mu    sync.Mutex
	forms map[uuid.UUID]*domain.Form
}

func newMemFormRepo() *memFormRepo {
	return &memFormRepo{forms: map[uuid.UUID]*domain.Form{}}
}

func (r *memFormRepo) Save(ctx context.Context, form *domain.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[form.ID] = form.Clone()
	return nil
}

func (r *memFormRepo) Update(ctx context.Context, form *domain.Form) error {
	return r.Save(ctx, form)
}

func (r *memFormRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return nil, domain.ErrFormNotFound
	}
	return f.Clone(), nil
}

func (r *memFormRepo) GetAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	return ids, nil
}

type memResponseRepo struct {
	responses []*domain.Response
	saveErr   error
}

func (r *memResponseRepo) Save(ctx context.Context, response *domain.Response) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.responses = append(r.responses, response)
	return nil
}

func (r *memResponseRepo) ListByForm(ctx context.Context, formID uuid.UUID) ([]*domain.Response, error) {
	var out []*domain.Response
	for _, resp := range r.responses {
		if resp.FormID == formID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *memResponseRepo) CountByForm(ctx context.Context, formID uuid.UUID) (int, error) {
	list, _ := r.ListByForm(ctx, formID)
	return len(list), nil
}

// memResultRepo tallies choice answers straight from a response repo.
type memResultRepo struct {
	mu         sync.Mutex
	forms      *memFormRepo
	responses  *memResponseRepo
	tallies    map[uuid.UUID]map[string][]domain.OptionCount
	summarized []uuid.UUID
	err        error
}

func (r *memResultRepo) SummarizeResponses(ctx context.Context, formID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summarized = append(r.summarized, formID)
	if r.err != nil {
		return r.err
	}
	if r.tallies == nil {
		r.tallies = map[uuid.UUID]map[string][]domain.OptionCount{}
	}
	form, err := r.forms.GetByID(ctx, formID)
	if err != nil {
		return err
	}
	byQuestion := map[string][]domain.OptionCount{}
	for _, q := range form.Questions {
		if !q.Type.IsChoice() {
			continue
		}
		counts := map[string]int64{}
		var order []string
		for _, resp := range r.responses.responses {
			if resp.FormID != formID {
				continue
			}
			a, ok := resp.Answer(q.ID)
			if !ok {
				continue
			}
			values := a.Choices
			if a.Kind == domain.AnswerText && a.Text != "" {
				values = []string{a.Text}
			}
			for _, v := range values {
				if _, seen := counts[v]; !seen {
					order = append(order, v)
				}
				counts[v]++
			}
		}
		for _, v := range order {
			byQuestion[q.ID] = append(byQuestion[q.ID], domain.OptionCount{Option: v, Count: counts[v]})
		}
	}
	r.tallies[formID] = byQuestion
	return nil
}

func (r *memResultRepo) GetOptionCounts(ctx context.Context, formID uuid.UUID) (map[string][]domain.OptionCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tallies[formID], nil
}

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.New()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type memAuthRepo struct {
	tokens map[string]*domain.RefreshToken
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{tokens: map[string]*domain.RefreshToken{}}
}

func (r *memAuthRepo) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	token.ID = uuid.New()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memAuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	return r.tokens[tokenHash], nil
}

func (r *memAuthRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	for _, t := range r.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func (r *memAuthRepo) DeleteExpiredRefreshTokens(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var n int64
	for hash, t := range r.tokens {
		if t.UserID == userID && t.ExpiresAt.Before(now) {
			delete(r.tokens, hash)
			n++
		}
	}
	return n, nil
}
