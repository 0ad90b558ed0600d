// Package rest implements ports.FormGateway against the e-Forms HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	session *domain.Session
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithSession authenticates owner-only calls with the session's access token.
func WithSession(s *domain.Session) Option {
	return func(cl *Client) { cl.session = s }
}

// New returns a client for the API served at baseURL, e.g.
// "https://forms.example.org/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.FormGateway = (*Client)(nil)

// Login exchanges credentials for a session. The returned session is not
// attached to c; pass it to New with WithSession.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var session domain.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &session); err != nil {
		return nil, err
	}
	if !session.Authenticated() {
		return nil, &domain.NetworkError{Op: "login", Detail: "response carried no access_token"}
	}
	return &session, nil
}

func (c *Client) GetForm(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	var form domain.Form
	if err := c.do(ctx, "get form", http.MethodGet, "/forms/"+id.String(), nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) CreateForm(ctx context.Context, form *domain.Form) (*domain.Form, error) {
	var created domain.Form
	if err := c.do(ctx, "create form", http.MethodPost, "/forms", formBody(form), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateForm(ctx context.Context, form *domain.Form) (*domain.Form, error) {
	var updated domain.Form
	if err := c.do(ctx, "update form", http.MethodPut, "/forms/"+form.ID.String(), formBody(form), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) GetPublicForm(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	var form domain.Form
	if err := c.do(ctx, "get public form", http.MethodGet, "/forms/public/"+id.String(), nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) SubmitResponse(ctx context.Context, submission domain.Submission) error {
	return c.do(ctx, "submit response", http.MethodPost, "/responses", submission, nil)
}

func (c *Client) GetAnalytics(ctx context.Context, formID uuid.UUID) (*domain.Analytics, error) {
	var analytics domain.Analytics
	if err := c.do(ctx, "get analytics", http.MethodGet, "/forms/analytics/"+formID.String(), nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *Client) ListResponses(ctx context.Context, formID uuid.UUID) ([]*domain.Response, error) {
	var responses []*domain.Response
	if err := c.do(ctx, "list responses", http.MethodGet, "/forms/"+formID.String()+"/responses", nil, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

type formPayload struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

func formBody(f *domain.Form) formPayload {
	return formPayload{Title: f.Title, Description: f.Description, Questions: f.Questions}
}

// do runs one request. Every failure, transport or HTTP, comes back as a
// *domain.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &domain.NetworkError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Detail: errorDetail(resp)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorDetail reads the server's {"detail": ...} body, falling back to the
// status text.
func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &body) == nil && body.Detail != "" {
			return body.Detail
		}
		if text := strings.TrimSpace(string(raw)); text != "" {
			return text
		}
	}
	return http.StatusText(resp.StatusCode)
}
