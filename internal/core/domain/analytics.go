package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// OptionCount is the number of responses that picked an option.
type OptionCount struct {
	Option string `json:"option"`
	Count  int64  `json:"count"`
}

// QuestionAnalytics carries the raw or pre-aggregated responses for one
// question. Which slice is filled depends on Type: Counts for choice types,
// Ratings for rating and Texts for everything else. On the wire all three
// share the "responses" key.
type QuestionAnalytics struct {
	QuestionID string
	Type       QuestionType
	Title      string
	Counts     []OptionCount
	Ratings    []int
	Texts      []string
}

type questionAnalyticsJSON struct {
	QuestionID string          `json:"question_id"`
	Type       QuestionType    `json:"type"`
	Title      string          `json:"title"`
	Responses  json.RawMessage `json:"responses"`
}

func (q QuestionAnalytics) MarshalJSON() ([]byte, error) {
	var (
		responses []byte
		err       error
	)
	switch {
	case q.Type.IsChoice():
		responses, err = json.Marshal(nonNil(q.Counts))
	case q.Type == Rating:
		responses, err = json.Marshal(nonNil(q.Ratings))
	default:
		responses, err = json.Marshal(nonNil(q.Texts))
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(questionAnalyticsJSON{
		QuestionID: q.QuestionID,
		Type:       q.Type,
		Title:      q.Title,
		Responses:  responses,
	})
}

func (q *QuestionAnalytics) UnmarshalJSON(b []byte) error {
	var raw questionAnalyticsJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*q = QuestionAnalytics{QuestionID: raw.QuestionID, Type: raw.Type, Title: raw.Title}
	if len(raw.Responses) == 0 || string(raw.Responses) == "null" {
		return nil
	}

	var target any
	switch {
	case raw.Type.IsChoice():
		target = &q.Counts
	case raw.Type == Rating:
		target = &q.Ratings
	default:
		target = &q.Texts
	}
	if err := json.Unmarshal(raw.Responses, target); err != nil {
		return fmt.Errorf("responses for %s question %q: %w", raw.Type, raw.QuestionID, err)
	}
	return nil
}

// Analytics is the per-form aggregate served to form owners.
type Analytics struct {
	FormID         uuid.UUID           `json:"form_id"`
	TotalResponses int                 `json:"total_responses"`
	Questions      []QuestionAnalytics `json:"questions"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
