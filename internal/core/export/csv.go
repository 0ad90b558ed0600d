// Package export renders collected responses as CSV.
package export

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/vncsmyrnk/eforms/internal/core/domain"
)

const (
	DefaultTimeLayout = "2006-01-02 15:04:05"
	noDate            = "No date"
)

type Options struct {
	// TimeLayout formats the Submitted At column. Defaults to DefaultTimeLayout.
	TimeLayout string
	// Location converts submission times before formatting. Defaults to UTC.
	Location *time.Location
}

// Header returns the column titles for a form's response export.
func Header(form *domain.Form) []string {
	header := make([]string, 0, len(form.Questions)+2)
	header = append(header, "Response ID", "Submitted At")
	for _, q := range form.Questions {
		header = append(header, q.Title)
	}
	return header
}

// Row renders one response with a cell per question in schema order.
// Questions without an answer get an empty cell.
func Row(form *domain.Form, r *domain.Response, opts Options) []string {
	row := make([]string, 0, len(form.Questions)+2)
	row = append(row, r.ID.String(), formatTime(r.SubmittedAt, opts))
	for _, q := range form.Questions {
		a, ok := r.Answer(q.ID)
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, a.String())
	}
	return row
}

// WriteResponses writes the header and one quoted row per response to w.
func WriteResponses(w io.Writer, form *domain.Form, responses []*domain.Response, opts Options) error {
	if err := writeRecord(w, Header(form)); err != nil {
		return err
	}
	for _, r := range responses {
		if err := writeRecord(w, Row(form, r, opts)); err != nil {
			return err
		}
	}
	return nil
}

// ResponsesCSV is WriteResponses into a byte slice.
func ResponsesCSV(form *domain.Form, responses []*domain.Response, opts Options) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := WriteResponses(buf, form, responses, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the suggested download name for a form's export.
func FileName(form *domain.Form) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(form.Title))
	if name == "" {
		name = form.ID.String()
	}
	return name + "-responses.csv"
}

// writeRecord quotes every field, doubling embedded quotes. encoding/csv
// only quotes fields that need it, and the export format wraps them all.
func writeRecord(w io.Writer, fields []string) error {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatTime(t time.Time, opts Options) string {
	if t.IsZero() {
		return noDate
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := opts.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.In(loc).Format(layout)
}
