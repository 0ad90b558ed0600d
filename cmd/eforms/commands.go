package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/eforms/internal/adapters/client/rest"
	"github.com/vncsmyrnk/eforms/internal/core/analytics"
	"github.com/vncsmyrnk/eforms/internal/core/builder"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/core/export"
	"github.com/vncsmyrnk/eforms/internal/core/filler"
)

type definition struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

type questionEdit struct {
	field builder.Field
	value any
}

// createForm replays a JSON definition through the builder, so the file gets
// the same defaults and validation as interactive editing.
func createForm(ctx context.Context, client *rest.Client, path string, stdout io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var def definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	b := builder.New(client)
	b.SetTitle(def.Title)
	b.SetDescription(def.Description)
	for i, q := range def.Questions {
		b.AddQuestion()
		edits := []questionEdit{
			{builder.FieldTitle, q.Title},
			{builder.FieldDescription, q.Description},
			{builder.FieldRequired, q.Required},
		}
		// Questions without a type stay short text.
		if q.Type != "" {
			edits = append(edits, questionEdit{builder.FieldType, q.Type})
		}
		for _, edit := range edits {
			if err := b.UpdateQuestion(i, edit.field, edit.value); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
		}
		if q.Type.IsChoice() {
			if err := setOptions(b, i, q.Options); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
		}
	}

	res, err := b.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.ID)
	return nil
}

func setOptions(b *builder.Builder, index int, options []string) error {
	current := len(b.Form().Questions[index].Options)
	for i, opt := range options {
		if i >= current {
			if err := b.AddOption(index); err != nil {
				return err
			}
		}
		if err := b.UpdateOption(index, i, opt); err != nil {
			return err
		}
	}
	for i := current - 1; i >= len(options); i-- {
		if err := b.DeleteOption(index, i); err != nil {
			return err
		}
	}
	return nil
}

func showForm(ctx context.Context, client *rest.Client, id string, stdout io.Writer) error {
	formID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidFormID
	}
	f := filler.New(client, formID)
	if err := f.Load(ctx); err != nil {
		return err
	}

	form := f.Form()
	fmt.Fprintln(stdout, form.Title)
	if form.Description != "" {
		fmt.Fprintln(stdout, form.Description)
	}
	for i, q := range form.Questions {
		marker := ""
		if q.Required {
			marker = " *"
		}
		fmt.Fprintf(stdout, "\n%d. %s%s [%s, %s] (%s)\n", i+1, q.Title, marker, q.Type.Label(), filler.ControlFor(q.Type), q.ID)
		if q.Description != "" {
			fmt.Fprintf(stdout, "   %s\n", q.Description)
		}
		for _, opt := range q.Options {
			fmt.Fprintf(stdout, "   - %s\n", opt)
		}
	}
	return nil
}

// fillForm submits the answers in a JSON object keyed by question id.
// Checkbox answers are arrays, ratings numbers, everything else strings.
func fillForm(ctx context.Context, client *rest.Client, id, path string, stdout io.Writer) error {
	formID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidFormID
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var answers map[string]domain.Answer
	if err := json.Unmarshal(raw, &answers); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	f := filler.New(client, formID)
	if err := f.Load(ctx); err != nil {
		return err
	}
	for _, q := range f.Form().Questions {
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		if err := applyAnswer(f, q, a); err != nil {
			return fmt.Errorf("%s: %w", q.Title, err)
		}
	}

	if err := f.Submit(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Response submitted.")
	return nil
}

func applyAnswer(f *filler.Filler, q domain.Question, a domain.Answer) error {
	switch filler.ControlFor(q.Type) {
	case filler.ControlTextInput, filler.ControlTextArea, filler.ControlDatePicker:
		return f.SetText(q.ID, a.Text)
	case filler.ControlRadioGroup, filler.ControlSelect:
		return f.SetChoice(q.ID, a.Text)
	case filler.ControlCheckboxGroup:
		for _, c := range a.Choices {
			if err := f.ToggleChoice(q.ID, c, true); err != nil {
				return err
			}
		}
		return nil
	case filler.ControlRatingScale:
		return f.SetRating(q.ID, a.Rating)
	}
	return fmt.Errorf("no input control for %s", q.Type)
}

func printAnalytics(ctx context.Context, client *rest.Client, id string, stdout io.Writer) error {
	formID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidFormID
	}
	report, err := analytics.NewLoader(client).Load(ctx, formID)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %d responses\n", report.Title, report.TotalResponses)
	if report.Empty {
		fmt.Fprintln(stdout, "No responses yet.")
		return nil
	}

	for i, card := range report.Cards {
		fmt.Fprintf(stdout, "\n%d. %s (%s)\n", i+1, card.Title, card.Type.Label())
		switch card.Kind {
		case analytics.KindCounts:
			for _, bar := range card.Bars {
				fmt.Fprintf(stdout, "   %-24s %4d %5.1f%% %s\n", bar.Option, bar.Count, bar.Percentage, strings.Repeat("#", int(bar.Percentage/5)))
			}
		case analytics.KindRating:
			for _, b := range card.Histogram {
				fmt.Fprintf(stdout, "   %d star %4d\n", b.Rating, b.Count)
			}
			fmt.Fprintf(stdout, "   average %.1f\n", card.Average)
		case analytics.KindText:
			for _, text := range card.Texts {
				fmt.Fprintf(stdout, "   > %s\n", text)
			}
		}
	}
	return nil
}

func exportResponses(ctx context.Context, client *rest.Client, id, output string, stdout io.Writer) error {
	formID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidFormID
	}
	form, err := client.GetForm(ctx, formID)
	if err != nil {
		return err
	}
	responses, err := client.ListResponses(ctx, formID)
	if err != nil {
		return err
	}

	w := stdout
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return export.WriteResponses(w, form, responses, export.Options{})
}
