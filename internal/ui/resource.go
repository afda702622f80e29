package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/PolarWolf314/wrench/internal/models"
)

// Resource field formatters.
var (
	FieldName        = Formatter{color.New(color.FgRed, color.Bold), "", ""}
	FieldURI         = Formatter{color.New(color.FgYellow, color.Bold), "", ""}
	FieldUsername    = Formatter{color.New(color.FgBlue, color.Bold), "", ""}
	FieldDescription = Formatter{color.New(color.FgGreen, color.Bold), "", ""}
	FieldSecret      = Formatter{color.New(color.FgRed, color.BgRed), "", ""}
	FieldOther       = Formatter{color.New(color.FgWhite, color.Bold), "", ""}

	choice = Formatter{color.New(color.FgYellow), "", ""}
)

type resourceField struct {
	label     string
	value     string
	formatter Formatter
}

func resourceFields(r models.Resource) []resourceField {
	return []resourceField{
		{"name", r.Name, FieldName},
		{"id", r.ID, FieldOther},
		{"uri", r.URI, FieldURI},
		{"username", r.Username, FieldUsername},
		{"secret", r.Secret, FieldSecret},
		{"description", r.Description, FieldDescription},
	}
}

// FormatResource renders every field of a resource on its own line, with
// labels padded to the same width.
func FormatResource(r models.Resource) string {
	fields := resourceFields(r)

	width := 0
	for _, f := range fields {
		if len(f.label) > width {
			width = len(f.label)
		}
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%-*s: %s", width+1, f.label, f.formatter.Sprint(f.value)))
	}
	return strings.Join(lines, "\n")
}

// FormatResourceShort renders a one-entry summary for a numbered result list.
func FormatResourceShort(key string, r models.Resource) string {
	title := r.Name
	if title == "" {
		title = "<untitled>"
	}
	title = Bold.Sprint(title)
	if r.Username != "" {
		title += fmt.Sprintf(" (%s)", r.Username)
	}

	parts := []string{title}
	if r.Description != "" {
		parts = append(parts, strings.ReplaceAll(r.Description, "\n", ", "))
	}

	return fmt.Sprintf("[%s] %s", choice.Sprint(key), strings.Join(parts, "\n    "))
}

// FormatRecipients joins recipient names for display.
func FormatRecipients(recipients []models.Recipient) string {
	names := make([]string, 0, len(recipients))
	for _, r := range recipients {
		names = append(names, Highlight.Sprint(r.String()))
	}
	return strings.Join(names, ", ")
}
