// Package search filters resources by free-text terms.
//
// Terms and field values are compared after Unicode case folding. A resource
// matches when every term is a substring of its selected fields joined with
// a space, so a term may straddle two fields. Secrets are never searched.
package search

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/PolarWolf314/wrench/internal/models"
)

// Field is a searchable resource field.
type Field string

const (
	FieldName        Field = "name"
	FieldUsername    Field = "username"
	FieldURI         Field = "uri"
	FieldDescription Field = "description"
)

// DefaultFields are searched when no field is given.
var DefaultFields = []Field{FieldName, FieldUsername, FieldURI, FieldDescription}

// ParseField validates a field name given on the command line.
func ParseField(name string) (Field, error) {
	for _, f := range DefaultFields {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q (expected one of name, username, uri, description)", name)
}

func (f Field) value(r models.Resource) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldUsername:
		return r.Username
	case FieldURI:
		return r.URI
	case FieldDescription:
		return r.Description
	default:
		return ""
	}
}

// Search returns the resources matching terms, in their original order.
func Search(resources []models.Resource, terms string, fields ...Field) []models.Resource {
	words := splitTerms(terms)
	if len(fields) == 0 {
		fields = DefaultFields
	}

	var matches []models.Resource
	for _, r := range resources {
		if matchWords(r, words, fields) {
			matches = append(matches, r)
		}
	}
	return matches
}

// Matches reports whether a single resource matches terms.
func Matches(resource models.Resource, terms string, fields ...Field) bool {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	return matchWords(resource, splitTerms(terms), fields)
}

func splitTerms(terms string) []string {
	return strings.Fields(fold(terms))
}

func matchWords(r models.Resource, words []string, fields []Field) bool {
	text := candidateText(r, fields)
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func candidateText(r models.Resource, fields []Field) string {
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		if v := f.value(r); v != "" {
			values = append(values, fold(v))
		}
	}
	return strings.Join(values, " ")
}

func fold(s string) string {
	return cases.Fold().String(s)
}
