package prompt

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/search"
)

const (
	keyQuit      = 'q'
	keyInterrupt = 0x03 // Ctrl-C in raw mode
)

// ChoiceKeys are the single keys used to pick an entry of a numbered list:
// digits, then letters, skipping q which quits.
func ChoiceKeys() []string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	keys := make([]string, 0, len(alphabet))
	for _, r := range alphabet {
		if r == 'q' || r == 'Q' {
			continue
		}
		keys = append(keys, string(r))
	}
	return keys
}

// ChooseKey waits for one of the keys of choices. q or Ctrl-C abort.
func (p *Prompter) ChooseKey(choices map[string]models.Resource) (models.Resource, error) {
	for {
		key, err := p.ReadKey()
		if err != nil {
			return models.Resource{}, err
		}
		if key == keyQuit || key == keyInterrupt {
			return models.Resource{}, werrors.ErrAborted
		}
		if r, ok := choices[string(key)]; ok {
			return r, nil
		}
	}
}

// SelectResource shows a filterable list of resources and returns the one
// picked by the user.
func (p *Prompter) SelectResource(label string, resources []models.Resource) (models.Resource, error) {
	if len(resources) == 0 {
		return models.Resource{}, fmt.Errorf("no resource to select")
	}

	sel := promptui.Select{
		Label: label,
		Items: resources,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Name | cyan }}{{ if .Username }} ({{ .Username }}){{ end }}",
			Inactive: "  {{ .Name }}{{ if .Username }} ({{ .Username }}){{ end }}",
			Selected: "✔ {{ .Name | green }}",
			Details: `{{ if .URI }}{{ "URI:" | faint }} {{ .URI }}{{ end }}
{{ if .Description }}{{ "Description:" | faint }} {{ .Description }}{{ end }}`,
		},
		Searcher: func(input string, index int) bool {
			return search.Matches(resources[index], strings.TrimSpace(input))
		},
	}

	index, _, err := sel.Run()
	if err == promptui.ErrInterrupt || err == promptui.ErrEOF || err == promptui.ErrAbort {
		return models.Resource{}, werrors.ErrAborted
	}
	if err != nil {
		return models.Resource{}, err
	}
	return resources[index], nil
}
