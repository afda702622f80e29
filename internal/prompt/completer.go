package prompt

import (
	"sort"
	"strings"
)

// recipientCompleter completes the name being typed after the last comma.
type recipientCompleter struct {
	names []string
}

func newRecipientCompleter(names []string) *recipientCompleter {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &recipientCompleter{names: sorted}
}

// Do implements readline.AutoCompleter. It returns the missing suffix of
// every name starting with the current word, and the length of that word.
func (c *recipientCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])
	word := typed
	if i := strings.LastIndex(typed, ","); i >= 0 {
		word = typed[i+1:]
	}
	word = strings.TrimLeft(word, " ")

	var suggestions [][]rune
	for _, name := range c.names {
		if strings.HasPrefix(name, word) && name != word {
			suggestions = append(suggestions, []rune(name[len(word):]))
		}
	}
	return suggestions, len([]rune(word))
}
