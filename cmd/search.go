package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/prompt"
	"github.com/PolarWolf314/wrench/internal/search"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/utils"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	searchFields      []string
	searchFavourite   bool
	searchNoClipboard bool

	// copyToClipboard can be overridden for testing.
	copyToClipboard = utils.CopyToClipboard
)

func init() {
	searchCmd.Flags().StringArrayVarP(&searchFields, "field", "f", nil, "restrict the search to this field (name, username, uri, description); can be repeated")
	searchCmd.Flags().BoolVar(&searchFavourite, "favourite", false, "only search resources marked as favourite")
	searchCmd.Flags().BoolVar(&searchNoClipboard, "no-clipboard", false, "do not copy the password to the clipboard")
}

// resetSearchCommandState resets the search command's global state for testing.
func resetSearchCommandState() {
	searchFields = nil
	searchFavourite = false
	searchNoClipboard = false
	copyToClipboard = utils.CopyToClipboard
}

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search for entries matching the given terms",
	Long: `Searches the resources you can read for the given terms.

Every word must appear in one of the searched fields, case insensitively.
When several resources match, pick one by its key to display it. The
password of the displayed resource is copied to the clipboard.

You can restrict the fields to search in by using the --field option.
Repeat it to include multiple fields. The default is to search in all fields.

Examples:
  # Search all fields
  wrench search gitlab

  # Search entries containing "root" in the uri or username fields
  wrench search --field username --field uri root

  # Only search favourites
  wrench search --favourite db`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting search command")
	ctx := context.Background()

	fields := make([]search.Field, 0, len(searchFields))
	for _, name := range searchFields {
		field, err := search.ParseField(name)
		if err != nil {
			return fmt.Errorf("%w: %v", werrors.ErrValidation, err)
		}
		fields = append(fields, field)
	}

	sess, err := connect(ctx)
	if err != nil {
		return err
	}

	result, err := workflows.Search(ctx, sess, workflows.SearchOptions{
		Terms:         strings.Join(args, " "),
		Fields:        fields,
		FavouriteOnly: searchFavourite,
	})
	if err != nil {
		return err
	}
	Logger.Debugf("%d of %d resources match", len(result.Resources), result.Total)

	resource, err := pickResource(result.Resources)
	if errors.Is(err, werrors.ErrAborted) {
		fmt.Println()
		return nil
	}
	if err != nil {
		return err
	}
	if resource == nil {
		fmt.Println("Couldn't find any entry that matches your search.")
		return nil
	}

	fmt.Println("Decrypting...")
	decrypted, err := workflows.Decrypt(ctx, sess, *resource)
	if errors.Is(err, werrors.ErrDecryption) {
		Logger.Debugf("Decryption failed: %v", err)
		fmt.Println(ui.Error.Sprintf("Resource with id %s could not be decrypted.", resource.ID))
		decrypted = *resource
	} else if err != nil {
		return err
	}

	fmt.Println(ui.FormatResource(decrypted))

	if decrypted.HasSecret() && !searchNoClipboard {
		if err := copyToClipboard(decrypted.Secret); err != nil {
			Logger.Warnf("Could not copy the password to the clipboard: %v", err)
			return nil
		}
		printSuccess("\nPassword has been copied to the clipboard.")
	}
	return nil
}

// pickResource lists the matches and lets the user choose one by key. It
// returns nil when nothing matched.
func pickResource(matches []models.Resource) (*models.Resource, error) {
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	}

	keys := prompt.ChoiceKeys()
	choices := make(map[string]models.Resource, len(keys))
	for i, r := range matches {
		if i >= len(keys) {
			break
		}
		choices[keys[i]] = r
		fmt.Println(ui.FormatResourceShort(keys[i], r))
	}

	if len(matches) > len(keys) {
		fmt.Println(ui.Warning.Sprintf("\nWarning: showing only %d choices out of %d results. Please refine your search.", len(keys), len(matches)))
	}

	fmt.Print("\nChoose an entry to display, or [q] to quit.")
	resource, err := newPrompter().ChooseKey(choices)
	if err != nil {
		return nil, err
	}
	fmt.Print("\n\n")
	return &resource, nil
}
