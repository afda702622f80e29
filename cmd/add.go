package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/prompt"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/utils"
	"github.com/PolarWolf314/wrench/internal/validators"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new resource",
	Long: `Prompts for a name, username, secret, URI, description and tags, saves
the resource and then allows to share it with other users and groups.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting add command")
	ctx := context.Background()

	sess, err := connect(ctx)
	if err != nil {
		return err
	}

	// Resolve the defaults early so a bad setting fails before any question.
	defaultOwners, defaultReaders, err := workflows.DefaultRecipients(ctx, sess)
	if err != nil {
		return err
	}

	p := newPrompter()
	resource, err := askResource(p)
	if err != nil {
		return err
	}

	added, err := workflows.Add(ctx, sess, workflows.AddOptions{Resource: resource})
	if err != nil {
		return fmt.Errorf("adding resource: %w", err)
	}
	Logger.Debugf("Resource created with id %s", added.Resource.ID)

	printSuccess(fmt.Sprintf("\nResource '%s' successfully saved.\n", resource.Name))
	fmt.Println(ui.Warning.Sprint("If you would like to share it, enter e-mail addresses or group names below, separated by commas. " +
		"Auto completion through Tab key is supported.\n"))

	owners, readers, err := sharingDialog(ctx, sess, p, defaultOwners, defaultReaders)
	if err != nil {
		return err
	}

	return shareResource(ctx, sess, added.Resource, owners, readers)
}

func askResource(p *prompt.Prompter) (models.Resource, error) {
	var r models.Resource
	var err error

	if r.Name, err = p.Ask("Name", validators.ValidateNonEmpty); err != nil {
		return r, err
	}
	if r.Username, err = p.Ask("Username"); err != nil {
		return r, err
	}
	if r.Secret, err = p.AskSecret("Secret", validators.ValidateNonEmpty); err != nil {
		return r, err
	}
	if r.URI, err = p.Ask("URI"); err != nil {
		return r, err
	}
	if r.Description, err = p.Ask("Description"); err != nil {
		return r, err
	}
	tags, err := p.Ask("Tags (separated by commas, prefix with # sign for public tags)")
	if err != nil {
		return r, err
	}
	r.Tags = utils.SplitCSV(tags)
	return r, nil
}
