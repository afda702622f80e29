package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/prompt"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	shareOwners  []string
	shareReaders []string
)

func init() {
	shareCmd.Flags().StringArrayVar(&shareOwners, "owner", nil, "e-mail address or group name to make owner; can be repeated")
	shareCmd.Flags().StringArrayVar(&shareReaders, "reader", nil, "e-mail address or group name to give read access; can be repeated")
}

// resetShareCommandState resets the share command's global state for testing.
func resetShareCommandState() {
	shareOwners = nil
	shareReaders = nil
}

var shareCmd = &cobra.Command{
	Use:   "share <resource-id>",
	Short: "Share a resource with users and groups",
	Long: `Gives users and groups access to an existing resource.

The secret is encrypted for every user gaining access, including the
members of groups. Recipients already having access are left untouched.

Without --owner or --reader, the recipients are asked interactively,
starting from the default owners and readers of the configuration.

Examples:
  # Share interactively
  wrench share 8e3874ae-4b40-590b-968a-418f704b9d9a

  # Share with a group as readers
  wrench share 8e3874ae-4b40-590b-968a-418f704b9d9a --reader Developers`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func runShare(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting share command")
	ctx := context.Background()

	sess, err := connect(ctx)
	if err != nil {
		return err
	}

	resource, err := workflows.FindResource(ctx, sess, args[0])
	if err != nil {
		return err
	}
	Logger.Debugf("Sharing resource %s (%s)", resource.ID, resource.Name)

	var owners, readers []models.Recipient
	if len(shareOwners) == 0 && len(shareReaders) == 0 {
		defaultOwners, defaultReaders, err := workflows.DefaultRecipients(ctx, sess)
		if err != nil {
			return err
		}
		owners, readers, err = sharingDialog(ctx, sess, newPrompter(), defaultOwners, defaultReaders)
		if err != nil {
			return err
		}
	} else {
		if owners, err = sess.Directory.RecipientsFromNames(ctx, shareOwners); err != nil {
			return err
		}
		if readers, err = sess.Directory.RecipientsFromNames(ctx, shareReaders); err != nil {
			return err
		}
	}

	return shareResource(ctx, sess, resource, owners, readers)
}

// shareResource shares resource and reports how many recipients were given access.
func shareResource(ctx context.Context, sess *workflows.Session, resource models.Resource, owners, readers []models.Recipient) error {
	if len(owners) == 0 && len(readers) == 0 {
		Logger.Infof("No recipients, nothing to share")
		return nil
	}

	spinner, cleanup := startSpinner("Sharing resource...", verbose)
	defer cleanup()

	result, err := workflows.Share(ctx, sess, workflows.ShareOptions{
		Resource: resource,
		Owners:   owners,
		Readers:  readers,
	})
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to share resource"
		return err
	}

	Logger.Debugf("%d recipients gained access", len(result.NewRecipients))
	if len(result.NewRecipients) == 0 {
		spinner.FinalMSG = "\nNothing new to share: every recipient already has access to the resource."
		return nil
	}
	spinner.FinalMSG = fmt.Sprintf("\nResource successfully shared with %d users and %d groups.", result.Users, result.Groups)
	return nil
}

// sharingDialog shows the default recipients and asks for more owners, then
// more readers.
func sharingDialog(ctx context.Context, sess *workflows.Session, p *prompt.Prompter, defaultOwners, defaultReaders []models.Recipient) (owners, readers []models.Recipient, err error) {
	byName, err := sess.Directory.RecipientsByName(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(defaultOwners) > 0 {
		fmt.Print(ui.Warning.Sprint("The resource will be owned by the following recipients: "))
		fmt.Println(ui.FormatRecipients(defaultOwners))
	}
	newOwners, err := p.AskRecipients("Enter any other owner: ", byName)
	if err != nil {
		return nil, nil, err
	}

	fmt.Println()

	if len(defaultReaders) > 0 {
		fmt.Print(ui.Warning.Sprint("The resource will be readable by the following recipients: "))
		fmt.Println(ui.FormatRecipients(defaultReaders))
	}
	newReaders, err := p.AskRecipients("Enter any other reader: ", byName)
	if err != nil {
		return nil, nil, err
	}

	owners = append(append([]models.Recipient{}, defaultOwners...), newOwners...)
	readers = append(append([]models.Recipient{}, defaultReaders...), newReaders...)
	return owners, readers, nil
}
