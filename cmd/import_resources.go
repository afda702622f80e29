package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PolarWolf314/wrench/internal/importer"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/utils"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var importTags []string

func init() {
	importResourcesCmd.Flags().StringArrayVarP(&importTags, "tag", "t", nil, "public tag to assign to the imported resources; can be repeated")
}

// resetImportResourcesCommandState resets the import-resources command's global state for testing.
func resetImportResourcesCommandState() {
	importTags = nil
}

var importResourcesCmd = &cobra.Command{
	Use:   "import-resources <path|glob|->",
	Short: "Import the given resources file into Passbolt",
	Long: `Imports resources in bulk.

A tab separated file must contain 5 fields per line:

    host<TAB>username<TAB>password<TAB>description<TAB>product

The first line is considered as the header and will be ignored.

A file with the .json extension must hold an array of objects with the
name, password, uri, username, description and tags keys.

Every file is checked before anything is sent to the server. Use "-" to
read a tab separated file from the standard input, or a glob such as
"exports/**/*.tsv" to import several files at once.

Examples:
  wrench import-resources passwords.tsv
  wrench import-resources -t infra servers.json
  cat passwords.tsv | wrench import-resources -`,
	Args: cobra.ExactArgs(1),
	RunE: runImportResources,
}

func runImportResources(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting import-resources command")
	ctx := context.Background()
	path := args[0]

	var stdin io.Reader
	if path == importer.StdinPath {
		data, err := utils.PipedInput(os.Stdin)
		if err != nil {
			return err
		}
		stdin = bytes.NewReader(data)
	}

	fmt.Println("Checking if file to import is valid... ")
	resources, err := workflows.LoadImport(path, stdin, importTags)
	if err != nil {
		return err
	}
	Logger.Debugf("%d resources to import", len(resources))

	sess, err := connect(ctx)
	if err != nil {
		return err
	}

	var owners, readers []models.Recipient
	if path != importer.StdinPath {
		defaultOwners, defaultReaders, err := workflows.DefaultRecipients(ctx, sess)
		if err != nil {
			return err
		}
		fmt.Println("If you would like to share the resources after import, enter e-mail addresses or group names below, " +
			"separated by commas. Auto completion through Tab key is supported.")
		fmt.Println()
		owners, readers, err = sharingDialog(ctx, sess, newPrompter(), defaultOwners, defaultReaders)
		if err != nil {
			return err
		}
	}

	spinner, cleanup := startSpinner("Importing resources...", verbose)
	defer cleanup()

	result, err := workflows.ImportResources(ctx, sess, workflows.ImportResourcesOptions{
		Resources: resources,
		Source:    path,
		Owners:    owners,
		Readers:   readers,
	})
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + fmt.Sprintf(" Import stopped after %d of %d resources", len(result.Imported), len(resources))
		return err
	}

	spinner.FinalMSG = fmt.Sprintf("%d resources successfully imported.", len(result.Imported))
	return nil
}
