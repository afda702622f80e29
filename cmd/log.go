package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PolarWolf314/wrench/internal/audit"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

// logOptions is bound directly to the log flags.
var (
	logOptions workflows.LogOptions
	logFormat  = logFormatTable
)

const (
	logFormatTable   = "table"
	logFormatOneline = "oneline"
	logFormatJSON    = "json"
)

func init() {
	flags := logCmd.Flags()
	flags.IntVarP(&logOptions.Limit, "number", "n", 0, "only show the last N matching entries")
	flags.BoolVar(&logOptions.Reverse, "reverse", false, "list the most recent entry first")
	flags.StringVar(&logOptions.User, "user", "", "only show entries of this Passbolt username")
	flags.StringVar(&logOptions.Operations, "operation", "", "only show these operations (add, share, import, import-key), comma separated")
	flags.StringVar(&logOptions.Since, "since", "", "only show entries from this date on (YYYY-MM-DD)")
	flags.StringVar(&logOptions.Until, "until", "", "only show entries up to this date (YYYY-MM-DD)")
	flags.Bool("oneline", false, "one short line per entry")
	flags.Bool("json", false, "print the entries as a JSON array")
	logCmd.MarkFlagsMutuallyExclusive("oneline", "json")
}

func resetLogCommandState() {
	logOptions = workflows.LogOptions{}
	logFormat = logFormatTable
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the local audit log of the resources added, shared and
imported from this machine, and of the keys imported.

Examples:
  wrench log                                # View full log
  wrench log -n 10                          # Last 10 entries
  wrench log --reverse                      # Most recent first
  wrench log --user alice@example.com       # Filter by user
  wrench log --operation add,share          # Filter by operation
  wrench log --since 2024-01-01             # Filter by date
  wrench log --json                         # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	for _, format := range []string{logFormatOneline, logFormatJSON} {
		if on, _ := cmd.Flags().GetBool(format); on {
			logFormat = format
		}
	}

	result, err := workflows.Log(context.Background(), logOptions)
	if errors.Is(err, werrors.ErrValidation) {
		fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	Logger.Debugf("%d of %d audit log entries selected", len(result.Entries), result.Total)

	switch {
	case len(result.Entries) > 0:
		return printLogEntries(os.Stdout, result.Entries, logFormat)
	case result.Total == 0:
		fmt.Println("No audit log entries found.")
	default:
		fmt.Println("No audit log entries found matching the filters.")
	}
	return nil
}

func printLogEntries(w io.Writer, entries []audit.Entry, format string) error {
	if format == logFormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		at := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		if format == logFormatOneline {
			date, _, _ := strings.Cut(at, " ")
			fmt.Fprintln(w, date, e.User, e.Operation, details)
			continue
		}
		fmt.Fprintf(w, "%-19s  %-25s  %-10s  %s\n", at, e.User, e.Operation, details)
	}
	return nil
}
