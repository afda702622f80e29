package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/chzyer/readline"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

const shellPrompt = "(passbolt) "

var shellCommands = []struct {
	name string
	help string
}{
	{"get", "get <path>: send a GET request to the API and print the response, eg. get /users/me.json"},
	{"help", "help: list available commands"},
	{"exit", "exit: leave the shell (Ctrl-D works too)"},
}

var shellCmd = &cobra.Command{
	Use:   "passbolt-shell",
	Short: "Start an interactive shell to query the Passbolt API",
	Long: `Logs in and starts an interactive shell to send raw requests to the
Passbolt API. Useful to debug a server or find the fields of a resource.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting passbolt-shell command")
	ctx := context.Background()

	sess, err := connect(ctx)
	if err != nil {
		return err
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(shellCommands))
	for _, c := range shellCommands {
		items = append(items, readline.PcItem(c.name))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting shell: %w", err)
	}
	defer rl.Close()

	figure.NewColorFigure("Wrench", "alligator2", "green", true).Print()
	fmt.Println()
	fmt.Println("Welcome to Passbolt shell. Type help or ? to list commands.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := runShellLine(ctx, sess, rl.Stdout(), line); quit {
			return nil
		}
	}
}

// runShellLine executes one shell command and reports whether the shell
// should stop.
func runShellLine(ctx context.Context, sess *workflows.Session, out io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "get":
		if arg == "" {
			fmt.Fprintln(out, ui.Error.Sprint("*** get needs a path, eg. get /users/me.json"))
			return false
		}
		body, err := workflows.ShellGet(ctx, sess, arg)
		if err != nil {
			fmt.Fprintln(out, ui.Error.Sprint("*** ")+err.Error())
			return false
		}
		fmt.Fprintln(out, body)

	case "help", "?":
		for _, c := range shellCommands {
			fmt.Fprintln(out, c.help)
		}

	case "exit", "quit", "EOF":
		return true

	default:
		fmt.Fprintf(out, "*** Unknown syntax: %s\n", line)
	}
	return false
}
