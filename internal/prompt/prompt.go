package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/utils"
	"github.com/PolarWolf314/wrench/internal/validators"
)

// Processor validates or transforms an answer. Returning an error wrapping
// errors.ErrValidation makes the question be asked again.
type Processor func(value string) (string, error)

type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Interactive enables line editing and tab completion.
	Interactive bool

	// ReadSecret reads a value without echo. Defaults to utils.ReadSecret.
	ReadSecret func(prompt string) ([]byte, error)

	// ReadKey reads a single key press. Defaults to utils.ReadKey.
	ReadKey func() (byte, error)

	lines *bufio.Reader
}

// New returns a Prompter on the process's standard streams.
func New() *Prompter {
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: utils.IsTerminal(),
		ReadSecret:  utils.ReadSecret,
		ReadKey:     utils.ReadKey,
	}
}

// Ask displays label, reads an answer and runs it through processors until
// none of them fails validation.
func (p *Prompter) Ask(label string, processors ...Processor) (string, error) {
	return p.ask(label, false, processors)
}

// AskSecret is like Ask but does not echo the answer.
func (p *Prompter) AskSecret(label string, processors ...Processor) (string, error) {
	return p.ask(label, true, processors)
}

func (p *Prompter) ask(label string, secret bool, processors []Processor) (string, error) {
	prompt := label
	if label != "" {
		prompt = label + ": "
	}

	for {
		var value string
		var err error
		if secret {
			value, err = p.readSecret(prompt)
		} else {
			value, err = p.readLine(prompt, nil)
		}
		if err != nil {
			return "", err
		}

		value, err = process(value, processors)
		if errors.Is(err, werrors.ErrValidation) {
			fmt.Fprintln(p.Out, ui.Error.Sprint(ValidationMessage(err)))
			continue
		}
		return value, err
	}
}

func process(value string, processors []Processor) (string, error) {
	for _, proc := range processors {
		var err error
		if value, err = proc(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

// ValidationMessage returns the user-facing part of a validation error.
func ValidationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), werrors.ErrValidation.Error()+": ")
}

// AskRecipients reads a comma separated list of usernames and group names,
// completing names with the Tab key. An empty answer yields no recipients.
func (p *Prompter) AskRecipients(label string, byName map[string]models.Recipient) ([]models.Recipient, error) {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	completer := newRecipientCompleter(names)

	for {
		line, err := p.readLine(label, completer)
		if err != nil {
			return nil, err
		}

		recipients, err := validators.ValidateRecipients(line, byName)
		if errors.Is(err, werrors.ErrValidation) {
			fmt.Fprintln(p.Out, ui.Error.Sprint(ValidationMessage(err)))
			continue
		}
		return recipients, err
	}
}

func (p *Prompter) readLine(prompt string, completer readline.AutoCompleter) (string, error) {
	if p.Interactive {
		return p.readEditedLine(prompt, completer)
	}

	fmt.Fprint(p.Out, prompt)
	if p.lines == nil {
		p.lines = bufio.NewReader(p.In)
	}
	line, err := p.lines.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err == io.EOF {
		return "", werrors.ErrAborted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) readEditedLine(prompt string, completer readline.AutoCompleter) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       prompt,
		AutoComplete: completer,
		Stdout:       p.Out,
	})
	if err != nil {
		return "", err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", werrors.ErrAborted
	}
	return line, err
}

func (p *Prompter) readSecret(prompt string) (string, error) {
	if p.ReadSecret == nil {
		return p.readLine(prompt, nil)
	}
	value, err := p.ReadSecret(prompt)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
