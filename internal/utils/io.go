package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNoPipedInput is returned when standard input is an interactive terminal.
var ErrNoPipedInput = errors.New("nothing to read on standard input, pipe an export to it")

// PipedInput reads everything piped to f. It refuses to block on a terminal.
func PipedInput(f *os.File) ([]byte, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", f.Name(), err)
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return nil, ErrNoPipedInput
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	return data, nil
}
