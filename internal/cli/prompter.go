package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Prompter asks the user yes/no questions on a terminal.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading answers from reader.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Confirm asks question until it gets y/yes or n/no. An empty answer or end
// of input means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(p.writer, "%s[y/N] ", FormatPrompt(question)); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}

		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Please answer y or n.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}
