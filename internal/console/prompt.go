package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errNoAnswer is returned when input ends before an answer is read.
var errNoAnswer = errors.New("no answer")

// Prompter asks yes/no questions on a line-based input.
type Prompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompterWithIO creates a prompter with custom input/output.
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// Confirm prints question and reads y/yes or n/no. An empty line selects defaultYes.
// Any other answer asks again.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "(y/N)"
	if defaultYes {
		hint = "(Y/n)"
	}

	for {
		fmt.Fprintf(p.out, "%s %s ", question, hint)

		if !p.scanner.Scan() {
			fmt.Fprintln(p.out)

			if err := p.scanner.Err(); err != nil {
				return false, fmt.Errorf("read answer: %w", err)
			}

			return false, errNoAnswer
		}

		switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(p.out, "Please answer y or n.")
		}
	}
}
