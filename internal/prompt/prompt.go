// Package prompt reads operator answers from the console.
//
// Answers are single lines. A yes/no question is affirmative when the
// answer starts with "y" in any case; anything else, including an empty
// line, is a no.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when the input ends before an answer is read.
var ErrNoInput = errors.New("no input")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter reading from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question + " [y/n]")
	if err != nil {
		return false, err
	}
	return IsYes(answer), nil
}

// Ask prints the question and returns the trimmed answer line.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Choose prints the options as a list, then asks for a free-text answer.
func (p *Prompter) Choose(question string, options []string) (string, error) {
	if len(options) > 0 {
		fmt.Fprintln(p.out, "Available:")
		for _, o := range options {
			fmt.Fprintf(p.out, "  - %s\n", o)
		}
	}
	return p.Ask(question)
}

// IsYes reports whether an answer is affirmative.
func IsYes(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}
