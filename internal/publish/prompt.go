package publish

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user for input.
type Prompter interface {
	Confirm(question string) (bool, error)
	Ask(question string) (string, error)
}

// LinePrompter reads one line per answer.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a Prompter over in and out, usually stdin and stdout.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm accepts only "y" or "Y".
func (p *LinePrompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question + " (y/N) ")
	if err != nil {
		return false, err
	}
	return answer == "y" || answer == "Y", nil
}

func (p *LinePrompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
