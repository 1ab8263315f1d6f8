package providers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// LinePrompter prompts on a writer and reads answers line by line.
// It is used when stdin is not a terminal (pipes, CI) and in tests.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewLinePrompter creates a prompter that reads from in and prompts on out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (lp *LinePrompter) Ask(prompt string) (string, error) {
	fmt.Fprint(lp.out, prompt)
	line, err := lp.reader.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts as an answer.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}

// ReadlinePrompter reads answers with line editing when attached to a terminal.
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter opens a readline instance on the process terminal.
func NewReadlinePrompter() (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "abort",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

func (rp *ReadlinePrompter) Ask(prompt string) (string, error) {
	rp.rl.SetPrompt(prompt)
	line, err := rp.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Close releases the terminal.
func (rp *ReadlinePrompter) Close() error {
	return rp.rl.Close()
}

// NewInteractivePrompter picks readline for a terminal and a plain line
// reader otherwise. The returned close function is always non-nil.
func NewInteractivePrompter(out io.Writer) (Prompter, func() error) {
	if readline.DefaultIsTerminal() {
		if rp, err := NewReadlinePrompter(); err == nil {
			return rp, rp.Close
		}
	}
	return NewLinePrompter(os.Stdin, out), func() error { return nil }
}

// ScriptedPrompter returns pre-recorded answers in order. Asking past the
// end of the script returns io.EOF, like closed input.
type ScriptedPrompter struct {
	Answers []string
	Prompts []string
}

// NewScriptedPrompter creates a prompter that replays answers.
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (sp *ScriptedPrompter) Ask(prompt string) (string, error) {
	sp.Prompts = append(sp.Prompts, prompt)
	if len(sp.Answers) == 0 {
		return "", io.EOF
	}
	answer := sp.Answers[0]
	sp.Answers = sp.Answers[1:]
	return strings.TrimSpace(answer), nil
}
