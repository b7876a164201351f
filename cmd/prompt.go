package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/desertthunder/wandrix/internal/shared"
)

// Prompter reads answers from the user when a flag was omitted.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

type readlinePrompter struct {
	instance *readline.Instance
}

func newReadlinePrompter() *readlinePrompter {
	return &readlinePrompter{}
}

func (p *readlinePrompter) init() error {
	if p.instance != nil {
		return nil
	}
	instance, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to open prompt: %w", err)
	}
	p.instance = instance
	return nil
}

func (p *readlinePrompter) ReadLine(prompt string) (string, error) {
	if err := p.init(); err != nil {
		return "", err
	}
	p.instance.SetPrompt(prompt)
	line, err := p.instance.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *readlinePrompter) ReadPassword(prompt string) (string, error) {
	if err := p.init(); err != nil {
		return "", err
	}
	pw, err := p.instance.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// promptErr maps a cancelled prompt (ctrl+c or ctrl+d) to [shared.ErrMissingArgument].
func promptErr(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: input cancelled", shared.ErrMissingArgument)
	}
	return err
}

// flagOrPrompt returns the flag value, asking for it when empty.
func (r *Runner) flagOrPrompt(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}

	var err error
	if secret {
		value, err = r.prompt.ReadPassword(label + ": ")
	} else {
		value, err = r.prompt.ReadLine(label + ": ")
	}
	if err != nil {
		return "", promptErr(err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return value, nil
}
