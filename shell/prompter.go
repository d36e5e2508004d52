package shell

import (
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompter collects one answer per call. Select must return one of the offered options.
type Prompter interface {
	Select(message string, options []string) (string, error)
	Input(message string) (string, error)
	Password(message string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// TerminalPrompter asks questions on an interactive terminal.
type TerminalPrompter struct {
	opts []survey.AskOpt
}

func NewTerminalPrompter(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *TerminalPrompter {
	return &TerminalPrompter{opts: []survey.AskOpt{survey.WithStdio(in, out, errOut)}}
}

func (p *TerminalPrompter) Select(message string, options []string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &answer, p.opts...)
	return answer, err
}

func (p *TerminalPrompter) Input(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, p.required()...)
	return answer, err
}

func (p *TerminalPrompter) Password(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Password{Message: message}, &answer, p.required()...)
	return answer, err
}

func (p *TerminalPrompter) Confirm(message string, def bool) (bool, error) {
	answer := def
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &answer, p.opts...)
	return answer, err
}

func (p *TerminalPrompter) required() []survey.AskOpt {
	opts := make([]survey.AskOpt, 0, len(p.opts)+1)
	opts = append(opts, p.opts...)
	return append(opts, survey.WithValidator(survey.Required))
}
