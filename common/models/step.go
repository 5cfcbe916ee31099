package models

import (
	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/xmlenc"
)

const shellStepElement = "hudson.tasks.Shell"

// ShellStep runs a shell command as one build step. Steps execute in the
// order they were declared on the job.
type ShellStep struct {
	command string
}

func NewShellStep(command string) (*ShellStep, error) {
	if command == "" {
		return nil, gerror.NewErrValidationFailed("error shell step command must be set")
	}
	return &ShellStep{command: command}, nil
}

func (s *ShellStep) Command() string {
	return s.command
}

func (s *ShellStep) step() {}

func (s *ShellStep) Emit(e *xmlenc.Emitter) error {
	return e.Element(shellStepElement, func() error {
		return e.TextElement("command", s.command)
	})
}
