package models

import (
	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/xmlenc"
)

const scmTriggerElement = "hudson.triggers.SCMTrigger"

// PollTrigger polls the job's source control on a cron-like schedule and
// starts a build when a change is detected. The schedule string is passed to
// the server verbatim.
type PollTrigger struct {
	schedule string
}

func NewPollTrigger(schedule string) (*PollTrigger, error) {
	if schedule == "" {
		return nil, gerror.NewErrValidationFailed("error poll trigger schedule must be set")
	}
	return &PollTrigger{schedule: schedule}, nil
}

func (t *PollTrigger) Schedule() string {
	return t.schedule
}

func (t *PollTrigger) trigger() {}

func (t *PollTrigger) Emit(e *xmlenc.Emitter) error {
	return e.Element(scmTriggerElement, func() error {
		return e.TextElement("spec", t.schedule)
	})
}
