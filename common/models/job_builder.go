package models

import (
	"fmt"

	"github.com/jobsync/jobsync/common/gerror"
)

// JobBuilder assembles a Job from a declarative job configuration. All
// mutation happens through the builder's method set; each method validates
// its inputs and fails fast with the offending field. Build seals the job.
type JobBuilder struct {
	job *Job
}

func NewJobBuilder(name string) (*JobBuilder, error) {
	jobName := JobName(name)
	if err := jobName.Validate(); err != nil {
		return nil, gerror.NewErrValidationFailed("error invalid job name").Wrap(err)
	}
	return &JobBuilder{
		job: &Job{name: jobName},
	}, nil
}

// SetCustomWorkspace points the job at a fixed workspace path instead of the
// server-assigned default.
func (b *JobBuilder) SetCustomWorkspace(path string) {
	b.job.workspace = path
}

// Shell appends a shell build step. Steps execute in declaration order.
func (b *JobBuilder) Shell(command string) error {
	step, err := NewShellStep(command)
	if err != nil {
		return b.fieldErr("steps", err)
	}
	b.job.steps = append(b.job.steps, step)
	return nil
}

// Archive declares one set of artifact glob patterns to archive after each
// build. Each call produces one archiver entry in the rendered document.
func (b *JobBuilder) Archive(patterns ...string) error {
	archiver, err := NewArtifactArchiver(patterns...)
	if err != nil {
		return b.fieldErr("artifacts", err)
	}
	b.job.archivers = append(b.job.archivers, archiver)
	return nil
}

// Subversion selects version-controlled source at the given URL. Declaring it
// also installs exactly one default polling trigger so the job builds when
// the repository changes.
func (b *JobBuilder) Subversion(url string) error {
	if b.job.scm != nil {
		return gerror.NewErrValidationFailed(fmt.Sprintf("error job %q: source control is already configured", b.job.name))
	}
	scm, err := NewSubversionSCM(url)
	if err != nil {
		return b.fieldErr("scm", err)
	}
	trigger, err := NewPollTrigger(DefaultPollSchedule)
	if err != nil {
		return b.fieldErr("scm", err)
	}
	b.job.scm = scm
	b.job.triggers = append(b.job.triggers, trigger)
	return nil
}

// StringParameter declares a string build parameter. Default value and
// description may be empty.
func (b *JobBuilder) StringParameter(name, defaultValue, description string) error {
	param, err := NewStringParameter(name, defaultValue, description)
	if err != nil {
		return b.fieldErr("parameters", err)
	}
	b.job.parameters = append(b.job.parameters, param)
	return nil
}

// TriggerDownstream declares a downstream job to start when this job
// succeeds, passing the properties text through verbatim.
func (b *JobBuilder) TriggerDownstream(job, properties string) error {
	trigger, err := NewDownstreamTrigger(job, properties)
	if err != nil {
		return b.fieldErr("downstream", err)
	}
	b.job.publishers = append(b.job.publishers, trigger)
	return nil
}

// AppendXML registers a raw fragment emitted after all fixed sections of the
// document, in registration order.
func (b *JobBuilder) AppendXML(fragment RawFragment) {
	b.job.fragments = append(b.job.fragments, fragment)
}

// Build seals and returns the job. A job with no declared source control
// defaults to NullSCM and an empty trigger list.
func (b *JobBuilder) Build() (*Job, error) {
	if b.job.scm == nil {
		b.job.scm = NewNullSCM()
	}
	return b.job, nil
}

func (b *JobBuilder) fieldErr(field string, err error) error {
	return gerror.NewErrValidationFailed(fmt.Sprintf("error job %q: invalid %s", b.job.name, field)).Wrap(err)
}
