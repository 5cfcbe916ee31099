package models

// Job is the full configuration of one CI pipeline stage: the job's name, an
// optional custom workspace, and the capability objects (source control
// strategy, triggers, parameters, build steps, publishers, raw fragments)
// that together render into the job's configuration document. A Job is built
// once through a JobBuilder and immutable afterwards; it exclusively owns all
// of its capability objects.
type Job struct {
	name       JobName
	workspace  string
	parameters []*StringParameter
	scm        SCM
	triggers   []Trigger
	steps      []Step
	archivers  []*ArtifactArchiver
	publishers []Publisher
	fragments  []RawFragment
}

func (j *Job) Name() JobName {
	return j.name
}

// Workspace returns the custom workspace path, or an empty string when the
// job uses the server's default workspace.
func (j *Job) Workspace() string {
	return j.workspace
}

func (j *Job) Parameters() []*StringParameter {
	out := make([]*StringParameter, len(j.parameters))
	copy(out, j.parameters)
	return out
}

func (j *Job) SCM() SCM {
	return j.scm
}

func (j *Job) Triggers() []Trigger {
	out := make([]Trigger, len(j.triggers))
	copy(out, j.triggers)
	return out
}

func (j *Job) Steps() []Step {
	out := make([]Step, len(j.steps))
	copy(out, j.steps)
	return out
}

func (j *Job) Archivers() []*ArtifactArchiver {
	out := make([]*ArtifactArchiver, len(j.archivers))
	copy(out, j.archivers)
	return out
}

func (j *Job) Publishers() []Publisher {
	out := make([]Publisher, len(j.publishers))
	copy(out, j.publishers)
	return out
}

func (j *Job) RawFragments() []RawFragment {
	out := make([]RawFragment, len(j.fragments))
	copy(out, j.fragments)
	return out
}
