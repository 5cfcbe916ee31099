package models

import (
	"github.com/jobsync/jobsync/common/xmlenc"
)

// Fragment is one configuration facet of a job. Emit appends the facet's
// subtree at the emitter's current position and closes every element it
// opens, including when it fails part way through. Implementations must not
// reorder siblings already written by the caller.
type Fragment interface {
	Emit(e *xmlenc.Emitter) error
}

// SCM is a job's source control strategy. Exactly one is attached to a job.
type SCM interface {
	Fragment
	scm()
}

// Trigger is a condition that schedules or starts a build.
type Trigger interface {
	Fragment
	trigger()
}

// Step is one sequentially executed action within a job.
type Step interface {
	Fragment
	step()
}

// Publisher is a post-build action.
type Publisher interface {
	Fragment
	publisher()
}

// RawFragment is an opaque escape hatch: a caller-supplied function bound to
// the active emitter when the owning job is rendered, after all fixed
// sections. The renderer cannot see inside the fragment, so the function is
// responsible for emitting well-formed content.
type RawFragment func(e *xmlenc.Emitter) error

func (f RawFragment) Emit(e *xmlenc.Emitter) error {
	return f(e)
}
