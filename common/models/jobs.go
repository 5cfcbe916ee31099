package models

import (
	"fmt"

	"github.com/jobsync/jobsync/common/gerror"
)

// Jobs is an ordered, name-keyed collection of jobs. Iteration order is the
// order jobs were added, which is the declaration order of the configuration
// they were built from; publish order is therefore deterministic rather than
// incidental to a map's hashing. Duplicate names fail fast.
type Jobs struct {
	ordered []*Job
	byName  map[JobName]*Job
}

func NewJobs(jobs ...*Job) (*Jobs, error) {
	j := &Jobs{
		byName: make(map[JobName]*Job),
	}
	for _, job := range jobs {
		if err := j.Add(job); err != nil {
			return nil, err
		}
	}
	return j, nil
}

func (j *Jobs) Add(job *Job) error {
	if _, exists := j.byName[job.Name()]; exists {
		return gerror.NewErrAlreadyExists(fmt.Sprintf("error duplicate job name %q", job.Name()))
	}
	j.byName[job.Name()] = job
	j.ordered = append(j.ordered, job)
	return nil
}

func (j *Jobs) Get(name JobName) (*Job, bool) {
	job, ok := j.byName[name]
	return job, ok
}

// All returns the jobs in declaration order.
func (j *Jobs) All() []*Job {
	out := make([]*Job, len(j.ordered))
	copy(out, j.ordered)
	return out
}

func (j *Jobs) Len() int {
	return len(j.ordered)
}
