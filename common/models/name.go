package models

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

const jobNameMaxLength = 255
const JobNameRegexStr = "^[a-zA-Z0-9_.-]{1,255}$"

var JobNameRegex = regexp.MustCompile(JobNameRegexStr)

// JobName is the human-specified identifier of a job. JobName must conform to
// length and character set requirements (see jobNameMaxLength and
// JobNameRegex) and is unique within the Jobs collection it belongs to. The
// name doubles as the job's identifier on the CI server, so the character set
// is restricted to names that are safe in URLs and on disk.
type JobName string

func (s JobName) String() string {
	return string(s)
}

func (s JobName) Valid() bool {
	return s.Validate() == nil
}

func (s JobName) Validate() error {
	if s == "" {
		return errors.New("error job name must be set")
	}
	if len(s) > jobNameMaxLength {
		return fmt.Errorf("error job name must not exceed %d characters", jobNameMaxLength)
	}
	if !JobNameRegex.MatchString(s.String()) {
		return fmt.Errorf("error job name must only contain alphanumeric, dot, dash or underscore characters: '%s'", s)
	}
	return nil
}
