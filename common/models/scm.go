package models

import (
	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/xmlenc"
)

const (
	nullSCMClass        = "hudson.scm.NullSCM"
	subversionSCMClass  = "hudson.scm.SubversionSCM"
	subversionLocation  = "hudson.scm.SubversionSCM_-ModuleLocation"
	subversionUpdater   = "hudson.scm.subversion.UpdateUpdater"
	subversionLocalDir  = "."
	DefaultPollSchedule = "*/5 * * * *"
)

// NullSCM is the default source control strategy for a job that declares
// none: the job has no source to check out.
type NullSCM struct{}

func NewNullSCM() *NullSCM {
	return &NullSCM{}
}

func (s *NullSCM) scm() {}

func (s *NullSCM) Emit(e *xmlenc.Emitter) error {
	return e.ClassedElement("scm", nullSCMClass, nil)
}

// SubversionSCM checks the job's source out of a Subversion repository into
// the root of the job workspace. Declaring it on a job also installs a
// default polling trigger (see JobBuilder.Subversion).
type SubversionSCM struct {
	remote string
}

func NewSubversionSCM(remote string) (*SubversionSCM, error) {
	if remote == "" {
		return nil, gerror.NewErrValidationFailed("error svn remote url must be set")
	}
	return &SubversionSCM{remote: remote}, nil
}

func (s *SubversionSCM) Remote() string {
	return s.remote
}

func (s *SubversionSCM) scm() {}

// Emit writes the Subversion SCM section. The filter elements are required by
// the server's schema even when empty; omitting them breaks compatibility
// with existing job configurations.
func (s *SubversionSCM) Emit(e *xmlenc.Emitter) error {
	return e.ClassedElement("scm", subversionSCMClass, func() error {
		err := e.Element("locations", func() error {
			return e.Element(subversionLocation, func() error {
				if err := e.TextElement("remote", s.remote); err != nil {
					return err
				}
				return e.TextElement("local", subversionLocalDir)
			})
		})
		if err != nil {
			return err
		}
		for _, placeholder := range []string{
			"excludedRegions",
			"includedRegions",
			"excludedUsers",
			"excludedRevprop",
			"excludedCommitMessages",
		} {
			if err := e.EmptyElement(placeholder); err != nil {
				return err
			}
		}
		return e.ClassedElement("workspaceUpdater", subversionUpdater, nil)
	})
}
