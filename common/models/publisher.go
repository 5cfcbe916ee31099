package models

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/xmlenc"
)

const (
	artifactArchiverElement = "hudson.tasks.ArtifactArchiver"
	buildTriggerElement     = "hudson.plugins.parameterizedtrigger.BuildTrigger"
	buildTriggerConfig      = "hudson.plugins.parameterizedtrigger.BuildTriggerConfig"
	predefinedParamsElement = "hudson.plugins.parameterizedtrigger.PredefinedBuildParameters"
	downstreamCondition     = "SUCCESS"
)

// ArtifactArchiver archives files matching the configured glob patterns from
// the job workspace after each build. All patterns in one archiver form one
// comma-separated pattern set on the server.
type ArtifactArchiver struct {
	patterns []string
}

func NewArtifactArchiver(patterns ...string) (*ArtifactArchiver, error) {
	if len(patterns) == 0 {
		return nil, gerror.NewErrValidationFailed("error artifact archiver requires at least one pattern")
	}
	for _, pattern := range patterns {
		if pattern == "" {
			return nil, gerror.NewErrValidationFailed("error artifact pattern must not be empty")
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, gerror.NewErrValidationFailed(fmt.Sprintf("error invalid artifact pattern %q", pattern))
		}
	}
	copied := make([]string, len(patterns))
	copy(copied, patterns)
	return &ArtifactArchiver{patterns: copied}, nil
}

func (a *ArtifactArchiver) Patterns() []string {
	copied := make([]string, len(a.patterns))
	copy(copied, a.patterns)
	return copied
}

func (a *ArtifactArchiver) publisher() {}

func (a *ArtifactArchiver) Emit(e *xmlenc.Emitter) error {
	return e.Element(artifactArchiverElement, func() error {
		if err := e.TextElement("artifacts", strings.Join(a.patterns, ",")); err != nil {
			return err
		}
		return e.BoolElement("latestOnly", false)
	})
}

// DownstreamTrigger starts another job after this one succeeds, passing the
// configured newline-delimited key=value properties through verbatim as the
// downstream job's parameters.
type DownstreamTrigger struct {
	project    JobName
	properties string
}

func NewDownstreamTrigger(project, properties string) (*DownstreamTrigger, error) {
	name := JobName(project)
	if err := name.Validate(); err != nil {
		return nil, gerror.NewErrValidationFailed("error downstream trigger target").Wrap(err)
	}
	return &DownstreamTrigger{project: name, properties: properties}, nil
}

func (d *DownstreamTrigger) Project() JobName {
	return d.project
}

func (d *DownstreamTrigger) Properties() string {
	return d.properties
}

func (d *DownstreamTrigger) publisher() {}

func (d *DownstreamTrigger) Emit(e *xmlenc.Emitter) error {
	return e.Element(buildTriggerElement, func() error {
		return e.Element("configs", func() error {
			return e.Element(buildTriggerConfig, func() error {
				err := e.Element("configs", func() error {
					return e.Element(predefinedParamsElement, func() error {
						return e.TextElement("properties", d.properties)
					})
				})
				if err != nil {
					return err
				}
				if err := e.TextElement("projects", d.project.String()); err != nil {
					return err
				}
				if err := e.TextElement("condition", downstreamCondition); err != nil {
					return err
				}
				return e.BoolElement("triggerWithNoParameters", false)
			})
		})
	})
}
