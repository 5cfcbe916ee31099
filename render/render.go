// Package render serializes jobs into the configuration documents consumed
// by the CI server. Rendering is a pure function of job state: the same job
// always produces byte-identical output, and a job whose document cannot be
// fully serialized yields an error rather than a partial document.
package render

import (
	"bytes"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/models"
	"github.com/jobsync/jobsync/common/xmlenc"
)

// Project renders the configuration document for a single job. The section
// order is fixed and load-bearing: the server's schema is order and presence
// sensitive for several sections.
func Project(job *models.Job) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlenc.Header)
	e := xmlenc.NewEmitter(&buf)

	err := e.Element("project", func() error {
		if err := properties(e, job); err != nil {
			return err
		}
		if workspace := job.Workspace(); workspace != "" {
			if err := e.TextElement("customWorkspace", workspace); err != nil {
				return err
			}
		}
		if err := publishers(e, job); err != nil {
			return err
		}
		if err := job.SCM().Emit(e); err != nil {
			return err
		}
		if err := triggers(e, job); err != nil {
			return err
		}
		if err := builders(e, job); err != nil {
			return err
		}
		if err := trailer(e); err != nil {
			return err
		}
		for _, fragment := range job.RawFragments() {
			if err := fragment.Emit(e); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		err = e.Close()
	}
	if err != nil {
		return nil, gerror.NewErrRenderFailed(job.Name().String(), err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// properties writes the parameter definitions. The properties element is
// always present, empty when the job declares no parameters.
func properties(e *xmlenc.Emitter, job *models.Job) error {
	params := job.Parameters()
	if len(params) == 0 {
		return e.EmptyElement("properties")
	}
	return e.Element("properties", func() error {
		return e.Element("hudson.model.ParametersDefinitionProperty", func() error {
			return e.Element("parameterDefinitions", func() error {
				for _, param := range params {
					if err := param.Emit(e); err != nil {
						return err
					}
				}
				return nil
			})
		})
	})
}

// publishers writes one archiver entry per declared pattern set, then all
// other publishers in declaration order.
func publishers(e *xmlenc.Emitter, job *models.Job) error {
	return e.Element("publishers", func() error {
		for _, archiver := range job.Archivers() {
			if err := archiver.Emit(e); err != nil {
				return err
			}
		}
		for _, publisher := range job.Publishers() {
			if err := publisher.Emit(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func triggers(e *xmlenc.Emitter, job *models.Job) error {
	return e.ClassedElement("triggers", "vector", func() error {
		for _, trigger := range job.Triggers() {
			if err := trigger.Emit(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func builders(e *xmlenc.Emitter, job *models.Job) error {
	return e.Element("builders", func() error {
		for _, step := range job.Steps() {
			if err := step.Emit(e); err != nil {
				return err
			}
		}
		return nil
	})
}

// trailer writes the fixed scalar settings every job document carries.
func trailer(e *xmlenc.Emitter) error {
	if err := e.EmptyElement("actions"); err != nil {
		return err
	}
	if err := e.TextElement("description", ""); err != nil {
		return err
	}
	for _, flag := range []struct {
		name  string
		value bool
	}{
		{"keepDependencies", false},
		{"canRoam", true},
		{"disabled", false},
		{"blockBuildWhenDownstreamBuilding", false},
		{"blockBuildWhenUpstreamBuilding", false},
		{"concurrentBuild", false},
	} {
		if err := e.BoolElement(flag.name, flag.value); err != nil {
			return err
		}
	}
	return nil
}
