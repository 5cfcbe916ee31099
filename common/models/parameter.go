package models

import (
	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/xmlenc"
)

const stringParameterElement = "hudson.model.StringParameterDefinition"

// StringParameter is a build parameter prompted for (or supplied by an
// upstream trigger) when the job runs. Default value and description are
// written as empty strings when unspecified.
type StringParameter struct {
	name         string
	defaultValue string
	description  string
}

func NewStringParameter(name, defaultValue, description string) (*StringParameter, error) {
	if name == "" {
		return nil, gerror.NewErrValidationFailed("error parameter name must be set")
	}
	return &StringParameter{
		name:         name,
		defaultValue: defaultValue,
		description:  description,
	}, nil
}

func (p *StringParameter) Name() string {
	return p.name
}

func (p *StringParameter) DefaultValue() string {
	return p.defaultValue
}

func (p *StringParameter) Description() string {
	return p.description
}

func (p *StringParameter) Emit(e *xmlenc.Emitter) error {
	return e.Element(stringParameterElement, func() error {
		if err := e.TextElement("name", p.name); err != nil {
			return err
		}
		if err := e.TextElement("description", p.description); err != nil {
			return err
		}
		return e.TextElement("defaultValue", p.defaultValue)
	})
}
