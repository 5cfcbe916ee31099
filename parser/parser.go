// Package parser evaluates declarative pipeline definitions into a Jobs
// collection. A definition is evaluated exactly once, synchronously, in the
// caller's goroutine; all construction errors fail fast and name the
// offending job and field.
package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/jobsync/jobsync/common/models"
	"github.com/jobsync/jobsync/common/xmlenc"
)

type ConfigType string

const (
	ConfigTypeYAML     ConfigType = "yaml"
	ConfigTypeJSON     ConfigType = "json"
	ConfigTypeNoConfig ConfigType = "none"
	ConfigTypeInvalid  ConfigType = "invalid"
)

var (
	// YAMLDefinitionFileNames contains a list of all definition file names
	// that represent a YAML formatted definition in the root of a project.
	YAMLDefinitionFileNames = []string{
		".jobsync.yaml",
		"jobsync.yaml",
		".jobsync.yml",
		"jobsync.yml",
	}

	// JSONDefinitionFileNames contains a list of all definition file names
	// that represent a JSON formatted definition in the root of a project.
	JSONDefinitionFileNames = []string{
		".jobsync.json",
		"jobsync.json",
	}
)

// ParserLimits provides a parser with limits to check while evaluating a
// definition. If the definition goes beyond any limit then parsing fails.
// A zero limit means unlimited.
type ParserLimits struct {
	// MaxJobs is the maximum number of jobs allowed in a single definition.
	MaxJobs int
	// MaxStepsPerJob is the maximum number of build steps allowed in any
	// single job.
	MaxStepsPerJob int
}

type DefinitionParser struct {
	limits ParserLimits
}

func NewDefinitionParser(limits ParserLimits) *DefinitionParser {
	return &DefinitionParser{
		limits: limits,
	}
}

type definitionDocument struct {
	Version string          `yaml:"version" json:"version"`
	Jobs    []jobDefinition `yaml:"jobs" json:"jobs"`
}

type jobDefinition struct {
	Name       string                 `yaml:"name" json:"name"`
	Workspace  string                 `yaml:"workspace" json:"workspace"`
	SCM        *scmDefinition         `yaml:"scm" json:"scm"`
	Parameters []parameterDefinition  `yaml:"parameters" json:"parameters"`
	Steps      []stepDefinition       `yaml:"steps" json:"steps"`
	Artifacts  []string               `yaml:"artifacts" json:"artifacts"`
	Downstream []downstreamDefinition `yaml:"downstream" json:"downstream"`
	RawXML     []string               `yaml:"raw_xml" json:"raw_xml"`
}

type scmDefinition struct {
	Svn string `yaml:"svn" json:"svn"`
}

type parameterDefinition struct {
	Name        string `yaml:"name" json:"name"`
	Default     string `yaml:"default" json:"default"`
	Description string `yaml:"description" json:"description"`
}

type stepDefinition struct {
	Shell string `yaml:"shell" json:"shell"`
}

type downstreamDefinition struct {
	Job        string `yaml:"job" json:"job"`
	Properties string `yaml:"properties" json:"properties"`
}

// ParseFile reads and parses the definition file at path, detecting the
// definition format from the file name.
func (p *DefinitionParser) ParseFile(path string) (*models.Jobs, error) {
	configType := ConfigTypeForFileName(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading definition file %q", path)
	}
	return p.Parse(data, configType)
}

// Parse parses a raw pipeline definition into a Jobs collection.
func (p *DefinitionParser) Parse(config []byte, configType ConfigType) (*models.Jobs, error) {
	var (
		doc definitionDocument
		err error
	)
	switch configType {
	case ConfigTypeYAML:
		err = yaml.UnmarshalStrict(config, &doc)
	case ConfigTypeJSON:
		err = json.Unmarshal(config, &doc)
	case ConfigTypeNoConfig:
		return nil, errors.Errorf("error: no pipeline definition file was found")
	default:
		return nil, errors.Errorf("error: unsupported pipeline definition type: %s", configType)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling pipeline definition from %s", configType)
	}

	const defaultVersion = "DEFAULT_VERSION"
	version := doc.Version
	if version == "" {
		version = defaultVersion
	}
	switch version {
	case "1.0", "1", defaultVersion:
	default:
		return nil, errors.Errorf("error parsing pipeline definition: version %s not supported", version)
	}

	if p.limits.MaxJobs > 0 && len(doc.Jobs) > p.limits.MaxJobs {
		return nil, errors.Errorf("error parsing pipeline definition: %d jobs exceeds the limit of %d", len(doc.Jobs), p.limits.MaxJobs)
	}

	jobs, err := models.NewJobs()
	if err != nil {
		return nil, err
	}
	for i, def := range doc.Jobs {
		job, err := p.buildJob(def)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing job at index %d", i)
		}
		if err := jobs.Add(job); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (p *DefinitionParser) buildJob(def jobDefinition) (*models.Job, error) {
	builder, err := models.NewJobBuilder(def.Name)
	if err != nil {
		return nil, err
	}
	if def.Workspace != "" {
		builder.SetCustomWorkspace(def.Workspace)
	}
	if def.SCM != nil {
		if def.SCM.Svn == "" {
			return nil, errors.Errorf("error job %q: scm block must declare an svn url", def.Name)
		}
		if err := builder.Subversion(def.SCM.Svn); err != nil {
			return nil, err
		}
	}
	for _, param := range def.Parameters {
		if err := builder.StringParameter(param.Name, param.Default, param.Description); err != nil {
			return nil, err
		}
	}
	if p.limits.MaxStepsPerJob > 0 && len(def.Steps) > p.limits.MaxStepsPerJob {
		return nil, errors.Errorf("error job %q: %d steps exceeds the limit of %d", def.Name, len(def.Steps), p.limits.MaxStepsPerJob)
	}
	for _, step := range def.Steps {
		if err := builder.Shell(step.Shell); err != nil {
			return nil, err
		}
	}
	if len(def.Artifacts) > 0 {
		if err := builder.Archive(def.Artifacts...); err != nil {
			return nil, err
		}
	}
	for _, downstream := range def.Downstream {
		if err := builder.TriggerDownstream(downstream.Job, downstream.Properties); err != nil {
			return nil, err
		}
	}
	for _, raw := range def.RawXML {
		fragment := raw
		builder.AppendXML(func(e *xmlenc.Emitter) error {
			return e.Raw(fragment)
		})
	}
	return builder.Build()
}

// ConfigTypeForFileName returns the definition format implied by the given
// file name, or ConfigTypeInvalid when the name is not recognised.
func ConfigTypeForFileName(path string) ConfigType {
	base := filepath.Base(path)
	for _, name := range YAMLDefinitionFileNames {
		if base == name {
			return ConfigTypeYAML
		}
	}
	for _, name := range JSONDefinitionFileNames {
		if base == name {
			return ConfigTypeJSON
		}
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml":
		return ConfigTypeYAML
	case ".json":
		return ConfigTypeJSON
	}
	return ConfigTypeInvalid
}
