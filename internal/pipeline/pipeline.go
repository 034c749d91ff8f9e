// Package pipeline defines the step tree produced by the nirs4all editor
// and loads pipeline documents from YAML or JSON files.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StepType classifies what a step does to the data flowing through it.
type StepType string

// The closed set of step types understood by the editor.
const (
	TypePreprocessing StepType = "preprocessing"
	TypeYProcessing   StepType = "y_processing"
	TypeSplitting     StepType = "splitting"
	TypeModel         StepType = "model"
	TypeFilter        StepType = "filter"
	TypeAugmentation  StepType = "augmentation"
	TypeFlow          StepType = "flow"
	TypeUtility       StepType = "utility"
)

// Known reports whether t is one of the recognized step types.
func (t StepType) Known() bool {
	switch t {
	case TypePreprocessing, TypeYProcessing, TypeSplitting, TypeModel,
		TypeFilter, TypeAugmentation, TypeFlow, TypeUtility:
		return true
	}
	return false
}

// SubType distinguishes flow-control roles within a step type.
type SubType string

// Flow-control sub types.
const (
	SubTypeBranch              SubType = "branch"
	SubTypeMerge               SubType = "merge"
	SubTypeGenerator           SubType = "generator"
	SubTypeSampleAugmentation  SubType = "sample_augmentation"
	SubTypeFeatureAugmentation SubType = "feature_augmentation"
	SubTypeSequential          SubType = "sequential"
)

// IsChildContainer reports whether steps of this sub type carry their
// payload in an ordered Children list.
func (s SubType) IsChildContainer() bool {
	switch s {
	case SubTypeSequential, SubTypeSampleAugmentation, SubTypeFeatureAugmentation:
		return true
	}
	return false
}

// IsBranching reports whether steps of this sub type carry ordered branch
// groups that are later recombined by a merge step.
func (s SubType) IsBranching() bool {
	return s == SubTypeBranch || s == SubTypeGenerator
}

// GeneratorKind selects how a generator step combines its branches.
type GeneratorKind string

// Generator combination modes.
const (
	GeneratorOr        GeneratorKind = "or"
	GeneratorCartesian GeneratorKind = "cartesian"
)

// Params holds a step's parameter values. A document may declare params as
// null, omit them, or (from hand-edited files) supply a non-mapping value;
// all of those decode to nil rather than failing the whole document.
type Params map[string]any

// UnmarshalYAML tolerates null and non-mapping param blocks.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]any
	if err := value.Decode(&m); err != nil {
		*p = nil
		return nil
	}
	*p = m
	return nil
}

// UnmarshalJSON tolerates null and non-object param blocks.
func (p *Params) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		*p = nil
		return nil
	}
	*p = m
	return nil
}

// FinetuneConfig declares hyperparameter tuning for a model step.
type FinetuneConfig struct {
	Enabled    bool           `yaml:"enabled" json:"enabled"`
	Parameters map[string]any `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Trials     int            `yaml:"trials,omitempty" json:"trials,omitempty"`
}

// Step is one node in the pipeline tree. Containers carry Children, branch
// and generator steps carry Branches (each branch group is itself an ordered
// step sequence). The tree is owned top-down; steps never reference upward.
type Step struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	Type          StepType        `yaml:"type" json:"type"`
	SubType       SubType         `yaml:"subType,omitempty" json:"subType,omitempty"`
	Enabled       *bool           `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Params        Params          `yaml:"params,omitempty" json:"params,omitempty"`
	Children      []Step          `yaml:"children,omitempty" json:"children,omitempty"`
	Branches      [][]Step        `yaml:"branches,omitempty" json:"branches,omitempty"`
	GeneratorKind GeneratorKind   `yaml:"generatorKind,omitempty" json:"generatorKind,omitempty"`
	Finetune      *FinetuneConfig `yaml:"finetune,omitempty" json:"finetuneConfig,omitempty"`
}

// IsEnabled reports whether the step participates in the pipeline.
// An absent enabled field means enabled.
func (s Step) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Pipeline is a complete pipeline document as saved by the editor.
type Pipeline struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Steps       []Step `yaml:"steps" json:"steps"`
}

// Load reads and parses a pipeline document. The format is chosen by file
// extension: .json uses the JSON decoder, everything else is parsed as YAML.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pipeline file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read pipeline file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return Parse(data)
}

// Parse parses a pipeline document from YAML bytes. A document may be either
// a full pipeline object or a bare list of steps.
func Parse(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err == nil && len(p.Steps) > 0 {
		return &p, nil
	}

	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err == nil {
		return &Pipeline{Steps: steps}, nil
	}

	// Retry the object form to surface its error message, which is the more
	// useful one for hand-edited files.
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid pipeline YAML: %w", err)
	}
	return &p, nil
}

// ParseJSON parses a pipeline document from JSON bytes.
func ParseJSON(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(data, &p); err == nil && len(p.Steps) > 0 {
		return &p, nil
	}

	var steps []Step
	if err := json.Unmarshal(data, &steps); err == nil {
		return &Pipeline{Steps: steps}, nil
	}

	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid pipeline JSON: %w", err)
	}
	return &p, nil
}

// Count returns the total number of steps in the tree, including every
// nested child and branch group member.
func Count(steps []Step) int {
	n := 0
	for _, s := range steps {
		n++
		n += Count(s.Children)
		for _, group := range s.Branches {
			n += Count(group)
		}
	}
	return n
}

// Find returns the first step in document order with the given id, searching
// children and branch groups recursively.
func Find(steps []Step, id string) *Step {
	for i := range steps {
		if steps[i].ID == id {
			return &steps[i]
		}
		if found := Find(steps[i].Children, id); found != nil {
			return found
		}
		for _, group := range steps[i].Branches {
			if found := Find(group, id); found != nil {
				return found
			}
		}
	}
	return nil
}
