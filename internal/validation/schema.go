package validation

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// Schema maps parameter names to their definitions for one step kind.
type Schema map[string]ParamDef

// SchemaRegistry resolves a step to its parameter schema by step name.
type SchemaRegistry struct {
	schemas map[string]Schema
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

// builtinSchemas covers the common nirs4all step families so the schema-
// driven parameter validator is useful out of the box. User-supplied schema
// files extend or override these.
var builtinSchemas = map[string]Schema{
	"StandardScaler": {
		"with_mean": {Kind: KindBool},
		"with_std":  {Kind: KindBool},
	},
	"MinMaxScaler": {
		"feature_range": {Kind: KindArray, MinLength: ip(2), MaxLength: ip(2)},
	},
	"SavitzkyGolay": {
		"window_length": {Kind: KindInt, Required: true, Min: fp(3), Step: fp(2)},
		"polyorder":     {Kind: KindInt, Required: true, Min: fp(0)},
		"deriv":         {Kind: KindInt, Min: fp(0), Max: fp(2)},
	},
	"SNV": {},
	"MSC": {
		"reference": {Kind: KindSelect, Options: []any{"mean", "median"}, AllowCustom: true},
	},
	"Detrend": {
		"order": {Kind: KindInt, Min: fp(1), Max: fp(3)},
	},
	"KFold": {
		"n_splits": {Kind: KindInt, Required: true, Min: fp(2)},
		"shuffle":  {Kind: KindBool},
	},
	"ShuffleSplit": {
		"n_splits":  {Kind: KindInt, Min: fp(1)},
		"test_size": {Kind: KindFloat, Min: fp(0), Max: fp(1)},
	},
	"TrainTestSplit": {
		"test_size": {Kind: KindFloat, Required: true, Min: fp(0), Max: fp(1)},
	},
	"PLSRegression": {
		"n_components": {Kind: KindInt, Required: true, Min: fp(1)},
		"scale":        {Kind: KindBool},
	},
	"RandomForestRegressor": {
		"n_estimators": {Kind: KindInt, Min: fp(1)},
		"max_depth":    {Kind: KindInt, Min: fp(1)},
		"criterion": {Kind: KindSelect,
			Options: []any{"squared_error", "absolute_error", "friedman_mse", "poisson"}},
	},
	"SVR": {
		"kernel":  {Kind: KindSelect, Options: []any{"linear", "poly", "rbf", "sigmoid"}},
		"C":       {Kind: KindFloat, Min: fp(0)},
		"epsilon": {Kind: KindFloat, Min: fp(0)},
	},
}

// NewSchemaRegistry returns a registry seeded with the builtin schemas.
func NewSchemaRegistry() *SchemaRegistry {
	schemas := make(map[string]Schema, len(builtinSchemas))
	for name, s := range builtinSchemas {
		schemas[name] = s
	}
	return &SchemaRegistry{schemas: schemas}
}

// Lookup returns the schema for a step name, if one is registered.
func (r *SchemaRegistry) Lookup(stepName string) (Schema, bool) {
	s, ok := r.schemas[stepName]
	return s, ok
}

// Register adds or replaces the schema for a step name.
func (r *SchemaRegistry) Register(stepName string, schema Schema) {
	r.schemas[stepName] = schema
}

// Names returns the registered step names, sorted.
func (r *SchemaRegistry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile merges schema definitions from a YAML file into the registry.
// The document maps step names to parameter definitions.
func (r *SchemaRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", path, err)
	}
	var loaded map[string]Schema
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("invalid schema file %s: %w", path, err)
	}
	for name, schema := range loaded {
		r.schemas[name] = schema
	}
	return nil
}

// CheckStepParams validates every declared parameter of a step against the
// registry. Steps without a registered schema produce no issues: the
// engine's built-in sweep remains the schema-independent safety net.
func (r *SchemaRegistry) CheckStepParams(step pipeline.Step, index int) []Issue {
	schema, ok := r.Lookup(step.Name)
	if !ok {
		return nil
	}

	// Deterministic order: definitions sorted by parameter name.
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		value, present := step.Params[name]
		if !present {
			value = nil
		}
		issues = append(issues, CheckParam(step, index, name, value, schema[name])...)
	}
	return issues
}
