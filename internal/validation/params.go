package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// ParamKind is the declared type of a parameter.
type ParamKind string

// Parameter kinds.
const (
	KindInt    ParamKind = "int"
	KindFloat  ParamKind = "float"
	KindBool   ParamKind = "bool"
	KindString ParamKind = "string"
	KindArray  ParamKind = "array"
	KindObject ParamKind = "object"
	KindSelect ParamKind = "select"
)

// ParamDef declares the contract one parameter must satisfy.
type ParamDef struct {
	Kind        ParamKind `yaml:"kind" json:"kind"`
	Required    bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Min         *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	Step        *float64  `yaml:"step,omitempty" json:"step,omitempty"`
	MinLength   *int      `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength   *int      `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern     string    `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Options     []any     `yaml:"options,omitempty" json:"options,omitempty"`
	AllowCustom bool      `yaml:"allowCustom,omitempty" json:"allowCustom,omitempty"`
}

// CheckParam validates one (name, value) pair against its definition and
// returns the issues found. The checks cascade: a missing required value or
// a type mismatch suppresses all later checks, because range, pattern, and
// select checks assume a type-correct value.
func CheckParam(step pipeline.Step, index int, name string, value any, def ParamDef) []Issue {
	loc := stepLocation(step, index)
	loc.ParamName = name

	if isEmptyValue(value) {
		if def.Required {
			issue := newIssue(CodeParamRequired, SeverityError, CategoryParameter,
				fmt.Sprintf("parameter %q is required", name), loc)
			issue.Suggestion = fmt.Sprintf("set a value for %q", name)
			return []Issue{issue}
		}
		return nil
	}

	if issue, ok := checkKind(name, value, def, loc); !ok {
		return []Issue{issue}
	}

	var issues []Issue
	switch def.Kind {
	case KindInt, KindFloat:
		issues = append(issues, checkRange(name, value, def, loc)...)
	case KindString:
		issues = append(issues, checkLength(name, value, def, loc)...)
		issues = append(issues, checkPattern(name, value, def, loc)...)
	case KindArray:
		issues = append(issues, checkLength(name, value, def, loc)...)
	}
	issues = append(issues, checkSelect(name, value, def, loc)...)
	return issues
}

// IsParamValid reports whether the value passes its definition with no
// error-severity issue. Warnings and infos do not affect validity.
func IsParamValid(step pipeline.Step, name string, value any, def ParamDef) bool {
	for _, issue := range CheckParam(step, 0, name, value, def) {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// checkKind verifies the value matches the declared kind. The returned bool
// is false when a mismatch was found, which stops the cascade.
func checkKind(name string, value any, def ParamDef, loc Location) (Issue, bool) {
	mismatch := func(want string) (Issue, bool) {
		issue := newIssue(CodeParamTypeMismatch, SeverityError, CategoryParameter,
			fmt.Sprintf("parameter %q must be %s, got %s", name, want, describeValue(value)), loc)
		return issue, false
	}

	switch def.Kind {
	case KindInt:
		f, ok := asFloat(value)
		if !ok || math.IsNaN(f) || f != math.Trunc(f) {
			return mismatch("an integer")
		}
	case KindFloat:
		f, ok := asFloat(value)
		if !ok || math.IsNaN(f) {
			return mismatch("a number")
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return mismatch("a boolean")
		}
	case KindString, KindSelect:
		// Select options may also be numeric; only the plain string kind
		// demands a string value.
		if def.Kind == KindString {
			if _, ok := value.(string); !ok {
				return mismatch("a string")
			}
		}
	case KindArray:
		if !isArray(value) {
			return mismatch("an array")
		}
	case KindObject:
		if !isObject(value) {
			return mismatch("an object")
		}
	}
	return Issue{}, true
}

func checkRange(name string, value any, def ParamDef, loc Location) []Issue {
	f, _ := asFloat(value)
	var issues []Issue

	if def.Min != nil && f < *def.Min {
		issue := newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
			fmt.Sprintf("parameter %q must be at least %v", name, *def.Min), loc)
		issues = append(issues, issue)
	}
	if def.Max != nil && f > *def.Max {
		issue := newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
			fmt.Sprintf("parameter %q must be at most %v", name, *def.Max), loc)
		issues = append(issues, issue)
	}

	// Step increments are advisory for ints: off-grid values usually still
	// run, they just won't match the editor's slider. The grid is anchored
	// at Min when declared, so {Min:3, Step:2} means odd values.
	if def.Kind == KindInt && def.Step != nil && *def.Step > 0 {
		base := 0.0
		if def.Min != nil {
			base = *def.Min
		}
		if math.Mod(f-base, *def.Step) != 0 {
			msg := fmt.Sprintf("parameter %q should be a multiple of %v", name, *def.Step)
			if base != 0 {
				msg = fmt.Sprintf("parameter %q should step by %v from %v", name, *def.Step, base)
			}
			issue := newIssue(CodeParamInvalidValue, SeverityWarning, CategoryParameter, msg, loc)
			issues = append(issues, issue)
		}
	}
	return issues
}

func checkLength(name string, value any, def ParamDef, loc Location) []Issue {
	length, ok := lengthOf(value)
	if !ok {
		return nil
	}
	var issues []Issue
	if def.MinLength != nil && length < *def.MinLength {
		issues = append(issues, newIssue(CodeParamLengthExceeded, SeverityError, CategoryParameter,
			fmt.Sprintf("parameter %q must have length at least %d, got %d", name, *def.MinLength, length), loc))
	}
	if def.MaxLength != nil && length > *def.MaxLength {
		issues = append(issues, newIssue(CodeParamLengthExceeded, SeverityError, CategoryParameter,
			fmt.Sprintf("parameter %q must have length at most %d, got %d", name, *def.MaxLength, length), loc))
	}
	return issues
}

func checkPattern(name string, value any, def ParamDef, loc Location) []Issue {
	if def.Pattern == "" {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	re, err := regexp.Compile(def.Pattern)
	if err != nil {
		// A broken pattern is a schema authoring problem, not a pipeline
		// problem; surface it as an advisory rather than failing the value.
		issue := newIssue(CodeParamPatternMismatch, SeverityInfo, CategoryParameter,
			fmt.Sprintf("pattern for parameter %q does not compile: %v", name, err), loc)
		return []Issue{issue}
	}
	if !re.MatchString(s) {
		issue := newIssue(CodeParamPatternMismatch, SeverityError, CategoryParameter,
			fmt.Sprintf("parameter %q must match pattern %s", name, def.Pattern), loc)
		return []Issue{issue}
	}
	return nil
}

func checkSelect(name string, value any, def ParamDef, loc Location) []Issue {
	if len(def.Options) == 0 || def.AllowCustom {
		return nil
	}
	for _, opt := range def.Options {
		if valuesEqual(value, opt) {
			return nil
		}
	}
	labels := make([]string, len(def.Options))
	for i, opt := range def.Options {
		labels[i] = fmt.Sprintf("%v", opt)
	}
	issue := newIssue(CodeParamInvalidValue, SeverityError, CategoryParameter,
		fmt.Sprintf("parameter %q must be one of: %s", name, strings.Join(labels, ", ")), loc)
	issue.Suggestion = fmt.Sprintf("choose one of: %s", strings.Join(labels, ", "))
	return []Issue{issue}
}

// asFloat widens any numeric value to float64. YAML decoding produces int
// for whole numbers and float64 otherwise; JSON produces float64 only.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func isArray(value any) bool {
	switch value.(type) {
	case []any, []string, []int, []float64:
		return true
	}
	return false
}

func isObject(value any) bool {
	switch value.(type) {
	case map[string]any, map[any]any:
		return true
	}
	return false
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len(v), true
	case []any:
		return len(v), true
	case []string:
		return len(v), true
	case []int:
		return len(v), true
	case []float64:
		return len(v), true
	}
	return 0, false
}

// valuesEqual compares a parameter value with a select option, treating
// numerically equal values as equal regardless of Go type.
func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return a == b
}

func describeValue(value any) string {
	switch value.(type) {
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case int, int32, int64, uint64:
		return "an integer"
	case float32, float64:
		return "a number"
	case []any, []string, []int, []float64:
		return "an array"
	case map[string]any, map[any]any:
		return "an object"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", value)
}
