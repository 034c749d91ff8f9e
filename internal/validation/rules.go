package validation

import (
	"sort"
	"sync"
)

// Rule is the static metadata for one validation code: its default severity,
// category, and whether callers may disable it. Rules with CanDisable=false
// guard invariants the rest of the engine depends on (duplicate identities
// would corrupt per-step aggregation, for example) and are always emitted.
type Rule struct {
	Code           Code     `json:"code"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Severity       Severity `json:"severity"`
	Category       Category `json:"category"`
	CanDisable     bool     `json:"canDisable"`
	DefaultEnabled bool     `json:"defaultEnabled"`
}

// registry is the single source of truth for rule metadata. It is built once
// and never mutated.
var registry = map[Code]Rule{
	CodeParamRequired: {
		Code: CodeParamRequired, Name: "Required parameter",
		Description: "A required parameter has no value.",
		Severity:    SeverityError, Category: CategoryParameter,
		CanDisable: false, DefaultEnabled: true,
	},
	CodeParamTypeMismatch: {
		Code: CodeParamTypeMismatch, Name: "Parameter type mismatch",
		Description: "A parameter value does not match its declared type.",
		Severity:    SeverityError, Category: CategoryParameter,
		CanDisable: false, DefaultEnabled: true,
	},
	CodeParamOutOfRange: {
		Code: CodeParamOutOfRange, Name: "Parameter out of range",
		Description: "A numeric parameter lies outside its declared bounds.",
		Severity:    SeverityError, Category: CategoryParameter,
		CanDisable: false, DefaultEnabled: true,
	},
	CodeParamInvalidValue: {
		Code: CodeParamInvalidValue, Name: "Invalid parameter value",
		Description: "A parameter value is not usable for this step.",
		Severity:    SeverityError, Category: CategoryParameter,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeParamPatternMismatch: {
		Code: CodeParamPatternMismatch, Name: "Parameter pattern mismatch",
		Description: "A string parameter does not match its declared pattern.",
		Severity:    SeverityError, Category: CategoryParameter,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeParamLengthExceeded: {
		Code: CodeParamLengthExceeded, Name: "Parameter length out of bounds",
		Description: "A string or array parameter violates its length bounds.",
		Severity:    SeverityError, Category: CategoryParameter,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeStepUnknownType: {
		Code: CodeStepUnknownType, Name: "Unknown step type",
		Description: "The step type is not one of the recognized kinds.",
		Severity:    SeverityError, Category: CategoryStep,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeStepInvalidName: {
		Code: CodeStepInvalidName, Name: "Invalid step name",
		Description: "The step has no usable display name.",
		Severity:    SeverityError, Category: CategoryStep,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeStepDuplicateID: {
		Code: CodeStepDuplicateID, Name: "Duplicate step id",
		Description: "Two steps share the same id. Ids must be unique across the whole tree.",
		Severity:    SeverityError, Category: CategoryStep,
		CanDisable: false, DefaultEnabled: true,
	},
	CodeStepEmptyContainer: {
		Code: CodeStepEmptyContainer, Name: "Empty container",
		Description: "A container step has no children.",
		Severity:    SeverityWarning, Category: CategoryStep,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeStepEmptyBranches: {
		Code: CodeStepEmptyBranches, Name: "Empty branches",
		Description: "A branch or generator step has no branch groups, or a branch group is empty.",
		Severity:    SeverityError, Category: CategoryStep,
		CanDisable: true, DefaultEnabled: true,
	},
	CodePipelineNoModel: {
		Code: CodePipelineNoModel, Name: "No model",
		Description: "The pipeline contains no model step.",
		Severity:    SeverityWarning, Category: CategoryPipeline,
		CanDisable: true, DefaultEnabled: true,
	},
	CodePipelineNoSplitter: {
		Code: CodePipelineNoSplitter, Name: "No splitter",
		Description: "A model is present but no splitting step precedes it.",
		Severity:    SeverityInfo, Category: CategoryPipeline,
		CanDisable: true, DefaultEnabled: true,
	},
	CodePipelineEmpty: {
		Code: CodePipelineEmpty, Name: "Empty pipeline",
		Description: "The pipeline has no steps, or every step is disabled.",
		Severity:    SeverityInfo, Category: CategoryPipeline,
		CanDisable: true, DefaultEnabled: true,
	},
	CodePipelineModelBeforeSplitter: {
		Code: CodePipelineModelBeforeSplitter, Name: "Model before splitter",
		Description: "The first model appears before the first splitting step.",
		Severity:    SeverityWarning, Category: CategoryPipeline,
		CanDisable: true, DefaultEnabled: true,
	},
	CodePipelineMergeWithoutBranch: {
		Code: CodePipelineMergeWithoutBranch, Name: "Merge without branch",
		Description: "A merge step has no preceding branch or generator to recombine.",
		Severity:    SeverityError, Category: CategoryPipeline,
		CanDisable: false, DefaultEnabled: true,
	},
	CodePipelineMultipleModels: {
		Code: CodePipelineMultipleModels, Name: "Multiple models",
		Description: "More than one model at the root level. Legal for ensembles and comparisons.",
		Severity:    SeverityInfo, Category: CategoryPipeline,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeDepInvalidOrder: {
		Code: CodeDepInvalidOrder, Name: "Invalid step order",
		Description: "A preprocessing or splitting step appears after a model.",
		Severity:    SeverityWarning, Category: CategoryDependency,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeDepMissingPrerequisite: {
		Code: CodeDepMissingPrerequisite, Name: "Missing prerequisite",
		Description: "A step depends on another step that is not present.",
		Severity:    SeverityError, Category: CategoryDependency,
		CanDisable: false, DefaultEnabled: true,
	},
	CodeDepCircularReference: {
		Code: CodeDepCircularReference, Name: "Circular reference",
		Description: "Step dependencies form a cycle.",
		Severity:    SeverityError, Category: CategoryDependency,
		CanDisable: false, DefaultEnabled: true,
	},
	CodeCompatDeprecated: {
		Code: CodeCompatDeprecated, Name: "Deprecated component",
		Description: "The step references a deprecated model or transform.",
		Severity:    SeverityWarning, Category: CategoryCompatibility,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeCompatVersionMismatch: {
		Code: CodeCompatVersionMismatch, Name: "Version mismatch",
		Description: "The pipeline was built against a different runtime version.",
		Severity:    SeverityWarning, Category: CategoryCompatibility,
		CanDisable: true, DefaultEnabled: true,
	},
	CodeCompatUnknownClass: {
		Code: CodeCompatUnknownClass, Name: "Unknown class",
		Description: "The step references a class the runtime does not provide.",
		Severity:    SeverityWarning, Category: CategoryCompatibility,
		CanDisable: true, DefaultEnabled: true,
	},
}

// RuleFor looks up a rule by code. The second return is false for codes not
// in the registry; callers must fall back to SeverityInfo in that case.
func RuleFor(code Code) (Rule, bool) {
	r, ok := registry[code]
	return r, ok
}

// AllRules returns every rule sorted by code.
func AllRules() []Rule {
	rules := make([]Rule, 0, len(registry))
	for _, r := range registry {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Code < rules[j].Code })
	return rules
}

// RulesByCategory returns the rules in the given category, sorted by code.
func RulesByCategory(cat Category) []Rule {
	var rules []Rule
	for _, r := range AllRules() {
		if r.Category == cat {
			rules = append(rules, r)
		}
	}
	return rules
}

// RulesBySeverity returns the rules with the given default severity, sorted
// by code.
func RulesBySeverity(sev Severity) []Rule {
	var rules []Rule
	for _, r := range AllRules() {
		if r.Severity == sev {
			rules = append(rules, r)
		}
	}
	return rules
}

// DisableableRules returns the rules callers may disable, sorted by code.
func DisableableRules() []Rule {
	var rules []Rule
	for _, r := range AllRules() {
		if r.CanDisable {
			rules = append(rules, r)
		}
	}
	return rules
}

// DefaultEnabledRules returns the rules enabled by default, sorted by code.
func DefaultEnabledRules() []Rule {
	var rules []Rule
	for _, r := range AllRules() {
		if r.DefaultEnabled {
			rules = append(rules, r)
		}
	}
	return rules
}

// defaultOverrides is the process-wide severity override table, set from
// configuration at startup.
var (
	overrideMu       sync.RWMutex
	defaultOverrides = map[Code]Severity{}
)

// SetDefaultSeverity installs a process-wide severity override for a code.
func SetDefaultSeverity(code Code, sev Severity) {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	defaultOverrides[code] = sev
}

// ResetDefaultSeverities clears the process-wide override table.
func ResetDefaultSeverities() {
	overrideMu.Lock()
	defer overrideMu.Unlock()
	defaultOverrides = map[Code]Severity{}
}

// overrideFor returns the process-wide override for a code, if one is set.
func overrideFor(code Code) (Severity, bool) {
	overrideMu.RLock()
	defer overrideMu.RUnlock()
	sev, ok := defaultOverrides[code]
	return sev, ok
}

// EffectiveSeverity resolves the severity for a code: a caller-supplied
// override wins, then the process-wide override table, then the rule's
// declared default. Unrecognized codes resolve to SeverityInfo.
func EffectiveSeverity(code Code, overrides map[Code]Severity) Severity {
	if sev, ok := overrides[code]; ok {
		return sev
	}
	overrideMu.RLock()
	sev, ok := defaultOverrides[code]
	overrideMu.RUnlock()
	if ok {
		return sev
	}
	if r, ok := registry[code]; ok {
		return r.Severity
	}
	return SeverityInfo
}
