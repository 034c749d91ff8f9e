package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// RenderResult formats a validation result as human-readable text. When
// colored is false, severity markers are plain ASCII.
func RenderResult(name string, result *validation.Result, colored bool) string {
	color.NoColor = color.NoColor || !colored
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	var sb strings.Builder
	if name != "" {
		sb.WriteString(fmt.Sprintf("Pipeline: %s\n", name))
	}

	if len(result.Issues) == 0 {
		sb.WriteString(fmt.Sprintf("  %s no issues found (%d steps)\n", green("✓"), result.Summary.TotalSteps))
		return sb.String()
	}

	for _, issue := range result.Issues {
		var icon string
		switch issue.Severity {
		case validation.SeverityError:
			icon = red("✗")
		case validation.SeverityWarning:
			icon = yellow("!")
		default:
			icon = cyan("i")
		}
		sb.WriteString(fmt.Sprintf("  %s [%s] %s\n", icon, issue.Code, issue.Message))
		if loc := renderLocation(issue.Location); loc != "" {
			sb.WriteString(fmt.Sprintf("      at %s\n", loc))
		}
		if issue.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("      hint: %s\n", issue.Suggestion))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(renderSummary(result, red, yellow, cyan, green))
	return sb.String()
}

func renderLocation(loc validation.Location) string {
	var parts []string
	if loc.StepName != "" {
		parts = append(parts, loc.StepName)
	} else if loc.StepID != "" {
		parts = append(parts, loc.StepID)
	}
	if len(loc.Path) > 0 {
		parts = append(parts, strings.Join(loc.Path, "/"))
	}
	if loc.ParamName != "" {
		parts = append(parts, fmt.Sprintf("param %s", loc.ParamName))
	}
	return strings.Join(parts, ", ")
}

func renderSummary(result *validation.Result, red, yellow, cyan, green func(a ...interface{}) string) string {
	s := result.Summary
	var parts []string
	if s.ErrorCount > 0 {
		parts = append(parts, red(fmt.Sprintf("%d errors", s.ErrorCount)))
	}
	if s.WarningCount > 0 {
		parts = append(parts, yellow(fmt.Sprintf("%d warnings", s.WarningCount)))
	}
	if s.InfoCount > 0 {
		parts = append(parts, cyan(fmt.Sprintf("%d notes", s.InfoCount)))
	}

	verdict := green("valid")
	if !result.IsValid {
		verdict = red("invalid")
	}
	return fmt.Sprintf("%s: %s (%d steps)\n", verdict, strings.Join(parts, ", "), s.TotalSteps)
}

// RenderRules formats the rule catalog as an aligned table grouped by
// category.
func RenderRules(rules []validation.Rule) string {
	byCategory := make(map[validation.Category][]validation.Rule)
	for _, rule := range rules {
		byCategory[rule.Category] = append(byCategory[rule.Category], rule)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)

	var sb strings.Builder
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(cat)))
		for _, rule := range byCategory[validation.Category(cat)] {
			lock := " "
			if !rule.CanDisable {
				lock = "*"
			}
			sb.WriteString(fmt.Sprintf("  %s%-32s %-8s %s\n", lock, rule.Code, rule.Severity, rule.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("* always active\n")
	return sb.String()
}
