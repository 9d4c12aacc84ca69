// Package interpreter applies the embedded clinical decision tables to a
// normalized observation set. Rules match analytes by fuzzy substring and
// compare values against unit-aware thresholds; the overall category is the
// most severe one seen.
package interpreter

import (
	"fmt"
	"strings"

	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/pipeline/registry"
)

// Outcome is the interpreter stage product: the interpretation itself plus
// the audit record of which rules fired.
type Outcome struct {
	Interpretation models.Interpretation
	RulesTriggered []string
	References     []string
}

// Interpret matches each observation against the analyte rules and
// escalates the overall category. Category only ever escalates: a later,
// milder finding never downgrades an earlier severe one. Unmatched
// observations never escalate severity.
func Interpret(set models.ObservationSet, rules []registry.AnalyteRule) Outcome {
	outcome := Outcome{
		Interpretation: models.Interpretation{
			Insights:        []string{},
			Caveats:         []string{},
			NextBestActions: []string{},
		},
	}

	overall := models.Category("")
	for _, observation := range set.Observations {
		rule, ok := matchRule(observation, rules)
		if !ok {
			continue
		}

		category, value, usable := applyRule(observation, rule)
		if !usable {
			outcome.Interpretation.Caveats = append(outcome.Interpretation.Caveats,
				fmt.Sprintf("%s could not be interpreted in unit %q", rule.DisplayName, observation.Unit))
			continue
		}

		outcome.RulesTriggered = append(outcome.RulesTriggered, rule.Name)
		outcome.References = append(outcome.References, rule.Reference)
		outcome.Interpretation.Insights = append(outcome.Interpretation.Insights,
			insightFor(rule, category, value))
		if category != models.CategoryNormal && rule.NextBestAction != "" {
			outcome.Interpretation.NextBestActions = append(outcome.Interpretation.NextBestActions, rule.NextBestAction)
		}

		if category.Severity() > overall.Severity() {
			overall = category
		}
	}

	if overall == "" {
		overall = models.CategoryIndeterminate
		outcome.Interpretation.Insights = append(outcome.Interpretation.Insights,
			"values appear typical; no known analyte matched a decision rule")
	}
	outcome.Interpretation.Category = overall
	return outcome
}

// matchRule returns the first rule with an alias contained in the
// observation's lowercased code or display.
func matchRule(observation models.Observation, rules []registry.AnalyteRule) (registry.AnalyteRule, bool) {
	name := strings.ToLower(observation.Code + " " + observation.Display)
	for _, rule := range rules {
		for _, alias := range rule.Aliases {
			if strings.Contains(name, alias) {
				return rule, true
			}
		}
	}
	return registry.AnalyteRule{}, false
}

// applyRule converts the value into the rule's threshold unit when needed
// and places it on the decision table.
func applyRule(observation models.Observation, rule registry.AnalyteRule) (models.Category, float64, bool) {
	if !observation.Value.Numeric {
		return "", 0, false
	}

	unit := strings.ToLower(strings.TrimSpace(observation.Unit))
	value := observation.Value.Number
	if unit != rule.Unit {
		conversion, ok := rule.Conversions[unit]
		if !ok {
			return "", 0, false
		}
		value = value*conversion.Factor + conversion.Offset
	}

	switch {
	case value >= rule.AbnormalAt:
		return models.CategoryAbnormal, value, true
	case value >= rule.BorderlineAt:
		return models.CategoryBorderline, value, true
	default:
		return models.CategoryNormal, value, true
	}
}

func insightFor(rule registry.AnalyteRule, category models.Category, value float64) string {
	switch category {
	case models.CategoryAbnormal:
		return fmt.Sprintf("%s is %.4g %s, at or above the threshold of %.4g %s", rule.DisplayName, value, rule.Unit, rule.AbnormalAt, rule.Unit)
	case models.CategoryBorderline:
		return fmt.Sprintf("%s is %.4g %s, in the borderline band starting at %.4g %s", rule.DisplayName, value, rule.Unit, rule.BorderlineAt, rule.Unit)
	default:
		return fmt.Sprintf("%s is %.4g %s, within the typical range", rule.DisplayName, value, rule.Unit)
	}
}
