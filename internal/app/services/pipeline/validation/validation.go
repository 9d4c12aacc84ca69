// Package validation runs independent structural and clinical sanity checks
// over a normalized observation set. Checks never depend on each other; a
// single fail outcome is a hard gate for the orchestrator.
package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"medreport-service/internal/app/models"
)

// An observation is screened as an outlier when its distance from the
// reference range midpoint exceeds this many range widths.
const outlierRangeWidths = 4.0

// Check produces the findings for a set. When nothing is worth reporting it
// returns one synthetic pass so the audit trail is never empty.
func Check(set models.ObservationSet, ingestedAt time.Time, numericUnits map[string]bool) []models.ValidationFinding {
	var findings []models.ValidationFinding

	for _, observation := range set.Observations {
		field := fieldName(observation)
		unit := strings.ToLower(strings.TrimSpace(observation.Unit))

		if numericUnits[unit] && !observation.Value.Numeric {
			findings = append(findings, fail(field, fmt.Sprintf("value must be numeric for unit %q", observation.Unit)))
		}

		if observation.ReferenceRange != nil && observation.ReferenceRange.Unit != observation.Unit {
			findings = append(findings, fail(field, fmt.Sprintf("reference range unit %q does not match observation unit %q", observation.ReferenceRange.Unit, observation.Unit)))
		}

		if observation.CollectedAt != nil && observation.CollectedAt.After(ingestedAt) {
			findings = append(findings, fail(field, "collection timestamp is after ingestion"))
		}

		if observation.Value.Numeric && observation.Unit == "" {
			findings = append(findings, fail(field, "unit is empty"))
		}

		if finding, flagged := screenOutlier(observation, field); flagged {
			findings = append(findings, finding)
		}
	}

	if len(findings) == 0 {
		findings = append(findings, models.ValidationFinding{
			Outcome: models.FindingPass,
			Message: "all checks passed",
			Field:   "*",
		})
	}
	return findings
}

// AnyFailure reports whether the findings contain a hard fail.
func AnyFailure(findings []models.ValidationFinding) bool {
	for _, finding := range findings {
		if finding.Outcome == models.FindingFail {
			return true
		}
	}
	return false
}

func screenOutlier(observation models.Observation, field string) (models.ValidationFinding, bool) {
	r := observation.ReferenceRange
	if !observation.Value.Numeric || r == nil || r.Low == nil || r.High == nil {
		return models.ValidationFinding{}, false
	}
	width := *r.High - *r.Low
	if width <= 0 {
		return models.ValidationFinding{}, false
	}
	midpoint := (*r.High + *r.Low) / 2
	if math.Abs(observation.Value.Number-midpoint) > outlierRangeWidths*width {
		return models.ValidationFinding{
			Outcome: models.FindingWarn,
			Message: fmt.Sprintf("value %.4g is far outside the reference range midpoint", observation.Value.Number),
			Field:   field,
		}, true
	}
	return models.ValidationFinding{}, false
}

func fail(field, message string) models.ValidationFinding {
	return models.ValidationFinding{Outcome: models.FindingFail, Message: message, Field: field}
}

func fieldName(observation models.Observation) string {
	if observation.Code != "" {
		return observation.Code
	}
	if observation.Display != "" {
		return observation.Display
	}
	return "observation"
}
