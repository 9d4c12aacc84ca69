// Package classifier guesses a report's type from weighted pattern
// heuristics. Scoring is a pure function over the immutable heuristic list;
// nothing here holds state between reports.
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/pipeline/registry"
	"medreport-service/internal/pkg/constvars"
)

const exclusionPenaltyPerHit = 0.5

// Classify scores the report text against every heuristic, accumulates
// weighted scores per label, and returns the best label with a confidence
// capped by the OCR quality score. Labels below typeDetectionMin are forced
// to "Other".
func Classify(report models.ReportText, heuristics []registry.Heuristic, typeDetectionMin float64) models.TypeDetection {
	text := strings.ToLower(report.Text)

	scores := make(map[string]float64)
	weights := make(map[string]float64)
	matched := make(map[string][]string)
	var labelOrder []string

	for _, heuristic := range heuristics {
		if _, seen := scores[heuristic.Label]; !seen {
			labelOrder = append(labelOrder, heuristic.Label)
		}

		matchCount := 0
		for _, pattern := range heuristic.Patterns {
			if strings.Contains(text, strings.ToLower(pattern)) {
				matchCount++
				matched[heuristic.Label] = append(matched[heuristic.Label], pattern)
			}
		}

		exclusionHits := 0
		for _, exclusion := range heuristic.Exclusions {
			if strings.Contains(text, strings.ToLower(exclusion)) {
				exclusionHits++
			}
		}

		matchRatio := 0.0
		if len(heuristic.Patterns) > 0 {
			matchRatio = float64(matchCount) / float64(len(heuristic.Patterns))
		}
		weightedScore := matchRatio*heuristic.Weight - exclusionPenaltyPerHit*float64(exclusionHits)
		if weightedScore < 0 {
			weightedScore = 0
		}

		scores[heuristic.Label] += weightedScore
		weights[heuristic.Label] += heuristic.Weight
	}

	// Registry order breaks ties: the first label reaching the max wins.
	bestLabel := constvars.ReportTypeOther
	bestScore := 0.0
	for _, label := range labelOrder {
		normalized := 0.0
		if weights[label] > 0 {
			normalized = scores[label] / weights[label]
		}
		if normalized > bestScore {
			bestScore = normalized
			bestLabel = label
		}
	}

	confidence := bestScore * report.QualityScore
	if confidence > 1.0 {
		confidence = 1.0
	}

	rationale := "no heuristic patterns matched"
	if terms := dedupe(matched[bestLabel]); len(terms) > 0 {
		rationale = fmt.Sprintf("matched terms: %s", strings.Join(terms, ", "))
	}

	if bestScore == 0 {
		return models.TypeDetection{Label: constvars.ReportTypeOther, Confidence: 0, Rationale: rationale}
	}
	if confidence < typeDetectionMin {
		return models.TypeDetection{Label: constvars.ReportTypeOther, Confidence: confidence, Rationale: rationale}
	}

	return models.TypeDetection{Label: bestLabel, Confidence: confidence, Rationale: rationale}
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var unique []string
	for _, term := range terms {
		if !seen[term] {
			seen[term] = true
			unique = append(unique, term)
		}
	}
	sort.Strings(unique)
	return unique
}
