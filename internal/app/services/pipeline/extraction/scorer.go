package extraction

import "medreport-service/internal/app/models"

// Per-observation completeness weights. An observation carrying every field
// caps at 1.0; overall confidence is the mean over the set.
const (
	weightCodeAndDisplay = 0.3
	weightValue          = 0.2
	weightUnit           = 0.2
	weightReferenceRange = 0.2
	weightCollectedAt    = 0.1
)

// Score computes the extraction confidence the core assigns to a
// collaborator response. An empty set scores 0.
func Score(set models.ObservationSet) float64 {
	if set.IsEmpty() {
		return 0
	}

	total := 0.0
	for _, observation := range set.Observations {
		total += scoreObservation(observation)
	}
	return total / float64(len(set.Observations))
}

func scoreObservation(observation models.Observation) float64 {
	score := 0.0
	if observation.Code != "" && observation.Display != "" {
		score += weightCodeAndDisplay
	}
	if observation.Value.Numeric || observation.Value.Text != "" {
		score += weightValue
	}
	if observation.Unit != "" {
		score += weightUnit
	}
	if r := observation.ReferenceRange; r != nil && (r.Low != nil || r.High != nil) {
		score += weightReferenceRange
	}
	if observation.CollectedAt != nil {
		score += weightCollectedAt
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
