// Package normalizer converts observation units to the canonical SI system.
// A value's Raw/Normalized state tag is the idempotence guard: a normalized
// value is never converted again, no matter how many times the normalizer
// runs over the set.
package normalizer

import (
	"strings"

	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/pipeline/registry"
)

// Result carries the normalized copy of the set, the conversion records for
// the audit trail, and the stage confidence.
type Result struct {
	Set        models.ObservationSet
	Records    []models.UnitConversionRecord
	Confidence float64
}

// Normalize returns a converted copy of the set; the input is never
// mutated. Confidence is successes over total observations, 1.0 for an
// empty set.
func Normalize(set models.ObservationSet, table []registry.ConversionEntry, canonicalUnits map[string]bool) Result {
	result := Result{
		Set: models.ObservationSet{
			PanelName:    set.PanelName,
			Observations: make([]models.Observation, len(set.Observations)),
		},
	}

	if set.IsEmpty() {
		result.Confidence = 1.0
		return result
	}

	successes := 0
	for i, observation := range set.Observations {
		normalized, record, ok := normalizeObservation(observation, table, canonicalUnits)
		result.Set.Observations[i] = normalized
		if record != nil {
			result.Records = append(result.Records, *record)
		}
		if ok {
			successes++
		}
	}

	result.Confidence = float64(successes) / float64(len(set.Observations))
	return result
}

func normalizeObservation(observation models.Observation, table []registry.ConversionEntry, canonicalUnits map[string]bool) (models.Observation, *models.UnitConversionRecord, bool) {
	// Already-normalized values pass through untouched; this is what makes
	// a second run over the same set a no-op.
	if observation.Value.State == models.ValueStateNormalized {
		return observation, nil, true
	}

	// Text-valued observations carry no convertible unit.
	if !observation.Value.Numeric {
		observation.Value.State = models.ValueStateNormalized
		return observation, nil, true
	}

	unit := strings.ToLower(strings.TrimSpace(observation.Unit))
	name := strings.ToLower(observation.Code + " " + observation.Display)

	for _, entry := range table {
		if !strings.Contains(name, entry.Analyte) || unit != entry.FromUnit {
			continue
		}

		observation.Value.Number *= entry.Factor
		observation.Value.State = models.ValueStateNormalized
		observation.Unit = entry.ToUnit
		if observation.ReferenceRange != nil {
			// Copy before converting; the input set still points at the
			// original range.
			converted := models.ReferenceRange{Unit: entry.ToUnit}
			if observation.ReferenceRange.Low != nil {
				low := *observation.ReferenceRange.Low * entry.Factor
				converted.Low = &low
			}
			if observation.ReferenceRange.High != nil {
				high := *observation.ReferenceRange.High * entry.Factor
				converted.High = &high
			}
			observation.ReferenceRange = &converted
		}

		field := observation.Code
		if field == "" {
			field = observation.Display
		}
		record := &models.UnitConversionRecord{
			Field:  field,
			From:   entry.FromUnit,
			To:     entry.ToUnit,
			Factor: entry.Factor,
		}
		return observation, record, true
	}

	if canonicalUnits[unit] {
		observation.Value.State = models.ValueStateNormalized
		return observation, nil, true
	}

	return observation, nil, false
}
