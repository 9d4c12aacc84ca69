// Package extraction owns the boundary with the external structured
// extractor: the schema selector, the strict parse of its drifting response
// shape, a one-shot repair of malformed payloads, and the confidence score
// the core computes over whatever comes back.
package extraction

import (
	"time"

	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

// Only the blood test panel has a working extractor today. Routing every
// other classified type to an unsupported-type discard is a deliberate
// extensibility seam.
var schemaByReportType = map[string]string{
	constvars.ReportTypeBloodTest: "blood_test_panel_v1",
}

// SchemaFor returns the extraction schema selector for a classified report
// type, or false when no extractor is wired for it.
func SchemaFor(reportType string) (string, bool) {
	schema, ok := schemaByReportType[reportType]
	return schema, ok
}

// The intermediate payload mirrors the collaborator contract with every
// field optional, so shape drift degrades confidence instead of raising.
type payload struct {
	PanelName    *string              `json:"panelName"`
	Observations []payloadObservation `json:"observations"`
}

type payloadObservation struct {
	Code           *string         `json:"code"`
	Display        *string         `json:"display"`
	Value          json.RawMessage `json:"value"`
	Unit           *string         `json:"unit"`
	ReferenceRange *payloadRange   `json:"referenceRange"`
	CollectedAt    *string         `json:"collectedAt"`
	Flags          []string        `json:"flags"`
}

type payloadRange struct {
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
	Unit *string  `json:"unit"`
}

// Parse decodes the collaborator response into an ObservationSet. Control
// characters are scrubbed up front because the decoder tolerates raw control
// bytes inside strings and would let them leak into field values. A payload
// that still fails to decode gets exactly one repair attempt; if it remains
// unusable the result is an empty set, which scores to confidence 0.
func Parse(raw []byte) models.ObservationSet {
	cleaned := stripControlCharacters(raw)
	set, ok := decode(cleaned)
	if ok {
		return set
	}
	set, ok = decode(Repair(cleaned))
	if ok {
		return set
	}
	return models.ObservationSet{}
}

func decode(raw []byte) (models.ObservationSet, bool) {
	var body payload
	if err := json.Unmarshal(raw, &body); err != nil {
		return models.ObservationSet{}, false
	}

	set := models.ObservationSet{}
	if body.PanelName != nil {
		set.PanelName = *body.PanelName
	}
	for _, entry := range body.Observations {
		observation, ok := mapObservation(entry)
		if !ok {
			return models.ObservationSet{}, false
		}
		set.Observations = append(set.Observations, observation)
	}
	return set, true
}

func mapObservation(entry payloadObservation) (models.Observation, bool) {
	observation := models.Observation{Flags: entry.Flags}
	if entry.Code != nil {
		observation.Code = *entry.Code
	}
	if entry.Display != nil {
		observation.Display = *entry.Display
	}
	if entry.Unit != nil {
		observation.Unit = *entry.Unit
	}

	if len(entry.Value) > 0 {
		var number float64
		if err := json.Unmarshal(entry.Value, &number); err == nil {
			observation.Value = models.NumericValue(number)
		} else {
			var text string
			if err := json.Unmarshal(entry.Value, &text); err != nil {
				return models.Observation{}, false
			}
			observation.Value = models.TextValue(text)
		}
	}

	if entry.ReferenceRange != nil {
		rangeUnit := ""
		if entry.ReferenceRange.Unit != nil {
			rangeUnit = *entry.ReferenceRange.Unit
		}
		observation.ReferenceRange = &models.ReferenceRange{
			Low:  entry.ReferenceRange.Low,
			High: entry.ReferenceRange.High,
			Unit: rangeUnit,
		}
	}

	if entry.CollectedAt != nil {
		collectedAt, err := time.Parse(time.RFC3339, *entry.CollectedAt)
		if err != nil {
			return models.Observation{}, false
		}
		observation.CollectedAt = &collectedAt
	}

	return observation, true
}
