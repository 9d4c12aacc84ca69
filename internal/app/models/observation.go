package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type ValueState string

const (
	ValueStateRaw        ValueState = "raw"
	ValueStateNormalized ValueState = "normalized"
)

// ObservationValue is a tagged measurement value: either numeric or free text,
// and either raw or already unit-normalized. The normalizer only converts
// values still in the raw state, so running it twice can never apply a
// conversion factor twice.
type ObservationValue struct {
	Numeric bool       `bson:"numeric"`
	Number  float64    `bson:"number"`
	Text    string     `bson:"text"`
	State   ValueState `bson:"state"`
}

func NumericValue(number float64) ObservationValue {
	return ObservationValue{Numeric: true, Number: number, State: ValueStateRaw}
}

func TextValue(text string) ObservationValue {
	return ObservationValue{Text: text, State: ValueStateRaw}
}

// MarshalJSON keeps the wire contract: a bare number or a bare string.
func (v ObservationValue) MarshalJSON() ([]byte, error) {
	if v.Numeric {
		return []byte(strconv.FormatFloat(v.Number, 'f', -1, 64)), nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON re-reads a wire value. Values only cross the wire inside
// terminal results, so they re-enter as normalized.
func (v *ObservationValue) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*v = ObservationValue{Numeric: true, Number: number, State: ValueStateNormalized}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("observation value must be a number or a string")
	}
	*v = ObservationValue{Text: text, State: ValueStateNormalized}
	return nil
}

type ReferenceRange struct {
	Low  *float64 `json:"low" bson:"low,omitempty"`
	High *float64 `json:"high" bson:"high,omitempty"`
	Unit string   `json:"unit" bson:"unit"`
}

type Observation struct {
	Code           string           `json:"code" bson:"code"`
	Display        string           `json:"display" bson:"display"`
	Value          ObservationValue `json:"value" bson:"value"`
	Unit           string           `json:"unit" bson:"unit"`
	ReferenceRange *ReferenceRange  `json:"referenceRange" bson:"reference_range,omitempty"`
	CollectedAt    *time.Time       `json:"collectedAt" bson:"collected_at,omitempty"`
	Flags          []string         `json:"flags" bson:"flags,omitempty"`
}

// ObservationSet is the unit of data flowing through the
// extraction, normalization, validation and interpretation stages.
type ObservationSet struct {
	PanelName    string        `json:"panelName,omitempty" bson:"panel_name,omitempty"`
	Observations []Observation `json:"observations" bson:"observations"`
}

func (s ObservationSet) IsEmpty() bool {
	return len(s.Observations) == 0
}
