package registry

// Heuristic is one weighted pattern rule used to guess a report's type.
// Heuristics are plain data; several heuristics may target the same label
// and their scores accumulate.
type Heuristic struct {
	Label      string
	Patterns   []string
	Weight     float64
	Exclusions []string
}

// ConversionEntry converts one analyte's unit to the canonical system.
// Analyte is matched as a substring of the lowercased observation
// code/display; FromUnit must match the observation unit.
type ConversionEntry struct {
	Analyte  string
	FromUnit string
	ToUnit   string
	Factor   float64
}

// UnitConversion is an affine in-rule conversion applied before threshold
// comparison: canonical = value*Factor + Offset.
type UnitConversion struct {
	Factor float64
	Offset float64
}

// AnalyteRule is one clinical decision table. Thresholds are expressed in
// Unit; values arriving in a unit listed under Conversions are converted
// before comparison. BorderlineAt and AbnormalAt are inclusive lower bounds.
type AnalyteRule struct {
	Name           string
	DisplayName    string
	Aliases        []string
	Unit           string
	Conversions    map[string]UnitConversion
	BorderlineAt   float64
	AbnormalAt     float64
	NextBestAction string
	Reference      string
}

// Registry bundles the immutable configuration tables the pipeline stages
// consume. Built once at process start and injected; never mutated.
type Registry struct {
	Heuristics     []Heuristic
	Conversions    []ConversionEntry
	CanonicalUnits map[string]bool
	NumericUnits   map[string]bool
	AnalyteRules   []AnalyteRule
}

// NewDefault builds the registry shipped with the service. Thresholds that
// gate the pipeline stages live in configuration, not here.
func NewDefault() *Registry {
	return &Registry{
		Heuristics:     defaultHeuristics(),
		Conversions:    defaultConversions(),
		CanonicalUnits: defaultCanonicalUnits(),
		NumericUnits:   defaultNumericUnits(),
		AnalyteRules:   defaultAnalyteRules(),
	}
}

func defaultHeuristics() []Heuristic {
	return []Heuristic{
		{
			Label: "blood_test",
			Patterns: []string{
				"hemoglobin", "hematocrit", "platelet", "wbc", "rbc",
				"glucose", "cholesterol", "hba1c", "creatinine", "triglycerides",
			},
			Weight:     1.0,
			Exclusions: []string{"radiograph", "impression:"},
		},
		{
			Label:      "blood_test",
			Patterns:   []string{"reference range", "specimen", "serum", "plasma"},
			Weight:     0.6,
			Exclusions: nil,
		},
		{
			Label: "imaging_report",
			Patterns: []string{
				"radiograph", "ultrasound", "ct scan", "mri", "impression:",
				"findings:", "contrast",
			},
			Weight:     1.0,
			Exclusions: []string{"reference range"},
		},
		{
			Label: "prescription",
			Patterns: []string{
				"rx", "sig:", "dispense", "refill", "tablet", "capsule", "take one",
			},
			Weight:     1.0,
			Exclusions: nil,
		},
		{
			Label: "discharge_summary",
			Patterns: []string{
				"discharge", "admission", "hospital course", "diagnosis on discharge",
				"follow up with",
			},
			Weight:     1.0,
			Exclusions: nil,
		},
	}
}

// defaultConversions maps conventional lab units onto SI units. Specific
// analytes come before generic substrings: "ldl" must win over "cholesterol".
func defaultConversions() []ConversionEntry {
	return []ConversionEntry{
		{Analyte: "ldl", FromUnit: "mg/dl", ToUnit: "mmol/l", Factor: 0.0259},
		{Analyte: "hdl", FromUnit: "mg/dl", ToUnit: "mmol/l", Factor: 0.0259},
		{Analyte: "cholesterol", FromUnit: "mg/dl", ToUnit: "mmol/l", Factor: 0.0259},
		{Analyte: "triglycerid", FromUnit: "mg/dl", ToUnit: "mmol/l", Factor: 0.0113},
		{Analyte: "glucose", FromUnit: "mg/dl", ToUnit: "mmol/l", Factor: 0.0555},
		{Analyte: "creatinine", FromUnit: "mg/dl", ToUnit: "umol/l", Factor: 88.4},
		{Analyte: "bilirubin", FromUnit: "mg/dl", ToUnit: "umol/l", Factor: 17.1},
		{Analyte: "hemoglobin", FromUnit: "g/dl", ToUnit: "g/l", Factor: 10},
		{Analyte: "urea", FromUnit: "mg/dl", ToUnit: "mmol/l", Factor: 0.357},
	}
}

func defaultCanonicalUnits() map[string]bool {
	return map[string]bool{
		"mmol/l":  true,
		"umol/l":  true,
		"g/l":     true,
		"%":       true,
		"10^9/l":  true,
		"10^12/l": true,
		"u/l":     true,
		"iu/l":    true,
	}
}

// defaultNumericUnits lists units whose observations must carry numeric
// values; canonical units plus the conventional ones we convert from.
func defaultNumericUnits() map[string]bool {
	units := defaultCanonicalUnits()
	for _, unit := range []string{"mg/dl", "g/dl", "mmol/mol"} {
		units[unit] = true
	}
	return units
}

func defaultAnalyteRules() []AnalyteRule {
	return []AnalyteRule{
		{
			Name:        "ldl_cholesterol_decision",
			DisplayName: "LDL cholesterol",
			Aliases:     []string{"ldl"},
			Unit:        "mmol/l",
			Conversions: map[string]UnitConversion{
				"mg/dl": {Factor: 0.0259},
			},
			BorderlineAt:   3.4,
			AbnormalAt:     4.9,
			NextBestAction: "Discuss lipid-lowering options with your clinician.",
			Reference:      "AHA/ACC cholesterol management guideline",
		},
		{
			Name:        "hba1c_decision",
			DisplayName: "HbA1c",
			Aliases:     []string{"hba1c", "a1c", "glycated hemoglobin"},
			Unit:        "%",
			Conversions: map[string]UnitConversion{
				// IFCC mmol/mol to NGSP percent
				"mmol/mol": {Factor: 0.09148, Offset: 2.152},
			},
			BorderlineAt:   5.7,
			AbnormalAt:     6.5,
			NextBestAction: "Ask your clinician about diabetes screening and follow-up testing.",
			Reference:      "ADA Standards of Care, glycemic targets",
		},
		{
			Name:        "fasting_glucose_decision",
			DisplayName: "fasting glucose",
			Aliases:     []string{"glucose"},
			Unit:        "mmol/l",
			Conversions: map[string]UnitConversion{
				"mg/dl": {Factor: 0.0555},
			},
			BorderlineAt:   6.1,
			AbnormalAt:     7.0,
			NextBestAction: "Consider a repeat fasting glucose test with your clinician.",
			Reference:      "WHO definition of impaired fasting glycaemia",
		},
	}
}
