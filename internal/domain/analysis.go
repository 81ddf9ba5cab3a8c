package domain

// Warning codes emitted by the analysis pipeline.
const (
	// WarningOilSauce flags scenarios containing oils or sauces whose
	// amounts are inherently hard to estimate from photos.
	WarningOilSauce = "oil_sauce_uncertain"

	// WarningUnmatchedFoodPrefix prefixes warnings for labels the
	// nutrition resolver could not match; the label is appended after
	// the colon.
	WarningUnmatchedFoodPrefix = "unmatched_food:"
)

// Macros holds the resolved macro-nutrient values for a single item.
// kcal is a whole number; the gram fields carry one decimal place.
type Macros struct {
	Kcal     int     `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// GramsRange is the estimated weight interval for a detected item.
// Invariant: Min <= estimate <= Max.
type GramsRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DetectedItem is a single food item found in a meal analysis.
// Immutable once built; it is not persisted until the user confirms
// the meal via POST /meals.
type DetectedItem struct {
	ItemID          string     `json:"item_id"`
	Label           string     `json:"label"`
	LabelConfidence float64    `json:"label_confidence"`
	GramsEstimate   int        `json:"grams_estimate"`
	GramsRange      GramsRange `json:"grams_range"`
	GramsConfidence float64    `json:"grams_confidence"`
	Macros          Macros     `json:"macros"`
}

// AnalysisResult is the full wire response of POST /meals/analyze.
// Every field is always present; slices are never null.
type AnalysisResult struct {
	OverallConfidence  float64        `json:"overall_confidence"`
	NeedsMorePhotos    bool           `json:"needs_more_photos"`
	SuggestedNextShots []string       `json:"suggested_next_shots"`
	Items              []DetectedItem `json:"items"`
	Warnings           []string       `json:"warnings"`
}

// ClientInfo identifies the calling client.
type ClientInfo struct {
	Platform   string `json:"platform"`
	AppVersion string `json:"app_version"`
}

// CaptureInfo carries capture-session metadata from the client.
// PhotoCount is a pointer so "not provided" is distinguishable from zero.
type CaptureInfo struct {
	PhotoCount *int `json:"photo_count"`
}

// AnalysisMetadata is the optional JSON metadata accompanying an
// analyze request.
type AnalysisMetadata struct {
	Client    ClientInfo  `json:"client"`
	Capture   CaptureInfo `json:"capture"`
	Locale    string      `json:"locale"`
	Timestamp string      `json:"timestamp"`
}
