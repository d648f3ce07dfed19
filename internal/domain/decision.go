package domain

import "time"

// Decision is the orchestrator's structured output: either a grounded story
// to speak, or silence with a machine-readable reason. The Reason constants
// below name the values; a final validation failure carries
// ReasonFinalValidationFailed as a prefix, followed by "_" and the
// validator's sub-reason (e.g. "final_validation_failed_bad_length").
// Callers should branch on Reason, not on ShouldSpeak alone, so a client
// can distinguish "no candidate" from "model declined".
type Decision struct {
	ShouldSpeak          bool
	Reason               string
	POI                  *POI
	Facts                []Fact
	HasAnchor            bool
	StoryText            string
	DistanceMetersApprox float64

	AudioBytes       []byte
	AudioContentType string
}

// Reason values used across the pipeline. Keep these stable: clients match
// on the string, not on an enum.
const (
	ReasonOK                    = "ok"
	ReasonNoStrongPOI           = "no_strong_poi"
	ReasonModelNoStory          = "model_no_story"
	ReasonLocationMissing       = "location_missing"
	ReasonFinalValidationFailed = "final_validation_failed"
)

// HistoryEntry records the first time a user was told a story about a POI.
type HistoryEntry struct {
	UserKey     string
	PoiKey      string
	FirstSeenAt time.Time
}

// ExposureRecord is one append-only row in the exposure log.
type ExposureRecord struct {
	ID             string
	Timestamp      time.Time
	UserKey        string
	Lat            float64
	Lng            float64
	PoiKey         string
	PoiName        string
	PoiSource      string
	DistanceMeters float64
	ShouldSpeak    bool
	Reason         string
	TasteProfileID string
	StoryLen       int
}

// TasteProfile weights prompt conditioning; it never gates a decision, only
// flavors the generated text.
type TasteProfile struct {
	ID        string
	Humor     float64
	Nerdy     float64
	Dramatic  float64
	Shortness float64
	UpdatedAt time.Time
}

// DefaultTasteProfile returns the taste profile used when no profile exists.
func DefaultTasteProfile() TasteProfile {
	return TasteProfile{Humor: 0.4, Nerdy: 0.5, Dramatic: 0.4, Shortness: 0.4}
}
