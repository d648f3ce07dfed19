package httpapi

import "strings"

// storyRequest accepts every field-name alias a /api/story-both body might
// use, since client implementations in the wild were observed using
// different casings and synonyms. Patterned after an
// internal/gateway/config firstNonEmpty helper, generalized from config
// defaults to request-field aliases.
type storyRequest struct {
	Lat        *float64 `json:"lat"`
	Latitude   *float64 `json:"latitude"`
	LatitudeUp *float64 `json:"Latitude"`

	Lng         *float64 `json:"lng"`
	Lon         *float64 `json:"lon"`
	Longitude   *float64 `json:"longitude"`
	LongitudeUp *float64 `json:"Longitude"`

	Lang       *string `json:"lang"`
	Language   *string `json:"language"`
	Locale     *string `json:"locale"`
	SpeechLang *string `json:"speechLang"`

	// Prompt is accepted and discarded: the canonical contract ignores any
	// client-supplied prompt text.
	Prompt *string `json:"prompt"`
}

func (r storyRequest) resolveLat() (float64, bool) {
	return firstNonNilFloat(r.Lat, r.Latitude, r.LatitudeUp)
}

func (r storyRequest) resolveLng() (float64, bool) {
	return firstNonNilFloat(r.Lng, r.Lon, r.Longitude, r.LongitudeUp)
}

// resolveLang picks the caller's language from whichever alias was sent,
// normalized lowercase and truncated to 5 characters (e.g. "en", "pt-br").
func (r storyRequest) resolveLang() string {
	v, ok := firstNonNilString(r.Lang, r.Language, r.Locale, r.SpeechLang)
	if !ok {
		v = "en"
	}
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) > 5 {
		v = v[:5]
	}
	return v
}

func firstNonNilFloat(candidates ...*float64) (float64, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

func firstNonNilString(candidates ...*string) (string, bool) {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c, true
		}
	}
	return "", false
}
