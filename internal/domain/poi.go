// Package domain holds the data model shared across the aggregation
// pipeline: POIs, facts, decisions, and the records the service persists.
package domain

import (
	"fmt"
	"strings"

	"narrator/internal/geo"
)

// Source identifies which provider an entity or fact ultimately came from.
type Source string

const (
	SourceOSM    Source = "osm"
	SourceGraph  Source = "graph"
	SourcePlaces Source = "places"
	SourceAnchor Source = "anchor"
)

// EncyclopediaRef points at a specific page of a free-text encyclopedia.
type EncyclopediaRef struct {
	Lang  string
	Title string
}

// POI is the normalized shape every source adapter output is mapped into.
type POI struct {
	Key             string
	Source          Source
	Label           string
	Lat             float64
	Lng             float64
	KindHints       []string
	GraphID         string
	EncyclopediaRef *EncyclopediaRef
	RawTags         map[string]string

	// DistanceMeters is populated by the orchestrator once the caller's
	// position is known; it is not part of the normalized identity of a POI.
	DistanceMeters float64
}

// Valid reports whether the POI satisfies the normalization invariants:
// finite, in-range coordinates, and at least one human-facing identifier.
func (p POI) Valid() bool {
	if !validLatLng(p.Lat, p.Lng) {
		return false
	}
	hasLabel := strings.TrimSpace(p.Label) != ""
	hasGraph := strings.TrimSpace(p.GraphID) != ""
	hasEncyclopedia := p.EncyclopediaRef != nil && strings.TrimSpace(p.EncyclopediaRef.Title) != ""
	return hasLabel || hasGraph || hasEncyclopedia
}

func validLatLng(lat, lng float64) bool {
	if lat != lat || lng != lng { // NaN
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// DedupeKey is the normalizer's de-duplication identity: lowercased label
// plus coordinates rounded to 4 decimal places.
func (p POI) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(p.Label)) + "|" + roundKey(p.Lat) + "|" + roundKey(p.Lng)
}

func roundKey(v float64) string {
	return fmt.Sprintf("%.4f", geo.Round4(v))
}
