package sources

import (
	"strings"
	"testing"
)

func TestBuildOverpassQueryIncludesCategoryUnionAndCap(t *testing.T) {
	q := buildOverpassQuery(51.5, -0.1, 900)

	for _, want := range []string{"[historic]", "[tourism=attraction]", "[tourism=viewpoint]", "[memorial]", "[natural]", "[place]"} {
		if !strings.Contains(q, want) {
			t.Fatalf("expected query to contain %q, got %q", want, q)
		}
	}
	for _, elemType := range []string{"node(around:900", "way(around:900", "relation(around:900"} {
		if !strings.Contains(q, elemType) {
			t.Fatalf("expected query to query element type %q, got %q", elemType, q)
		}
	}
	if !strings.Contains(q, "out center tags 180;") {
		t.Fatalf("expected query to cap output at 180 elements, got %q", q)
	}
}

func TestLabelFromTagsFollowsFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"name wins", map[string]string{"name": "Old Bridge", "name:he": "גשר", "name:en": "Bridge"}, "Old Bridge"},
		{"name:he fallback", map[string]string{"name:he": "גשר", "name:en": "Bridge"}, "גשר"},
		{"name:en fallback", map[string]string{"name:en": "Bridge"}, "Bridge"},
		{"wikipedia-derived fallback", map[string]string{"wikipedia": "en:Old Mill"}, "Old Mill"},
		{"nothing", map[string]string{}, ""},
	}
	for _, tc := range cases {
		if got := labelFromTags(tc.tags); got != tc.want {
			t.Errorf("%s: labelFromTags(%v) = %q, want %q", tc.name, tc.tags, got, tc.want)
		}
	}
}

func TestGraphIDFromTagsReadsWikidata(t *testing.T) {
	if got := graphIDFromTags(map[string]string{"wikidata": "Q12345"}); got != "Q12345" {
		t.Fatalf("expected wikidata tag read, got %q", got)
	}
	if got := graphIDFromTags(map[string]string{}); got != "" {
		t.Fatalf("expected empty GraphID without a wikidata tag, got %q", got)
	}
}

func TestEncyclopediaRefFromTagsParsesLangPrefix(t *testing.T) {
	ref := encyclopediaRefFromTags(map[string]string{"wikipedia": "he:גשר הישן"}, "en")
	if ref == nil || ref.Lang != "he" || ref.Title != "גשר הישן" {
		t.Fatalf("expected parsed lang-prefixed ref, got %+v", ref)
	}

	ref = encyclopediaRefFromTags(map[string]string{"wikipedia": "Old Mill"}, "fr")
	if ref == nil || ref.Lang != "fr" || ref.Title != "Old Mill" {
		t.Fatalf("expected bare title to default to query lang, got %+v", ref)
	}

	if ref := encyclopediaRefFromTags(map[string]string{}, "en"); ref != nil {
		t.Fatalf("expected nil ref without a wikipedia tag, got %+v", ref)
	}
}
