package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Port != ":8080" {
		t.Errorf("expected default port :8080, got %q", c.Port)
	}
	if c.StoryMinWords != 180 || c.StoryMaxWords != 340 {
		t.Errorf("expected default story bounds 180/340, got %d/%d", c.StoryMinWords, c.StoryMaxWords)
	}
	if c.HasDurableStore() {
		t.Errorf("expected no durable store without DATABASE_URL")
	}
	if c.HasAudioCache() {
		t.Errorf("expected no audio cache without S3 credentials")
	}
}

func TestLoadRejectsInvalidStoryBounds(t *testing.T) {
	t.Setenv("BTW_MIN_WORDS", "300")
	t.Setenv("BTW_MAX_WORDS", "200")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when max words < min words")
	}
}

func TestBannedFillersLoadsPerLanguageDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	fillers := c.BannedFillers()
	if len(fillers["en"]) == 0 {
		t.Fatalf("expected default English filler list, got %v", fillers["en"])
	}
	if len(fillers["he"]) == 0 {
		t.Fatalf("expected default Hebrew filler list, got %v", fillers["he"])
	}
}

func TestCORSAllowOriginsSplit(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c.CORSAllowOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", c.CORSAllowOrigins)
	}
}
