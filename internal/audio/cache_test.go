package audio

import (
	"context"
	"testing"
)

type fakeSynth struct {
	calls int
	bytes []byte
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, lang string) ([]byte, string, error) {
	f.calls++
	return f.bytes, "audio/mpeg", nil
}

func TestSynthesizeWithoutObjectStoreAlwaysCallsSynthesizer(t *testing.T) {
	synth := &fakeSynth{bytes: []byte("abc")}
	c := New(synth, nil, "")

	for i := 0; i < 3; i++ {
		if _, _, err := c.Synthesize(context.Background(), "a story", "en"); err != nil {
			t.Fatalf("Synthesize error: %v", err)
		}
	}
	if synth.calls != 3 {
		t.Fatalf("expected 3 calls with caching disabled, got %d", synth.calls)
	}
}

func TestKeyIsStableAndLanguageSensitive(t *testing.T) {
	k1 := Key("same story", "en")
	k2 := Key("same story", "en")
	k3 := Key("same story", "fr")

	if k1 != k2 {
		t.Fatalf("expected stable key for identical input")
	}
	if k1 == k3 {
		t.Fatalf("expected distinct keys across languages")
	}
}
