// Package config loads the service's environment into a single immutable
// Config value read once at startup. Patterned after the
// internal/gateway/config package (typed fields, sane defaults) combined
// with the pack's tuskbot example, which parses config structs via
// struct tags instead of hand-rolled os.Getenv calls.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is every environment-derived value this service needs at startup.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"local"`

	LLMAPIKey      string  `env:"OPENAI_API_KEY"`
	LLMBaseURL     string  `env:"OPENAI_BASE_URL"`
	LLMModel       string  `env:"LLM_MODEL" envDefault:"gemini-2.5-flash"`
	LLMRPS         float64 `env:"LLM_RPS" envDefault:"2"`
	LLMBurst       int     `env:"LLM_BURST" envDefault:"2"`
	LLMMaxAttempts int     `env:"LLM_MAX_ATTEMPTS" envDefault:"3"`

	GooglePlacesAPIKey  string `env:"GOOGLE_PLACES_API_KEY"`
	GooglePlacesBaseURL string `env:"GOOGLE_PLACES_BASE_URL" envDefault:"https://maps.googleapis.com/maps/api/place/nearbysearch/json"`
	OSMBaseURL          string `env:"OSM_NOMINATIM_BASE_URL" envDefault:"https://overpass-api.de/api/interpreter"`
	OSMUserAgent        string `env:"OSM_USER_AGENT" envDefault:"narrator/1.0 (contact: ops@example.com)"`
	GraphBaseURL        string `env:"GRAPH_QUERY_BASE_URL" envDefault:"https://query.wikidata.org/sparql"`
	EncyclopediaBaseURL string `env:"ENCYCLOPEDIA_BASE_URL" envDefault:"https://en.wikipedia.org/w/api.php"`

	GeoCacheTTLMs      int `env:"GEO_CACHE_TTL_MS" envDefault:"21600000"`
	HTTPTimeoutMs      int `env:"HTTP_TIMEOUT_MS" envDefault:"6500"`
	SearchTimeoutMs    int `env:"HTTP_SEARCH_TIMEOUT_MS" envDefault:"12000"`
	PoiRadiusMeters    int `env:"POI_RADIUS_METERS" envDefault:"2200"`
	PoiMaxCandidates   int `env:"POI_MAX_CANDIDATES" envDefault:"18"`
	MinPoiScoreToSpeak int `env:"MIN_POI_SCORE_TO_SPEAK" envDefault:"-1000000"`

	StoryMinWords int `env:"BTW_MIN_WORDS" envDefault:"180"`
	StoryMaxWords int `env:"BTW_MAX_WORDS" envDefault:"340"`

	BannedFillersEn []string `env:"BANNED_FILLERS_EN" envSeparator:"|" envDefault:"as an ai|i cannot|i'm unable|nestled in the heart of|in the bustling|in today's world"`
	BannedFillersHe []string `env:"BANNED_FILLERS_HE" envSeparator:"|" envDefault:"כבינה מלאכותית|אינני יכול|אני לא מסוגל"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	DatabaseURL string `env:"DATABASE_URL"`

	AudioS3Endpoint  string `env:"AUDIO_S3_ENDPOINT"`
	AudioS3Region    string `env:"AUDIO_S3_REGION" envDefault:"us-east-1"`
	AudioS3AccessKey string `env:"AUDIO_S3_ACCESS_KEY"`
	AudioS3SecretKey string `env:"AUDIO_S3_SECRET_KEY"`
	AudioS3Bucket    string `env:"AUDIO_S3_BUCKET" envDefault:"narrator-audio"`
	AudioS3UseSSL    bool   `env:"AUDIO_S3_USE_SSL" envDefault:"true"`

	TTSBaseURL string `env:"TTS_BASE_URL"`
	TTSAPIKey  string `env:"TTS_API_KEY"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads .env (if present) then the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if !strings.HasPrefix(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	if c.StoryMinWords <= 0 || c.StoryMaxWords <= c.StoryMinWords {
		return nil, fmt.Errorf("invalid story length bounds: min=%d max=%d", c.StoryMinWords, c.StoryMaxWords)
	}
	return c, nil
}

// BannedFillers assembles the language-keyed filler denylist the story
// validator (C8 rule 2) checks a draft against.
func (c *Config) BannedFillers() map[string][]string {
	return map[string][]string{
		"en": c.BannedFillersEn,
		"he": c.BannedFillersHe,
	}
}

// HasDurableStore reports whether a Postgres DSN was configured.
func (c *Config) HasDurableStore() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// HasAudioCache reports whether object storage was configured for the
// audio artifact cache (C16).
func (c *Config) HasAudioCache() bool {
	return strings.TrimSpace(c.AudioS3Endpoint) != "" &&
		strings.TrimSpace(c.AudioS3AccessKey) != "" &&
		strings.TrimSpace(c.AudioS3SecretKey) != ""
}
