// Command server wires every collaborator C1-C16 name and starts the
// HTTP transport, Patterned after cmd/gateway/main.go
// bootstrap-then-signal-wait-then-shutdown shape.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"narrator/internal/audio"
	"narrator/internal/config"
	"narrator/internal/dbschema"
	"narrator/internal/exposure"
	"narrator/internal/facts"
	"narrator/internal/history"
	"narrator/internal/httpapi"
	"narrator/internal/llmgen"
	"narrator/internal/obslog"
	"narrator/internal/orchestrator"
	"narrator/internal/poi"
	"narrator/internal/sources"
	"narrator/internal/taste"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := obslog.New(cfg.Debug)
	ctx := obslog.WithContext(context.Background(), logger)

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond}
	searchTimeout := time.Duration(cfg.SearchTimeoutMs) * time.Millisecond
	geoCacheTTL := time.Duration(cfg.GeoCacheTTLMs) * time.Millisecond

	primaryAdapters := []sources.Adapter{
		sources.NewOSMAdapter(cfg.OSMBaseURL, cfg.OSMUserAgent, httpClient),
		sources.NewGraphAdapter(cfg.GraphBaseURL, cfg.OSMUserAgent, httpClient),
	}
	fallbackAdapters := []sources.Adapter{
		sources.NewPlacesAdapter(cfg.GooglePlacesBaseURL, cfg.GooglePlacesAPIKey, httpClient),
	}
	resolver := poi.NewResolver(primaryAdapters, fallbackAdapters, geoCacheTTL, searchTimeout)

	gen := buildGenerator(ctx, cfg)
	graphFacts := facts.NewGraphFetcher(cfg.GraphBaseURL, cfg.OSMUserAgent, httpClient, geoCacheTTL)
	encyFacts := facts.NewEncyclopediaFetcher(cfg.EncyclopediaBaseURL, httpClient, gen, geoCacheTTL)

	db, durableErr := openDurableStore(cfg)
	if durableErr != nil {
		obslog.FromCtx(ctx).Warn().Err(durableErr).Msg("main: durable store unavailable, falling back to in-memory only")
	}

	historyStore := history.New(durableFor[history.Durable](db, func() history.Durable { return history.NewPostgresDurable(db) }))
	exposureLog := exposure.New(durableFor[exposure.Durable](db, func() exposure.Durable { return exposure.NewPostgresDurable(db) }))
	tasteStore := taste.New(durableFor[taste.Durable](db, func() taste.Durable { return taste.NewPostgresDurable(db) }))

	audioCache := audio.New(
		audio.NewHTTPSynthesizer(cfg.TTSBaseURL, cfg.TTSAPIKey, httpClient),
		buildObjectStoreClient(cfg),
		cfg.AudioS3Bucket,
	)

	orch := &orchestrator.Orchestrator{
		Resolver:          resolver,
		GraphFacts:        graphFacts,
		EncyFacts:         encyFacts,
		History:           historyStore,
		Exposure:          exposureLog,
		Taste:             tasteStore,
		Audio:             audioCache,
		Gen:               gen,
		MinWords:          cfg.StoryMinWords,
		MaxWords:          cfg.StoryMaxWords,
		Fillers:           cfg.BannedFillers(),
		MaxCandidates:     cfg.PoiMaxCandidates,
		MaxDistanceMeters: cfg.PoiRadiusMeters,
		MinScoreToSpeak:   float64(cfg.MinPoiScoreToSpeak),
	}

	mux := httpapi.NewMux(orch, tasteStore, cfg.CORSAllowOrigins)
	srv := httpapi.New(cfg.Port, mux)

	go func() {
		if err := srv.Start(ctx); err != nil {
			obslog.FromCtx(ctx).Error().Err(err).Msg("main: server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	obslog.FromCtx(ctx).Info().Msg("main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obslog.FromCtx(ctx).Fatal().Err(err).Msg("main: forced shutdown")
	}
	if db != nil {
		_ = db.Close()
	}
	obslog.FromCtx(ctx).Info().Msg("main: exited")
}

// buildGenerator wraps the Gemini client with rate limiting and retry,
// rate limit outermost: each Generate call takes one token from the
// budget, and the retries it makes inside that call take none.
func buildGenerator(ctx context.Context, cfg *config.Config) llmgen.Generator {
	gemini, err := llmgen.NewGeminiGenerator(ctx, cfg.LLMModel)
	if err != nil {
		obslog.FromCtx(ctx).Fatal().Err(err).Msg("main: gemini client init failed")
	}
	withRetry := llmgen.WithRetry(gemini, cfg.LLMMaxAttempts, 400*time.Millisecond)
	return llmgen.WithRateLimit(withRetry, cfg.LLMRPS, cfg.LLMBurst)
}

// openDurableStore opens the Postgres pool named by cfg.DatabaseURL and
// runs embedded migrations. A missing DSN is not an error: durable
// storage is optional, degrading to in-memory-only state.
func openDurableStore(cfg *config.Config) (*sql.DB, error) {
	if !cfg.HasDurableStore() {
		return nil, nil
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := dbschema.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// durableFor returns nil when db is nil, otherwise the durable
// implementation built by build. Each store package's New() treats a
// nil Durable as memory-only, so this keeps main.go's wiring uniform
// regardless of whether a DSN was configured.
func durableFor[T any](db *sql.DB, build func() T) T {
	var zero T
	if db == nil {
		return zero
	}
	return build()
}

// buildObjectStoreClient returns a minio client for the audio artifact
// cache, or nil if object storage wasn't configured.
func buildObjectStoreClient(cfg *config.Config) *minio.Client {
	if !cfg.HasAudioCache() {
		return nil
	}
	client, err := minio.New(cfg.AudioS3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AudioS3AccessKey, cfg.AudioS3SecretKey, ""),
		Secure: cfg.AudioS3UseSSL,
	})
	if err != nil {
		log.Printf("main: object store client init failed: %v", err)
		return nil
	}
	return client
}
