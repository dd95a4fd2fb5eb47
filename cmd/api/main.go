// Package main implements the Cortex Automotriz comparison API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Fayuquero09/cortex-automotriz/engine/compare"
	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/engine/graph"
	"github.com/Fayuquero09/cortex-automotriz/engine/normalize"
	"github.com/Fayuquero09/cortex-automotriz/engine/semantic"
	"github.com/Fayuquero09/cortex-automotriz/pkg/embed"
	"github.com/Fayuquero09/cortex-automotriz/pkg/metrics"
	"github.com/Fayuquero09/cortex-automotriz/pkg/mid"
	"github.com/Fayuquero09/cortex-automotriz/pkg/natsutil"
	"github.com/Fayuquero09/cortex-automotriz/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port        string
	Neo4jURL    string
	Neo4jUser   string
	Neo4jPass   string
	QdrantURL   string
	Collection  string
	OllamaURL   string
	EmbedModel  string
	NATSURL     string
	CORSOrigin  string
	RatePerSec  float64
	RateBurst   int
	ServiceName string
}

func loadConfig() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		Neo4jURL:    envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:   envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:   envOr("NEO4J_PASS", "password"),
		QdrantURL:   envOr("QDRANT_URL", "localhost:6334"),
		Collection:  envOr("QDRANT_COLLECTION", "cortex-versions"),
		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:  envOr("EMBED_MODEL", "nomic-embed-text"),
		NATSURL:     envOr("NATS_URL", ""),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
		RatePerSec:  50,
		RateBurst:   100,
		ServiceName: envOr("SERVICE_NAME", "cortex-api"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	neo4jDriver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer neo4jDriver.Close(ctx)

	graphStore := graph.New(neo4jDriver)

	// --- Connect to Qdrant ---
	vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	embedder := embed.New(cfg.OllamaURL, cfg.EmbedModel)
	suggester := semantic.NewSuggester(embedder, vectorStore)

	// --- Metrics ---
	reg := metrics.New()
	compareCounter := reg.Counter("cortex_compare_requests_total", "Comparison requests served")
	compareLatency := reg.Histogram("cortex_compare_duration_seconds", "Comparison request latency", nil)
	catalogFreshness := reg.Gauge("cortex_catalog_last_update_unixtime", "Unix time of the last catalog.updated event")

	// --- NATS catalog freshness (optional) ---
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()

		sub, err := natsutil.Subscribe(nc, "catalog.updated", func(_ context.Context, ev CatalogUpdated) {
			catalogFreshness.Set(time.Now().Unix())
			logger.Info("catalog updated", "make", ev.Make, "versions", ev.Versions)
		})
		if err != nil {
			return fmt.Errorf("nats subscribe: %w", err)
		}
		defer sub.Unsubscribe()
	}

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.Handle("GET /metrics", reg.Handler())
	mux.HandleFunc("POST /api/compare", handleCompare(logger, compareCounter, compareLatency))
	mux.HandleFunc("POST /api/fuel", handleFuel())
	mux.HandleFunc("GET /api/catalog/makes", handleMakes(graphStore, logger))
	mux.HandleFunc("GET /api/catalog/versions", handleVersions(graphStore, logger))
	mux.HandleFunc("GET /api/catalog/versions/{id}", handleVersionByID(graphStore, logger))
	mux.HandleFunc("POST /api/competitors/suggest", handleSuggest(suggester, logger))

	limiter := resilience.NewLimiter(resilience.LimiterOpts{Rate: cfg.RatePerSec, Burst: cfg.RateBurst})
	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel(cfg.ServiceName),
		mid.Throttle(limiter),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// CatalogUpdated is the NATS event published after an ingest run.
type CatalogUpdated struct {
	Make     string `json:"make"`
	Versions int    `json:"versions"`
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// CompareRequest is the JSON body for POST /api/compare.
type CompareRequest struct {
	Mode        string          `json:"mode"`
	Base        domain.Record   `json:"base"`
	Competitors []domain.Record `json:"competitors"`
}

// CompareResponse is the JSON response for POST /api/compare.
type CompareResponse struct {
	Mode     string            `json:"mode"`
	Base     string            `json:"base"`
	Fuel     string            `json:"fuel"`
	Sections []compare.Section `json:"sections"`
}

func handleCompare(logger *slog.Logger, counter *metrics.Counter, latency *metrics.Histogram) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		mode, err := compare.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := domain.ValidateComparison(req.Base, req.Competitors); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, domain.ErrTooManyCompetitors) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, err)
			return
		}

		fuel := normalize.ClassifyFuel(req.Base)
		competitors := compare.EnsureDeltas(req.Base, req.Competitors)
		sections := compare.Sections(req.Base, competitors, mode)

		counter.Inc()
		latency.Since(start)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CompareResponse{
			Mode:     string(mode),
			Base:     normalize.VehicleLabel(req.Base),
			Fuel:     fuel.Label,
			Sections: sections,
		})
	}
}

// FuelResponse is the JSON response for POST /api/fuel.
type FuelResponse struct {
	Category    string  `json:"category"`
	Label       string  `json:"label"`
	Electric    bool    `json:"electric"`
	Consumption string  `json:"consumption"`
	KWhPer100   float64 `json:"kwh_per_100,omitempty"`
	KmPerL      float64 `json:"km_per_l,omitempty"`
	LPer100     float64 `json:"l_per_100,omitempty"`
}

func handleFuel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec domain.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		fuel := normalize.ClassifyFuel(rec)
		cons := normalize.ConsumptionFor(rec, fuel.Category)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(FuelResponse{
			Category:    string(fuel.Category),
			Label:       fuel.Label,
			Electric:    fuel.Category.IsElectric(),
			Consumption: normalize.FormatConsumption(cons),
			KWhPer100:   cons.KWhPer100,
			KmPerL:      cons.KmPerL,
			LPer100:     cons.LPer100,
		})
	}
}

// catalogStore is the slice of the graph store the catalog routes need.
type catalogStore interface {
	Makes(ctx context.Context) ([]graph.Make, error)
	VersionsByModel(ctx context.Context, makeName, model string) ([]graph.Version, error)
	VersionsByFuel(ctx context.Context, fuel string) ([]graph.Version, error)
	VersionByID(ctx context.Context, id string) (graph.Version, error)
}

func handleMakes(store catalogStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		makes, err := store.Makes(r.Context())
		if err != nil {
			logger.Error("list makes failed", "err", err)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(makes)
	}
}

func handleVersions(store catalogStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		makeName := r.URL.Query().Get("make")
		model := r.URL.Query().Get("model")
		fuel := r.URL.Query().Get("fuel")

		var versions []graph.Version
		var err error
		switch {
		case makeName != "":
			versions, err = store.VersionsByModel(r.Context(), makeName, model)
		case fuel != "":
			versions, err = store.VersionsByFuel(r.Context(), fuel)
		default:
			http.Error(w, `{"error":"make or fuel is required"}`, http.StatusBadRequest)
			return
		}
		if err != nil {
			logger.Error("list versions failed", "err", err, "make", makeName, "model", model, "fuel", fuel)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(versions)
	}
}

func handleVersionByID(store catalogStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		version, err := store.VersionByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, graph.ErrNotFound) {
				http.Error(w, `{"error":"version not found"}`, http.StatusNotFound)
				return
			}
			logger.Error("version lookup failed", "err", err, "id", id)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(version)
	}
}

// SuggestRequest is the JSON body for POST /api/competitors/suggest.
type SuggestRequest struct {
	Description string `json:"description"`
	TopK        int    `json:"top_k"`
	Fuel        string `json:"fuel,omitempty"`
}

func handleSuggest(suggester *semantic.Suggester, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SuggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Description == "" {
			http.Error(w, `{"error":"description is required"}`, http.StatusBadRequest)
			return
		}

		hits, err := suggester.Suggest(r.Context(), req.Description, req.TopK, req.Fuel)
		if err != nil {
			logger.Error("suggest failed", "err", err)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hits)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
