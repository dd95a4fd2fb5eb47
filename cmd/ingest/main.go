// Command ingest loads catalog versions into Neo4j and Qdrant, from a
// watched directory of snapshot JSON files and, when -catalog is set, from
// the upstream catalog API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Fayuquero09/cortex-automotriz/engine/catalog"
	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/engine/graph"
	"github.com/Fayuquero09/cortex-automotriz/engine/ingest"
	"github.com/Fayuquero09/cortex-automotriz/engine/semantic"
	"github.com/Fayuquero09/cortex-automotriz/pkg/embed"
	"github.com/Fayuquero09/cortex-automotriz/pkg/metrics"
	"github.com/Fayuquero09/cortex-automotriz/pkg/natsutil"
)

var met = metrics.New()

var (
	mVersionsTotal = func(makeName string) *metrics.Counter {
		return met.Counter(metrics.WithLabels("cortex_ingest_versions_total", "make", makeName), "Versions ingested")
	}
	mErrorsTotal = func(stage string) *metrics.Counter {
		return met.Counter(metrics.WithLabels("cortex_ingest_errors_total", "stage", stage), "Ingestion errors")
	}
	mFilesProcessed = met.Counter("cortex_ingest_files_processed_total", "Snapshot files processed")
	mLastScan       = met.Gauge("cortex_ingest_last_scan_timestamp", "Epoch of last directory scan")
	mFileDur        = met.Histogram("cortex_ingest_file_duration_seconds", "Per-file processing time", nil)
)

const vectorDims = 768 // nomic-embed-text

func main() {
	var (
		dataDir     = flag.String("dir", "/var/lib/cortex/snapshots", "directory to watch for snapshot JSON files")
		ollamaURL   = flag.String("ollama", "http://localhost:11434", "Ollama base URL")
		ollamaModel = flag.String("model", "nomic-embed-text", "Ollama embedding model")
		neo4jURL    = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", "password", "Neo4j password")
		qdrantAddr  = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection  = flag.String("collection", "cortex-versions", "Qdrant collection name")
		natsURL     = flag.String("nats", "", "NATS URL for catalog.updated events (empty disables)")
		catalogURL  = flag.String("catalog", "", "upstream catalog API base URL (empty disables sync)")
		catalogKey  = flag.String("catalog-key", "", "upstream catalog API key")
		syncEvery   = flag.Duration("catalog-interval", time.Hour, "upstream catalog sync interval")
		interval    = flag.Duration("interval", 30*time.Second, "scan interval")
		stateFile   = flag.String("state", "", "processed files state (defaults to <dir>/.ingest-state.json)")
		metricsPort = flag.Int("metrics-port", 9091, "metrics HTTP port")
	)
	flag.Parse()

	if *stateFile == "" {
		*stateFile = filepath.Join(*dataDir, ".ingest-state.json")
	}

	met.ServeAsync(*metricsPort)

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Error("neo4j verify failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Neo4j")

	vs, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer vs.Close()
	if err := vs.EnsureCollection(ctx, vectorDims); err != nil {
		log.Error("qdrant ensure collection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Qdrant", "collection", *collection, "dims", vectorDims)

	var nc *nats.Conn
	if *natsURL != "" {
		nc, err = nats.Connect(*natsURL)
		if err != nil {
			log.Error("nats connect failed", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		log.Info("connected to NATS")
	}

	pipeline := ingest.New(ingest.Deps{
		Graph:    graph.New(driver),
		Vectors:  vs,
		Embedder: embed.New(*ollamaURL, *ollamaModel),
		Logger:   log,
	})

	processed := loadState(*stateFile)
	os.MkdirAll(*dataDir, 0o755)

	log.Info("watching for catalog snapshots", "dir", *dataDir, "interval", *interval)

	scan := func() {
		mLastScan.Set(time.Now().Unix())
		entries, err := os.ReadDir(*dataDir)
		if err != nil {
			mErrorsTotal("scan").Inc()
			log.Error("readdir failed", "error", err)
			return
		}

		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || e.Name()[0] == '.' {
				continue
			}
			path := filepath.Join(*dataDir, e.Name())
			info, _ := e.Info()
			key := e.Name()
			if info != nil {
				key = fmt.Sprintf("%s:%d", e.Name(), info.Size())
			}
			if processed[key] {
				continue
			}

			log.Info("processing file", "file", e.Name())
			start := time.Now()
			res, err := processFile(ctx, path, pipeline)
			mFileDur.Since(start)
			if err != nil {
				mErrorsTotal("parse").Inc()
				log.Error("file parse failed", "file", e.Name(), "error", err)
				continue
			}
			mFilesProcessed.Inc()
			for makeName, count := range res.PerMake {
				mVersionsTotal(makeName).Add(int64(count))
				publishUpdate(ctx, nc, log, makeName, count)
			}
			log.Info("file done", "file", e.Name(), "ingested", res.Ingested, "failed", res.Failed)

			// Retry files with failures on the next scan.
			if res.Failed == 0 {
				processed[key] = true
				saveState(*stateFile, processed)
			} else {
				mErrorsTotal("record").Add(int64(res.Failed))
				log.Warn("file had errors, will retry on next scan", "file", e.Name(), "failed", res.Failed)
			}
		}
	}

	var cat *catalog.Client
	var syncTicks <-chan time.Time
	if *catalogURL != "" {
		cat = catalog.New(catalog.Opts{BaseURL: *catalogURL, APIKey: *catalogKey})
		st := time.NewTicker(*syncEvery)
		defer st.Stop()
		syncTicks = st.C
		log.Info("upstream catalog sync enabled", "url", *catalogURL, "interval", *syncEvery)
	}

	scan()
	if cat != nil {
		syncCatalog(ctx, cat, pipeline, nc, log)
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case <-ticker.C:
			scan()
		case <-syncTicks:
			syncCatalog(ctx, cat, pipeline, nc, log)
		}
	}
}

// catalogSource is the slice of the upstream catalog client the sync needs.
type catalogSource interface {
	Makes(ctx context.Context) ([]string, error)
	Versions(ctx context.Context, makeName, model string) ([]domain.Record, error)
}

// recordSink runs raw records through the ingestion pipeline.
type recordSink interface {
	ProcessRecords(ctx context.Context, recs []domain.Record) ingest.RunResult
}

// syncCatalog pulls every make's versions from the upstream catalog API and
// runs them through the pipeline. A make whose fetch fails is skipped; the
// next sync retries it.
func syncCatalog(ctx context.Context, src catalogSource, sink recordSink, nc *nats.Conn, log *slog.Logger) {
	makes, err := src.Makes(ctx)
	if err != nil {
		mErrorsTotal("catalog").Inc()
		log.Error("catalog makes fetch failed", "error", err)
		return
	}

	for _, makeName := range makes {
		recs, err := src.Versions(ctx, makeName, "")
		if err != nil {
			mErrorsTotal("catalog").Inc()
			log.Error("catalog versions fetch failed", "make", makeName, "error", err)
			continue
		}
		if len(recs) == 0 {
			continue
		}

		res := sink.ProcessRecords(ctx, recs)
		for mk, count := range res.PerMake {
			mVersionsTotal(mk).Add(int64(count))
			publishUpdate(ctx, nc, log, mk, count)
		}
		if res.Failed > 0 {
			mErrorsTotal("record").Add(int64(res.Failed))
		}
		log.Info("catalog make synced", "make", makeName, "ingested", res.Ingested, "failed", res.Failed)
	}
}

// CatalogUpdated is published on NATS after a make's versions are ingested.
type CatalogUpdated struct {
	Make     string `json:"make"`
	Versions int    `json:"versions"`
}

func publishUpdate(ctx context.Context, nc *nats.Conn, log *slog.Logger, makeName string, count int) {
	if nc == nil {
		return
	}
	ev := CatalogUpdated{Make: makeName, Versions: count}
	if err := natsutil.Publish(ctx, nc, "catalog.updated", ev); err != nil {
		log.Warn("publish catalog.updated failed", "make", makeName, "error", err)
	}
}

// processFile parses a snapshot file and runs its records through the pipeline.
// Files hold either a bare JSON array of records or {"versions": [...]}.
func processFile(ctx context.Context, path string, pipeline *ingest.Pipeline) (ingest.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.RunResult{}, err
	}

	recs, err := parseSnapshot(data)
	if err != nil {
		return ingest.RunResult{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return pipeline.ProcessRecords(ctx, recs), nil
}

func parseSnapshot(data []byte) ([]domain.Record, error) {
	var recs []domain.Record
	if err := json.Unmarshal(data, &recs); err == nil {
		return recs, nil
	}

	var wrapped struct {
		Versions []domain.Record `json:"versions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("snapshot is neither an array nor a versions object: %w", err)
	}
	return wrapped.Versions, nil
}

func loadState(path string) map[string]bool {
	state := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	json.Unmarshal(data, &state)
	return state
}

func saveState(path string, state map[string]bool) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	os.WriteFile(path, data, 0o644)
}
