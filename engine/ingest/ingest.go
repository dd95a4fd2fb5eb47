// Package ingest normalizes raw catalog snapshots and writes them into the
// graph and vector stores.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Fayuquero09/cortex-automotriz/engine/compare"
	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/engine/graph"
	"github.com/Fayuquero09/cortex-automotriz/engine/normalize"
	"github.com/Fayuquero09/cortex-automotriz/engine/semantic"
	"github.com/Fayuquero09/cortex-automotriz/pkg/fn"
)

// GraphWriter persists normalized versions into the catalog graph.
type GraphWriter interface {
	SaveSnapshot(ctx context.Context, v graph.Version) error
}

// VectorWriter persists version vectors.
type VectorWriter interface {
	Upsert(ctx context.Context, records []semantic.VectorRecord) error
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Deps holds the external dependencies for the ingestion pipeline.
type Deps struct {
	Graph    GraphWriter
	Vectors  VectorWriter
	Embedder Embedder
	Logger   *slog.Logger
	// Workers bounds per-file concurrency. Zero means 4.
	Workers int
}

// Pipeline processes raw snapshot records.
type Pipeline struct {
	deps Deps
}

// New creates a Pipeline.
func New(deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Workers <= 0 {
		deps.Workers = 4
	}
	return &Pipeline{deps: deps}
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Ingested int
	Failed   int
	// PerMake counts ingested versions per make name.
	PerMake map[string]int
}

// ProcessRecords normalizes and stores a batch of raw snapshot records.
// Records that fail to normalize or store are logged and counted; the rest
// of the batch proceeds.
func (p *Pipeline) ProcessRecords(ctx context.Context, recs []domain.Record) RunResult {
	results := fn.ParMapResult(recs, p.deps.Workers, func(rec domain.Record) fn.Result[graph.Version] {
		return fn.FromPair(p.processOne(ctx, rec))
	})

	out := RunResult{PerMake: make(map[string]int)}
	for i, r := range results {
		v, err := r.Unwrap()
		if err != nil {
			p.deps.Logger.Error("ingest record failed", "index", i, "err", err)
			out.Failed++
			continue
		}
		out.Ingested++
		out.PerMake[v.Make]++
	}
	return out
}

// processOne normalizes one record and writes it to both stores.
func (p *Pipeline) processOne(ctx context.Context, rec domain.Record) (graph.Version, error) {
	v, err := VersionFromRecord(rec)
	if err != nil {
		return graph.Version{}, err
	}

	if err := p.deps.Graph.SaveSnapshot(ctx, v); err != nil {
		return graph.Version{}, fmt.Errorf("graph save %s: %w", v.ID, err)
	}

	vec, err := p.deps.Embedder.Embed(ctx, EmbedText(v))
	if err != nil {
		return graph.Version{}, fmt.Errorf("embed %s: %w", v.ID, err)
	}
	err = p.deps.Vectors.Upsert(ctx, []semantic.VectorRecord{{
		ID:        v.ID,
		Embedding: vec,
		Payload: map[string]any{
			"make":    v.Make,
			"model":   v.Model,
			"version": v.Name,
			"year":    v.Year,
			"fuel":    v.Fuel,
		},
	}})
	if err != nil {
		return graph.Version{}, fmt.Errorf("vector upsert %s: %w", v.ID, err)
	}
	return v, nil
}

// VersionFromRecord normalizes a raw snapshot record into a graph Version.
func VersionFromRecord(rec domain.Record) (graph.Version, error) {
	makeName := rec.FirstText(domain.MakeFields)
	model := rec.FirstText(domain.ModelFields)
	if makeName == "" || model == "" {
		return graph.Version{}, fmt.Errorf("record missing make or model")
	}
	versionName := rec.FirstText(domain.VersionFields)
	year := 0
	if y, ok := rec.FirstNumber(domain.YearFields); ok {
		year = int(y)
	}

	fuel := normalize.ClassifyFuel(rec)
	cons := normalize.ConsumptionFor(rec, fuel.Category)

	v := graph.Version{
		ID:        graph.VersionID(makeName, model, versionName, year),
		Name:      versionName,
		ModelID:   graph.ModelID(makeName, model),
		Make:      makeName,
		Model:     model,
		Year:      year,
		Fuel:      string(fuel.Category),
		FuelLabel: fuel.Label,
		Scores:    make(map[string]float64),
	}
	if cons.Available {
		v.KWhPer100 = cons.KWhPer100
		v.KmPerL = cons.KmPerL
		v.LPer100 = cons.LPer100
	}
	for _, k := range compare.KPITable {
		if score, ok := rec.FirstNumber([]string{k.Field}); ok {
			v.Scores[k.Field] = score
		}
	}
	return v, nil
}

// EmbedText renders the text that represents a version in vector space.
func EmbedText(v graph.Version) string {
	parts := []string{v.Make, v.Model, v.Name}
	if v.Year > 0 {
		parts = append(parts, fmt.Sprint(v.Year))
	}
	if v.FuelLabel != "" {
		parts = append(parts, v.FuelLabel)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return strings.Join(out, " ")
}
