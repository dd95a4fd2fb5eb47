package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/engine/graph"
	"github.com/Fayuquero09/cortex-automotriz/engine/semantic"
)

type fakeGraph struct {
	mu    sync.Mutex
	saved []graph.Version
	err   error
}

func (f *fakeGraph) SaveSnapshot(_ context.Context, v graph.Version) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, v)
	return nil
}

type fakeVectors struct {
	mu       sync.Mutex
	upserted []semantic.VectorRecord
	err      error
}

func (f *fakeVectors) Upsert(_ context.Context, recs []semantic.VectorRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, recs...)
	return nil
}

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

func newTestPipeline(g *fakeGraph, v *fakeVectors, e *fakeEmbedder) *Pipeline {
	return New(Deps{
		Graph:    g,
		Vectors:  v,
		Embedder: e,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func sampleRecord() domain.Record {
	return domain.Record{
		"make": "Ford", "model": "Territory", "version": "Titanium", "ano": 2025.0,
		"categoria_combustible": "Gasolina", "combinado_kml": 15.0,
		"equip_score": 80.0, "adas_score": 72.5,
	}
}

func TestVersionFromRecord(t *testing.T) {
	v, err := VersionFromRecord(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != "ford-territory-titanium-2025" {
		t.Fatalf("unexpected id: %q", v.ID)
	}
	if v.Fuel != "regular-gasoline" || v.FuelLabel != "Gasolina" {
		t.Fatalf("unexpected fuel: %q %q", v.Fuel, v.FuelLabel)
	}
	if v.KmPerL != 15 {
		t.Fatalf("unexpected km/l: %v", v.KmPerL)
	}
	if v.LPer100 != 6.667 {
		t.Fatalf("unexpected l/100: %v", v.LPer100)
	}
	if v.Scores["equip_score"] != 80 || v.Scores["adas_score"] != 72.5 {
		t.Fatalf("unexpected scores: %v", v.Scores)
	}
}

func TestVersionFromRecord_MissingIdentity(t *testing.T) {
	if _, err := VersionFromRecord(domain.Record{"version": "GT"}); err == nil {
		t.Fatal("expected error for record without make/model")
	}
}

func TestVersionFromRecord_Electric(t *testing.T) {
	rec := domain.Record{
		"marca": "BYD", "modelo": "Seal", "version": "Dynamic", "ano": 2025.0,
		"tipo_combustible": "Eléctrico", "kwh_100km": 14.2,
	}
	v, err := VersionFromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if v.Fuel != "full-electric" {
		t.Fatalf("unexpected fuel: %q", v.Fuel)
	}
	if v.KWhPer100 != 14.2 || v.KmPerL != 0 {
		t.Fatalf("unexpected consumption: %+v", v)
	}
}

func TestProcessRecords(t *testing.T) {
	g := &fakeGraph{}
	vecs := &fakeVectors{}
	p := newTestPipeline(g, vecs, &fakeEmbedder{})

	res := p.ProcessRecords(context.Background(), []domain.Record{
		sampleRecord(),
		{"make": "Toyota", "model": "RAV4", "version": "XLE", "ano": 2025.0},
		{"version": "orphan"}, // no make/model
	})

	if res.Ingested != 2 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.PerMake["Ford"] != 1 || res.PerMake["Toyota"] != 1 {
		t.Fatalf("unexpected per-make counts: %v", res.PerMake)
	}
	if len(g.saved) != 2 || len(vecs.upserted) != 2 {
		t.Fatalf("stores not written: graph=%d vectors=%d", len(g.saved), len(vecs.upserted))
	}
}

func TestProcessRecords_GraphFailure(t *testing.T) {
	g := &fakeGraph{err: errors.New("neo4j down")}
	p := newTestPipeline(g, &fakeVectors{}, &fakeEmbedder{})

	res := p.ProcessRecords(context.Background(), []domain.Record{sampleRecord()})
	if res.Failed != 1 || res.Ingested != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestProcessRecords_EmbedFailure(t *testing.T) {
	p := newTestPipeline(&fakeGraph{}, &fakeVectors{}, &fakeEmbedder{err: errors.New("ollama down")})

	res := p.ProcessRecords(context.Background(), []domain.Record{sampleRecord()})
	if res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestEmbedText(t *testing.T) {
	v := graph.Version{Make: "Ford", Model: "Territory", Name: "Titanium", Year: 2025, FuelLabel: "Gasolina"}
	if got := EmbedText(v); got != "Ford Territory Titanium 2025 Gasolina" {
		t.Fatalf("unexpected text: %q", got)
	}

	v = graph.Version{Make: "Kia", Model: "EV6"}
	if got := EmbedText(v); got != "Kia EV6" {
		t.Fatalf("unexpected text: %q", got)
	}
}
