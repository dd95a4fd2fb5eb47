package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/engine/ingest"
)

type fakeSource struct {
	makes       []string
	makesErr    error
	versions    map[string][]domain.Record
	versionsErr map[string]error
	fetched     []string
}

func (s *fakeSource) Makes(context.Context) ([]string, error) {
	return s.makes, s.makesErr
}

func (s *fakeSource) Versions(_ context.Context, makeName, _ string) ([]domain.Record, error) {
	s.fetched = append(s.fetched, makeName)
	if err := s.versionsErr[makeName]; err != nil {
		return nil, err
	}
	return s.versions[makeName], nil
}

type fakeSink struct {
	batches [][]domain.Record
	result  ingest.RunResult
}

func (s *fakeSink) ProcessRecords(_ context.Context, recs []domain.Record) ingest.RunResult {
	s.batches = append(s.batches, recs)
	return s.result
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSyncCatalog_ProcessesEveryMake(t *testing.T) {
	src := &fakeSource{
		makes: []string{"Ford", "BYD"},
		versions: map[string][]domain.Record{
			"Ford": {{"make": "Ford", "model": "Territory"}},
			"BYD":  {{"make": "BYD", "model": "Song Plus"}, {"make": "BYD", "model": "Seal"}},
		},
	}
	sink := &fakeSink{result: ingest.RunResult{Ingested: 1}}

	syncCatalog(context.Background(), src, sink, nil, discardLogger())

	if len(sink.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(sink.batches))
	}
	if len(sink.batches[1]) != 2 {
		t.Fatalf("expected BYD batch of 2, got %d", len(sink.batches[1]))
	}
}

func TestSyncCatalog_SkipsFailedMake(t *testing.T) {
	src := &fakeSource{
		makes: []string{"Ford", "Kia"},
		versions: map[string][]domain.Record{
			"Kia": {{"make": "Kia", "model": "Sportage"}},
		},
		versionsErr: map[string]error{"Ford": errors.New("upstream down")},
	}
	sink := &fakeSink{}

	syncCatalog(context.Background(), src, sink, nil, discardLogger())

	if len(src.fetched) != 2 {
		t.Fatalf("expected both makes attempted, got %v", src.fetched)
	}
	if len(sink.batches) != 1 || sink.batches[0][0]["make"] != "Kia" {
		t.Fatalf("expected only Kia processed, got %v", sink.batches)
	}
}

func TestSyncCatalog_MakesFetchError(t *testing.T) {
	src := &fakeSource{makesErr: errors.New("upstream down")}
	sink := &fakeSink{}

	syncCatalog(context.Background(), src, sink, nil, discardLogger())

	if len(sink.batches) != 0 {
		t.Fatalf("expected no processing on makes failure, got %v", sink.batches)
	}
}

func TestSyncCatalog_SkipsEmptyMake(t *testing.T) {
	src := &fakeSource{makes: []string{"Ford"}}
	sink := &fakeSink{}

	syncCatalog(context.Background(), src, sink, nil, discardLogger())

	if len(sink.batches) != 0 {
		t.Fatalf("expected no batches for empty make, got %v", sink.batches)
	}
}

func TestParseSnapshot_Array(t *testing.T) {
	data := []byte(`[{"make": "Ford", "model": "Territory"}]`)
	recs, err := parseSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0]["make"] != "Ford" {
		t.Fatalf("unexpected records: %v", recs)
	}
}

func TestParseSnapshot_Wrapped(t *testing.T) {
	data := []byte(`{"versions": [{"make": "BYD"}, {"make": "Kia"}]}`)
	recs, err := parseSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestParseSnapshot_Invalid(t *testing.T) {
	if _, err := parseSnapshot([]byte(`"just a string"`)); err == nil {
		t.Fatal("expected error for non-snapshot JSON")
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state := map[string]bool{"snapshot-2025.json:1234": true}
	saveState(path, state)

	loaded := loadState(path)
	if !loaded["snapshot-2025.json:1234"] {
		t.Fatalf("state lost: %v", loaded)
	}
}

func TestLoadState_Missing(t *testing.T) {
	state := loadState(filepath.Join(t.TempDir(), "nope.json"))
	if state == nil || len(state) != 0 {
		t.Fatalf("expected empty state, got %v", state)
	}
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	os.WriteFile(path, []byte("{broken"), 0o644)

	state := loadState(path)
	if len(state) != 0 {
		t.Fatalf("expected empty state for corrupt file, got %v", state)
	}
}
