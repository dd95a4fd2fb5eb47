package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Fayuquero09/cortex-automotriz/pkg/fn"
)

func testClient(url string) *Client {
	c := New(Opts{BaseURL: url, Timeout: 5 * time.Second})
	c.retry = fn.RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	return c
}

func TestMakes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/makes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]string{"Ford", "Toyota", "BYD"})
	}))
	defer srv.Close()

	makes, err := testClient(srv.URL).Makes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(makes) != 3 || makes[2] != "BYD" {
		t.Fatalf("unexpected makes: %v", makes)
	}
}

func TestVersionsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("make") != "Ford" || r.URL.Query().Get("model") != "Territory" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"make": "Ford", "model": "Territory", "version": "Titanium", "ano": 2025},
		})
	}))
	defer srv.Close()

	recs, err := testClient(srv.URL).Versions(context.Background(), "Ford", "Territory")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if v := recs[0].FirstText([]string{"version"}); v != "Titanium" {
		t.Fatalf("unexpected version: %q", v)
	}
}

func TestAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode([]string{})
	}))
	defer srv.Close()

	c := New(Opts{BaseURL: srv.URL, APIKey: "secret"})
	c.retry = fn.RetryOpts{MaxAttempts: 1, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	if _, err := c.Makes(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]string{"Ford"})
	}))
	defer srv.Close()

	makes, err := testClient(srv.URL).Makes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(makes) != 1 {
		t.Fatalf("unexpected makes: %v", makes)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestPersistentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Makes(context.Background()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestVersionByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/versions/ford-territory-titanium-2025" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"make": "Ford", "equip_score": 80.0})
	}))
	defer srv.Close()

	rec, err := testClient(srv.URL).Version(context.Background(), "ford-territory-titanium-2025")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := rec.FirstNumber([]string{"equip_score"}); !ok || n != 80 {
		t.Fatalf("unexpected record: %v", rec)
	}
}
