package domain

import (
	"errors"
	"testing"
)

func TestRecordGet_DotPath(t *testing.T) {
	rec := Record{
		"fuel_economy": map[string]any{
			"combined_kml": 15.3,
			"nested":       map[string]any{"deep": "x"},
		},
		"flat": "y",
	}

	if v, ok := rec.Get("fuel_economy.combined_kml"); !ok || v != 15.3 {
		t.Errorf("expected 15.3, got %v, %v", v, ok)
	}
	if v, ok := rec.Get("fuel_economy.nested.deep"); !ok || v != "x" {
		t.Errorf("expected x, got %v, %v", v, ok)
	}
	if _, ok := rec.Get("fuel_economy.missing"); ok {
		t.Error("expected missing path to resolve false")
	}
	if _, ok := rec.Get("flat.not_an_object"); ok {
		t.Error("expected descent through non-object to resolve false")
	}
}

func TestRecordGet_NilRecord(t *testing.T) {
	var rec Record
	if _, ok := rec.Get("anything"); ok {
		t.Error("nil record must resolve nothing")
	}
	if s := rec.FirstText([]string{"a", "b"}); s != "" {
		t.Errorf("expected empty text, got %q", s)
	}
	if _, ok := rec.FirstPositive([]string{"a"}); ok {
		t.Error("expected no value from nil record")
	}
}

func TestFirstText_PriorityOrder(t *testing.T) {
	rec := Record{"marca": "Ford", "brand": "Ignored"}
	if got := rec.FirstText(MakeFields); got != "Ford" {
		t.Errorf("expected Ford (marca before brand), got %q", got)
	}

	rec = Record{"make": "  ", "marca": "Mazda"}
	if got := rec.FirstText(MakeFields); got != "Mazda" {
		t.Errorf("blank-valued alias must be skipped, got %q", got)
	}
}

func TestFirstPositive_SkipsNonPositive(t *testing.T) {
	rec := Record{
		"combinado_kml": 0,
		"kml_combinado": -4.0,
		"combined_kml":  "16,2",
	}
	got, ok := rec.FirstPositive(CombinedKmLFields)
	if !ok || got != 16.2 {
		t.Errorf("expected 16.2 skipping zero/negative aliases, got %v, %v", got, ok)
	}

	rec = Record{"combinado_kml": -1, "kml": 0}
	if _, ok := rec.FirstPositive(CombinedKmLFields); ok {
		t.Error("only non-positive candidates must yield no value")
	}
}

func TestFirstFlag(t *testing.T) {
	truthy := []Record{
		{"fallback_csv": true},
		{"fuente_fallback": "si"},
		{"is_fallback": 1},
		{"datos_estimados": "TRUE"},
	}
	for _, rec := range truthy {
		if !rec.FirstFlag(FallbackFlagFields) {
			t.Errorf("expected truthy flag for %v", rec)
		}
	}
	falsy := []Record{
		{},
		{"fallback_csv": false},
		{"fuente_fallback": "no"},
		{"is_fallback": 0},
	}
	for _, rec := range falsy {
		if rec.FirstFlag(FallbackFlagFields) {
			t.Errorf("expected falsy flag for %v", rec)
		}
	}
}

func TestDeltas(t *testing.T) {
	rec := Record{
		DeltaField: map[string]any{
			"equip_score": map[string]any{"delta": -10.0},
			"broken":      "not an object",
		},
	}
	d := rec.Deltas()
	if len(d) != 1 {
		t.Fatalf("expected 1 delta entry, got %d", len(d))
	}
	if v, ok := d["equip_score"].Get("delta"); !ok || v != -10.0 {
		t.Errorf("expected delta -10, got %v, %v", v, ok)
	}

	if d := (Record{}).Deltas(); d != nil {
		t.Errorf("expected nil deltas, got %v", d)
	}
}

func TestValidateComparison(t *testing.T) {
	base := Record{"make": "Ford"}
	comp := Record{"make": "Toyota"}

	if err := ValidateComparison(base, []Record{comp}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := ValidateComparison(nil, []Record{comp}); !errors.Is(err, ErrNoBaseRecord) {
		t.Errorf("expected ErrNoBaseRecord, got %v", err)
	}
	if err := ValidateComparison(base, nil); !errors.Is(err, ErrNoCompetitors) {
		t.Errorf("expected ErrNoCompetitors, got %v", err)
	}
	many := make([]Record, MaxCompetitors+1)
	for i := range many {
		many[i] = comp
	}
	if err := ValidateComparison(base, many); !errors.Is(err, ErrTooManyCompetitors) {
		t.Errorf("expected ErrTooManyCompetitors, got %v", err)
	}
}
