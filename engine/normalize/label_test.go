package normalize

import (
	"testing"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
)

func TestVehicleLabel_Full(t *testing.T) {
	rec := domain.Record{
		"make":         "Ford",
		"model":        "Territory",
		"version":      "Titanium",
		"year":         2025,
		"fallback_csv": true,
	}
	if got := BrandLabel(rec); got != "Ford*" {
		t.Errorf("BrandLabel = %q; want Ford*", got)
	}
	want := "Ford* Territory – Titanium (2025)"
	if got := VehicleLabel(rec); got != want {
		t.Errorf("VehicleLabel = %q; want %q", got, want)
	}
}

func TestVehicleLabel_NoFallbackMarker(t *testing.T) {
	rec := domain.Record{"make": "Mazda", "model": "CX-5"}
	if got := BrandLabel(rec); got != "Mazda" {
		t.Errorf("BrandLabel = %q; want Mazda", got)
	}
	if got := VehicleLabel(rec); got != "Mazda CX-5" {
		t.Errorf("VehicleLabel = %q; want Mazda CX-5", got)
	}
}

func TestVehicleLabel_VersionObjectPriority(t *testing.T) {
	rec := domain.Record{
		"marca":  "Nissan",
		"modelo": "Versa",
		"version": map[string]any{
			"name": "Advance",
			"year": "2024",
		},
	}
	want := "Nissan Versa – Advance (2024)"
	if got := VehicleLabel(rec); got != want {
		t.Errorf("VehicleLabel = %q; want %q", got, want)
	}
}

func TestVehicleLabel_MissingComponents(t *testing.T) {
	cases := []struct {
		rec  domain.Record
		want string
	}{
		{domain.Record{"model": "Territory", "version": "Titanium"}, "Territory – Titanium"},
		{domain.Record{"make": "Ford", "year": 2025}, "Ford (2025)"},
		{domain.Record{"version": "Titanium"}, "Titanium"},
		{domain.Record{}, ""},
		{nil, ""},
	}
	for _, c := range cases {
		if got := VehicleLabel(c.rec); got != c.want {
			t.Errorf("VehicleLabel(%v) = %q; want %q", c.rec, got, c.want)
		}
	}
}

func TestYearText_Implausible(t *testing.T) {
	cases := []domain.Record{
		{"make": "Ford", "year": 12},
		{"make": "Ford", "year": 9999},
		{"make": "Ford", "year": "sin dato"},
	}
	for _, rec := range cases {
		if got := VehicleLabel(rec); got != "Ford" {
			t.Errorf("VehicleLabel(%v) = %q; want Ford (year dropped)", rec, got)
		}
	}
}
