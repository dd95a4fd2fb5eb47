package compare

import (
	"math"
	"strings"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/engine/normalize"
	"github.com/Fayuquero09/cortex-automotriz/pkg/fn"
	"github.com/Fayuquero09/cortex-automotriz/pkg/numparse"
)

// Mode selects which side of the comparison to show.
type Mode string

const (
	// ModeUpsides selects KPIs where the base vehicle beats the
	// competitor (delta < 0, deltas being competitor − base).
	ModeUpsides Mode = "upsides"
	// ModeGaps selects KPIs where the competitor is ahead (delta > 0).
	ModeGaps Mode = "gaps"
)

// ParseMode resolves a request mode string, accepting the Spanish aliases
// the product UI sends.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upsides", "ventajas":
		return ModeUpsides, nil
	case "gaps", "brechas":
		return ModeGaps, nil
	}
	return "", domain.NewValidationError("mode", s, domain.ErrUnknownMode)
}

// Row is one KPI comparison outcome for a (base, competitor) pair. Delta
// keeps the true sign for color/prefix decisions; Magnitude is abs(delta)
// for bar length.
type Row struct {
	Field     string  `json:"field"`
	Label     string  `json:"label"`
	Delta     float64 `json:"delta"`
	Magnitude float64 `json:"magnitude"`
	OwnValue  string  `json:"own_value"`
	CompValue string  `json:"comp_value"`
}

// Section groups the qualifying rows for one competitor.
type Section struct {
	Competitor string `json:"competitor"`
	Brand      string `json:"brand"`
	Rows       []Row  `json:"rows"`
}

// Sections filters each competitor's per-KPI deltas down to the rows
// matching the requested mode. Zero and non-finite deltas never produce a
// row; competitors with no qualifying rows produce no section. Rows follow
// the KPI table order and sections follow competitor input order.
func Sections(base domain.Record, competitors []domain.Record, mode Mode) []Section {
	var out []Section
	for _, comp := range competitors {
		deltas := comp.Deltas()
		if len(deltas) == 0 {
			continue
		}
		rows := fn.FilterMap(KPITable, func(k KPI) (Row, bool) {
			return buildRow(k, base, comp, deltas, mode)
		})
		if len(rows) == 0 {
			continue
		}
		out = append(out, Section{
			Competitor: normalize.VehicleLabel(comp),
			Brand:      normalize.BrandLabel(comp),
			Rows:       rows,
		})
	}
	return out
}

func buildRow(k KPI, base, comp domain.Record, deltas map[string]domain.Record, mode Mode) (Row, bool) {
	entry, ok := deltas[k.Field]
	if !ok {
		return Row{}, false
	}
	raw, ok := entry.Get("delta")
	if !ok {
		return Row{}, false
	}
	delta, ok := numparse.Parse(raw)
	if !ok || delta == 0 {
		return Row{}, false
	}
	isUpside := delta < 0
	if (mode == ModeUpsides) != isUpside {
		return Row{}, false
	}
	return Row{
		Field:     k.Field,
		Label:     k.Label,
		Delta:     delta,
		Magnitude: math.Abs(delta),
		OwnValue:  k.FormatValue(base),
		CompValue: k.FormatValue(comp),
	}, true
}
