package compare

import (
	"math"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
	"github.com/Fayuquero09/cortex-automotriz/pkg/fn"
)

// EnsureDeltas returns competitors with per-KPI deltas attached. Records
// that already carry deltas pass through unchanged; for the rest, deltas are
// computed as competitor − base over the KPI table, using only KPIs where
// both sides resolve to a finite number.
func EnsureDeltas(base domain.Record, competitors []domain.Record) []domain.Record {
	return fn.Map(competitors, func(comp domain.Record) domain.Record {
		if len(comp.Deltas()) > 0 {
			return comp
		}
		deltas := computeDeltas(base, comp)
		if len(deltas) == 0 {
			return comp
		}

		out := make(domain.Record, len(comp)+1)
		for k, v := range comp {
			out[k] = v
		}
		out[domain.DeltaField] = deltas
		return out
	})
}

func computeDeltas(base, comp domain.Record) map[string]any {
	deltas := make(map[string]any)
	for _, k := range KPITable {
		bv, ok := base.FirstNumber([]string{k.Field})
		if !ok {
			continue
		}
		cv, ok := comp.FirstNumber([]string{k.Field})
		if !ok {
			continue
		}
		d := cv - bv
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		deltas[k.Field] = map[string]any{"delta": d}
	}
	return deltas
}
