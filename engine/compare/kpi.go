// Package compare turns precomputed per-KPI deltas between a base vehicle
// and its competitors into advantage sections ready for chart rendering.
package compare

import (
	"fmt"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
)

// KPI is one comparable score: its record field name, display label, unit
// suffix, and decimal precision for value formatting.
type KPI struct {
	Field     string
	Label     string
	Unit      string
	Precision int
}

// KPITable is the fixed, ordered list of comparable scores. Row output
// preserves this order; it is never re-sorted by magnitude.
var KPITable = []KPI{
	{"equip_score", "Score de equipamiento", "pts", 1},
	{"infotainment_score", "Infoentretenimiento", "pts", 1},
	{"comfort_score", "Confort y conveniencia", "pts", 1},
	{"climate_score", "Climatización", "pts", 1},
	{"adas_score", "Asistencias a la conducción (ADAS)", "pts", 1},
	{"safety_score", "Seguridad", "pts", 1},
	{"warranty_score", "Cobertura de garantía", "pts", 1},
	{"offroad_score", "Capacidad off-road", "pts", 1},
	{"lighting_score", "Iluminación", "pts", 1},
}

// FormatValue renders a record's raw score for this KPI, or "N/D" when the
// field is absent or non-numeric.
func (k KPI) FormatValue(rec domain.Record) string {
	v, ok := rec.FirstNumber([]string{k.Field})
	if !ok {
		return "N/D"
	}
	if k.Unit == "" {
		return fmt.Sprintf("%.*f", k.Precision, v)
	}
	return fmt.Sprintf("%.*f %s", k.Precision, v, k.Unit)
}
