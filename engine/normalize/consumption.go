package normalize

import (
	"fmt"
	"math"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
)

// ConsumptionInfo classifies the record's propulsion and resolves its
// canonical consumption figure: kWh/100 km for electric vehicles, km/L
// (with derived L/100 km) for everything else. Returns NoConsumption when
// no candidate field yields a strictly positive number.
func ConsumptionInfo(rec domain.Record) domain.Consumption {
	return ConsumptionFor(rec, ClassifyFuel(rec).Category)
}

// ConsumptionFor resolves consumption for a record whose propulsion category
// is already known.
func ConsumptionFor(rec domain.Record, cat domain.FuelCategory) domain.Consumption {
	if cat.IsElectric() {
		return electricConsumption(rec)
	}
	return combustionConsumption(rec)
}

// electricConsumption walks the electric alias cascade: direct kWh/100 km
// fields, per-km fields (×100), the nested fuel-economy object, and finally
// the battery-capacity ÷ range derivation.
func electricConsumption(rec domain.Record) domain.Consumption {
	if v, ok := rec.FirstPositive(domain.ElectricKWh100Fields); ok {
		return electricValue(v)
	}
	if v, ok := rec.FirstPositive(domain.ElectricKWhPerKmFields); ok {
		return electricValue(v * 100)
	}
	if v, ok := rec.FirstPositive(domain.ElectricNestedKWh100Paths); ok {
		return electricValue(v)
	}
	if v, ok := rec.FirstPositive(domain.ElectricNestedKWhPerKmPaths); ok {
		return electricValue(v * 100)
	}
	for _, pair := range domain.BatteryRangePairs {
		battery, ok := rec.Positive(pair[0])
		if !ok {
			continue
		}
		rng, ok := rec.Positive(pair[1])
		if !ok {
			continue
		}
		if v := battery / rng * 100; v > 0 && !math.IsInf(v, 0) {
			return electricValue(v)
		}
	}
	return domain.NoConsumption
}

// combustionConsumption walks the combustion alias cascade: direct combined
// km/L fields, nested fuel-economy paths, the nested object's generic
// combined/average sub-fields, then L/100 km fields converted via 100/v.
func combustionConsumption(rec domain.Record) domain.Consumption {
	if v, ok := rec.FirstPositive(domain.CombinedKmLFields); ok {
		return combustionValue(v)
	}
	if v, ok := rec.FirstPositive(domain.CombustionNestedKmLPaths); ok {
		return combustionValue(v)
	}
	if v, ok := rec.FirstPositive(domain.CombustionNestedGenericPaths); ok {
		return combustionValue(v)
	}
	if v, ok := rec.FirstPositive(domain.CombinedL100Fields); ok {
		return combustionValue(100 / v)
	}
	if v, ok := rec.FirstPositive(domain.CombustionNestedL100Paths); ok {
		return combustionValue(100 / v)
	}
	return domain.NoConsumption
}

func electricValue(kwh100 float64) domain.Consumption {
	return domain.Consumption{Available: true, Electric: true, KWhPer100: kwh100}
}

func combustionValue(kml float64) domain.Consumption {
	c := domain.Consumption{Available: true, KmPerL: kml}
	if l100 := 100 / kml; kml > 0 && !math.IsInf(l100, 0) && !math.IsNaN(l100) {
		c.LPer100 = math.Round(l100*1000) / 1000
	}
	return c
}

// FormatConsumption renders a consumption figure for display:
// "18.4 kWh/100 km", "15.3 km/L • 6.5 L/100 km", or "N/D" when absent.
func FormatConsumption(c domain.Consumption) string {
	switch {
	case !c.Available:
		return "N/D"
	case c.Electric:
		return fmt.Sprintf("%.1f kWh/100 km", c.KWhPer100)
	case c.LPer100 > 0:
		return fmt.Sprintf("%.1f km/L • %.1f L/100 km", c.KmPerL, c.LPer100)
	default:
		return fmt.Sprintf("%.1f km/L", c.KmPerL)
	}
}
