// Package domain defines the core types, category sets, and field-alias
// tables for the Cortex comparison engine. Records arrive from upstream
// catalog feeds with inconsistent shapes; everything downstream works
// against the canonical forms defined here. It acts as the shape gate at
// pipeline entry points.
package domain

// FuelCategory classifies a vehicle's propulsion into a closed set.
type FuelCategory string

const (
	FuelElectric     FuelCategory = "full-electric"
	FuelPlugInHybrid FuelCategory = "plug-in-hybrid"
	FuelMildHybrid   FuelCategory = "mild-hybrid"
	FuelHybrid       FuelCategory = "hybrid"
	FuelDiesel       FuelCategory = "diesel"
	FuelPremiumGas   FuelCategory = "premium-gasoline"
	FuelRegularGas   FuelCategory = "regular-gasoline"
	FuelUnknown      FuelCategory = "unknown"
)

// FuelLabels maps each category to its display label.
var FuelLabels = map[FuelCategory]string{
	FuelElectric:     "Eléctrico",
	FuelPlugInHybrid: "Híbrido Enchufable (PHEV)",
	FuelMildHybrid:   "Mild Hybrid (MHEV)",
	FuelHybrid:       "Híbrido (HEV)",
	FuelDiesel:       "Diésel",
	FuelPremiumGas:   "Gasolina Premium",
	FuelRegularGas:   "Gasolina",
	FuelUnknown:      "N/D",
}

// IsElectric reports whether the category is normalized to kWh/100 km.
func (c FuelCategory) IsElectric() bool { return c == FuelElectric }

// Label returns the display label for the category.
func (c FuelCategory) Label() string {
	if l, ok := FuelLabels[c]; ok {
		return l
	}
	return FuelLabels[FuelUnknown]
}

// FuelInfo is the classification result for one record: the category, its
// display label, and the raw descriptor text the classification was based on.
type FuelInfo struct {
	Category FuelCategory `json:"category"`
	Label    string       `json:"label"`
	Raw      string       `json:"raw"`
}

// Consumption is a typed energy-consumption figure. Electric vehicles carry
// only KWhPer100; combustion vehicles carry KmPerL plus the derived LPer100.
// The two measures are never collapsed into one untagged number.
type Consumption struct {
	Available bool    `json:"available"`
	Electric  bool    `json:"electric"`
	KWhPer100 float64 `json:"kwh_100km,omitempty"`
	KmPerL    float64 `json:"kml,omitempty"`
	LPer100   float64 `json:"l_100km,omitempty"`
}

// NoConsumption is the "not available" result. Absence of consumption data
// is an expected state, not an error.
var NoConsumption = Consumption{}
