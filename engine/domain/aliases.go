package domain

// Field-alias tables. Upstream data is stitched together from a catalog API
// and a CSV fallback feed with inconsistent naming, so every attribute is
// resolved through an ordered alias list: most specific and most trusted
// source field first. Schema drift upstream is a data change here, not a
// code change.

// DeltaField is the record key under which the upstream comparison
// computation attaches per-KPI deltas for a competitor record.
const DeltaField = "__deltas"

// FuelDescriptorFields are the free-text propulsion descriptor fields, in
// priority order.
var FuelDescriptorFields = []string{
	"categoria_combustible",
	"tipo_combustible",
	"combustible",
	"fuel_type",
	"propulsion",
	"tren_motriz",
	"powertrain",
}

// Identity fields.
var (
	MakeFields    = []string{"make", "marca", "brand", "fabricante"}
	ModelFields   = []string{"model", "modelo"}
	VersionFields = []string{"version.name", "version", "trim", "version_name"}
	YearFields    = []string{"ano", "año", "anio", "year", "model_year", "version.year", "version.ano"}
)

// FallbackFlagFields mark records whose values came from the lower-confidence
// CSV fallback feed. Provenance affects label rendering only.
var FallbackFlagFields = []string{
	"fallback_csv",
	"fuente_fallback",
	"is_fallback",
	"datos_estimados",
}

// Electric consumption cascade, in priority order.
var (
	// Direct combined kWh/100 km.
	ElectricKWh100Fields = []string{
		"kwh_100km",
		"consumo_kwh_100km",
		"kwh_por_100km",
		"consumo_electrico_kwh_100km",
	}
	// Per-km kWh figures; multiplied by 100 on resolution.
	ElectricKWhPerKmFields = []string{
		"kwh_km",
		"kwh_por_km",
		"consumo_kwh_km",
	}
	// Nested fuel-economy object sub-fields, kWh/100 km then per-km.
	ElectricNestedKWh100Paths = []string{
		"fuel_economy.kwh_100km",
		"fuel_economy.combinedKwh100km",
		"rendimiento.kwh_100km",
	}
	ElectricNestedKWhPerKmPaths = []string{
		"fuel_economy.kwh_km",
		"rendimiento.kwh_km",
	}
	// Battery-capacity / electric-range alias pairs for the derived figure
	// capacity ÷ range × 100.
	BatteryRangePairs = [][2]string{
		{"battery_kwh", "electric_range_km"},
		{"capacidad_bateria_kwh", "autonomia_electrica_km"},
		{"battery_capacity_kwh", "range_km"},
		{"bateria_kwh", "autonomia_km"},
	}
)

// Combustion consumption cascade, in priority order.
var (
	// Direct combined km/L, covering "mixed"/"combined" naming and the
	// km/L vs km-L spellings seen across feeds.
	CombinedKmLFields = []string{
		"combinado_kml",
		"consumo_combinado_kml",
		"rendimiento_combinado_kml",
		"kml_combinado",
		"combined_kml",
		"km_por_litro_combinado",
		"consumo_mixto_kml",
		"kml",
		"km_l",
	}
	// Nested fuel-economy object paths, flat and camel-cased variants.
	CombustionNestedKmLPaths = []string{
		"fuel_economy.combined_kml",
		"fuel_economy.combinedKmL",
		"fuelEconomy.combinedKmL",
		"rendimiento.combinado_kml",
	}
	// Generic combined/average sub-fields of the nested object.
	CombustionNestedGenericPaths = []string{
		"fuel_economy.combined",
		"fuel_economy.average",
		"rendimiento.combinado",
		"rendimiento.promedio",
	}
	// Direct combined L/100 km; converted via 100/value.
	CombinedL100Fields = []string{
		"combinado_l_100km",
		"consumo_l_100km",
		"litros_100km",
		"l_100km",
		"combined_l_100km",
	}
	// Nested combined-L/100 km sub-fields; same conversion.
	CombustionNestedL100Paths = []string{
		"fuel_economy.combined_l_100km",
		"fuel_economy.l_100km",
		"rendimiento.l_100km",
	}
)

// InvalidDescriptorTokens is the set of normalized descriptor values that
// mean "no usable data". Records carrying one of these default to regular
// gasoline, the statistically dominant category in the market, rather than
// unknown.
var InvalidDescriptorTokens = map[string]bool{
	"no disponible": true,
	"n/a":           true,
	"na":            true,
	"n/d":           true,
	"nd":            true,
	"nan":           true,
	"null":          true,
	"-":             true,
	"--":            true,
	"otro":          true,
	"other":         true,
	"sin dato":      true,
	"sin datos":     true,
}
