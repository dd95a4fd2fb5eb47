// Package graph stores the vehicle catalog as a Neo4j graph of
// Make, VehicleModel, and Version nodes.
package graph

// Make represents a vehicle manufacturer.
type Make struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VehicleModel represents a specific model produced by a make.
type VehicleModel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	MakeID string `json:"make_id"`
}

// Version represents a concrete trim/version of a model for a given year,
// carrying the normalized fuel and consumption figures plus KPI scores.
type Version struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ModelID   string             `json:"model_id"`
	Make      string             `json:"make"`
	Model     string             `json:"model"`
	Year      int                `json:"year"`
	Fuel      string             `json:"fuel"`
	FuelLabel string             `json:"fuel_label"`
	KWhPer100 float64            `json:"kwh_per_100,omitempty"`
	KmPerL    float64            `json:"km_per_l,omitempty"`
	LPer100   float64            `json:"l_per_100,omitempty"`
	Scores    map[string]float64 `json:"scores"`
}

// versionToMap flattens a Version into Neo4j node properties. KPI scores are
// prefixed so they can be recovered generically on read.
func versionToMap(v Version) map[string]any {
	m := map[string]any{
		"id":          v.ID,
		"name":        v.Name,
		"model_id":    v.ModelID,
		"make":        v.Make,
		"model":       v.Model,
		"year":        v.Year,
		"fuel":        v.Fuel,
		"fuel_label":  v.FuelLabel,
		"kwh_per_100": v.KWhPer100,
		"km_per_l":    v.KmPerL,
		"l_per_100":   v.LPer100,
	}
	for k, s := range v.Scores {
		m["score_"+k] = s
	}
	return m
}

// versionFromProps reconstructs a Version from node properties.
func versionFromProps(props map[string]any) Version {
	v := Version{
		ID:        strProp(props, "id"),
		Name:      strProp(props, "name"),
		ModelID:   strProp(props, "model_id"),
		Make:      strProp(props, "make"),
		Model:     strProp(props, "model"),
		Year:      intProp(props, "year"),
		Fuel:      strProp(props, "fuel"),
		FuelLabel: strProp(props, "fuel_label"),
		KWhPer100: floatProp(props, "kwh_per_100"),
		KmPerL:    floatProp(props, "km_per_l"),
		LPer100:   floatProp(props, "l_per_100"),
		Scores:    make(map[string]float64),
	}
	for k, raw := range props {
		if len(k) > 6 && k[:6] == "score_" {
			if f, ok := toFloat(raw); ok {
				v.Scores[k[6:]] = f
			}
		}
	}
	return v
}

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intProp(props map[string]any, key string) int {
	if f, ok := toFloat(props[key]); ok {
		return int(f)
	}
	return 0
}

func floatProp(props map[string]any, key string) float64 {
	f, _ := toFloat(props[key])
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
