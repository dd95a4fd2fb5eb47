package normalize

import (
	"strings"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
)

// fuelRule is one ordered substring test: the first rule with a matching
// token decides the category.
type fuelRule struct {
	category domain.FuelCategory
	tokens   []string
}

// fuelRules are applied in order against the folded descriptor text.
// Plug-in tokens are tested before electric ones so that descriptors like
// "hibrido electrico enchufable" classify as PHEV rather than full
// electric; mild-hybrid is tested before hybrid because "mhev" contains
// "hev".
var fuelRules = []fuelRule{
	{domain.FuelPlugInHybrid, []string{"phev", "plug-in", "plug in", "enchufable", "conectable"}},
	{domain.FuelElectric, []string{"bev", "electr"}},
	{domain.FuelMildHybrid, []string{"mhev", "mild"}},
	{domain.FuelHybrid, []string{"hev", "hybrid", "hibrid"}},
	{domain.FuelDiesel, []string{"diesel", "dsl"}},
	{domain.FuelPremiumGas, []string{"premium"}},
	// "Magna" is PEMEX's regular-grade naming.
	{domain.FuelRegularGas, []string{"magna", "gasolina", "gasoline", "petrol", "nafta"}},
}

// ClassifyFuel maps a record's free-text propulsion descriptor into a closed
// category. The first non-empty descriptor field wins; matching is
// case- and diacritic-insensitive. An empty or known-invalid descriptor
// defaults to regular gasoline: in this market, absence of the field
// overwhelmingly means a gasoline combustion vehicle. Only text that is
// present but matches nothing classifies as unknown.
func ClassifyFuel(rec domain.Record) domain.FuelInfo {
	raw := rec.FirstText(domain.FuelDescriptorFields)
	txt := fold(raw)

	if txt == "" || domain.InvalidDescriptorTokens[txt] {
		return fuelInfo(domain.FuelRegularGas, raw)
	}
	for _, rule := range fuelRules {
		for _, tok := range rule.tokens {
			if strings.Contains(txt, tok) {
				return fuelInfo(rule.category, raw)
			}
		}
	}
	return fuelInfo(domain.FuelUnknown, raw)
}

func fuelInfo(cat domain.FuelCategory, raw string) domain.FuelInfo {
	return domain.FuelInfo{Category: cat, Label: cat.Label(), Raw: raw}
}
