package normalize

import (
	"strconv"
	"strings"

	"github.com/Fayuquero09/cortex-automotriz/engine/domain"
)

// fallbackMarker is appended to the brand token when the record's values
// came from the lower-confidence CSV fallback feed.
const fallbackMarker = "*"

// BrandLabel returns the record's brand token, with the fallback marker
// appended when provenance flags indicate estimated data. Empty when the
// record carries no make field.
func BrandLabel(rec domain.Record) string {
	brand := rec.FirstText(domain.MakeFields)
	if brand == "" {
		return ""
	}
	if rec.FirstFlag(domain.FallbackFlagFields) {
		brand += fallbackMarker
	}
	return brand
}

// VehicleLabel composes the full display label "Make Model – Version (Year)".
// A version object's name takes priority over a flat version string, per the
// alias tables. Missing components are omitted without leaving stray
// separators; a record with nothing usable yields "".
func VehicleLabel(rec domain.Record) string {
	head := strings.TrimSpace(BrandLabel(rec) + " " + rec.FirstText(domain.ModelFields))

	if version := rec.FirstText(domain.VersionFields); version != "" {
		if head != "" {
			head += " – " + version
		} else {
			head = version
		}
	}
	if year := yearText(rec); year != "" {
		if head != "" {
			head += " (" + year + ")"
		} else {
			head = year
		}
	}
	return head
}

// yearText resolves the model year from a direct field or the nested
// version object, rejecting implausible values.
func yearText(rec domain.Record) string {
	y, ok := rec.FirstNumber(domain.YearFields)
	if !ok {
		return ""
	}
	year := int(y)
	if year < 1900 || year > 2100 {
		return ""
	}
	return strconv.Itoa(year)
}
