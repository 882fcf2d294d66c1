// Package compare restructures the spec maps of selected products into
// a presentation-ready comparison table. It never invents or infers a
// value: the output is exactly the given maps, reordered.
package compare

import (
	"strings"

	"github.com/shopsync/shopsync/models"
)

// priorityKeys is the canonical spec-name order shown first in the
// comparison table. Matching is case-insensitive against product keys.
var priorityKeys = []string{
	"brand",
	"model",
	"model name",
	"ram",
	"storage",
	"display",
	"battery",
	"processor",
	"os",
	"operating system",
	"camera",
	"weight",
	"warranty",
	"highlights",
	"description",
}

// specKeys returns a product's spec keys in scrape order, falling back
// to map iteration order only when SpecKeys was not populated.
func specKeys(p models.Product) []string {
	if len(p.SpecKeys) > 0 {
		return p.SpecKeys
	}
	keys := make([]string, 0, len(p.Specs))
	for k := range p.Specs {
		keys = append(keys, k)
	}
	return keys
}

// BuildRows produces one ComparisonRow per spec key present in any
// product. Priority keys come first in priority order; remaining keys
// follow in first-seen order across products. Missing values render as
// the sentinel and are excluded from the Differs computation.
func BuildRows(products []models.Product) []models.ComparisonRow {
	// Map lower-cased key -> label as first seen, preserving order.
	var order []string
	labels := make(map[string]string)

	add := func(key string) {
		lower := strings.ToLower(strings.TrimSpace(key))
		if lower == "" {
			return
		}
		if _, seen := labels[lower]; !seen {
			labels[lower] = strings.TrimSpace(key)
			order = append(order, lower)
		}
	}

	lookup := func(p models.Product, lower string) (string, bool) {
		for _, k := range specKeys(p) {
			if strings.ToLower(strings.TrimSpace(k)) == lower {
				v := strings.TrimSpace(p.Specs[k])
				return v, v != ""
			}
		}
		return "", false
	}

	for _, pk := range priorityKeys {
		for _, p := range products {
			if _, ok := lookup(p, pk); ok {
				add(pk)
				break
			}
		}
	}
	for _, p := range products {
		for _, k := range specKeys(p) {
			if strings.TrimSpace(p.Specs[k]) != "" {
				add(k)
			}
		}
	}

	rows := make([]models.ComparisonRow, 0, len(order))
	for _, lower := range order {
		row := models.ComparisonRow{Key: displayLabel(products, lower)}
		var present []string
		for _, p := range products {
			v, ok := lookup(p, lower)
			if !ok {
				row.Values = append(row.Values, models.MissingValue)
				continue
			}
			row.Values = append(row.Values, v)
			present = append(present, normalizeValue(v))
		}
		row.Differs = differs(present)
		rows = append(rows, row)
	}
	return rows
}

// displayLabel prefers the casing a product actually used for the key;
// priority keys that only matched case-insensitively keep the product's
// original label.
func displayLabel(products []models.Product, lower string) string {
	for _, p := range products {
		for _, k := range specKeys(p) {
			if strings.ToLower(strings.TrimSpace(k)) == lower {
				return strings.TrimSpace(k)
			}
		}
	}
	return lower
}

// normalizeValue lower-cases, trims and collapses whitespace so that
// "8 GB" and "8gb " compare equal.
func normalizeValue(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), "")
}

// differs reports whether at least two present values disagree. Fewer
// than two present values never differ.
func differs(present []string) bool {
	if len(present) < 2 {
		return false
	}
	first := present[0]
	for _, v := range present[1:] {
		if v != first {
			return true
		}
	}
	return false
}
