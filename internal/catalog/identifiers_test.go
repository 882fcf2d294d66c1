package catalog

import "testing"

func has(t *testing.T, ids map[string]struct{}, want ...string) {
	t.Helper()
	for _, w := range want {
		if _, ok := ids[w]; !ok {
			t.Fatalf("identifiers missing %q, got %v", w, ids)
		}
	}
}

func TestExtractIdentifiersPhone(t *testing.T) {
	t.Parallel()
	ids := ExtractIdentifiers("Apple iPhone 15 Pro Max (256GB) - Natural Titanium")
	has(t, ids, "apple", "iphone", "256gb", "pro", "max", "iphone15pro")
}

func TestExtractIdentifiersCmConvertsToInches(t *testing.T) {
	t.Parallel()
	// 139 cm / 2.54 rounds to 55.
	ids := ExtractIdentifiers("Sony Bravia 139 cm (55 inches) 4K Ultra HD Smart LED Google TV")
	has(t, ids, "sony", "55inch", "4k", "ultrahd", "led", "googletv")
}

func TestExtractIdentifiersEmptyTitle(t *testing.T) {
	t.Parallel()
	if ids := ExtractIdentifiers(""); len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestIntersect(t *testing.T) {
	t.Parallel()
	a := ExtractIdentifiers("Samsung Galaxy S24 Ultra 256GB")
	b := ExtractIdentifiers("Samsung Galaxy S24 Ultra 5G (256GB, Titanium Gray)")
	got := Intersect(a, b)
	has(t, got, "samsung", "ultra", "256gb")
	if len(Intersect(a, map[string]struct{}{})) != 0 {
		t.Fatalf("intersection with empty set must be empty")
	}
}
