package scrape

import "testing"

func TestFixturesAreWellFormed(t *testing.T) {
	t.Parallel()
	products := Fixtures()
	if len(products) == 0 {
		t.Fatalf("fixtures must not be empty")
	}

	seen := make(map[string]bool)
	for i, p := range products {
		if p.ID == "" || seen[p.ID] {
			t.Fatalf("product %d has missing or duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if p.Title == "" {
			t.Fatalf("product %d has no title", i)
		}
		if _, ok := p.MinPrice(); !ok {
			t.Fatalf("fixture %q has no price at all", p.Title)
		}
		if p.HasComparison != p.Matched() {
			t.Fatalf("fixture %q has_comparison disagrees with its prices", p.Title)
		}
	}
}
