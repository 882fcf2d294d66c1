package match

import (
	"math"
	"testing"

	"github.com/shopsync/shopsync/models"
)

func TestAggregateMatchedFirstWithUniqueIDs(t *testing.T) {
	t.Parallel()
	ap, fp := 70000, 69500
	res := Result{
		Pairs: []Pair{{
			Amazon:   models.RawListing{Retailer: models.RetailerAmazon, Title: "iPhone 15 128GB", Price: &ap, ProductURL: "https://amazon.in/x"},
			Flipkart: models.RawListing{Retailer: models.RetailerFlipkart, Title: "Apple iPhone 15 (128GB)", Price: &fp, ProductURL: "https://flipkart.com/y"},
			Score:    0.8,
		}},
		UnmatchedAmazon:   []models.RawListing{{Retailer: models.RetailerAmazon, Title: "iPhone 14"}},
		UnmatchedFlipkart: []models.RawListing{{Retailer: models.RetailerFlipkart, Title: "Pixel 8a"}},
	}

	products := Aggregate(res, DefaultConfig())
	if len(products) != 3 {
		t.Fatalf("every listing maps to exactly one product, got %d", len(products))
	}
	if !products[0].HasComparison || products[1].HasComparison || products[2].HasComparison {
		t.Fatalf("only the merged pair has a comparison")
	}
	for i, p := range products {
		if want := string(rune('1' + i)); p.ID != want {
			t.Fatalf("product %d has id %q, want %q", i, p.ID, want)
		}
	}
}

func TestMergePairKeepsBothPrices(t *testing.T) {
	t.Parallel()
	ap, fp := 70000, 69500
	ar, fr := 4.6, 4.2
	p := mergePair(Pair{
		Amazon:   models.RawListing{Retailer: models.RetailerAmazon, Title: "iPhone 15 128GB", Price: &ap, Rating: &ar, IsPrime: true},
		Flipkart: models.RawListing{Retailer: models.RetailerFlipkart, Title: "Apple iPhone 15 (128GB) - Blue", Price: &fp, Rating: &fr},
	}, models.RetailerAmazon)

	if p.AmazonPrice == nil || *p.AmazonPrice != ap {
		t.Fatalf("amazon price lost")
	}
	if p.FlipkartPrice == nil || *p.FlipkartPrice != fp {
		t.Fatalf("flipkart price lost")
	}
	if v, ok := p.MinPrice(); !ok || v != fp {
		t.Fatalf("MinPrice = %d, want %d", v, fp)
	}
	if p.Title != "Apple iPhone 15 (128GB) - Blue" {
		t.Fatalf("longer title must win, got %q", p.Title)
	}
	if p.Rating == nil || math.Abs(*p.Rating-4.4) > 1e-9 {
		t.Fatalf("ratings must average, got %v", p.Rating)
	}
	if !p.IsPrime {
		t.Fatalf("prime flag comes from the amazon listing")
	}
}

func TestMergePairTitleTieGoesToPreferredRetailer(t *testing.T) {
	t.Parallel()
	pair := Pair{
		Amazon:   models.RawListing{Retailer: models.RetailerAmazon, Title: "Pixel 8a A"},
		Flipkart: models.RawListing{Retailer: models.RetailerFlipkart, Title: "Pixel 8a B"},
	}
	if got := mergePair(pair, models.RetailerAmazon); got.Title != "Pixel 8a A" {
		t.Fatalf("tie should prefer amazon, got %q", got.Title)
	}
	if got := mergePair(pair, models.RetailerFlipkart); got.Title != "Pixel 8a B" {
		t.Fatalf("tie should prefer flipkart, got %q", got.Title)
	}
}

func TestSortProductsPriceAscSinksPriceless(t *testing.T) {
	t.Parallel()
	p1, p2 := 500, 300
	products := []models.Product{
		{ID: "1", Title: "a", AmazonPrice: &p1},
		{ID: "2", Title: "b"},
		{ID: "3", Title: "c", FlipkartPrice: &p2},
	}
	SortProducts(products, SortPriceAsc)
	if products[0].Title != "c" || products[1].Title != "a" || products[2].Title != "b" {
		t.Fatalf("wrong order: %q, %q, %q", products[0].Title, products[1].Title, products[2].Title)
	}
	for i, p := range products {
		if want := string(rune('1' + i)); p.ID != want {
			t.Fatalf("ids must be reassigned after sorting, got %q at %d", p.ID, i)
		}
	}
}

func TestSortProductsRelevanceKeepsOrder(t *testing.T) {
	t.Parallel()
	p1, p2 := 500, 300
	products := []models.Product{
		{ID: "1", Title: "a", AmazonPrice: &p1},
		{ID: "2", Title: "b", FlipkartPrice: &p2},
	}
	SortProducts(products, SortRelevance)
	if products[0].Title != "a" || products[1].Title != "b" {
		t.Fatalf("relevance must keep matched-first order")
	}
}
