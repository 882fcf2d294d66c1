package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/shopsync/shopsync/config"
	"github.com/shopsync/shopsync/models"
)

type fakeCache struct {
	data map[string][]models.RawListing
	puts int
}

func (f *fakeCache) Get(_ context.Context, retailer models.Retailer, query string) ([]models.RawListing, bool) {
	l, ok := f.data[string(retailer)+":"+CacheKeyQuery(query)]
	return l, ok
}

func (f *fakeCache) Put(_ context.Context, retailer models.Retailer, query string, listings []models.RawListing) {
	f.puts++
}

func TestSearchServesBothRetailersFromCache(t *testing.T) {
	t.Parallel()
	price := 69900
	cache := &fakeCache{data: map[string][]models.RawListing{
		"amazon:iphone 15":   {{Retailer: models.RetailerAmazon, Title: "iPhone 15 128GB", Price: &price}},
		"flipkart:iphone 15": {{Retailer: models.RetailerFlipkart, Title: "Apple iPhone 15 (128GB)", Price: &price}},
	}}
	s := New(config.ScrapeConfig{Timeout: time.Second}, cache)

	amazon, flipkart, err := s.Search(context.Background(), "iPhone 15")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(amazon) != 1 || len(flipkart) != 1 {
		t.Fatalf("expected one cached listing per retailer, got %d/%d", len(amazon), len(flipkart))
	}
	if amazon[0].Retailer != models.RetailerAmazon || flipkart[0].Retailer != models.RetailerFlipkart {
		t.Fatalf("retailer lists crossed: %+v / %+v", amazon[0], flipkart[0])
	}
	if cache.puts != 0 {
		t.Fatalf("cache hits must not be re-stored, got %d puts", cache.puts)
	}
}
