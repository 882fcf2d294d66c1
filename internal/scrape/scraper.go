package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopsync/shopsync/config"
	"github.com/shopsync/shopsync/internal/telemetry"
	"github.com/shopsync/shopsync/models"
)

// ListingCache caches normalized search listings per (retailer, query).
// Implementations treat failures as misses; the scraper never depends on
// the cache being up.
type ListingCache interface {
	Get(ctx context.Context, retailer models.Retailer, query string) ([]models.RawListing, bool)
	Put(ctx context.Context, retailer models.Retailer, query string, listings []models.RawListing)
}

// Scraper fetches search results and product details from both
// retailers. Stateless per request; safe for concurrent use.
type Scraper struct {
	cfg    config.ScrapeConfig
	cache  ListingCache // nil disables caching
	logger *log.Logger
}

// New builds a Scraper. cache may be nil.
func New(cfg config.ScrapeConfig, cache ListingCache) *Scraper {
	return &Scraper{
		cfg:    cfg,
		cache:  cache,
		logger: log.New(log.Writer(), "[SCRAPER] ", log.LstdFlags),
	}
}

// Search scrapes both retailers concurrently and waits for both before
// returning (the matcher needs the full pair of lists). One retailer
// failing yields the other's listings alone; the returned error is
// non-nil only when both retailers produced nothing.
func (s *Scraper) Search(ctx context.Context, query string) (amazon, flipkart []models.RawListing, err error) {
	var wg sync.WaitGroup
	var errA, errF error

	wg.Add(2)
	go func() {
		defer wg.Done()
		amazon, errA = s.searchRetailer(ctx, models.RetailerAmazon, query)
	}()
	go func() {
		defer wg.Done()
		flipkart, errF = s.searchRetailer(ctx, models.RetailerFlipkart, query)
	}()
	wg.Wait()

	if errA != nil {
		s.logger.Printf("amazon search failed: %v", errA)
	}
	if errF != nil {
		s.logger.Printf("flipkart search failed: %v", errF)
	}
	if len(amazon) == 0 && len(flipkart) == 0 && (errA != nil || errF != nil) {
		return nil, nil, fmt.Errorf("both retailers unreachable: amazon=%v flipkart=%v", errA, errF)
	}
	return amazon, flipkart, nil
}

func (s *Scraper) searchRetailer(ctx context.Context, retailer models.Retailer, query string) ([]models.RawListing, error) {
	if s.cache != nil {
		if listings, ok := s.cache.Get(ctx, retailer, query); ok {
			s.logger.Printf("%s: cache hit for %q (%d listings)", retailer, query, len(listings))
			return listings, nil
		}
	}

	var pageURL string
	switch retailer {
	case models.RetailerAmazon:
		pageURL = amazonBase + "/s?k=" + url.QueryEscape(query)
	case models.RetailerFlipkart:
		pageURL = flipkartBase + "/search?q=" + url.QueryEscape(query)
	default:
		return nil, fmt.Errorf("unknown retailer %q", retailer)
	}

	start := time.Now()
	html, err := fetchHTML(ctx, pageURL, s.cfg.UserAgent, s.cfg.ScrollPasses, s.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	var listings []models.RawListing
	switch retailer {
	case models.RetailerAmazon:
		listings, err = ParseAmazonSearch(html, s.cfg.MaxResults)
	case models.RetailerFlipkart:
		listings, err = ParseFlipkartSearch(html, s.cfg.MaxResults)
	}
	if err != nil {
		return nil, err
	}
	telemetry.ObserveScrape(string(retailer), time.Since(start))
	s.logger.Printf("%s: found %d listings for %q", retailer, len(listings), query)

	if s.cache != nil && len(listings) > 0 {
		s.cache.Put(ctx, retailer, query, listings)
	}
	return listings, nil
}

// Details scrapes the detail pages behind a product's retailer links and
// merges their spec tables, Amazon values winning on key collisions.
// Partial failures return whatever was fetched; a product whose fetches
// all fail gets empty specs, never an error.
func (s *Scraper) Details(ctx context.Context, product models.Product) (map[string]string, []string) {
	type page struct {
		specs map[string]string
		keys  []string
	}
	var amazonPage, flipkartPage page
	var wg sync.WaitGroup

	fetch := func(link string, parse func(string) (map[string]string, []string, error), out *page) {
		defer wg.Done()
		html, err := fetchHTML(ctx, link, s.cfg.UserAgent, 0, s.cfg.DetailTimeout)
		if err != nil {
			s.logger.Printf("detail fetch failed for %s: %v", link, err)
			return
		}
		specs, keys, err := parse(html)
		if err != nil {
			s.logger.Printf("detail parse failed for %s: %v", link, err)
			return
		}
		out.specs, out.keys = specs, keys
	}

	if product.AmazonLink != nil && *product.AmazonLink != "" {
		wg.Add(1)
		go fetch(*product.AmazonLink, ParseAmazonSpecs, &amazonPage)
	}
	if product.FlipkartLink != nil && *product.FlipkartLink != "" {
		wg.Add(1)
		go fetch(*product.FlipkartLink, ParseFlipkartSpecs, &flipkartPage)
	}
	wg.Wait()

	return MergeSpecs(flipkartPage.specs, flipkartPage.keys, amazonPage.specs, amazonPage.keys)
}

// MergeSpecs overlays primary onto base: base keys keep their order,
// primary overrides colliding values and appends its unique keys.
func MergeSpecs(base map[string]string, baseKeys []string, primary map[string]string, primaryKeys []string) (map[string]string, []string) {
	merged := make(map[string]string, len(base)+len(primary))
	var keys []string
	for _, k := range baseKeys {
		merged[k] = base[k]
		keys = append(keys, k)
	}
	for _, k := range primaryKeys {
		if _, seen := merged[k]; !seen {
			keys = append(keys, k)
		}
		merged[k] = primary[k]
	}
	return merged, keys
}

// CacheKeyQuery canonicalizes a query for cache keying.
func CacheKeyQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
