package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsync/shopsync/internal/catalog"
	"github.com/shopsync/shopsync/models"
)

const amazonBase = "https://www.amazon.in"

// ParseAmazonSearch extracts listings from an Amazon.in search results
// page. Listings without a parseable title and price are skipped; a bad
// record never fails the rest of the page.
func ParseAmazonSearch(html string, maxResults int) ([]models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var listings []models.RawListing
	doc.Find("[data-component-type='s-search-result']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if maxResults > 0 && len(listings) >= maxResults {
			return false
		}

		title := strings.TrimSpace(s.Find("h2 a span, h2 span, span.a-size-medium, span.a-text-normal").First().Text())
		if title == "" {
			return true
		}

		var price *int
		if txt := s.Find(".a-price-whole").First().Text(); txt != "" {
			if p, err := catalog.ParsePrice(txt); err == nil {
				price = &p
			}
		}
		if price == nil {
			return true // search cards without a price are ads or unavailable
		}

		l := models.RawListing{
			Retailer: models.RetailerAmazon,
			Title:    title,
			Price:    price,
			IsPrime:  s.Find(".a-icon-prime, [aria-label*='Prime']").Length() > 0,
		}

		if src, ok := s.Find("img.s-image").First().Attr("src"); ok && src != "" {
			l.ImageURL = &src
		}
		if href, ok := s.Find("h2 a, a.a-link-normal.s-underline-text, a.a-link-normal.s-no-outline").First().Attr("href"); ok {
			l.ProductURL = absolutize(amazonBase, href)
		}
		if txt := s.Find(".a-icon-star-small span, .a-icon-alt").First().Text(); txt != "" {
			if r, err := catalog.ParseRating(txt); err == nil {
				l.Rating = &r
			}
		}

		listings = append(listings, catalog.Normalize(l))
		return true
	})
	return listings, nil
}

// ParseAmazonSpecs extracts the technical-details table from an Amazon
// product page, preserving row order.
func ParseAmazonSpecs(html string) (map[string]string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, err
	}

	specs := make(map[string]string)
	var keys []string
	put := func(k, v string) {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			return
		}
		if _, seen := specs[k]; !seen {
			specs[k] = v
			keys = append(keys, k)
		}
	}

	doc.Find("#productDetails_techSpec_section_1 tr, #productDetails_detailBullets_sections1 tr, table.prodDetTable tr").
		Each(func(_ int, row *goquery.Selection) {
			put(row.Find("th").First().Text(), row.Find("td").First().Text())
		})

	// Older layout: "Key : Value" bullet list.
	doc.Find("#detailBullets_feature_div li span.a-list-item").Each(func(_ int, li *goquery.Selection) {
		parts := strings.SplitN(li.Text(), ":", 2)
		if len(parts) == 2 {
			put(cleanBullet(parts[0]), cleanBullet(parts[1]))
		}
	})

	return specs, keys, nil
}

// cleanBullet strips the unicode control characters Amazon embeds in
// detail-bullet labels and values.
func cleanBullet(k string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '‎', '‏', '‪', '‬':
			return -1
		}
		return r
	}, k)
}

// absolutize resolves a possibly-relative scraped href against base and
// repairs the doubled-origin artifact the sites sometimes produce.
func absolutize(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	// A doubled origin leaves a second scheme mid-string; keep the last
	// full URL.
	if i := strings.Index(href[1:], "https://"); i >= 0 {
		return href[i+1:]
	}
	return href
}
