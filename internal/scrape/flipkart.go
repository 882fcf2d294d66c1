package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopsync/shopsync/internal/catalog"
	"github.com/shopsync/shopsync/models"
)

const flipkartBase = "https://www.flipkart.com"

// Flipkart rotates its obfuscated class names between layout variants,
// so every field probes the known selector generations in order.
var (
	flipkartTitleSel = "div.RG5Slk, div._4rR01T, a.s1Q9rs, a.IRpwTa"
	flipkartPriceSel = "div.hZ3P6w, div._30jeq3, div._1_WHN1"
	flipkartImageSel = "img.UCc1lI, img._396cs4, img._2r_T1I"
	flipkartLinkSel  = "a.k7wcnx, a._1fQZEK, a._2rpwqI, a.CGtC98"
	flipkartRateSel  = "div.MKiFS6, div._3LWZlK"
)

// ParseFlipkartSearch extracts listings from a Flipkart search results
// page. Listings without a parseable title and price are skipped.
func ParseFlipkartSearch(html string, maxResults int) ([]models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	containers := doc.Find("div[data-id]")
	if containers.Length() == 0 {
		containers = doc.Find("div._1AtVbE div._13oc-S")
	}

	var listings []models.RawListing
	containers.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if maxResults > 0 && len(listings) >= maxResults {
			return false
		}

		title := strings.TrimSpace(s.Find(flipkartTitleSel).First().Text())
		if title == "" {
			return true
		}

		var price *int
		if txt := s.Find(flipkartPriceSel).First().Text(); txt != "" {
			if p, err := catalog.ParsePrice(txt); err == nil {
				price = &p
			}
		}
		if price == nil {
			return true
		}

		l := models.RawListing{
			Retailer: models.RetailerFlipkart,
			Title:    title,
			Price:    price,
		}

		if src, ok := s.Find(flipkartImageSel).First().Attr("src"); ok && src != "" {
			l.ImageURL = &src
		}
		link := s.Find(flipkartLinkSel).First()
		if link.Length() == 0 {
			link = s.Find("a[href*='/p/']").First()
		}
		if href, ok := link.Attr("href"); ok {
			l.ProductURL = absolutize(flipkartBase, href)
		}
		// Rating renders as "4.6" followed by a star glyph.
		if txt := strings.Fields(s.Find(flipkartRateSel).First().Text()); len(txt) > 0 {
			if r, err := catalog.ParseRating(txt[0]); err == nil {
				l.Rating = &r
			}
		}

		listings = append(listings, catalog.Normalize(l))
		return true
	})
	return listings, nil
}

// ParseFlipkartSpecs extracts the specifications tables from a Flipkart
// product page, preserving row order across sections.
func ParseFlipkartSpecs(html string) (map[string]string, []string, error) {
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

	doc.Find("table._14cfVK tr, div.GNDEQ- table tr, div._3k-BhJ table tr").
		Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() >= 2 {
				put(cells.Eq(0).Text(), cells.Eq(1).Text())
			}
		})

	// Highlights list when no spec table is present.
	if len(keys) == 0 {
		var highlights []string
		doc.Find("div._2418kt li, div.DOjaWF li._21Ahn-").Each(func(_ int, li *goquery.Selection) {
			if t := strings.TrimSpace(li.Text()); t != "" {
				highlights = append(highlights, t)
			}
		})
		if len(highlights) > 0 {
			put("Highlights", strings.Join(highlights, "; "))
		}
	}

	return specs, keys, nil
}
