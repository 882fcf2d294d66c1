package catalog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopsync/shopsync/models"
)

// ErrUnparseable is returned when a scraped field contains no usable
// value. Callers isolate the listing and continue; a single bad record
// never fails a batch.
var ErrUnparseable = errors.New("unparseable field")

var priceToken = regexp.MustCompile(`\d[\d,]*`)

// ParsePrice extracts a whole-rupee price from scraped text such as
// "₹1,29,900" or "1299.00". The fractional part is dropped.
func ParsePrice(text string) (int, error) {
	m := priceToken.FindString(text)
	if m == "" {
		return 0, ErrUnparseable
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, ErrUnparseable
	}
	return n, nil
}

// ParseRating extracts a star rating from text like "4.3 out of 5 stars".
func ParseRating(text string) (float64, error) {
	m := ratingToken.FindString(text)
	if m == "" {
		return 0, ErrUnparseable
	}
	r, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, ErrUnparseable
	}
	return ClampRating(r), nil
}

var ratingToken = regexp.MustCompile(`\d+\.?\d*`)

// ClampRating forces a rating into [0,5].
func ClampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// Normalize cleans a raw scraped listing into canonical form. Pure:
// missing fields stay nil rather than being defaulted.
func Normalize(l models.RawListing) models.RawListing {
	l.Title = strings.TrimSpace(l.Title)
	if l.Rating != nil {
		r := ClampRating(*l.Rating)
		l.Rating = &r
	}
	if l.ImageURL != nil && strings.TrimSpace(*l.ImageURL) == "" {
		l.ImageURL = nil
	}
	if l.Retailer != models.RetailerAmazon {
		l.IsPrime = false // Prime is Amazon-specific
	}
	return l
}

// noiseWords are dropped before title comparison; they describe
// categories and marketing fluff rather than identity.
var noiseWords = map[string]struct{}{
	"with": {}, "and": {}, "the": {}, "for": {}, "new": {}, "latest": {},
	"mobile": {}, "phone": {}, "smartphone": {}, "works": {}, "camera": {},
	"control": {}, "chip": {}, "boost": {}, "battery": {}, "life": {},
	"display": {}, "5g": {}, "4g": {}, "lte": {}, "india": {},
}

// NormalizeTitle lower-cases a title and strips noise words, returning
// the comparison form used for lexical matching.
func NormalizeTitle(title string) string {
	words := strings.Fields(strings.ToLower(title))
	kept := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "()[],|-")
		if w == "" {
			continue
		}
		if _, noisy := noiseWords[w]; noisy {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// TitleTokens returns the normalized title as a token set.
func TitleTokens(title string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(NormalizeTitle(title)) {
		tokens[w] = struct{}{}
	}
	return tokens
}
