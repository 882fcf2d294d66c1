package match

import (
	"sort"
	"strconv"

	"github.com/shopsync/shopsync/models"
)

// Aggregate turns matcher output into the Product list returned to the
// caller. Every input listing maps to exactly one Product: matched pairs
// merge, leftovers become singletons. Matched products come first, then
// unmatched Amazon, then unmatched Flipkart; IDs are assigned after that
// ordering so they are unique within the response.
func Aggregate(res Result, cfg Config) []models.Product {
	products := make([]models.Product, 0, len(res.Pairs)+len(res.UnmatchedAmazon)+len(res.UnmatchedFlipkart))

	for _, p := range res.Pairs {
		products = append(products, mergePair(p, cfg.PreferRetailer))
	}
	for _, l := range res.UnmatchedAmazon {
		products = append(products, singleton(l))
	}
	for _, l := range res.UnmatchedFlipkart {
		products = append(products, singleton(l))
	}

	for i := range products {
		products[i].ID = strconv.Itoa(i + 1)
		products[i].HasComparison = products[i].Matched()
	}
	return products
}

// mergePair merges one matched pair into a unified Product. Canonical
// title is the longer of the two; ties go to the preferred retailer.
func mergePair(p Pair, prefer models.Retailer) models.Product {
	title := p.Amazon.Title
	other := p.Flipkart.Title
	if prefer == models.RetailerFlipkart {
		title, other = other, title
	}
	if len(other) > len(title) {
		title = other
	}

	image := p.Amazon.ImageURL
	if image == nil {
		image = p.Flipkart.ImageURL
	}

	var rating *float64
	switch {
	case p.Amazon.Rating != nil && p.Flipkart.Rating != nil:
		avg := (*p.Amazon.Rating + *p.Flipkart.Rating) / 2
		rating = &avg
	case p.Amazon.Rating != nil:
		rating = p.Amazon.Rating
	case p.Flipkart.Rating != nil:
		rating = p.Flipkart.Rating
	}

	return models.Product{
		Title:         title,
		Image:         image,
		Rating:        rating,
		IsPrime:       p.Amazon.IsPrime,
		AmazonPrice:   p.Amazon.Price,
		AmazonLink:    link(p.Amazon),
		FlipkartPrice: p.Flipkart.Price,
		FlipkartLink:  link(p.Flipkart),
	}
}

// singleton builds a Product carrying only one retailer's fields.
func singleton(l models.RawListing) models.Product {
	p := models.Product{
		Title:  l.Title,
		Image:  l.ImageURL,
		Rating: l.Rating,
	}
	if l.Retailer == models.RetailerAmazon {
		p.IsPrime = l.IsPrime
		p.AmazonPrice = l.Price
		p.AmazonLink = link(l)
	} else {
		p.FlipkartPrice = l.Price
		p.FlipkartLink = link(l)
	}
	return p
}

func link(l models.RawListing) *string {
	if l.ProductURL == "" {
		return nil
	}
	u := l.ProductURL
	return &u
}

// Sort options accepted by /search.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

// SortProducts orders products in place. Relevance keeps the
// aggregator's matched-first order. Price sorts use the minimum
// available retailer price; priceless products sink to the end.
func SortProducts(products []models.Product, by string) {
	minPrice := func(p models.Product, missing int) int {
		if v, ok := p.MinPrice(); ok {
			return v
		}
		return missing
	}
	switch by {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			const inf = int(^uint(0) >> 1)
			return minPrice(products[i], inf) < minPrice(products[j], inf)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return minPrice(products[i], -1) > minPrice(products[j], -1)
		})
	case SortRating:
		rating := func(p models.Product) float64 {
			if p.Rating != nil {
				return *p.Rating
			}
			return 0
		}
		sort.SliceStable(products, func(i, j int) bool {
			return rating(products[i]) > rating(products[j])
		})
	}
	// relevance: matched-first order from Aggregate, untouched

	for i := range products {
		products[i].ID = strconv.Itoa(i + 1)
	}
}
