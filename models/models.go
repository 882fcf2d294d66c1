package models

// Retailer identifies which storefront a listing was scraped from.
type Retailer string

const (
	RetailerAmazon   Retailer = "amazon"
	RetailerFlipkart Retailer = "flipkart"
)

// RawListing is one retailer's search-result entry before cross-retailer
// matching. Immutable after the scrape that produced it.
type RawListing struct {
	Retailer   Retailer          `json:"retailer"`
	Title      string            `json:"title"`
	Price      *int              `json:"price"`  // whole currency units (INR)
	Rating     *float64          `json:"rating"` // [0,5]
	ImageURL   *string           `json:"image_url"`
	ProductURL string            `json:"product_url"`
	IsPrime    bool              `json:"is_prime"` // amazon only
	Specs      map[string]string `json:"specs,omitempty"`
	SpecKeys   []string          `json:"spec_keys,omitempty"` // scrape order of Specs
}

// Product is the unified, post-match record the frontend consumes.
// At least one of AmazonPrice/FlipkartPrice is always set.
type Product struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Image         *string           `json:"image"`
	Rating        *float64          `json:"rating"`
	IsPrime       bool              `json:"is_prime"`
	AmazonPrice   *int              `json:"amazon_price"`
	AmazonLink    *string           `json:"amazon_link"`
	FlipkartPrice *int              `json:"flipkart_price"`
	FlipkartLink  *string           `json:"flipkart_link"`
	HasComparison bool              `json:"has_comparison"`
	Specs         map[string]string `json:"specs,omitempty"`
	SpecKeys      []string          `json:"spec_keys,omitempty"`
}

// Matched reports whether the product was found on both retailers.
func (p Product) Matched() bool {
	return p.AmazonPrice != nil && p.FlipkartPrice != nil
}

// MinPrice returns the lowest available retailer price. ok is false when
// the product carries no price at all.
func (p Product) MinPrice() (price int, ok bool) {
	switch {
	case p.AmazonPrice != nil && p.FlipkartPrice != nil:
		if *p.FlipkartPrice < *p.AmazonPrice {
			return *p.FlipkartPrice, true
		}
		return *p.AmazonPrice, true
	case p.AmazonPrice != nil:
		return *p.AmazonPrice, true
	case p.FlipkartPrice != nil:
		return *p.FlipkartPrice, true
	}
	return 0, false
}

// Savings is the absolute price gap between retailers, zero unless both
// prices are present.
func (p Product) Savings() int {
	if p.AmazonPrice == nil || p.FlipkartPrice == nil {
		return 0
	}
	d := *p.AmazonPrice - *p.FlipkartPrice
	if d < 0 {
		d = -d
	}
	return d
}

// MissingValue is the display placeholder for a spec a product lacks.
// It is never treated as a real value when computing Differs.
const MissingValue = "—"

// ComparisonRow is one key of the comparison table, with one value slot
// per compared product (MissingValue when absent).
type ComparisonRow struct {
	Key     string   `json:"key"`
	Values  []string `json:"values"`
	Differs bool     `json:"differs"`
}

// ChatAction classifies what the query router decided to do with a message.
type ChatAction string

const (
	ActionReply     ChatAction = "reply"
	ActionSearch    ChatAction = "search"
	ActionRecommend ChatAction = "recommend"
)

// ChatTurn is a single session-scoped exchange; never persisted.
type ChatTurn struct {
	Role   string     `json:"role"` // user | bot
	Text   string     `json:"text"`
	Action ChatAction `json:"action"`
}

// ModelInfo describes one semantic-matching model the UI can pick.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Desc     string `json:"desc"`
}
