package scrape

import (
	"strconv"

	"github.com/shopsync/shopsync/models"
)

// Fixtures returns the demo product set served when live scraping is
// bypassed (mock mode) or both retailers are unreachable.
func Fixtures() []models.Product {
	products := []models.Product{
		{
			Title:         "Apple iPhone 15 (128 GB) - Blue",
			Image:         strPtr("https://m.media-amazon.com/images/I/71d7rfSl0wL._SL1500_.jpg"),
			Rating:        floatPtr(4.5),
			IsPrime:       true,
			AmazonPrice:   intPtr(65999),
			AmazonLink:    strPtr("https://www.amazon.in/dp/B0CHX1W1XY"),
			FlipkartPrice: intPtr(64999),
			FlipkartLink:  strPtr("https://www.flipkart.com/apple-iphone-15-blue-128-gb/p/itm6ac6485515ae4"),
		},
		{
			Title:         "Samsung Galaxy S24 5G (256 GB) - Onyx Black",
			Image:         strPtr("https://m.media-amazon.com/images/I/71RVuBs1zhL._SL1500_.jpg"),
			Rating:        floatPtr(4.3),
			IsPrime:       true,
			AmazonPrice:   intPtr(62999),
			AmazonLink:    strPtr("https://www.amazon.in/dp/B0DHKLDRMV"),
			FlipkartPrice: intPtr(61499),
			FlipkartLink:  strPtr("https://www.flipkart.com/samsung-galaxy-s24-5g-onyx-black-256-gb/p/itmd3b79368e2a95"),
		},
		{
			Title:         "OnePlus 12R 5G (128 GB) - Cool Blue",
			Image:         strPtr("https://m.media-amazon.com/images/I/717Qo4MH97L._SL1500_.jpg"),
			Rating:        floatPtr(4.4),
			IsPrime:       true,
			AmazonPrice:   intPtr(39999),
			AmazonLink:    strPtr("https://www.amazon.in/dp/B0CX5CN8RQ"),
			FlipkartPrice: intPtr(38999),
			FlipkartLink:  strPtr("https://www.flipkart.com/oneplus-12r-cool-blue-128-gb/p/itm26c9ddbab2f4b"),
		},
		{
			Title:       "Redmi Note 13 Pro 5G (256 GB) - Midnight Black",
			Image:       strPtr("https://m.media-amazon.com/images/I/71mEsHyU6SL._SL1500_.jpg"),
			Rating:      floatPtr(4.1),
			IsPrime:     true,
			AmazonPrice: intPtr(23999),
			AmazonLink:  strPtr("https://www.amazon.in/dp/B0CQPK3QWT"),
		},
		{
			Title:         "boAt Airdopes 141 Bluetooth TWS Earbuds",
			Image:         strPtr("https://m.media-amazon.com/images/I/61KNJav3S9L._SL1500_.jpg"),
			Rating:        floatPtr(4.0),
			FlipkartPrice: intPtr(1099),
			FlipkartLink:  strPtr("https://www.flipkart.com/boat-airdopes-141-bluetooth-headset/p/itm4c3a4d0e2a302"),
		},
		{
			Title:         "Sony WH-1000XM5 Wireless Noise Cancelling Headphones",
			Image:         strPtr("https://m.media-amazon.com/images/I/61ULAZmt9NL._SL1500_.jpg"),
			Rating:        floatPtr(4.6),
			IsPrime:       true,
			AmazonPrice:   intPtr(26990),
			AmazonLink:    strPtr("https://www.amazon.in/dp/B09XS7JWHH"),
			FlipkartPrice: intPtr(27499),
			FlipkartLink:  strPtr("https://www.flipkart.com/sony-wh-1000xm5-bluetooth-headset/p/itm79ff9e1700dc2"),
		},
	}
	for i := range products {
		products[i].ID = strconv.Itoa(i + 1)
		products[i].HasComparison = products[i].Matched()
	}
	return products
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
