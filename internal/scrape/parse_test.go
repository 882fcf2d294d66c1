package scrape

import (
	"reflect"
	"testing"
)

const amazonSearchHTML = `
<div class="s-main-slot">
  <div data-component-type="s-search-result" data-asin="B0C1">
    <img class="s-image" src="https://m.media-amazon.com/img/1.jpg"/>
    <h2><a href="/dp/B0C1"><span>Apple iPhone 15 (128 GB) - Blue</span></a></h2>
    <i class="a-icon-star-small"><span>4.5 out of 5 stars</span></i>
    <span class="a-price"><span class="a-price-whole">69,900</span></span>
    <i class="a-icon-prime"></i>
  </div>
  <div data-component-type="s-search-result" data-asin="B0C2">
    <h2><a href="/dp/B0C2"><span>Sponsored gadget without a price</span></a></h2>
  </div>
  <div data-component-type="s-search-result" data-asin="B0C3">
    <h2><a href="https://www.amazon.in/dp/B0C3"><span>Samsung Galaxy S24 5G</span></a></h2>
    <span class="a-price"><span class="a-price-whole">62,999</span></span>
  </div>
</div>`

func TestParseAmazonSearch(t *testing.T) {
	t.Parallel()
	listings, err := ParseAmazonSearch(amazonSearchHTML, 0)
	if err != nil {
		t.Fatalf("ParseAmazonSearch error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings (the priceless card is skipped), got %d", len(listings))
	}

	l := listings[0]
	if l.Title != "Apple iPhone 15 (128 GB) - Blue" {
		t.Fatalf("title = %q", l.Title)
	}
	if l.Price == nil || *l.Price != 69900 {
		t.Fatalf("price = %v", l.Price)
	}
	if l.Rating == nil || *l.Rating != 4.5 {
		t.Fatalf("rating = %v", l.Rating)
	}
	if !l.IsPrime {
		t.Fatalf("prime badge not detected")
	}
	if l.ProductURL != "https://www.amazon.in/dp/B0C1" {
		t.Fatalf("relative href not absolutized: %q", l.ProductURL)
	}
	if l.ImageURL == nil || *l.ImageURL != "https://m.media-amazon.com/img/1.jpg" {
		t.Fatalf("image = %v", l.ImageURL)
	}

	if listings[1].ProductURL != "https://www.amazon.in/dp/B0C3" {
		t.Fatalf("absolute href must pass through, got %q", listings[1].ProductURL)
	}
}

func TestParseAmazonSearchMaxResults(t *testing.T) {
	t.Parallel()
	listings, err := ParseAmazonSearch(amazonSearchHTML, 1)
	if err != nil {
		t.Fatalf("ParseAmazonSearch error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("maxResults=1 must cap output, got %d", len(listings))
	}
}

const flipkartSearchHTML = `
<div class="results">
  <div data-id="MOBF1">
    <a class="CGtC98" href="/apple-iphone-15/p/itm1?pid=MOBF1">
      <img class="_396cs4" src="https://rukminim2.flixcart.com/img/1.jpg"/>
      <div class="_4rR01T">Apple iPhone 15 (Blue, 128 GB)</div>
      <div class="_3LWZlK">4.6 &#9733;</div>
      <div class="_30jeq3">&#8377;65,999</div>
    </a>
  </div>
  <div data-id="MOBF2">
    <div class="_4rR01T">Out of stock item</div>
  </div>
</div>`

func TestParseFlipkartSearch(t *testing.T) {
	t.Parallel()
	listings, err := ParseFlipkartSearch(flipkartSearchHTML, 0)
	if err != nil {
		t.Fatalf("ParseFlipkartSearch error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}

	l := listings[0]
	if l.Title != "Apple iPhone 15 (Blue, 128 GB)" {
		t.Fatalf("title = %q", l.Title)
	}
	if l.Price == nil || *l.Price != 65999 {
		t.Fatalf("price = %v", l.Price)
	}
	if l.Rating == nil || *l.Rating != 4.6 {
		t.Fatalf("rating = %v", l.Rating)
	}
	if l.ProductURL != "https://www.flipkart.com/apple-iphone-15/p/itm1?pid=MOBF1" {
		t.Fatalf("link = %q", l.ProductURL)
	}
	if l.IsPrime {
		t.Fatalf("flipkart listings never carry the prime flag")
	}
}

const amazonDetailHTML = `
<table id="productDetails_techSpec_section_1">
  <tr><th>Brand</th><td>Apple</td></tr>
  <tr><th>Storage</th><td>128 GB</td></tr>
</table>
<div id="detailBullets_feature_div">
  <ul><li><span class="a-list-item">&#8206;Model Name&#8207; : &#8206;iPhone 15</span></li></ul>
</div>`

func TestParseAmazonSpecs(t *testing.T) {
	t.Parallel()
	specs, keys, err := ParseAmazonSpecs(amazonDetailHTML)
	if err != nil {
		t.Fatalf("ParseAmazonSpecs error: %v", err)
	}
	want := map[string]string{"Brand": "Apple", "Storage": "128 GB", "Model Name": "iPhone 15"}
	if !reflect.DeepEqual(specs, want) {
		t.Fatalf("specs = %v, want %v", specs, want)
	}
	if !reflect.DeepEqual(keys, []string{"Brand", "Storage", "Model Name"}) {
		t.Fatalf("keys must preserve row order, got %v", keys)
	}
}

const flipkartDetailHTML = `
<div class="GNDEQ-">
  <table class="_14cfVK">
    <tr><td>Brand</td><td>Apple</td></tr>
    <tr><td>Battery Capacity</td><td>3349 mAh</td></tr>
  </table>
</div>`

func TestParseFlipkartSpecs(t *testing.T) {
	t.Parallel()
	specs, keys, err := ParseFlipkartSpecs(flipkartDetailHTML)
	if err != nil {
		t.Fatalf("ParseFlipkartSpecs error: %v", err)
	}
	if specs["Battery Capacity"] != "3349 mAh" || len(keys) != 2 {
		t.Fatalf("specs = %v keys = %v", specs, keys)
	}
}

func TestParseFlipkartSpecsHighlightsFallback(t *testing.T) {
	t.Parallel()
	html := `<div class="_2418kt"><ul><li>6 GB RAM</li><li>5000 mAh battery</li></ul></div>`
	specs, keys, err := ParseFlipkartSpecs(html)
	if err != nil {
		t.Fatalf("ParseFlipkartSpecs error: %v", err)
	}
	if specs["Highlights"] != "6 GB RAM; 5000 mAh battery" || len(keys) != 1 {
		t.Fatalf("specs = %v keys = %v", specs, keys)
	}
}

func TestMergeSpecsAmazonWinsCollisions(t *testing.T) {
	t.Parallel()
	base := map[string]string{"Brand": "apple", "Battery": "3349 mAh"}
	primary := map[string]string{"Brand": "Apple", "Storage": "128 GB"}

	merged, keys := MergeSpecs(base, []string{"Brand", "Battery"}, primary, []string{"Brand", "Storage"})
	if merged["Brand"] != "Apple" {
		t.Fatalf("primary must override colliding keys, got %q", merged["Brand"])
	}
	if merged["Battery"] != "3349 mAh" || merged["Storage"] != "128 GB" {
		t.Fatalf("merged = %v", merged)
	}
	if !reflect.DeepEqual(keys, []string{"Brand", "Battery", "Storage"}) {
		t.Fatalf("key order = %v", keys)
	}
}

func TestAbsolutize(t *testing.T) {
	t.Parallel()
	cases := []struct{ href, want string }{
		{"/dp/B0C1", "https://www.amazon.in/dp/B0C1"},
		{"https://www.amazon.in/dp/B0C1", "https://www.amazon.in/dp/B0C1"},
		{"https://www.amazon.inhttps://www.amazon.in/dp/B0C1", "https://www.amazon.in/dp/B0C1"},
		{"", ""},
	}
	for _, c := range cases {
		if got := absolutize(amazonBase, c.href); got != c.want {
			t.Fatalf("absolutize(%q) = %q, want %q", c.href, got, c.want)
		}
	}
}

func TestCacheKeyQuery(t *testing.T) {
	t.Parallel()
	if got := CacheKeyQuery("  iPhone   15  "); got != "iphone 15" {
		t.Fatalf("CacheKeyQuery = %q", got)
	}
}
