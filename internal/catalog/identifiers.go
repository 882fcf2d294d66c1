package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Key identifiers are the title fragments that pin down product identity
// (brand, model, storage, screen size, variant). Overlap between two
// titles' identifier sets carries more matching weight than general word
// overlap, and certain identifier disagreements veto a match outright.

var brands = []string{
	// phones
	"apple", "iphone", "samsung", "oneplus", "xiaomi", "redmi", "realme",
	"oppo", "vivo", "poco", "motorola", "google", "pixel", "nothing",
	// TVs
	"mi", "lg", "sony", "toshiba", "tcl", "panasonic", "philips", "haier",
	"hisense", "vu", "acer", "acerpure", "kenstar", "onida", "iffalcon",
	// laptops
	"hp", "dell", "lenovo", "asus", "msi", "macbook", "thinkpad",
	// audio
	"boat", "jbl", "bose", "sennheiser", "noise",
}

var resolutions = []string{"4k", "ultra hd", "uhd", "full hd", "fhd", "hd ready", "qled", "oled", "led"}

var tvPlatforms = []string{
	"fire tv", "google tv", "android tv", "webos", "tizen",
	"a series", "x series", "f series", "g series",
}

// Variants distinguish editions of the same model line (Pro vs Pro Max).
var Variants = []string{"pro", "max", "plus", "ultra", "mini", "air", "lite", "fe"}

var (
	screenRe  = regexp.MustCompile(`(\d+)\s*(?:inch|")`)
	cmRe      = regexp.MustCompile(`(\d+)\s*cm`)
	storageRe = regexp.MustCompile(`(\d+)\s*gb`)

	variantRes = func() map[string]*regexp.Regexp {
		out := make(map[string]*regexp.Regexp)
		for _, v := range append([]string{"promax"}, Variants...) {
			out[v] = regexp.MustCompile(`\b` + v + `\b`)
		}
		return out
	}()

	modelRes = []*regexp.Regexp{
		regexp.MustCompile(`iphone\s*(\d+)(?:\s*(pro|plus|max))?`),
		regexp.MustCompile(`\bs(\d+)(?:\s*(ultra|plus|\+))?`),
		regexp.MustCompile(`galaxy\s*(\w+)`),
		regexp.MustCompile(`(\d+)\s*pro\b`),
		regexp.MustCompile(`nord\s*(\w+)`),
	}
)

// ExtractIdentifiers pulls the identity-bearing tokens out of a listing
// title: brands, screen sizes (cm converted to inches), storage sizes,
// resolutions, TV platforms, variant words and phone model patterns.
func ExtractIdentifiers(title string) map[string]struct{} {
	ids := make(map[string]struct{})
	if title == "" {
		return ids
	}
	lower := strings.ToLower(title)

	for _, b := range brands {
		if strings.Contains(lower, b) {
			ids[b] = struct{}{}
		}
	}

	if m := screenRe.FindStringSubmatch(lower); m != nil {
		ids[m[1]+"inch"] = struct{}{}
	}
	if m := cmRe.FindStringSubmatch(lower); m != nil {
		if cm, err := strconv.Atoi(m[1]); err == nil {
			ids[strconv.Itoa(int(math.Round(float64(cm)/2.54)))+"inch"] = struct{}{}
		}
	}
	if m := storageRe.FindStringSubmatch(lower); m != nil {
		ids[m[1]+"gb"] = struct{}{}
	}

	for _, r := range resolutions {
		if strings.Contains(lower, r) {
			ids[strings.ReplaceAll(r, " ", "")] = struct{}{}
		}
	}
	for _, p := range tvPlatforms {
		if strings.Contains(lower, p) {
			ids[strings.ReplaceAll(p, " ", "")] = struct{}{}
		}
	}

	// "Ultra HD" and "Mini LED" are display terms, not the Ultra/Mini
	// model variants; hide them from the variant scan.
	variantSrc := strings.NewReplacer("ultra hd", " ", "mini led", " ").Replace(lower)
	for v, re := range variantRes {
		if re.MatchString(variantSrc) {
			ids[v] = struct{}{}
			if v == "promax" {
				ids["pro"] = struct{}{}
				ids["max"] = struct{}{}
			}
		}
	}

	for _, re := range modelRes {
		if m := re.FindString(lower); m != "" {
			ids[strings.ReplaceAll(m, " ", "")] = struct{}{}
		}
	}

	return ids
}

// Intersect returns the members of a present in b.
func Intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
