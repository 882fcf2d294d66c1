package match

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopsync/shopsync/internal/catalog"
	"github.com/shopsync/shopsync/internal/telemetry"
	"github.com/shopsync/shopsync/models"
)

// Config tunes cross-retailer entity matching.
type Config struct {
	// Threshold is the minimum combined score for a pair to count as the
	// same product. Inclusive: a score exactly at the threshold matches.
	Threshold float64
	// SemanticConfidenceFloor: a semantic score only overrides the
	// lexical score when the scorer reports at least this confidence.
	SemanticConfidenceFloor float64
	// SemanticTimeout bounds each semantic scoring call.
	SemanticTimeout time.Duration
	// SemanticMaxConcurrent caps in-flight semantic calls per request.
	SemanticMaxConcurrent int
	// PreferRetailer breaks canonical-title length ties.
	PreferRetailer models.Retailer
	// PriceGapRatio vetoes pairs whose prices differ by more than this
	// fraction of the lower price.
	PriceGapRatio float64
}

// DefaultConfig returns the tuning used when no config is supplied.
func DefaultConfig() Config {
	return Config{
		Threshold:               0.6,
		SemanticConfidenceFloor: 0.5,
		SemanticTimeout:         8 * time.Second,
		SemanticMaxConcurrent:   4,
		PreferRetailer:          models.RetailerAmazon,
		PriceGapRatio:           0.6,
	}
}

// Scorer scores how likely two listing titles name the same product.
// Implementations return a similarity in [0,1] plus their own confidence
// in that similarity.
type Scorer interface {
	Score(ctx context.Context, titleA, titleB string) (score, confidence float64, err error)
}

// Pair is one cross-retailer match.
type Pair struct {
	Amazon   models.RawListing
	Flipkart models.RawListing
	Score    float64
}

// Result partitions the two input lists into matched pairs and leftovers.
type Result struct {
	Pairs             []Pair
	UnmatchedAmazon   []models.RawListing
	UnmatchedFlipkart []models.RawListing
}

// Matcher pairs Amazon listings with Flipkart listings for one query.
// Stateless across requests; safe for concurrent use.
type Matcher struct {
	cfg      Config
	semantic Scorer // nil: lexical only
	logger   *log.Logger
}

// New builds a Matcher. semantic may be nil to disable the cloud-assisted
// scoring path.
func New(cfg Config, semantic Scorer) *Matcher {
	return &Matcher{
		cfg:      cfg,
		semantic: semantic,
		logger:   log.New(log.Writer(), "[MATCH] ", log.LstdFlags),
	}
}

type candidate struct {
	ai, bi int
	score  float64
}

// Match scores every (amazon, flipkart) pair, then greedily claims the
// highest-scoring pairs above the threshold. Deterministic: ties are
// broken by amazon index, then flipkart index. A failing semantic scorer
// degrades to lexical-only scoring and never fails the match.
func (m *Matcher) Match(ctx context.Context, amazon, flipkart []models.RawListing) Result {
	type feat struct {
		tokens map[string]struct{}
		ids    map[string]struct{}
	}
	featA := make([]feat, len(amazon))
	for i, l := range amazon {
		featA[i] = feat{catalog.TitleTokens(l.Title), catalog.ExtractIdentifiers(l.Title)}
	}
	featB := make([]feat, len(flipkart))
	for i, l := range flipkart {
		featB[i] = feat{catalog.TitleTokens(l.Title), catalog.ExtractIdentifiers(l.Title)}
	}

	var candidates []candidate
	for ai := range amazon {
		for bi := range flipkart {
			if conflicted(amazon[ai], flipkart[bi], featA[ai].ids, featB[bi].ids, m.cfg.PriceGapRatio) {
				continue
			}
			s := lexicalScore(featA[ai].tokens, featB[bi].tokens, featA[ai].ids, featB[bi].ids)
			if s <= 0 {
				continue
			}
			candidates = append(candidates, candidate{ai: ai, bi: bi, score: s})
		}
	}

	if m.semantic != nil && len(candidates) > 0 {
		m.applySemantic(ctx, amazon, flipkart, candidates)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].ai != candidates[j].ai {
			return candidates[i].ai < candidates[j].ai
		}
		return candidates[i].bi < candidates[j].bi
	})

	usedA := make([]bool, len(amazon))
	usedB := make([]bool, len(flipkart))
	var res Result
	for _, c := range candidates {
		if c.score < m.cfg.Threshold {
			break // sorted descending, nothing below can match
		}
		if usedA[c.ai] || usedB[c.bi] {
			continue
		}
		usedA[c.ai] = true
		usedB[c.bi] = true
		res.Pairs = append(res.Pairs, Pair{Amazon: amazon[c.ai], Flipkart: flipkart[c.bi], Score: c.score})
	}
	for i, l := range amazon {
		if !usedA[i] {
			res.UnmatchedAmazon = append(res.UnmatchedAmazon, l)
		}
	}
	for i, l := range flipkart {
		if !usedB[i] {
			res.UnmatchedFlipkart = append(res.UnmatchedFlipkart, l)
		}
	}
	return res
}

// applySemantic rescored candidates in place. Each call gets its own
// timeout and failures leave the lexical score untouched.
func (m *Matcher) applySemantic(ctx context.Context, amazon, flipkart []models.RawListing, candidates []candidate) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.SemanticMaxConcurrent)
	for i := range candidates {
		i := i
		g.Go(func() error {
			c := &candidates[i]
			callCtx, cancel := context.WithTimeout(gctx, m.cfg.SemanticTimeout)
			defer cancel()
			score, confidence, err := m.semantic.Score(callCtx, amazon[c.ai].Title, flipkart[c.bi].Title)
			if err != nil {
				m.logger.Printf("semantic score failed, keeping lexical: %v", err)
				telemetry.RecordSemanticCall("degraded")
				return nil
			}
			telemetry.RecordSemanticCall("ok")
			if confidence >= m.cfg.SemanticConfidenceFloor {
				c.score = clamp01(score)
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines only return nil; errors degrade per pair
}

// lexicalScore blends identifier overlap with token Jaccard. Identifier
// overlap is normalized by the larger identifier set so the blend stays
// in [0,1] and the match threshold keeps meaning.
func lexicalScore(tokensA, tokensB, idsA, idsB map[string]struct{}) float64 {
	var idScore float64
	if len(idsA) > 0 && len(idsB) > 0 {
		overlap := len(catalog.Intersect(idsA, idsB))
		denom := len(idsA)
		if len(idsB) > denom {
			denom = len(idsB)
		}
		idScore = float64(overlap) / float64(denom)
	}

	inter := 0
	for t := range tokensA {
		if _, ok := tokensB[t]; ok {
			inter++
		}
	}
	union := len(tokensA) + len(tokensB) - inter
	var wordScore float64
	if union > 0 {
		wordScore = float64(inter) / float64(union)
	}

	return 0.6*idScore + 0.4*wordScore
}

var resolutionSynonyms = []map[string]struct{}{
	{"4k": {}, "uhd": {}, "ultrahd": {}},
	{"fullhd": {}, "fhd": {}},
	{"hdready": {}, "hd": {}},
}

var resolutionSet = map[string]struct{}{
	"4k": {}, "uhd": {}, "ultrahd": {}, "qled": {}, "oled": {},
	"fullhd": {}, "fhd": {}, "hdready": {},
}

// conflicted vetoes pairs that share surface similarity but cannot be
// the same physical product: incompatible resolutions, a price gap wider
// than gapRatio of the lower price, or differing variant sets
// (Pro vs Pro Max).
func conflicted(a, b models.RawListing, idsA, idsB map[string]struct{}, gapRatio float64) bool {
	resA := catalog.Intersect(idsA, resolutionSet)
	resB := catalog.Intersect(idsB, resolutionSet)
	if len(resA) > 0 && len(resB) > 0 && len(catalog.Intersect(resA, resB)) == 0 {
		synonym := false
		for _, group := range resolutionSynonyms {
			if len(catalog.Intersect(resA, group)) > 0 && len(catalog.Intersect(resB, group)) > 0 {
				synonym = true
				break
			}
		}
		if !synonym {
			return true
		}
	}

	if a.Price != nil && b.Price != nil && gapRatio > 0 {
		lo, hi := *a.Price, *b.Price
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo > 0 && float64(hi-lo)/float64(lo) > gapRatio {
			return true
		}
	}

	variantSet := make(map[string]struct{}, len(catalog.Variants))
	for _, v := range catalog.Variants {
		variantSet[v] = struct{}{}
	}
	varA := catalog.Intersect(idsA, variantSet)
	varB := catalog.Intersect(idsB, variantSet)
	if len(varA) != len(varB) || len(catalog.Intersect(varA, varB)) != len(varA) {
		return true
	}

	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
