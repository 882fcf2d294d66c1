// Package chat classifies free-text shopper messages against the
// current result set and decides between a plain reply, dispatching a
// new search, or recommending products already on screen.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopsync/shopsync/models"
	"github.com/shopsync/shopsync/provider"
	openai_provider "github.com/shopsync/shopsync/provider/openai"
)

const systemPrompt = `You are ShopSync Assistant — an intelligent shopping helper for an e-commerce price comparison platform that aggregates products from Amazon and Flipkart.

Your capabilities:
1. **Recommend products** from currently loaded search results
2. **Understand vague product descriptions** and convert them into search queries
3. **Answer shopping questions** naturally

RESPONSE FORMAT — You MUST respond with valid JSON only (no markdown, no code fences):
{
  "action": "reply" | "search" | "recommend",
  "reply": "Your message to the user",
  "search_query": "product search term (only when action=search)",
  "criteria": "best" | "cheapest" | "rating" | "compare" (only when action=recommend),
  "budget": null or number (optional budget constraint)
}

RULES:
- When the user describes something they need (e.g. "I need something to listen to music"), set action="search" and search_query to the best product search term (e.g. "wireless headphones").
- When the user asks about current results (e.g. "what's the best deal?", "cheapest one?"), set action="recommend" with the right criteria.
- When the user asks to compare, set action="recommend" with criteria="compare".
- For greetings, help questions, thanks, or general chat, set action="reply".
- If the user mentions a budget like "under 5000", put the number in the budget field, never in search_query.
- ALWAYS respond with valid JSON. No extra text outside the JSON object.`

// Response is the router's decision for one message.
type Response struct {
	Action              models.ChatAction `json:"action"`
	Reply               string            `json:"reply"`
	SearchQuery         string            `json:"search_query,omitempty"`
	RecommendedProducts []models.Product  `json:"recommended_products,omitempty"`
}

// Router interprets chat messages. LLM-first, with keyword rules as the
// degraded path when the model is unreachable or returns garbage.
type Router struct {
	LLM    provider.Provider // nil: keyword rules only
	logger *log.Logger
}

// NewRouter builds a Router. llm may be nil.
func NewRouter(llm provider.Provider) *Router {
	return &Router{LLM: llm, logger: log.New(log.Writer(), "[CHAT] ", log.LstdFlags)}
}

// Handle classifies one message against the current product list. It
// cannot fail: an unreachable or garbled LLM drops to the keyword
// rules, which always produce a response. Product data is never
// fabricated either way.
func (r *Router) Handle(ctx context.Context, message string, current []models.Product) Response {
	message = strings.TrimSpace(message)
	if r.LLM != nil {
		resp, err := r.handleWithAI(ctx, message, current)
		if err == nil {
			return resp
		}
		r.logger.Printf("ai routing failed, using keyword fallback: %v", err)
	}
	return r.handleFallback(message, current)
}

type aiDecision struct {
	Action      string   `json:"action"`
	Reply       string   `json:"reply"`
	SearchQuery string   `json:"search_query"`
	Criteria    string   `json:"criteria"`
	Budget      *float64 `json:"budget"`
}

func (r *Router) handleWithAI(ctx context.Context, message string, current []models.Product) (Response, error) {
	raw, err := r.LLM.Complete(ctx, systemPrompt, buildUserPrompt(message, current))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
	}

	var d aiDecision
	if err := json.Unmarshal([]byte(openai_provider.StripFences(raw)), &d); err != nil {
		return Response{}, fmt.Errorf("chat model returned malformed JSON: %w", err)
	}

	switch d.Action {
	case "search":
		if d.SearchQuery == "" {
			break
		}
		reply := d.Reply
		if reply == "" {
			reply = fmt.Sprintf("Searching for %q... results will appear in the main area.", d.SearchQuery)
		}
		return Response{Action: models.ActionSearch, Reply: reply, SearchQuery: d.SearchQuery}, nil
	case "recommend":
		if len(current) == 0 {
			break
		}
		var budget *int
		if d.Budget != nil {
			b := int(*d.Budget)
			budget = &b
		}
		var rec Response
		if d.Criteria == "compare" {
			rec = quickCompare(current)
		} else {
			rec = Recommend(current, d.Criteria, budget)
		}
		// Model's phrasing, our product data.
		if d.Reply != "" && rec.Action == models.ActionRecommend {
			rec.Reply = d.Reply + "\n\n" + rec.Reply
		}
		return rec, nil
	}

	reply := d.Reply
	if reply == "" {
		reply = "I'm not sure what you mean. Try describing a product or asking about the current results!"
	}
	return Response{Action: models.ActionReply, Reply: reply}, nil
}

// buildUserPrompt attaches a compact summary of the loaded products so
// the model can ground recommendations.
func buildUserPrompt(message string, current []models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User message: %s", message)
	if len(current) == 0 {
		b.WriteString("\n\nNo products are currently loaded. If the user asks about results, tell them to search first.")
		return b.String()
	}
	fmt.Fprintf(&b, "\n\nCURRENT SEARCH RESULTS (%d products loaded):", len(current))
	for i, p := range current {
		if i >= 15 {
			break
		}
		var prices []string
		if p.AmazonPrice != nil {
			prices = append(prices, fmt.Sprintf("Amazon: ₹%d", *p.AmazonPrice))
		}
		if p.FlipkartPrice != nil {
			prices = append(prices, fmt.Sprintf("Flipkart: ₹%d", *p.FlipkartPrice))
		}
		priceStr := "Price N/A"
		if len(prices) > 0 {
			priceStr = strings.Join(prices, " | ")
		}
		ratingStr := ""
		if p.Rating != nil {
			ratingStr = fmt.Sprintf(" ★%.1f", *p.Rating)
		}
		fmt.Fprintf(&b, "\n%d. %s — %s%s", i+1, truncate(p.Title, 80), priceStr, ratingStr)
	}
	return b.String()
}

var budgetRe = regexp.MustCompile(`under\s*₹?\s*(\d[\d,]*)`)

// handleFallback applies the keyword rules used when no LLM is available.
func (r *Router) handleFallback(message string, current []models.Product) Response {
	msg := strings.ToLower(message)

	if containsAny(msg, "best", "recommend", "top", "suggest", "deal") && len(current) > 0 {
		return Recommend(current, "best", nil)
	}
	if containsAny(msg, "cheap", "lowest", "budget", "affordable") && len(current) > 0 {
		var budget *int
		if m := budgetRe.FindStringSubmatch(msg); m != nil {
			if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
				budget = &n
			}
		}
		return Recommend(current, "cheapest", budget)
	}
	if containsAny(msg, "rated", "rating", "stars", "popular") && len(current) > 0 {
		return Recommend(current, "rating", nil)
	}
	if containsAny(msg, "compare", "vs", "versus") && len(current) > 0 {
		return quickCompare(current)
	}
	if len(strings.Fields(msg)) >= 2 {
		return Response{
			Action:      models.ActionSearch,
			Reply:       fmt.Sprintf("Searching for %q...", msg),
			SearchQuery: msg,
		}
	}
	return Response{
		Action: models.ActionReply,
		Reply:  "Tell me what you're looking for, or ask about the current search results!",
	}
}

// Recommend ranks a subset of the current products by the given
// criteria. cheapest: minimum available price ascending. rating: rating
// descending, ties broken by having both retailer prices. best: blended
// price/rating/savings score preferring matched products.
func Recommend(products []models.Product, criteria string, budget *int) Response {
	if len(products) == 0 {
		return Response{
			Action: models.ActionReply,
			Reply:  "There are no products loaded yet. Search for something first, then ask me for recommendations!",
		}
	}

	minPrice := func(p models.Product) int {
		if v, ok := p.MinPrice(); ok {
			return v
		}
		return int(^uint(0) >> 1)
	}

	filtered := products
	if budget != nil {
		filtered = nil
		for _, p := range products {
			if minPrice(p) <= *budget {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			cheapest := products[0]
			for _, p := range products[1:] {
				if minPrice(p) < minPrice(cheapest) {
					cheapest = p
				}
			}
			return Response{
				Action: models.ActionReply,
				Reply: fmt.Sprintf("No products found under ₹%d. The cheapest option is ₹%d. Try a higher budget?",
					*budget, minPrice(cheapest)),
			}
		}
	}

	ranked := make([]models.Product, len(filtered))
	copy(ranked, filtered)

	var label string
	switch criteria {
	case "cheapest":
		sort.SliceStable(ranked, func(i, j int) bool { return minPrice(ranked[i]) < minPrice(ranked[j]) })
		label = "Cheapest options"
		if budget != nil {
			label = fmt.Sprintf("Best options under ₹%d", *budget)
		}
	case "rating":
		rating := func(p models.Product) float64 {
			if p.Rating != nil {
				return *p.Rating
			}
			return 0
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			ri, rj := rating(ranked[i]), rating(ranked[j])
			if ri != rj {
				return ri > rj
			}
			return ranked[i].Matched() && !ranked[j].Matched()
		})
		label = "Highest rated products"
	default: // best: balance of price, rating and savings
		score := func(p models.Product) float64 {
			s := 0.0
			if p.Rating != nil {
				s += *p.Rating * 20
			}
			if mp, ok := p.MinPrice(); ok {
				ps := 100 - float64(mp)/1000
				if ps > 0 {
					s += ps
				}
			}
			s += float64(p.Savings()) / 100
			if p.Matched() {
				s += 10
			}
			return s
		}
		sort.SliceStable(ranked, func(i, j int) bool { return score(ranked[i]) > score(ranked[j]) })
		label = "Best deals — top picks"
	}

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", label)
	for i, p := range ranked {
		line := fmt.Sprintf("\n%d. %s", i+1, truncate(p.Title, 60))
		if mp, ok := p.MinPrice(); ok {
			line += fmt.Sprintf("\n   ₹%d", mp)
		} else {
			line += "\n   Price N/A"
		}
		if p.Rating != nil {
			line += fmt.Sprintf(" | ★ %.1f", *p.Rating)
		}
		if s := p.Savings(); s > 0 {
			line += fmt.Sprintf(" | Save ₹%d", s)
		}
		b.WriteString(line)
	}
	b.WriteString("\n\nHere are the product details with links:")

	return Response{Action: models.ActionRecommend, Reply: b.String(), RecommendedProducts: ranked}
}

// quickCompare picks the cheapest and the top-rated of the first ten
// products for a side-by-side glance.
func quickCompare(products []models.Product) Response {
	if len(products) < 2 {
		return Response{
			Action: models.ActionReply,
			Reply:  "Need at least 2 products to compare. Search for more items first!",
		}
	}
	pool := products
	if len(pool) > 10 {
		pool = pool[:10]
	}

	minPrice := func(p models.Product) int {
		if v, ok := p.MinPrice(); ok {
			return v
		}
		return int(^uint(0) >> 1)
	}
	rating := func(p models.Product) float64 {
		if p.Rating != nil {
			return *p.Rating
		}
		return 0
	}

	cheapest, topRated := pool[0], pool[0]
	for _, p := range pool[1:] {
		if minPrice(p) < minPrice(cheapest) {
			cheapest = p
		}
		if rating(p) > rating(topRated) {
			topRated = p
		}
	}

	picks := []models.Product{cheapest}
	if topRated.Title != cheapest.Title {
		picks = append(picks, topRated)
	}

	var b strings.Builder
	b.WriteString("Quick comparison\n")
	fmt.Fprintf(&b, "\nCheapest: %s", truncate(cheapest.Title, 50))
	if mp, ok := cheapest.MinPrice(); ok {
		fmt.Fprintf(&b, "\n   → ₹%d", mp)
	}
	fmt.Fprintf(&b, "\n\nTop rated: %s", truncate(topRated.Title, 50))
	if topRated.Rating != nil {
		fmt.Fprintf(&b, "\n   → ★ %.1f", *topRated.Rating)
	}

	return Response{Action: models.ActionRecommend, Reply: b.String(), RecommendedProducts: picks}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
