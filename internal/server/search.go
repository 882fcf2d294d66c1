package server

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopsync/shopsync/internal/match"
	"github.com/shopsync/shopsync/internal/scrape"
	"github.com/shopsync/shopsync/internal/telemetry"
	"github.com/shopsync/shopsync/models"
	"github.com/shopsync/shopsync/provider"
)

// SearchHandler serves GET /search: scrape both retailers, match, merge,
// sort, respond. Each request gets its own Matcher so the semantic
// toggle stays per-request state, never process-wide.
type SearchHandler struct {
	Scraper  *scrape.Scraper
	MatchCfg match.Config
	LLM      provider.Provider // nil: semantic path unavailable
	Budget   time.Duration
}

func (h *SearchHandler) Register(e *echo.Echo) {
	e.GET("/search", h.search)
}

type searchResponse struct {
	Success     bool             `json:"success"`
	Query       string           `json:"query,omitempty"`
	Count       int              `json:"count"`
	IsFallback  bool             `json:"is_fallback"`
	Products    []models.Product `json:"products"`
	ElapsedTime float64          `json:"elapsed_time"`
	Error       string           `json:"error,omitempty"`
}

func (h *SearchHandler) search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Success:  false,
			Error:    `query parameter "q" is required`,
			Products: []models.Product{},
		})
	}
	useMock := c.QueryParam("mock") == "true"
	useSemantic := c.QueryParam("nvidia") == "true"
	sortBy := strings.ToLower(c.QueryParam("sort"))
	if sortBy == "" {
		sortBy = match.SortRelevance
	}

	log.Printf("[API] searching for: %s (sort: %s, semantic: %v, mock: %v)", query, sortBy, useSemantic, useMock)
	start := time.Now()

	if useMock {
		products := scrape.Fixtures()
		telemetry.RecordSearch("mock")
		return c.JSON(http.StatusOK, searchResponse{
			Success:     true,
			Query:       query,
			Count:       len(products),
			IsFallback:  true,
			Products:    products,
			ElapsedTime: elapsed(start),
		})
	}

	// The budget caps the request; cancellation still follows the client
	// connection through the request context.
	ctx := c.Request().Context()
	if h.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Budget)
		defer cancel()
	}

	amazon, flipkart, err := h.Scraper.Search(ctx, query)
	if err != nil {
		// Total upstream outage; the frontend retries against mock data.
		telemetry.RecordSearch("error")
		return c.JSON(http.StatusOK, searchResponse{
			Success:     false,
			Query:       query,
			Error:       err.Error(),
			Products:    []models.Product{},
			ElapsedTime: elapsed(start),
		})
	}

	var semantic match.Scorer
	if useSemantic && h.LLM != nil {
		semantic = &match.SemanticScorer{LLM: h.LLM}
	}
	matcher := match.New(h.MatchCfg, semantic)

	res := matcher.Match(ctx, amazon, flipkart)
	telemetry.ObserveMatchedPairs(len(res.Pairs))

	products := match.Aggregate(res, h.MatchCfg)
	match.SortProducts(products, sortBy)

	telemetry.RecordSearch("live")
	log.Printf("[API] returning %d products in %.2fs (%d matched pairs)",
		len(products), elapsed(start), len(res.Pairs))

	if products == nil {
		products = []models.Product{} // empty result is success, not an error
	}
	return c.JSON(http.StatusOK, searchResponse{
		Success:     true,
		Query:       query,
		Count:       len(products),
		Products:    products,
		ElapsedTime: elapsed(start),
	})
}

func elapsed(start time.Time) float64 {
	return math.Round(time.Since(start).Seconds()*100) / 100
}
