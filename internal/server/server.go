package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/shopsync/shopsync/config"
	"github.com/shopsync/shopsync/internal/cache"
	"github.com/shopsync/shopsync/internal/chat"
	"github.com/shopsync/shopsync/internal/match"
	"github.com/shopsync/shopsync/internal/scrape"
	"github.com/shopsync/shopsync/models"
	"github.com/shopsync/shopsync/provider"
)

// Run wires dependencies and serves the API until the listener fails.
func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"success": false, "error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "healthy", "service": "ShopSync API"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/", index)

	// LLM provider is optional: without it the matcher is lexical-only
	// and chat runs on keyword rules.
	var llm provider.Provider
	if cfg.Providers.NVIDIA.APIKey != "" {
		p, err := provider.NewProvider(cfg.Providers.NVIDIA)
		if err != nil {
			return err
		}
		llm = p
	} else {
		log.Printf("[API] no llm api key configured; semantic matching and ai chat disabled")
	}

	// Listing cache is optional too; a dead redis only loses the speedup.
	var listingCache scrape.ListingCache
	if cfg.Cache.Enabled {
		rdb, err := cache.Conn(context.Background(), cfg.Cache)
		if err != nil {
			log.Printf("[API] listing cache disabled: %v", err)
		} else {
			listingCache = cache.NewListingCache(rdb, cfg.Cache.TTL)
		}
	}

	scraper := scrape.New(cfg.Scrape, listingCache)

	matchCfg := match.Config{
		Threshold:               cfg.Matcher.Threshold,
		SemanticConfidenceFloor: cfg.Matcher.SemanticConfidenceFloor,
		SemanticTimeout:         cfg.Matcher.SemanticTimeout,
		SemanticMaxConcurrent:   cfg.Matcher.SemanticMaxConcurrent,
		PreferRetailer:          models.Retailer(cfg.Matcher.PreferRetailer),
		PriceGapRatio:           cfg.Matcher.PriceGapRatio,
	}

	sh := &SearchHandler{Scraper: scraper, MatchCfg: matchCfg, LLM: llm, Budget: cfg.Server.SearchBudget}
	sh.Register(e)

	ch := &CompareHandler{Scraper: scraper}
	ch.Register(e)

	th := &ChatHandler{Router: chat.NewRouter(llm)}
	th.Register(e)

	mh := &ModelsHandler{Models: cfg.Models}
	mh.Register(e)

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":5002"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// index describes the API surface, mirroring what the web UI probes on load.
func index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":    "ShopSync API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"/search":          "GET - Search products (params: q, sort, mock, nvidia)",
			"/chat":            "POST - Chatbot endpoint (body: message, current_products)",
			"/compare-details": "POST - Deep compare products (body: products[])",
			"/api/models":      "GET - Available semantic matcher models",
			"/health":          "GET - Health check",
		},
		"sort_options": []string{
			match.SortRelevance, match.SortPriceAsc, match.SortPriceDesc, match.SortRating,
		},
	})
}
