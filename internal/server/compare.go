package server

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/shopsync/shopsync/internal/compare"
	"github.com/shopsync/shopsync/internal/scrape"
	"github.com/shopsync/shopsync/internal/telemetry"
	"github.com/shopsync/shopsync/models"
)

const (
	minCompareProducts = 2
	maxCompareProducts = 4
)

// CompareHandler serves POST /compare-details: deep-scrape the detail
// pages of the selected products and return them with specs populated.
type CompareHandler struct {
	Scraper *scrape.Scraper
}

func (h *CompareHandler) Register(e *echo.Echo) {
	e.POST("/compare-details", h.compare)
}

type compareRequest struct {
	Products []models.Product `json:"products"`
}

type compareResponse struct {
	Success     bool                   `json:"success"`
	Comparison  []models.Product       `json:"comparison,omitempty"`
	Rows        []models.ComparisonRow `json:"rows,omitempty"`
	ElapsedTime float64                `json:"elapsed_time,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

func (h *CompareHandler) compare(c echo.Context) error {
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Products) < minCompareProducts {
		return c.JSON(http.StatusBadRequest, compareResponse{
			Success: false,
			Error:   "At least 2 products are required for comparison",
		})
	}
	if len(req.Products) > maxCompareProducts {
		return c.JSON(http.StatusBadRequest, compareResponse{
			Success: false,
			Error:   "Maximum 4 products can be compared at once",
		})
	}

	log.Printf("[COMPARE] comparing %d products", len(req.Products))
	telemetry.RecordCompare()
	start := time.Now()

	ctx := c.Request().Context()
	results := make([]models.Product, len(req.Products))

	// One detail scrape per product, concurrently. A product whose
	// fetches fail keeps empty specs; the comparison proceeds without it.
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range req.Products {
		i, p := i, p
		g.Go(func() error {
			specs, keys := h.Scraper.Details(gctx, p)
			p.Specs, p.SpecKeys = specs, keys
			results[i] = p
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures are per-product

	rows := compare.BuildRows(results)

	log.Printf("[COMPARE] done in %.1fs: %d products, %d spec rows", elapsed(start), len(results), len(rows))
	return c.JSON(http.StatusOK, compareResponse{
		Success:     true,
		Comparison:  results,
		Rows:        rows,
		ElapsedTime: elapsed(start),
	})
}
