package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appconfig "github.com/shopsync/shopsync/config"
	"github.com/shopsync/shopsync/models"
)

// ModelsHandler serves GET /api/models: the semantic-matcher model
// descriptors the UI offers in its settings panel.
type ModelsHandler struct {
	Models []appconfig.ModelEntry
}

func (h *ModelsHandler) Register(e *echo.Echo) {
	e.GET("/api/models", h.list)
}

func (h *ModelsHandler) list(c echo.Context) error {
	out := make([]models.ModelInfo, 0, len(h.Models))
	for _, m := range h.Models {
		out = append(out, models.ModelInfo{ID: m.ID, Name: m.Name, Provider: m.Provider, Desc: m.Desc})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"models": out})
}
