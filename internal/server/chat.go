package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopsync/shopsync/internal/chat"
	"github.com/shopsync/shopsync/internal/telemetry"
	"github.com/shopsync/shopsync/models"
)

// ChatHandler serves POST /chat: route a shopper message through the
// conversational query router.
type ChatHandler struct {
	Router *chat.Router
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/chat", h.chat)
}

type chatRequest struct {
	Message         string           `json:"message"`
	CurrentProducts []models.Product `json:"current_products"`
}

type chatResponse struct {
	Success             bool              `json:"success"`
	Action              models.ChatAction `json:"action,omitempty"`
	Reply               string            `json:"reply,omitempty"`
	SearchQuery         string            `json:"search_query,omitempty"`
	RecommendedProducts []models.Product  `json:"recommended_products,omitempty"`
	Error               string            `json:"error,omitempty"`
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, chatResponse{Success: false, Error: "Message is required"})
	}

	log.Printf("[CHAT] user: %s", req.Message)

	resp := h.Router.Handle(c.Request().Context(), req.Message, req.CurrentProducts)

	log.Printf("[CHAT] action: %s", resp.Action)
	telemetry.RecordChatAction(string(resp.Action))
	return c.JSON(http.StatusOK, chatResponse{
		Success:             true,
		Action:              resp.Action,
		Reply:               resp.Reply,
		SearchQuery:         resp.SearchQuery,
		RecommendedProducts: resp.RecommendedProducts,
	})
}
