package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	appconfig "github.com/shopsync/shopsync/config"
	"github.com/shopsync/shopsync/internal/chat"
)

func TestSearchRequiresQuery(t *testing.T) {
	e := echo.New()
	handler := &SearchHandler{}

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()

	if err := handler.search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("search: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSearchMockReturnsFixtures(t *testing.T) {
	e := echo.New()
	handler := &SearchHandler{}

	req := httptest.NewRequest(http.MethodGet, "/search?q=iphone+15&mock=true", nil)
	rec := httptest.NewRecorder()

	if err := handler.search(e.NewContext(req, rec)); err != nil {
		t.Fatalf("search: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !resp.IsFallback || resp.Count == 0 || len(resp.Products) != resp.Count {
		t.Fatalf("unexpected response: %+v", resp)
	}
	for i, p := range resp.Products {
		if p.ID == "" {
			t.Fatalf("product %d has no id", i)
		}
	}
}

func TestCompareRejectsBadCounts(t *testing.T) {
	e := echo.New()
	handler := &CompareHandler{}

	for _, body := range []string{
		`{"products":[{"id":"1","title":"a"}]}`,
		`{"products":[{"id":"1"},{"id":"2"},{"id":"3"},{"id":"4"},{"id":"5"}]}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/compare-details", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		if err := handler.compare(e.NewContext(req, rec)); err != nil {
			t.Fatalf("compare: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400 got %d for %s", rec.Code, body)
		}
	}
}

func TestChatRequiresMessage(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Router: chat.NewRouter(nil)}

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.chat(e.NewContext(req, rec)); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestChatFallbackRoutesSearch(t *testing.T) {
	e := echo.New()
	handler := &ChatHandler{Router: chat.NewRouter(nil)}

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"wireless headphones"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.chat(e.NewContext(req, rec)); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Action != "search" || resp.SearchQuery != "wireless headphones" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestModelsList(t *testing.T) {
	e := echo.New()
	handler := &ModelsHandler{Models: []appconfig.ModelEntry{
		{ID: "moonshotai/kimi-k2-instruct-0905", Name: "Kimi K2", Provider: "nvidia", Desc: "default"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()

	if err := handler.list(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	var resp struct {
		Models []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Provider string `json:"provider"`
		} `json:"models"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Models) != 1 || resp.Models[0].ID != "moonshotai/kimi-k2-instruct-0905" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
