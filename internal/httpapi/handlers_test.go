package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"matchbook/internal/exchange"
)

func setupTestServer() *fiber.App {
	os.Setenv("RATE_LIMIT_DISABLED", "1")
	defer os.Unsetenv("RATE_LIMIT_DISABLED")

	ex := exchange.New(zerolog.Nop(), nil)
	handler := NewExchangeHandler(ex)

	app := fiber.New()
	SetupRoutes(app, handler)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestListThenSubmitThenQuote(t *testing.T) {
	app := setupTestServer()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/exchange/AAPL/list", ListTickerRequest{IPOPrice: 150, IPOQty: 1000})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 listing ticker, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/v1/exchange/AAPL/orders", SubmitOrderRequest{Side: "ASK", Type: "LIMIT", Price: 151, Quantity: 10})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 submitting order, got %d", resp.StatusCode)
	}
	var submitted SubmitOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.OrderID == 0 {
		t.Fatalf("expected nonzero order id")
	}

	resp = doJSON(t, app, http.MethodGet, "/api/v1/exchange/AAPL/quote", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 fetching quote, got %d", resp.StatusCode)
	}
	var quote QuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		t.Fatalf("decode quote response: %v", err)
	}
	if quote.BestAsk != 151 {
		t.Errorf("expected best ask 151, got %v", quote.BestAsk)
	}
	if quote.Price != 150 {
		t.Errorf("expected seeded price 150, got %v", quote.Price)
	}
}

func TestSubmitOrderRejectsBadSide(t *testing.T) {
	app := setupTestServer()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/exchange/AAPL/orders", SubmitOrderRequest{Side: "SIDEWAYS", Type: "LIMIT", Price: 100, Quantity: 10})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid side, got %d", resp.StatusCode)
	}
}

func TestCancelThenGetOrderStatusReflectsCancellation(t *testing.T) {
	app := setupTestServer()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/exchange/AAPL/orders", SubmitOrderRequest{Side: "BID", Type: "LIMIT", Price: 100, Quantity: 10})
	var submitted SubmitOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}

	cancelPath := "/api/v1/exchange/AAPL/orders/" + strconv.FormatUint(submitted.OrderID, 10)
	resp = doJSON(t, app, http.MethodDelete, cancelPath, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cancelling order, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, cancelPath, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 fetching order status, got %d", resp.StatusCode)
	}
	var status OrderStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if status.Status != "CANCELLED" {
		t.Errorf("expected CANCELLED status, got %s", status.Status)
	}
}

func TestGetOrderStatusUnknownIDReturnsNotFound(t *testing.T) {
	app := setupTestServer()

	resp := doJSON(t, app, http.MethodGet, "/api/v1/exchange/AAPL/orders/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order id, got %d", resp.StatusCode)
	}
}

func TestHealthCheckReportsListedTickers(t *testing.T) {
	app := setupTestServer()

	doJSON(t, app, http.MethodPost, "/api/v1/exchange/AAPL/list", ListTickerRequest{IPOPrice: 150, IPOQty: 1000})

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from health check, got %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if health.Tickers != 1 {
		t.Errorf("expected 1 listed ticker, got %d", health.Tickers)
	}
}
