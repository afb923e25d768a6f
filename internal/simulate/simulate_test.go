package simulate

import (
	"testing"

	"github.com/rs/zerolog"

	"matchbook/internal/exchange"
)

func TestRunProducesConsistentStats(t *testing.T) {
	ex := exchange.New(zerolog.Nop(), nil)
	defer ex.Shutdown()

	stats := Run(ex, Params{
		Ticker:            "AAPL",
		NumOrders:         200,
		IPOPrice:          100,
		IPOQty:            1000,
		Volatility:        0.5,
		Skew:              0.5,
		CancelProbability: 0.1,
	})

	if stats.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL, got %s", stats.Ticker)
	}
	total := stats.OpenOrders + stats.FilledOrders + stats.CancelledOrders
	if total == 0 {
		t.Errorf("expected some orders to have landed in a terminal or open state")
	}
	if stats.Price < 0 {
		t.Errorf("expected a valid price after orders were placed, got %v", stats.Price)
	}
}

func TestRunManyCoversEveryTicker(t *testing.T) {
	ex := exchange.New(zerolog.Nop(), nil)
	defer ex.Shutdown()

	params := []Params{
		{Ticker: "AAPL", NumOrders: 50, IPOPrice: 100, IPOQty: 1000, Volatility: 0.5, Skew: 0.5, CancelProbability: 0.1},
		{Ticker: "TSLA", NumOrders: 50, IPOPrice: 200, IPOQty: 1000, Volatility: 0.5, Skew: 0.5, CancelProbability: 0.1},
	}

	results := RunMany(ex, params)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Ticker != "AAPL" || results[1].Ticker != "TSLA" {
		t.Errorf("expected results in param order, got %s then %s", results[0].Ticker, results[1].Ticker)
	}
}
