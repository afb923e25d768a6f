package exchange

import (
	"testing"

	"github.com/rs/zerolog"

	"matchbook/internal/engine"
)

func TestListSeedsPriceOnEmptyBook(t *testing.T) {
	ex := New(zerolog.Nop(), nil)
	defer ex.Shutdown()

	ex.List("AAPL", 150.0, 1000)

	if price := ex.GetPrice("AAPL"); price != 150.0 {
		t.Fatalf("expected seeded price 150.0, got %v", price)
	}
}

func TestPerTickerCoresAreIndependent(t *testing.T) {
	ex := New(zerolog.Nop(), nil)
	defer ex.Shutdown()

	if _, err := ex.PlaceOrder("AAPL", engine.SideAsk, engine.TypeLimit, 5, 100); err != nil {
		t.Fatalf("place AAPL ask: %v", err)
	}
	if _, err := ex.PlaceOrder("GOOGL", engine.SideAsk, engine.TypeLimit, 5, 2500); err != nil {
		t.Fatalf("place GOOGL ask: %v", err)
	}

	if price := ex.GetBestAsk("AAPL"); price != 100 {
		t.Errorf("expected AAPL best ask 100, got %v", price)
	}
	if price := ex.GetBestAsk("GOOGL"); price != 2500 {
		t.Errorf("expected GOOGL best ask 2500, got %v", price)
	}

	tickers := ex.Tickers()
	if len(tickers) != 2 {
		t.Errorf("expected 2 listed tickers, got %v", tickers)
	}
}

func TestGetOrderUnknownTickerCreatesEmptyCore(t *testing.T) {
	ex := New(zerolog.Nop(), nil)
	defer ex.Shutdown()

	if _, ok := ex.GetOrder("NEWTICKER", 1); ok {
		t.Fatal("expected no order on a freshly auto-created core")
	}
	if price := ex.GetPrice("NEWTICKER"); price != -1 {
		t.Errorf("expected -1 sentinel on an unseeded empty core, got %v", price)
	}
}
