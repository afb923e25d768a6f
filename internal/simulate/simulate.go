// Package simulate drives synthetic order flow against an exchange for
// validation, grounded on original_source/MonteCarloSim.cpp's
// monte_carlo_simulation and original_source/tmp.cpp's multi-ticker
// main(). spec.md §1 names a simulation harness as in scope ("a
// simulation harness drives synthetic flows for validation"); this is
// its Go port.
package simulate

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"matchbook/internal/engine"
	"matchbook/internal/exchange"
)

// Params mirrors monte_carlo_simulation's parameter list.
type Params struct {
	Ticker            string
	NumOrders         int
	IPOPrice          float64
	IPOQty            float64
	Volatility        float64
	Skew              float64
	CancelProbability float64
}

// Stats accumulates a per-ticker summary, the Go analogue of tmp.cpp's
// print_stats.
type Stats struct {
	Ticker          string
	Price           float64
	OpenOrders      int
	FilledOrders    int
	CancelledOrders int
	RejectedOrders  int
	BestBid         float64
	BestAsk         float64
}

// Run executes one ticker's flow against ex, seeding it via
// ex.List(ticker, ipo_price, ipo_qty) the way
// StockExchange->initialize_stock does, then issuing NumOrders random
// orders with a per-order cancel coin flip, exactly as
// monte_carlo_simulation's loop body does.
func Run(ex *exchange.Exchange, p Params) Stats {
	ex.List(p.Ticker, p.IPOPrice, p.IPOQty)

	rng := rand.New(rand.NewPCG(randomSeed(), randomSeed()))

	for i := 0; i < p.NumOrders; i++ {
		side := engine.SideBid
		if rng.IntN(2) == 1 {
			side = engine.SideAsk
		}
		typ := engine.TypeLimit
		if rng.IntN(2) == 1 {
			typ = engine.TypeMarket
		}
		qty := 1 + rng.Float64()*999

		currentPrice := ex.GetPrice(p.Ticker)
		var price float64
		if currentPrice >= 0 {
			skewDraw := p.Skew + rng.NormFloat64()*p.Volatility
			offset := -5 + rng.Float64()*10
			price = currentPrice + skewDraw + offset
		} else {
			price = p.IPOPrice
		}
		if price < 0 {
			price = 0
		}

		var id engine.OrderID
		if typ == engine.TypeMarket {
			id, _ = ex.PlaceOrder(p.Ticker, side, typ, qty, 0)
		} else {
			id, _ = ex.PlaceOrder(p.Ticker, side, typ, qty, price)
		}

		if id != 0 && rng.Float64() < p.CancelProbability {
			_, _ = ex.CancelOrder(p.Ticker, id)
		}
	}

	return collectStats(ex, p.Ticker)
}

func collectStats(ex *exchange.Exchange, ticker string) Stats {
	return Stats{
		Ticker:          ticker,
		Price:           ex.GetPrice(ticker),
		OpenOrders:      len(ex.GetOrdersByStatus(ticker, engine.StatusOpen)),
		FilledOrders:    len(ex.GetOrdersByStatus(ticker, engine.StatusFilled)),
		CancelledOrders: len(ex.GetOrdersByStatus(ticker, engine.StatusCancelled)),
		RejectedOrders:  len(ex.GetOrdersByStatus(ticker, engine.StatusRejected)),
		BestBid:         ex.GetBestBid(ticker),
		BestAsk:         ex.GetBestAsk(ticker),
	}
}

// RunMany fans Run out across tickers, one goroutine per ticker joined
// with a sync.WaitGroup — the Go shape of tmp.cpp's thread-per-ticker
// main(). Results are returned in the same order as params.
func RunMany(ex *exchange.Exchange, params []Params) []Stats {
	results := make([]Stats, len(params))
	var wg sync.WaitGroup
	for i, p := range params {
		wg.Add(1)
		go func(i int, p Params) {
			defer wg.Done()
			results[i] = Run(ex, p)
		}(i, p)
	}
	wg.Wait()
	return results
}

// LogStats prints a stats block the way tmp.cpp's print_stats does,
// through zerolog rather than std::cout.
func LogStats(log zerolog.Logger, s Stats) {
	log.Info().
		Str("ticker", s.Ticker).
		Float64("price", s.Price).
		Int("open_orders", s.OpenOrders).
		Int("filled_orders", s.FilledOrders).
		Int("cancelled_orders", s.CancelledOrders).
		Int("rejected_orders", s.RejectedOrders).
		Float64("best_bid", s.BestBid).
		Float64("best_ask", s.BestAsk).
		Msg("simulation stats")
}

func randomSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
