// Package exchange multiplexes one MatchingCore per ticker symbol and
// forwards client operations to the correct core (spec.md §4.9).
package exchange

import (
	"sync"

	"github.com/rs/zerolog"

	"matchbook/internal/engine"
)

// Exchange maps ticker → *engine.MatchingCore, creating a core the first
// time a ticker is used by any operation, not only List. Per-symbol cores are independent; there is no cross-symbol
// locking beyond the map itself. Grounded on src/engine/matcher.go's
// Matcher.GetOrCreateOrderBook double-checked-locking pattern, lifted one
// level to multiplex whole cores instead of bare order books, and on
// awstasiuk-market-simulator's per-symbol book map shape.
type Exchange struct {
	mu    sync.RWMutex
	cores map[string]*engine.MatchingCore

	sinkFactory func(ticker string) engine.EventSink
	log         zerolog.Logger
}

// New creates an empty Exchange. sinkFactory builds the EventSink handed
// to each newly created core; pass nil to use engine.NewLogSink(log) for
// every ticker.
func New(log zerolog.Logger, sinkFactory func(ticker string) engine.EventSink) *Exchange {
	return &Exchange{
		cores:       make(map[string]*engine.MatchingCore),
		sinkFactory: sinkFactory,
		log:         log,
	}
}

func (e *Exchange) core(ticker string) *engine.MatchingCore {
	e.mu.RLock()
	if c, ok := e.cores[ticker]; ok {
		e.mu.RUnlock()
		return c
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.cores[ticker]; ok {
		return c
	}

	var sink engine.EventSink
	if e.sinkFactory != nil {
		sink = e.sinkFactory(ticker)
	} else {
		sink = engine.NewLogSink(e.log)
	}
	c := engine.NewMatchingCore(ticker, sink, e.log)
	e.cores[ticker] = c
	return c
}

// List creates a MatchingCore for ticker if absent and seeds its starting
// price, mirroring StockExchange->initialize_stock in tmp.cpp.
// ipoQty is accepted for symmetry with the original signature; the
// matching core itself has no notion of a seed quantity, only a seed
// price used by GetPrice.
func (e *Exchange) List(ticker string, ipoPrice, ipoQty float64) {
	c := e.core(ticker)
	c.Seed(ipoPrice)
	_ = ipoQty
}

func (e *Exchange) PlaceOrder(ticker string, side engine.Side, typ engine.OrderType, qty, price float64) (engine.OrderID, error) {
	return e.core(ticker).PlaceOrder(side, typ, qty, price)
}

func (e *Exchange) CancelOrder(ticker string, id engine.OrderID) (bool, error) {
	return e.core(ticker).CancelOrder(id)
}

func (e *Exchange) EditOrder(ticker string, id engine.OrderID, side engine.Side, qty, price float64) (engine.OrderID, error) {
	return e.core(ticker).EditOrder(id, side, qty, price)
}

func (e *Exchange) GetOrder(ticker string, id engine.OrderID) (engine.Order, bool) {
	return e.core(ticker).GetOrder(id)
}

func (e *Exchange) GetBestBid(ticker string) float64 {
	return e.core(ticker).GetBestBid()
}

func (e *Exchange) GetBestAsk(ticker string) float64 {
	return e.core(ticker).GetBestAsk()
}

func (e *Exchange) GetPrice(ticker string) float64 {
	return e.core(ticker).GetPrice()
}

func (e *Exchange) GetOrdersByStatus(ticker string, status engine.OrderStatus) []engine.Order {
	return e.core(ticker).GetOrdersByStatus(status)
}

// Tickers returns every symbol that has a core, whether it was created by
// List or by first use in another operation.
func (e *Exchange) Tickers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.cores))
	for t := range e.cores {
		out = append(out, t)
	}
	return out
}

// Shutdown closes every core and waits for its worker to exit.
func (e *Exchange) Shutdown() {
	e.mu.RLock()
	cores := make([]*engine.MatchingCore, 0, len(e.cores))
	for _, c := range e.cores {
		cores = append(cores, c)
	}
	e.mu.RUnlock()

	var wg sync.WaitGroup
	for _, c := range cores {
		wg.Add(1)
		go func(c *engine.MatchingCore) {
			defer wg.Done()
			c.Close()
		}(c)
	}
	wg.Wait()
}
