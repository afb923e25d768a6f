package engine

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// workState models the handoff between client goroutines and the
// dedicated matching worker. spec.md's original protocol uses a single
// "work pending" boolean plus an "engine running" boolean; a cleaner port
// uses a small enum instead (spec.md §9), since idle/pending/draining are
// mutually exclusive and a two-boolean encoding can represent states that
// never actually occur.
type workState int

const (
	stateIdle workState = iota
	statePending
	stateDraining
)

// MatchingCore is the single-instrument engine: both sides, the order
// registry, the id allocator and the event emitter, all guarded by one
// mutex (spec.md §5). Grounded on OrderEngine.cpp's OrderEngine class for
// the concurrency protocol and on src/engine/matcher.go for the Go-shaped
// matching loop.
type MatchingCore struct {
	symbol string

	mu   sync.Mutex
	cond *sync.Cond

	bids *OrderBookSide
	asks *OrderBookSide

	registry *OrderRegistry
	nextID   OrderID

	aggressorID OrderID
	state       workState
	running     bool
	stopped     chan struct{}

	sink EventSink
	log  zerolog.Logger

	seedPrice float64
	hasSeed   bool
}

// NewMatchingCore creates a core for one ticker symbol and starts its
// dedicated matching worker.
func NewMatchingCore(symbol string, sink EventSink, log zerolog.Logger) *MatchingCore {
	c := &MatchingCore{
		symbol:   symbol,
		bids:     newOrderBookSide(SideBid),
		asks:     newOrderBookSide(SideAsk),
		registry: newOrderRegistry(),
		nextID:   1,
		state:    stateIdle,
		running:  true,
		stopped:  make(chan struct{}),
		sink:     sink,
		log:      log.With().Str("symbol", symbol).Logger(),
	}
	c.cond = sync.NewCond(&c.mu)
	go c.runWorker()
	return c
}

// Seed records a starting price used by GetPrice whenever either side of
// the book is empty, mirroring
// StockExchange->initialize_stock in tmp.cpp.
func (c *MatchingCore) Seed(price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seedPrice = price
	c.hasSeed = true
}

func (c *MatchingCore) sideFor(s Side) *OrderBookSide {
	if s == SideBid {
		return c.bids
	}
	return c.asks
}

// PlaceOrder implements spec.md §4.4. Returns id 0 on any rejection.
func (c *MatchingCore) PlaceOrder(side Side, typ OrderType, qty, price float64) (OrderID, error) {
	c.mu.Lock()

	if !c.running {
		c.mu.Unlock()
		return 0, ErrShuttingDown
	}

	if qty <= 0 {
		c.registerRejected(side, typ, qty, price, "invalid quantity")
		c.mu.Unlock()
		return 0, ErrInvalidQuantity
	}

	// edge case: a MARKET order must be able to fill in full or it is
	// rejected outright rather than left resting with a stranded residual
	// (spec.md §3, "MARKET orders never rest"). Pre-sum the opposite
	// side's total resting quantity the way matchMarketOrder does before
	// admitting the order.
	opposite := c.sideFor(side.opposite())
	if typ == TypeMarket && opposite.totalQty() < qty {
		c.registerRejected(side, typ, qty, price, "insufficient opposing liquidity")
		c.mu.Unlock()
		return 0, ErrMarketNoLiquidity
	}

	id := c.nextID
	c.nextID++

	workPrice := c.deriveWorkingPrice(side, typ, price)
	order := &Order{
		ID:        id,
		Side:      side,
		Type:      typ,
		Arrival:   time.Now(),
		OrigQty:   qty,
		RemQty:    qty,
		WorkPrice: workPrice,
		Status:    StatusOpen,
	}
	c.registry.add(order)
	c.sideFor(side).insert(order)
	c.emitLocked(Event{Kind: EventOpen, OrderID: id, Side: side, Type: typ, Qty: qty, Price: workPrice, Timestamp: order.Arrival})

	c.aggressorID = id
	c.raiseAndWait()

	c.mu.Unlock()
	return id, nil
}

// registerRejected records a REJECTED order in the registry so it is
// listable via GetOrdersByStatus(StatusRejected), without ever inserting
// it into a book side (spec.md §8: "every REJECTED order is reachable
// from no level"). The public PlaceOrder contract still returns id 0 to
// the caller; the registry id assigned here is bookkeeping only.
// Caller holds c.mu.
func (c *MatchingCore) registerRejected(side Side, typ OrderType, qty, price float64, reason string) {
	id := c.nextID
	c.nextID++
	order := &Order{
		ID:        id,
		Side:      side,
		Type:      typ,
		Arrival:   time.Now(),
		OrigQty:   qty,
		RemQty:    0,
		WorkPrice: price,
		Status:    StatusRejected,
	}
	c.registry.add(order)
	c.emitLocked(Event{Kind: EventReject, OrderID: id, Side: side, Type: typ, Qty: qty, Price: price, Timestamp: order.Arrival, Reason: reason})
}

// deriveWorkingPrice implements spec.md §4.4 step 2, ported from
// OrderEngine.cpp's inline clamping in place_order.
func (c *MatchingCore) deriveWorkingPrice(side Side, typ OrderType, price float64) float64 {
	switch {
	case side == SideBid && typ == TypeLimit:
		if best, ok := c.asks.bestPrice(); ok && price > best {
			return best
		}
		return price
	case side == SideAsk && typ == TypeLimit:
		if best, ok := c.bids.bestPrice(); ok && price < best {
			return best
		}
		return price
	case side == SideBid && typ == TypeMarket:
		best, _ := c.asks.bestPrice()
		return best
	default: // SideAsk && TypeMarket
		best, _ := c.bids.bestPrice()
		return best
	}
}

// CancelOrder implements spec.md §4.5.
func (c *MatchingCore) CancelOrder(id OrderID) (bool, error) {
	c.mu.Lock()

	if !c.running {
		c.mu.Unlock()
		return false, ErrShuttingDown
	}

	order, ok := c.registry.get(id)
	if !ok {
		c.mu.Unlock()
		return false, ErrUnknownOrder
	}
	if order.Status != StatusOpen || order.Type != TypeLimit {
		c.emitLocked(Event{Kind: EventReject, OrderID: id, Side: order.Side, Type: order.Type, Qty: order.RemQty, Price: order.WorkPrice, Timestamp: time.Now(), Reason: "not cancelable"})
		c.mu.Unlock()
		return false, ErrNotCancelable
	}

	c.sideFor(order.Side).removeByID(order)
	c.registry.setStatus(order, StatusCancelled)
	c.emitLocked(Event{Kind: EventCancel, OrderID: id, Side: order.Side, Type: order.Type, Qty: order.RemQty, Price: order.WorkPrice, Timestamp: time.Now()})

	c.aggressorID = 0
	c.raiseAndWait()

	c.mu.Unlock()
	return true, nil
}

// EditOrder implements spec.md §4.6: cancel-then-place. Time priority is
// intentionally lost, matching the defined semantics of edit.
func (c *MatchingCore) EditOrder(id OrderID, side Side, qty, price float64) (OrderID, error) {
	ok, err := c.CancelOrder(id)
	if !ok {
		return 0, err
	}
	return c.PlaceOrder(side, TypeLimit, qty, price)
}

// raiseAndWait signals the worker and blocks until it reports idle again.
// Caller holds c.mu.
func (c *MatchingCore) raiseAndWait() {
	c.state = statePending
	c.cond.Broadcast()
	for c.state != stateIdle {
		c.cond.Wait()
	}
}

// runWorker is the dedicated matching worker (spec.md §5). It owns the
// lock for its entire lifetime except while blocked in cond.Wait.
func (c *MatchingCore) runWorker() {
	c.mu.Lock()
	for {
		for c.state == stateIdle && c.running {
			c.cond.Wait()
		}
		if !c.running {
			c.state = stateIdle
			c.cond.Broadcast()
			c.mu.Unlock()
			close(c.stopped)
			return
		}
		c.state = stateDraining
		c.drainMatchLoop()
		c.state = stateIdle
		c.cond.Broadcast()
	}
}

// drainMatchLoop implements spec.md §4.7. Caller (runWorker) holds c.mu.
func (c *MatchingCore) drainMatchLoop() {
	for {
		aggressor, ok := c.registry.get(c.aggressorID)
		if !ok {
			return
		}
		if aggressor.Status != StatusOpen || aggressor.RemQty <= 0 {
			return
		}

		askHead, okAsk := c.asks.head()
		bidHead, okBid := c.bids.head()
		if !okAsk || !okBid {
			return
		}
		// A MARKET aggressor's working price is the opposite best at intake,
		// so it keeps crossing deeper opposite levels until it is exhausted.
		marketHead := aggressor.Type == TypeMarket && (aggressor == askHead || aggressor == bidHead)
		if bidHead.WorkPrice < askHead.WorkPrice && !marketHead {
			return
		}

		fillQty := math.Min(askHead.RemQty, bidHead.RemQty)
		tradeID := uuid.New().String()
		now := time.Now()

		askHead.RemQty -= fillQty
		bidHead.RemQty -= fillQty
		c.emitFill(askHead, fillQty, tradeID, now)
		c.emitFill(bidHead, fillQty, tradeID, now)

		if askHead.RemQty <= 0 {
			c.asks.advanceHead()
			c.registry.setStatus(askHead, StatusFilled)
		}
		if bidHead.RemQty <= 0 {
			c.bids.advanceHead()
			c.registry.setStatus(bidHead, StatusFilled)
		}
	}
}

func (c *MatchingCore) emitFill(o *Order, qty float64, tradeID string, ts time.Time) {
	kind := EventPartialFill
	if o.RemQty <= 0 {
		kind = EventFill
	}
	c.emitLocked(Event{Kind: kind, OrderID: o.ID, Side: o.Side, Type: o.Type, Qty: qty, Price: o.WorkPrice, Timestamp: ts, TradeID: tradeID})
}

func (c *MatchingCore) emitLocked(e Event) {
	if c.sink != nil {
		c.sink.Handle(e)
	}
}

// GetOrder returns a point-in-time copy of an order's record.
func (c *MatchingCore) GetOrder(id OrderID) (Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.registry.get(id)
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// GetBestBid returns the best bid price, or -1 if the bid side is empty.
func (c *MatchingCore) GetBestBid() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.bids.bestPrice(); ok {
		return p
	}
	return -1
}

// GetBestAsk returns the best ask price, or -1 if the ask side is empty.
func (c *MatchingCore) GetBestAsk() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.asks.bestPrice(); ok {
		return p
	}
	return -1
}

// GetPrice returns the mid of best bid/ask, falling back to the seeded
// starting price when the book is empty on either side, or -1 if neither
// is available.
func (c *MatchingCore) GetPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	bid, okBid := c.bids.bestPrice()
	ask, okAsk := c.asks.bestPrice()
	if okBid && okAsk {
		return (bid + ask) / 2
	}
	if c.hasSeed {
		return c.seedPrice
	}
	return -1
}

// GetOrdersByStatus returns copies of every order currently in the given
// status bucket.
func (c *MatchingCore) GetOrdersByStatus(status OrderStatus) []Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := c.registry.byStatusSnapshot(status)
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := c.registry.get(id); ok {
			out = append(out, *o)
		}
	}
	return out
}

// Close stops the worker and waits for it to exit. Pending calls that
// were already mid-handoff observe c.running==false and return their
// pre-computed results without a further match-loop pass (spec.md §7.3).
func (c *MatchingCore) Close() {
	c.mu.Lock()
	c.running = false
	c.cond.Broadcast()
	c.mu.Unlock()
	<-c.stopped
}
