package engine

// Level is the FIFO queue of resting orders sharing one price on one side.
// Invariant: never empty while its price is registered in the side's
// ladder; orders are appended in arrival order so the head is always the
// next to trade at that price.
type Level struct {
	Price  float64
	Orders []*Order
}

// OrderBookSide composes a PriceLadder of live prices with a price→Level
// map. One instance per side (bid/ask), instantiated with opposite
// comparators — generalizing the teacher's separate Bids/Asks btree.BTree
// fields plus the if-order.Side-== branches scattered through
// src/engine/orderbook.go into a single type used twice.
type OrderBookSide struct {
	side   Side
	ladder *PriceLadder
	levels map[float64]*Level
}

func newOrderBookSide(side Side) *OrderBookSide {
	var ladder *PriceLadder
	if side == SideBid {
		ladder = newBidLadder()
	} else {
		ladder = newAskLadder()
	}
	return &OrderBookSide{
		side:   side,
		ladder: ladder,
		levels: make(map[float64]*Level),
	}
}

// insert appends order to its working-price level, creating the level (and
// registering the price in the ladder) if this is the first order at that
// price.
func (s *OrderBookSide) insert(order *Order) {
	lvl, ok := s.levels[order.WorkPrice]
	if !ok {
		lvl = &Level{Price: order.WorkPrice}
		s.levels[order.WorkPrice] = lvl
		s.ladder.insert(order.WorkPrice)
	}
	lvl.Orders = append(lvl.Orders, order)
}

// head returns the best level's first order, or ok=false if the side is
// empty.
func (s *OrderBookSide) head() (*Order, bool) {
	price, ok := s.ladder.peekBest()
	if !ok {
		return nil, false
	}
	lvl := s.levels[price]
	if lvl == nil || len(lvl.Orders) == 0 {
		return nil, false
	}
	return lvl.Orders[0], true
}

// advanceHead drops the head of the best level, destroying the level (and
// un-registering its price) if that was the last order at that price.
func (s *OrderBookSide) advanceHead() {
	price, ok := s.ladder.peekBest()
	if !ok {
		return
	}
	lvl := s.levels[price]
	if lvl == nil || len(lvl.Orders) == 0 {
		return
	}
	lvl.Orders = lvl.Orders[1:]
	if len(lvl.Orders) == 0 {
		delete(s.levels, price)
		s.ladder.remove(price)
	}
}

// removeByID locates order by its working price and filters it out of the
// FIFO, removing the level if it empties. Returns false if the order is
// not resting on this side at its recorded price.
func (s *OrderBookSide) removeByID(order *Order) bool {
	lvl := s.levels[order.WorkPrice]
	if lvl == nil {
		return false
	}
	for i, o := range lvl.Orders {
		if o.ID == order.ID {
			lvl.Orders = append(lvl.Orders[:i], lvl.Orders[i+1:]...)
			if len(lvl.Orders) == 0 {
				delete(s.levels, order.WorkPrice)
				s.ladder.remove(order.WorkPrice)
			}
			return true
		}
	}
	return false
}

// bestPrice returns the price of the best level, or ok=false if empty.
func (s *OrderBookSide) bestPrice() (float64, bool) {
	return s.ladder.peekBest()
}

// totalQty sums the remaining quantity resting across every level on this
// side, mirroring src/engine/matcher.go's matchMarketOrder pre-scan that
// sums totalAvailable across the opposing book before admitting a MARKET
// order.
func (s *OrderBookSide) totalQty() float64 {
	var total float64
	s.ladder.ascendBest(func(price float64) bool {
		lvl := s.levels[price]
		if lvl != nil {
			for _, o := range lvl.Orders {
				total += o.RemQty
			}
		}
		return true
	})
	return total
}
