package engine

// OrderRegistry is the id→Order map plus a secondary status index,
// modeled on OrderEngine.cpp's OpenOrders/FilledOrders/CanceledOrders
// sets. The index stores ids only, never a second copy of the order
// record, per spec.md §9 ("Do not replicate the mutable order record in
// both places").
type OrderRegistry struct {
	orders   map[OrderID]*Order
	byStatus map[OrderStatus]map[OrderID]struct{}
}

func newOrderRegistry() *OrderRegistry {
	r := &OrderRegistry{
		orders:   make(map[OrderID]*Order),
		byStatus: make(map[OrderStatus]map[OrderID]struct{}),
	}
	for _, st := range []OrderStatus{StatusOpen, StatusFilled, StatusCancelled, StatusRejected} {
		r.byStatus[st] = make(map[OrderID]struct{})
	}
	return r
}

func (r *OrderRegistry) add(o *Order) {
	r.orders[o.ID] = o
	r.byStatus[o.Status][o.ID] = struct{}{}
}

func (r *OrderRegistry) get(id OrderID) (*Order, bool) {
	o, ok := r.orders[id]
	return o, ok
}

// setStatus moves an order between status buckets and updates its record
// in place. Callers hold the owning MatchingCore's lock.
func (r *OrderRegistry) setStatus(o *Order, status OrderStatus) {
	delete(r.byStatus[o.Status], o.ID)
	o.Status = status
	r.byStatus[status][o.ID] = struct{}{}
}

// byStatusSnapshot returns a copy of the ids currently in the given
// status bucket, safe to hand to a caller after the lock is released.
func (r *OrderRegistry) byStatusSnapshot(status OrderStatus) []OrderID {
	bucket := r.byStatus[status]
	ids := make([]OrderID, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	return ids
}
