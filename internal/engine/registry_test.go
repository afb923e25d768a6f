package engine

import "testing"

func TestRegistrySetStatusMovesBetweenBuckets(t *testing.T) {
	r := newOrderRegistry()
	o := &Order{ID: 1, Side: SideBid, Type: TypeLimit, RemQty: 10, Status: StatusOpen}
	r.add(o)

	open := r.byStatusSnapshot(StatusOpen)
	if len(open) != 1 || open[0] != 1 {
		t.Fatalf("expected order 1 in OPEN bucket, got %v", open)
	}

	r.setStatus(o, StatusFilled)
	if o.Status != StatusFilled {
		t.Fatalf("expected status mutated in place, got %s", o.Status)
	}

	open = r.byStatusSnapshot(StatusOpen)
	if len(open) != 0 {
		t.Fatalf("expected OPEN bucket empty after transition, got %v", open)
	}
	filled := r.byStatusSnapshot(StatusFilled)
	if len(filled) != 1 || filled[0] != 1 {
		t.Fatalf("expected order 1 in FILLED bucket, got %v", filled)
	}
}

func TestRegistryGetUnknownID(t *testing.T) {
	r := newOrderRegistry()
	if _, ok := r.get(999); ok {
		t.Fatal("expected unknown id to miss")
	}
}
