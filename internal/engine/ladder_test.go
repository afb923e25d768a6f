package engine

import "testing"

func TestAskLadderBestIsMinimum(t *testing.T) {
	l := newAskLadder()
	l.insert(101)
	l.insert(99)
	l.insert(100)

	best, ok := l.peekBest()
	if !ok || best != 99 {
		t.Fatalf("expected best 99, got %v ok=%v", best, ok)
	}

	l.remove(99)
	best, ok = l.peekBest()
	if !ok || best != 100 {
		t.Fatalf("expected best 100 after removing 99, got %v ok=%v", best, ok)
	}
}

func TestBidLadderBestIsMaximum(t *testing.T) {
	l := newBidLadder()
	l.insert(99)
	l.insert(101)
	l.insert(100)

	best, ok := l.peekBest()
	if !ok || best != 101 {
		t.Fatalf("expected best 101, got %v ok=%v", best, ok)
	}

	l.remove(101)
	best, ok = l.peekBest()
	if !ok || best != 100 {
		t.Fatalf("expected best 100 after removing 101, got %v ok=%v", best, ok)
	}
}

func TestLadderEmptyHasNoBest(t *testing.T) {
	l := newAskLadder()
	if _, ok := l.peekBest(); ok {
		t.Fatal("expected no best price on an empty ladder")
	}
	if l.size() != 0 {
		t.Fatalf("expected size 0, got %d", l.size())
	}
}
