package book

import (
	"testing"

	"github.com/rickgao/kalshi-liquidity/internal/model"
)

func levels(pairs ...[2]int) []model.QuoteLevel {
	out := make([]model.QuoteLevel, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, model.QuoteLevel{Price: p[0], Quantity: p[1]})
	}
	return out
}

func TestNormalize_Inversion(t *testing.T) {
	// End-to-end fixture: crossed book passed through unmodified.
	b := Normalize(
		levels([2]int{48, 20}, [2]int{47, 15}),
		levels([2]int{55, 30}),
	)

	wantBids := levels([2]int{48, 20}, [2]int{47, 15})
	wantAsks := levels([2]int{45, 30})

	if len(b.Bids) != len(wantBids) {
		t.Fatalf("len(Bids) = %d, want %d", len(b.Bids), len(wantBids))
	}
	for i, l := range wantBids {
		if b.Bids[i] != l {
			t.Errorf("Bids[%d] = %+v, want %+v", i, b.Bids[i], l)
		}
	}
	for i, l := range wantAsks {
		if b.Asks[i] != l {
			t.Errorf("Asks[%d] = %+v, want %+v", i, b.Asks[i], l)
		}
	}

	if b.BestBid == nil || *b.BestBid != 48 {
		t.Errorf("BestBid = %v, want 48", b.BestBid)
	}
	if b.BestAsk == nil || *b.BestAsk != 45 {
		t.Errorf("BestAsk = %v, want 45", b.BestAsk)
	}
	if b.TotalBidDepth != 35 {
		t.Errorf("TotalBidDepth = %d, want 35", b.TotalBidDepth)
	}
	if b.TotalAskDepth != 30 {
		t.Errorf("TotalAskDepth = %d, want 30", b.TotalAskDepth)
	}
	if !b.Crossed() {
		t.Error("book should report crossed")
	}
	if b.Spread == nil || *b.Spread != -3 {
		t.Errorf("Spread = %v, want -3", b.Spread)
	}
}

func TestNormalize_Sorting(t *testing.T) {
	b := Normalize(
		levels([2]int{30, 1}, [2]int{45, 1}, [2]int{12, 1}, [2]int{40, 1}),
		levels([2]int{20, 1}, [2]int{50, 1}, [2]int{35, 1}),
	)

	for i := 1; i < len(b.Bids); i++ {
		if b.Bids[i].Price >= b.Bids[i-1].Price {
			t.Errorf("bid prices not strictly descending at %d: %v", i, b.Bids)
		}
	}
	for i := 1; i < len(b.Asks); i++ {
		if b.Asks[i].Price <= b.Asks[i-1].Price {
			t.Errorf("ask prices not strictly ascending at %d: %v", i, b.Asks)
		}
	}
}

func TestNormalize_AskRoundTrip(t *testing.T) {
	no := levels([2]int{1, 5}, [2]int{50, 5}, [2]int{99, 5})
	b := Normalize(nil, no)

	// Inverting an ask price recovers the original NO bid price.
	seen := make(map[int]bool)
	for _, a := range b.Asks {
		seen[100-a.Price] = true
	}
	for _, l := range no {
		if !seen[l.Price] {
			t.Errorf("NO price %d not recoverable from asks %v", l.Price, b.Asks)
		}
	}
}

func TestNormalize_DuplicatePricesSummed(t *testing.T) {
	b := Normalize(levels([2]int{50, 10}, [2]int{50, 5}), nil)

	if len(b.Bids) != 1 {
		t.Fatalf("len(Bids) = %d, want 1", len(b.Bids))
	}
	if b.Bids[0] != (model.QuoteLevel{Price: 50, Quantity: 15}) {
		t.Errorf("Bids[0] = %+v, want {50 15}", b.Bids[0])
	}
	if b.TotalBidDepth != 15 {
		t.Errorf("TotalBidDepth = %d, want 15", b.TotalBidDepth)
	}
}

func TestNormalize_EmptyBidSide(t *testing.T) {
	b := Normalize(nil, levels([2]int{60, 10}))

	if b.BestBid != nil {
		t.Errorf("BestBid = %v, want nil", b.BestBid)
	}
	if b.Mid != nil {
		t.Errorf("Mid = %v, want nil", b.Mid)
	}
	if b.Spread != nil {
		t.Errorf("Spread = %v, want nil", b.Spread)
	}
	if b.TotalBidDepth != 0 {
		t.Errorf("TotalBidDepth = %d, want 0", b.TotalBidDepth)
	}
	if b.BestAsk == nil || *b.BestAsk != 40 {
		t.Errorf("BestAsk = %v, want 40", b.BestAsk)
	}
}

func TestNormalize_EmptyBook(t *testing.T) {
	b := Normalize(nil, nil)

	if b.BestBid != nil || b.BestAsk != nil || b.Mid != nil || b.Spread != nil {
		t.Errorf("empty book produced summary values: %+v", b)
	}
	if len(b.Bids) != 0 || len(b.Asks) != 0 {
		t.Errorf("empty book produced levels: %+v", b)
	}
	if b.Crossed() {
		t.Error("empty book should not report crossed")
	}
}

func TestNormalize_MidAndSpread(t *testing.T) {
	b := Normalize(
		levels([2]int{48, 20}),
		levels([2]int{48, 10}), // ask at 52
	)

	if b.Mid == nil || *b.Mid != 50.0 {
		t.Errorf("Mid = %v, want 50.0", b.Mid)
	}
	if b.Spread == nil || *b.Spread != 4 {
		t.Errorf("Spread = %v, want 4", b.Spread)
	}
	if b.Crossed() {
		t.Error("book should not report crossed")
	}
}
