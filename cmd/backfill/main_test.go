package main

import (
	"testing"

	"github.com/rickgao/kalshi-liquidity/internal/api"
)

func TestTrackedTicker(t *testing.T) {
	tests := []struct {
		name    string
		tickers []string
		want    string
	}{
		{"mirror pair", []string{"KXNFLGAME-26JAN10GBCHI-GB", "KXNFLGAME-26JAN10GBCHI-CHI"}, "KXNFLGAME-26JAN10GBCHI-CHI"},
		{"order independent", []string{"KXNFLGAME-26JAN10GBCHI-CHI", "KXNFLGAME-26JAN10GBCHI-GB"}, "KXNFLGAME-26JAN10GBCHI-CHI"},
		{"single market", []string{"KXNFLGAME-26JAN10GBCHI-GB"}, "KXNFLGAME-26JAN10GBCHI-GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markets := make([]api.APIMarket, 0, len(tt.tickers))
			for _, tk := range tt.tickers {
				markets = append(markets, api.APIMarket{Ticker: tk})
			}
			if got := trackedTicker(markets); got != tt.want {
				t.Errorf("trackedTicker = %q, want %q", got, tt.want)
			}
		})
	}
}
