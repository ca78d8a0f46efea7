package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.limiter == nil {
			t.Error("limiter should be set by default")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient("https://api.example.com", WithRetries(5, 2*time.Second))
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})

	t.Run("rate limit disabled", func(t *testing.T) {
		c := NewClient("https://api.example.com", WithRateLimit(0))
		if c.limiter != nil {
			t.Error("limiter should be nil when disabled")
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		expected := "kalshi api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code string
			err  *APIError
			want bool
		}{
			{"500", &APIError{StatusCode: 500}, true},
			{"503", &APIError{StatusCode: 503}, true},
			{"429", &APIError{StatusCode: 429}, true},
			{"404", &APIError{StatusCode: 404}, false},
			{"400", &APIError{StatusCode: 400}, false},
		}

		for _, tt := range tests {
			t.Run(tt.code, func(t *testing.T) {
				if got := tt.err.IsRetryable(); got != tt.want {
					t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
				}
			})
		}
	})
}

func TestGetMarkets(t *testing.T) {
	t.Run("passes series and status filters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/markets" {
				t.Errorf("path = %q, want /markets", r.URL.Path)
			}
			if got := r.URL.Query().Get("series_ticker"); got != "KXNFLGAME" {
				t.Errorf("series_ticker = %q, want KXNFLGAME", got)
			}
			if got := r.URL.Query().Get("status"); got != "open" {
				t.Errorf("status = %q, want open", got)
			}
			json.NewEncoder(w).Encode(MarketsResponse{
				Markets: []APIMarket{{Ticker: "KXNFLGAME-26JAN10GBCHI-GB"}},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		resp, err := c.GetMarkets(context.Background(), GetMarketsOptions{
			SeriesTicker: "KXNFLGAME",
			Status:       "open",
		})
		if err != nil {
			t.Fatalf("GetMarkets failed: %v", err)
		}
		if len(resp.Markets) != 1 {
			t.Errorf("len(Markets) = %d, want 1", len(resp.Markets))
		}
	})

	t.Run("paginates until cursor is empty", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := calls.Add(1)
			resp := MarketsResponse{Markets: []APIMarket{{Ticker: "M"}}}
			if n == 1 {
				resp.Cursor = "next-page"
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		markets, err := c.GetAllMarkets(context.Background(), GetMarketsOptions{})
		if err != nil {
			t.Fatalf("GetAllMarkets failed: %v", err)
		}
		if len(markets) != 2 {
			t.Errorf("len(markets) = %d, want 2", len(markets))
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d, want 2", calls.Load())
		}
	})
}

func TestGetOrderbook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/TEST-1/orderbook" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"orderbook": map[string]any{
				"yes": [][]int{{48, 20}, {47, 15}},
				"no":  [][]int{{55, 30}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	resp, err := c.GetOrderbook(context.Background(), "TEST-1", 0)
	if err != nil {
		t.Fatalf("GetOrderbook failed: %v", err)
	}
	if len(resp.Orderbook.Yes) != 2 {
		t.Errorf("len(Yes) = %d, want 2", len(resp.Orderbook.Yes))
	}
	if len(resp.Orderbook.No) != 1 {
		t.Errorf("len(No) = %d, want 1", len(resp.Orderbook.No))
	}
}

func TestGetCandlesticks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/series/KXNFLGAME/events/KXNFLGAME-26JAN10GBCHI/candlesticks"
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if got := r.URL.Query().Get("period_interval"); got != "60" {
			t.Errorf("period_interval = %q, want 60", got)
		}
		json.NewEncoder(w).Encode(CandlesticksResponse{
			Candlesticks: []APICandlestick{
				{
					EndPeriodTS:  1736510400,
					Price:        APICandlePrices{Open: 45, High: 48, Low: 44, Close: 47},
					Volume:       1200,
					OpenInterest: 9000,
				},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	resp, err := c.GetCandlesticks(context.Background(), "KXNFLGAME", "KXNFLGAME-26JAN10GBCHI", GetCandlesticksOptions{
		StartTS:        1736400000,
		EndTS:          1736600000,
		PeriodInterval: 60,
	})
	if err != nil {
		t.Fatalf("GetCandlesticks failed: %v", err)
	}
	if len(resp.Candlesticks) != 1 {
		t.Fatalf("len(Candlesticks) = %d, want 1", len(resp.Candlesticks))
	}
	if resp.Candlesticks[0].Price.Close != 47 {
		t.Errorf("Close = %d, want 47", resp.Candlesticks[0].Price.Close)
	}
}

func TestRetry(t *testing.T) {
	t.Run("retries on 500 then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(ExchangeStatusResponse{ExchangeActive: true})
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		status, err := c.GetExchangeStatus(context.Background())
		if err != nil {
			t.Fatalf("GetExchangeStatus failed: %v", err)
		}
		if !status.ExchangeActive {
			t.Error("ExchangeActive = false, want true")
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d, want 2", calls.Load())
		}
	})

	t.Run("does not retry on 404", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		_, err := c.GetMarket(context.Background(), "MISSING")
		if err == nil {
			t.Fatal("expected error")
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error type = %T, want *APIError", err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(2, time.Millisecond))
		_, err := c.GetExchangeStatus(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 3 { // initial attempt + 2 retries
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})
}
