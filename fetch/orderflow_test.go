package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

func TestFormURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			"bare endpoint",
			"http://base",
			"http://base/candles?a=b",
		},
		{
			"trailing slash",
			"http://base/",
			"http://base/candles?a=b",
		},
		{
			"pre-included candles path",
			"http://base/candles",
			"http://base/candles?a=b",
		},
		{
			"pre-included candles path with trailing slash",
			"http://base/candles/",
			"http://base/candles?a=b",
		},
	}

	for _, test := range tests {
		oc := NewOrderflowClient(&OrderflowConfig{BaseURL: test.baseURL, APIKey: "key"})
		formedURL := oc.formURL("a=b")
		if formedURL != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, formedURL)
		}
	}
}

func TestParseCandlesticks(t *testing.T) {
	oc := NewOrderflowClient(&OrderflowConfig{BaseURL: "http://base", APIKey: "key"})

	data := `[{"time":1700000000,"open":100,"high":105,"low":99,"close":103},
		{"time":1700000060,"open":103,"high":104,"low":98,"close":100}]`
	gjd := gjson.Parse(data).Array()

	// Ensure parsing preserves order, length and field values exactly.
	candles := oc.ParseCandlesticks(gjd)
	assert.Equal(t, len(candles), 2)
	assert.Equal(t, candles[0].Time, int64(1700000000))
	assert.Equal(t, candles[0].Open, float64(100))
	assert.Equal(t, candles[0].High, float64(105))
	assert.Equal(t, candles[0].Low, float64(99))
	assert.Equal(t, candles[0].Close, float64(103))
	assert.Equal(t, candles[1].Time, int64(1700000060))
	assert.Equal(t, candles[1].Close, float64(100))

	// Ensure numeric-string and timestamp-string times are coerced.
	strData := `[{"time":"1700000000","open":1,"high":1,"low":1,"close":1},
		{"time":"2023-11-14T22:13:20Z","open":1,"high":1,"low":1,"close":1}]`
	candles = oc.ParseCandlesticks(gjson.Parse(strData).Array())
	assert.Equal(t, candles[0].Time, int64(1700000000))
	assert.Equal(t, candles[1].Time, int64(1700000000))
}

func TestFetchCandles(t *testing.T) {
	req := shared.NewCandleRequest("btcusdt", "2025-12-11", shared.OneMinute)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Ensure the request carries the expected query parameters and
		// the api key header.
		if r.URL.Path != "/candles" {
			t.Errorf("expected path /candles, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "btcusdt" {
			t.Errorf("expected symbol btcusdt, got %s", r.URL.Query().Get("symbol"))
		}
		if r.URL.Query().Get("date") != "2025-12-11" {
			t.Errorf("expected date 2025-12-11, got %s", r.URL.Query().Get("date"))
		}
		if r.URL.Query().Get("resolution") != "1m" {
			t.Errorf("expected resolution 1m, got %s", r.URL.Query().Get("resolution"))
		}
		if r.Header.Get("X-API-Key") != "key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-API-Key"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"time":1700000000,"open":100,"high":105,"low":99,"close":103}]}`))
	}))
	defer server.Close()

	oc := NewOrderflowClient(&OrderflowConfig{BaseURL: server.URL, APIKey: "key"})

	// Ensure a well-formed response yields the mapped candles.
	candles, err := oc.FetchCandles(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 1)
	assert.Equal(t, candles[0], shared.Candlestick{Time: 1700000000, Open: 100, High: 105, Low: 99, Close: 103})
}

func TestFetchCandlesErrors(t *testing.T) {
	req := shared.NewCandleRequest("btcusdt", "2025-12-11", shared.OneMinute)

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "server error includes status code",
			status:  http.StatusInternalServerError,
			body:    `{"error":"boom"}`,
			wantMsg: "API Error: 500",
		},
		{
			name:    "unauthorized includes status code",
			status:  http.StatusUnauthorized,
			body:    `{}`,
			wantMsg: "API Error: 401",
		},
		{
			name:    "missing data field",
			status:  http.StatusOK,
			body:    `{"candles":[]}`,
			wantMsg: "malformed candle response",
		},
		{
			name:    "data field not an array",
			status:  http.StatusOK,
			body:    `{"data":"nope"}`,
			wantMsg: "malformed candle response",
		},
		{
			name:    "body not json",
			status:  http.StatusOK,
			body:    `<html>gateway</html>`,
			wantMsg: "malformed candle response",
		},
	}

	for _, test := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(test.status)
			_, _ = w.Write([]byte(test.body))
		}))

		oc := NewOrderflowClient(&OrderflowConfig{BaseURL: server.URL, APIKey: "key"})
		candles, err := oc.FetchCandles(context.Background(), req)
		if err == nil {
			t.Errorf("%s: expected an error, got candles %v", test.name, candles)
		} else if !strings.Contains(err.Error(), test.wantMsg) {
			t.Errorf("%s: expected error containing %q, got %q", test.name, test.wantMsg, err.Error())
		}

		server.Close()
	}

	// Ensure transport failures surface with the underlying message
	// preserved.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	oc := NewOrderflowClient(&OrderflowConfig{BaseURL: server.URL, APIKey: "key"})
	_, err := oc.FetchCandles(context.Background(), req)
	assert.Error(t, err)
	if !strings.Contains(err.Error(), "fetching candles for btcusdt on 2025-12-11") {
		t.Errorf("expected wrapped transport error, got %q", err.Error())
	}
}

func TestFetchCandlesEmptyData(t *testing.T) {
	req := shared.NewCandleRequest("btcusdt", "2025-12-11", shared.OneMinute)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	// Ensure an empty data sequence is a success with zero candles.
	oc := NewOrderflowClient(&OrderflowConfig{BaseURL: server.URL, APIKey: "key"})
	candles, err := oc.FetchCandles(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 0)
}
