package v2

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lukehollenback/walutomat/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey = "test-key"
)

const bestOffersBody = `
{
	"success": true,
	"result": {
		"currencyPair": "EURPLN",
		"bids": [
			{"price": "4.1234", "volume": "120.50", "valueInOppositeCurrency": "496.87"},
			{"price": "4.1200", "volume": "10.00", "valueInOppositeCurrency": "41.20"}
		],
		"asks": [
			{"price": "4.1300", "volume": "75.00", "valueInOppositeCurrency": "309.75"}
		]
	}
}`

//
// newKeyedServer starts a fake API that checks the key header of every request before handing it to
// the provided handler.
//
func newKeyedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.Header.Get(APIKeyHeader))
		assert.Empty(t, r.Header.Get("X-API-SIGNATURE"))

		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
}

func TestClient_AccountBalance(t *testing.T) {
	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, AccountBalancesPath, r.URL.Path)

		_, _ = w.Write([]byte(`{
			"success": true,
			"result": [
				{"currency": "EUR", "balanceTotal": "100.00", "balanceAvailable": "60.00", "balanceReserved": "40.00"}
			]
		}`))
	})
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).AccountBalance(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Result)
	require.Len(t, *result.Result, 1)
	assert.Equal(t, Balance{
		Currency:         "EUR",
		BalanceTotal:     "100.00",
		BalanceAvailable: "60.00",
		BalanceReserved:  "40.00",
	}, (*result.Result)[0])
}

func TestClient_RejectionIsAResult(t *testing.T) {
	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{
			"success": false,
			"errors": [
				{
					"key": "INSUFFICIENT_FUNDS",
					"description": "Not enough funds",
					"errorData": [{"key": "currency", "value": "EUR"}]
				}
			]
		}`))
	})
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).AccountBalance(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Nil(t, result.Result)
	assert.Equal(t, []ErrorDetail{
		{
			Key:         "INSUFFICIENT_FUNDS",
			Description: "Not enough funds",
			ErrorData:   []KeyValue{{Key: "currency", Value: "EUR"}},
		},
	}, result.Errors)

	//
	// Callers that prefer error flow can convert the rejection.
	//
	_, err = result.Value()

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"INSUFFICIENT_FUNDS"}, apiErr.Keys())
	assert.Contains(t, apiErr.Error(), "Not enough funds")
}

func TestClient_DirectFxRate(t *testing.T) {
	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DirectFxRatesPath, r.URL.Path)
		assert.Equal(t, "EURPLN", r.URL.Query().Get("currency_pair"))

		_, _ = w.Write([]byte(`{
			"success": true,
			"result": {"ts": "2020-01-01T10:00:00.000Z", "currencyPair": "EURPLN", "buyRate": "4.2512", "sellRate": "4.2398"}
		}`))
	})
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).DirectFxRate(context.Background(), "EURPLN")
	require.NoError(t, err)

	rate, err := result.Value()
	require.NoError(t, err)
	assert.Equal(t, "4.2512", rate.BuyRate)
	assert.Equal(t, "4.2398", rate.SellRate)
	assert.Equal(t, "2020-01-01T10:00:00.000Z", rate.Ts)
}

func TestClient_DirectFxExchange(t *testing.T) {
	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DirectFxExchangesPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "true", r.PostForm.Get("dryRun"))
		assert.Equal(t, "submit-1", r.PostForm.Get("submitId"))
		assert.Equal(t, "EURPLN", r.PostForm.Get("currencyPair"))
		assert.Equal(t, "SELL", r.PostForm.Get("buySell"))
		assert.Equal(t, "10.5", r.PostForm.Get("volume"))
		assert.Equal(t, "EUR", r.PostForm.Get("volumeCurrency"))
		assert.Equal(t, "2020-01-01T10:00:00.000Z", r.PostForm.Get("ts"))

		_, _ = w.Write([]byte(`{"success": true, "result": {"exchangeId": "ex-1"}}`))
	})
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).DirectFxExchange(context.Background(), &DirectFxExchangeRequest{
		DryRun:         true,
		SubmitID:       "submit-1",
		CurrencyPair:   "EURPLN",
		BuySell:        exchange.Sell,
		Volume:         decimal.RequireFromString("10.5"),
		VolumeCurrency: "EUR",
		Ts:             "2020-01-01T10:00:00.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "ex-1", result.Result.ExchangeID)
}

func TestClient_MarketFxBestOffers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MarketFxBestOffersPath, r.URL.Path)
		assert.Equal(t, "EURPLN", r.URL.Query().Get("currencyPair"))
		assert.Empty(t, r.Header.Get(APIKeyHeader))

		_, _ = w.Write([]byte(bestOffersBody))
	}))
	defer ts.Close()

	//
	// The key is deliberately set to make sure public calls never send it.
	//
	result, err := NewClient(ts.URL, testKey).MarketFxBestOffers(context.Background(), "EURPLN")
	require.NoError(t, err)

	orderbook, err := result.Value()
	require.NoError(t, err)

	assert.Equal(t, "EURPLN", orderbook.CurrencyPair)
	require.Len(t, orderbook.Bids, 2)
	require.Len(t, orderbook.Asks, 1)
	assert.InDelta(t, 4.1234, orderbook.Bids[0].Price, 1e-9)
	assert.InDelta(t, 4.13, orderbook.Asks[0].Price, 1e-9)
	assert.Equal(t, "120.50", orderbook.Bids[0].Volume)
	assert.Equal(t, "309.75", orderbook.Asks[0].ValueInOppositeCurrency)
}

func TestClient_MarketFxBestOffersWithoutKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bestOffersBody))
	}))
	defer ts.Close()

	result, err := NewClient(ts.URL, "").MarketFxBestOffers(context.Background(), "EURPLN")
	require.NoError(t, err)

	assert.True(t, result.Success)
}

func TestClient_BestQuote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "EURPLN", r.URL.Query().Get("currencyPair"))

		_, _ = w.Write([]byte(bestOffersBody))
	}))
	defer ts.Close()

	quote, err := NewClient(ts.URL, "").BestQuote(context.Background(), exchange.NewPair("EUR", "PLN"))
	require.NoError(t, err)

	assert.Equal(t, "4.1234", quote.Bid.String())
	assert.Equal(t, "4.13", quote.Ask.String())
	assert.True(t, quote.BidVolume.Equal(decimal.RequireFromString("120.5")))
	assert.True(t, quote.AskVolume.Equal(decimal.NewFromInt(75)))
}

func TestClient_BestQuoteEmptyBook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "result": {"currencyPair": "EURPLN", "bids": [], "asks": []}}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "").BestQuote(context.Background(), exchange.NewPair("EUR", "PLN"))

	assert.ErrorIs(t, err, exchange.ErrEmptyOrderbook)
}

func TestClient_BadPriceIsADecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "result": {"currencyPair": "EURPLN", "bids": [{"price": "abc"}], "asks": []}}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "").MarketFxBestOffers(context.Background(), "EURPLN")

	require.Error(t, err)
	assert.True(t, exchange.IsDecode(err))
}

func TestClient_MarketFxOrders(t *testing.T) {
	queries := make([]string, 0)

	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MarketFxOrdersPath, r.URL.Path)
		queries = append(queries, r.URL.RawQuery)

		_, _ = w.Write([]byte(`{
			"success": true,
			"result": [{"orderId": "o-1", "status": "ACTIVE", "market": "EURPLN", "buySell": "BUY"}]
		}`))
	})
	defer ts.Close()

	client := NewClient(ts.URL, testKey)

	result, err := client.MarketFxOrders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, *result.Result, 1)
	assert.Equal(t, "Order o-1 ACTIVE EURPLN BUY", (*result.Result)[0].String())

	_, err = client.MarketFxOrders(context.Background(), "o-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "orderId=o-1"}, queries)
}

func TestClient_MarketFxOrder(t *testing.T) {
	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, MarketFxOrdersPath, r.URL.Path)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "false", r.PostForm.Get("dryRun"))
		assert.Equal(t, "submit-2", r.PostForm.Get("submitId"))
		assert.Equal(t, "EURPLN", r.PostForm.Get("currencyPair"))
		assert.Equal(t, "BUY", r.PostForm.Get("buySell"))
		assert.Equal(t, "100", r.PostForm.Get("volume"))
		assert.Equal(t, "EUR", r.PostForm.Get("volumeCurrency"))
		assert.Equal(t, "4.2", r.PostForm.Get("limitPrice"))

		_, _ = w.Write([]byte(`{"success": true, "result": {"orderId": "o-2", "duplicate": true}}`))
	})
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).MarketFxOrder(context.Background(), &MarketFxOrderRequest{
		SubmitID:       "submit-2",
		CurrencyPair:   "EURPLN",
		BuySell:        exchange.Buy,
		Volume:         decimal.NewFromInt(100),
		VolumeCurrency: "EUR",
		LimitPrice:     decimal.RequireFromString("4.20"),
	})
	require.NoError(t, err)

	assert.Equal(t, OrderPlacement{OrderID: "o-2", Duplicate: true}, *result.Result)
}

func TestClient_MarketFxOrderRequiresSubmitID(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", testKey).MarketFxOrder(context.Background(), &MarketFxOrderRequest{})

	assert.ErrorIs(t, err, exchange.ErrMissingSubmitID)
}

func TestClient_MarketFxOrderClose(t *testing.T) {
	ts := newKeyedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, MarketFxOrderClosePath, r.URL.Path)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "o-3", r.PostForm.Get("orderId"))

		_, _ = w.Write([]byte(`{"success": true, "result": {"orderId": "o-3", "status": "CLOSED"}}`))
	})
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).MarketFxOrderClose(context.Background(), "o-3")
	require.NoError(t, err)

	assert.Equal(t, "CLOSED", result.Result.Status)
}

func TestClient_PayoutIsNotSupported(t *testing.T) {
	called := false

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	result, err := NewClient(ts.URL, testKey).Payout(context.Background(), &PayoutRequest{SubmitID: "p-1"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, exchange.ErrNotSupported)
	assert.False(t, called)
}

func TestClient_AuthenticatedRequiresKey(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "").AccountBalance(context.Background())

	assert.ErrorIs(t, err, exchange.ErrMissingCredentials)
}

func TestClient_NonEnvelopeErrorIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, testKey).AccountBalance(context.Background())

	require.Error(t, err)
	assert.True(t, exchange.IsTransport(err))

	var httpErr *exchange.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode())
}

func TestClient_EmptyEnvelopeErrorIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, testKey).AccountBalance(context.Background())

	assert.True(t, exchange.IsTransport(err))
}

func TestClient_MalformedSuccessIsDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": "yes"}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, testKey).AccountBalance(context.Background())

	require.Error(t, err)
	assert.True(t, exchange.IsDecode(err))
}
