//
// Package v2 implements a client for version 2.0.0 of the Walutomat API. Authenticated endpoints
// only need the API key in a header; every endpoint answers with a Result envelope.
//
package v2

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/lukehollenback/walutomat/exchange"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Client struct {
	apiKey    string
	transport *exchange.Transport
}

type options struct {
	httpClient *http.Client
	logger     logrus.FieldLogger
}

//
// Option customizes a Client at construction time.
//
type Option func(*options)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

//
// WithLogger makes the client emit debug-level traces of its requests.
//
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

//
// NewClient instantiates a client against the provided base URL. The key may be left empty when
// only public endpoints will be used.
//
func NewClient(baseURL string, key string, opts ...Option) *Client {
	cfg := &options{}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		apiKey:    key,
		transport: exchange.NewTransport(baseURL, cfg.httpClient, cfg.logger),
	}
}

func (o *Client) AccountBalance(ctx context.Context) (*Result[[]Balance], error) {
	return call[[]Balance](ctx, o, http.MethodGet, AccountBalancesPath, nil, true)
}

//
// DirectFxRate retrieves Walutomat's own buy and sell rate for the specified pair (e.g. "EURPLN").
//
func (o *Client) DirectFxRate(ctx context.Context, pair string) (*Result[DirectFxRate], error) {
	uri := DirectFxRatesPath + "?" + url.Values{"currency_pair": {pair}}.Encode()

	return call[DirectFxRate](ctx, o, http.MethodGet, uri, nil, true)
}

//
// DirectFxExchange exchanges currency at Walutomat's own rate.
//
func (o *Client) DirectFxExchange(ctx context.Context, req *DirectFxExchangeRequest) (*Result[DirectFxExchange], error) {
	form, err := req.form()
	if err != nil {
		return nil, err
	}

	return call[DirectFxExchange](ctx, o, http.MethodPost, DirectFxExchangesPath, form, true)
}

//
// MarketFxBestOffers retrieves the best offers of the specified pair (e.g. "EURPLN") on the
// peer-to-peer market. No credentials are needed or sent.
//
func (o *Client) MarketFxBestOffers(ctx context.Context, pair string) (*Result[Orderbook], error) {
	uri := MarketFxBestOffersPath + "?" + url.Values{"currencyPair": {pair}}.Encode()

	return call[Orderbook](ctx, o, http.MethodGet, uri, nil, false)
}

//
// MarketFxOrders lists the account's market orders, or only the one with the provided id when it
// is not empty.
//
func (o *Client) MarketFxOrders(ctx context.Context, orderID string) (*Result[[]Order], error) {
	values, err := query.Values(marketFxOrdersQuery{OrderID: orderID})
	if err != nil {
		return nil, exchange.NewTransportError(http.MethodGet+" "+MarketFxOrdersPath, err)
	}

	uri := MarketFxOrdersPath
	if encoded := values.Encode(); encoded != "" {
		uri += "?" + encoded
	}

	return call[[]Order](ctx, o, http.MethodGet, uri, nil, true)
}

//
// MarketFxOrder places a limit order on the peer-to-peer market. Resubmitting the same submit id
// yields the original order flagged as a duplicate.
//
func (o *Client) MarketFxOrder(ctx context.Context, req *MarketFxOrderRequest) (*Result[OrderPlacement], error) {
	form, err := req.form()
	if err != nil {
		return nil, err
	}

	return call[OrderPlacement](ctx, o, http.MethodPost, MarketFxOrdersPath, form, true)
}

//
// MarketFxOrderClose withdraws the order with the specified id.
//
func (o *Client) MarketFxOrderClose(ctx context.Context, orderID string) (*Result[Order], error) {
	form, err := query.Values(marketFxOrderCloseForm{OrderID: orderID})
	if err != nil {
		return nil, exchange.NewTransportError(http.MethodPost+" "+MarketFxOrderClosePath, err)
	}

	return call[Order](ctx, o, http.MethodPost, MarketFxOrderClosePath, form, true)
}

//
// Payout is not implemented and always fails with exchange.ErrNotSupported without sending
// anything.
//
func (o *Client) Payout(ctx context.Context, req *PayoutRequest) (*Result[DirectFxExchange], error) {
	return nil, exchange.ErrNotSupported
}

//
// BestQuote implements the exchange.Quoter interface on top of the best offers endpoint. An
// unsuccessful result is reported as its *APIError.
//
func (o *Client) BestQuote(ctx context.Context, pair exchange.Pair) (*exchange.Quote, error) {
	result, err := o.MarketFxBestOffers(ctx, pair.Format(""))
	if err != nil {
		return nil, err
	}

	orderbook, err := result.Value()
	if err != nil {
		return nil, err
	}

	if orderbook == nil || len(orderbook.Bids) == 0 || len(orderbook.Asks) == 0 {
		return nil, exchange.ErrEmptyOrderbook
	}

	quote, err := topOfBook(pair, &orderbook.Bids[0], &orderbook.Asks[0])
	if err != nil {
		return nil, exchange.NewDecodeError(http.MethodGet+" "+MarketFxBestOffersPath, err)
	}

	return quote, nil
}

func topOfBook(pair exchange.Pair, bid *OrderbookEntry, ask *OrderbookEntry) (*exchange.Quote, error) {
	var err error

	quote := &exchange.Quote{
		Pair: pair,
		Bid:  decimal.NewFromFloat(bid.Price),
		Ask:  decimal.NewFromFloat(ask.Price),
	}

	if quote.BidVolume, err = bid.VolumeDecimal(); err != nil {
		return nil, fmt.Errorf("failed to parse best bid volume (%q): %w", bid.Volume, err)
	}

	if quote.AskVolume, err = ask.VolumeDecimal(); err != nil {
		return nil, fmt.Errorf("failed to parse best ask volume (%q): %w", ask.Volume, err)
	}

	return quote, nil
}

//
// call makes the specified request and decodes its result envelope. The envelope is decoded
// whatever the status code, since rejections arrive on non-2xx responses too. A non-2xx response
// is only reported as a Transport kind error when its body is not an envelope at all, or is an
// empty one that explains nothing.
//
func call[T any](ctx context.Context, o *Client, method string, uri string, form url.Values, authenticated bool) (*Result[T], error) {
	req := &exchange.Request{
		Method: method,
		URI:    uri,
		Form:   form,
	}

	if authenticated {
		if o.apiKey == "" {
			return nil, exchange.ErrMissingCredentials
		}

		req.Header = http.Header{}
		req.Header.Set(APIKeyHeader, o.apiKey)
	}

	resp, err := o.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var result Result[T]

	if err := resp.Decode(&result); err != nil {
		if !resp.OK() {
			return nil, resp.StatusError()
		}

		return nil, err
	}

	if !resp.OK() && !result.Success && len(result.Errors) == 0 {
		return nil, resp.StatusError()
	}

	return &result, nil
}
