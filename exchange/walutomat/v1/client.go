//
// Package v1 implements a client for version 1 of the Walutomat API. Private endpoints are
// authenticated with an API key and a per-request HMAC signature (see package auth); public
// endpoints need no credentials at all.
//
package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lukehollenback/walutomat/exchange"
	"github.com/lukehollenback/walutomat/exchange/walutomat/auth"
	"github.com/sirupsen/logrus"
)

//
// Client implements the Walutomat v1 API. Its credentials never change after construction, so a
// single instance may be shared between goroutines.
//
type Client struct {
	apiKey    string
	apiSecret string
	transport *exchange.Transport
	now       func() time.Time
}

type options struct {
	httpClient *http.Client
	logger     logrus.FieldLogger
	now        func() time.Time
}

//
// Option customizes a Client at construction time.
//
type Option func(*options)

//
// WithHTTPClient makes the client send its requests through the provided http.Client (e.g. one
// with a timeout or a custom transport).
//
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

//
// WithLogger makes the client emit debug-level traces of its requests. Without it the client does
// not log at all.
//
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

//
// WithClock replaces the wall clock used to generate nonces.
//
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

//
// NewClient instantiates a client against the provided base URL (e.g. "https://api.walutomat.pl").
// The key and secret may be left empty when only public endpoints will be used.
//
func NewClient(baseURL string, key string, secret string, opts ...Option) *Client {
	cfg := &options{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		apiKey:    key,
		apiSecret: secret,
		transport: exchange.NewTransport(baseURL, cfg.httpClient, cfg.logger),
		now:       cfg.now,
	}
}

func (o *Client) GetAccountID(ctx context.Context) (*AccountID, error) {
	var id AccountID

	if err := o.private(ctx, http.MethodGet, AccountIDPath, &id); err != nil {
		return nil, err
	}

	return &id, nil
}

func (o *Client) GetAccountBalance(ctx context.Context) ([]Balance, error) {
	var balances []Balance

	if err := o.private(ctx, http.MethodGet, AccountBalancesPath, &balances); err != nil {
		return nil, err
	}

	return balances, nil
}

//
// GetOrderbook retrieves the public order book of the specified pair (e.g. "EUR_PLN"). No
// credentials are needed or sent.
//
func (o *Client) GetOrderbook(ctx context.Context, pair string) (*Orderbook, error) {
	var orderbook Orderbook

	uri := fmt.Sprintf(OrderbookPath, url.PathEscape(pair))

	if err := o.public(ctx, http.MethodGet, uri, &orderbook); err != nil {
		return nil, err
	}

	return &orderbook, nil
}

func (o *Client) GetMarketOrder(ctx context.Context, id string) (*Order, error) {
	var order Order

	uri := fmt.Sprintf(MarketOrderPath, url.PathEscape(id))

	if err := o.private(ctx, http.MethodGet, uri, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (o *Client) GetMarketOrders(ctx context.Context) ([]Order, error) {
	var orders []Order

	if err := o.private(ctx, http.MethodGet, MarketOrdersPath, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

//
// NewMarketOrder places an order. The order parameters travel in the query string (and are thus
// covered by the signature). Resubmitting the same submit id yields a submission flagged as a
// duplicate rather than a second order or a local error. A rejection the server explains (message
// and per-parameter errors) is returned as a normal submission, whatever its status code.
//
func (o *Client) NewMarketOrder(ctx context.Context, req *MarketOrderRequest) (*OrderSubmission, error) {
	values, err := req.values()
	if err != nil {
		return nil, err
	}

	resp, err := o.do(ctx, http.MethodPost, MarketOrdersPath+"?"+values.Encode(), true)
	if err != nil {
		return nil, err
	}

	var submission OrderSubmission

	if resp.OK() {
		if err := resp.Decode(&submission); err != nil {
			return nil, err
		}

		return &submission, nil
	}

	//
	// Check the non-2xx response for an explained rejection before giving up on it.
	//
	if err := resp.Decode(&submission); err != nil || !submission.populated() {
		return nil, resp.StatusError()
	}

	return &submission, nil
}

//
// CloseMarketOrder withdraws the order with the specified id and returns its final state.
//
func (o *Client) CloseMarketOrder(ctx context.Context, id string) (*Order, error) {
	var order Order

	uri := fmt.Sprintf(CloseOrderPath, url.PathEscape(id))

	if err := o.private(ctx, http.MethodPost, uri, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

//
// BestQuote implements the exchange.Quoter interface on top of the public order book.
//
func (o *Client) BestQuote(ctx context.Context, pair exchange.Pair) (*exchange.Quote, error) {
	orderbook, err := o.GetOrderbook(ctx, pair.Format("_"))
	if err != nil {
		return nil, err
	}

	if len(orderbook.Bids) == 0 || len(orderbook.Asks) == 0 {
		return nil, exchange.ErrEmptyOrderbook
	}

	quote, err := topOfBook(pair, &orderbook.Bids[0], &orderbook.Asks[0])
	if err != nil {
		return nil, exchange.NewDecodeError(http.MethodGet+" "+fmt.Sprintf(OrderbookPath, pair.Format("_")), err)
	}

	return quote, nil
}

//
// topOfBook parses the best levels of both sides of an order book into a quote.
//
func topOfBook(pair exchange.Pair, bid *OrderbookEntry, ask *OrderbookEntry) (*exchange.Quote, error) {
	var err error

	quote := &exchange.Quote{Pair: pair}

	if quote.Bid, err = bid.PriceDecimal(); err != nil {
		return nil, fmt.Errorf("failed to parse best bid price (%q): %w", bid.Price, err)
	}

	if quote.Ask, err = ask.PriceDecimal(); err != nil {
		return nil, fmt.Errorf("failed to parse best ask price (%q): %w", ask.Price, err)
	}

	if quote.BidVolume, err = bid.BaseVolumeDecimal(); err != nil {
		return nil, fmt.Errorf("failed to parse best bid volume (%q): %w", bid.BaseVolume, err)
	}

	if quote.AskVolume, err = ask.BaseVolumeDecimal(); err != nil {
		return nil, fmt.Errorf("failed to parse best ask volume (%q): %w", ask.BaseVolume, err)
	}

	return quote, nil
}

func (o *Client) public(ctx context.Context, method string, uri string, v interface{}) error {
	resp, err := o.do(ctx, method, uri, false)
	if err != nil {
		return err
	}

	return resp.DecodeOK(v)
}

func (o *Client) private(ctx context.Context, method string, uri string, v interface{}) error {
	resp, err := o.do(ctx, method, uri, true)
	if err != nil {
		return err
	}

	return resp.DecodeOK(v)
}

//
// do makes the specified request, signing it first if it targets a private endpoint.
//
func (o *Client) do(ctx context.Context, method string, uri string, signed bool) (*exchange.Response, error) {
	req := &exchange.Request{
		Method: method,
		URI:    uri,
	}

	if signed {
		if o.apiKey == "" || o.apiSecret == "" {
			return nil, exchange.ErrMissingCredentials
		}

		req.Header = o.authHeaders(o.transport.RequestURI(uri))
	}

	return o.transport.Do(ctx, req)
}

//
// authHeaders computes the authentication headers of a request whose request line carries the
// specified URI. The nonce is taken from the clock on every call and never reused.
//
func (o *Client) authHeaders(uri string) http.Header {
	nonce := auth.Nonce(o.now())

	header := http.Header{}
	header.Set(APIKeyHeader, o.apiKey)
	header.Set(NonceHeader, nonce)
	header.Set(SignatureHeader, auth.Sign(uri, nonce, []byte(o.apiSecret)))

	return header
}
