package v1

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/lukehollenback/walutomat/exchange"
	"github.com/shopspring/decimal"
)

type AccountID struct {
	ID string `json:"id"`
}

//
// Balance represents the holdings of a single currency. Amounts are decimal strings, exactly as the
// API sends them.
//
type Balance struct {
	Currency         string `json:"currency"`
	BalanceAll       string `json:"balanceAll"`
	BalanceAvailable string `json:"balanceAvailable"`
	BalanceReserved  string `json:"balanceReserved"`
}

//
// Orderbook represents the public order book of a pair. Bids and asks are kept in the order the
// server sent them (best price first).
//
type Orderbook struct {
	Pair string           `json:"pair"`
	Bids []OrderbookEntry `json:"bids"`
	Asks []OrderbookEntry `json:"asks"`
}

//
// OrderbookEntry represents a single price level. BaseVolume is denominated in the pair's base
// currency and MarketVolume in its counter currency.
//
type OrderbookEntry struct {
	Price        string `json:"price"`
	BaseVolume   string `json:"baseVolume"`
	MarketVolume string `json:"marketVolume"`
}

func (o *OrderbookEntry) PriceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(o.Price)
}

func (o *OrderbookEntry) BaseVolumeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(o.BaseVolume)
}

func (o *OrderbookEntry) MarketVolumeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(o.MarketVolume)
}

type Order struct {
	OrderID        string `json:"orderId"`
	SubmitID       string `json:"submitId"`
	SubmitTs       string `json:"submitTs"`
	UpdateTs       string `json:"updateTs"`
	Status         string `json:"status"`
	Market         string `json:"market"`
	BuySell        string `json:"buySell"`
	Volume         string `json:"volume"`
	VolumeCurrency string `json:"volumeCurrency"`
	OtherCurrency  string `json:"otherCurrency"`
	Price          string `json:"price"`
	Completion     string `json:"completion"`
	SoldAmount     string `json:"soldAmount"`
	BoughtAmount   string `json:"boughtAmount"`
	FeeRate        string `json:"feeRate"`
	FeeAmountMax   string `json:"feeAmountMax"`
}

func (o *Order) String() string {
	return fmt.Sprintf("Order %s %s %s %s", o.OrderID, o.Status, o.Market, o.BuySell)
}

//
// OrderSubmission is the server's answer to an order placement. A repeated submit id is answered
// with Duplicate set rather than a second order; validation problems come back in Message and
// Errors (keyed by parameter name).
//
type OrderSubmission struct {
	Duplicate bool                `json:"duplicate"`
	OrderID   string              `json:"orderId"`
	Message   string              `json:"message"`
	Errors    map[string][]string `json:"errors"`
}

//
// populated returns whether or not the structure appears to actually hold an answer. This is used
// to tell a rejection the server explained apart from an arbitrary error body.
//
func (o *OrderSubmission) populated() bool {
	return o.OrderID != "" || o.Message != "" || len(o.Errors) > 0
}

//
// MarketOrderRequest bundles the parameters of a new order. SubmitID is chosen by the caller and
// makes resubmissions idempotent on the server side; the client never generates one.
//
type MarketOrderRequest struct {
	SubmitID       string
	Pair           string
	Price          decimal.Decimal
	BuySell        exchange.Side
	Volume         decimal.Decimal
	VolumeCurrency string
	OtherCurrency  string
}

type marketOrderQuery struct {
	Pair           string `url:"pair"`
	Price          string `url:"price"`
	BuySell        string `url:"buySell"`
	Volume         string `url:"volume"`
	VolumeCurrency string `url:"volumeCurrency"`
	OtherCurrency  string `url:"otherCurrency"`
	SubmitID       string `url:"submitId"`
}

//
// values flattens the request into query parameters. The encoding is deterministic (keys sorted),
// which matters because the encoded string is what gets signed.
//
func (o *MarketOrderRequest) values() (url.Values, error) {
	if o.SubmitID == "" {
		return nil, exchange.ErrMissingSubmitID
	}

	return query.Values(marketOrderQuery{
		Pair:           o.Pair,
		Price:          o.Price.String(),
		BuySell:        o.BuySell.String(),
		Volume:         o.Volume.String(),
		VolumeCurrency: o.VolumeCurrency,
		OtherCurrency:  o.OtherCurrency,
		SubmitID:       o.SubmitID,
	})
}
