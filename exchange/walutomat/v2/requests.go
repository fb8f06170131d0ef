package v2

import (
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/lukehollenback/walutomat/exchange"
	"github.com/shopspring/decimal"
)

//
// DirectFxExchangeRequest bundles the parameters of an exchange against Walutomat's own rate. Ts is
// optional; when set to the Ts of a previously fetched DirectFxRate the exchange happens at that
// rate or not at all. DryRun asks the server to validate the request without executing it.
//
type DirectFxExchangeRequest struct {
	DryRun         bool
	SubmitID       string
	CurrencyPair   string
	BuySell        exchange.Side
	Volume         decimal.Decimal
	VolumeCurrency string
	Ts             string
}

type directFxExchangeForm struct {
	DryRun         bool   `url:"dryRun"`
	SubmitID       string `url:"submitId"`
	CurrencyPair   string `url:"currencyPair"`
	BuySell        string `url:"buySell"`
	Volume         string `url:"volume"`
	VolumeCurrency string `url:"volumeCurrency"`
	Ts             string `url:"ts,omitempty"`
}

func (o *DirectFxExchangeRequest) form() (url.Values, error) {
	if o.SubmitID == "" {
		return nil, exchange.ErrMissingSubmitID
	}

	return query.Values(directFxExchangeForm{
		DryRun:         o.DryRun,
		SubmitID:       o.SubmitID,
		CurrencyPair:   o.CurrencyPair,
		BuySell:        o.BuySell.String(),
		Volume:         o.Volume.String(),
		VolumeCurrency: o.VolumeCurrency,
		Ts:             o.Ts,
	})
}

//
// MarketFxOrderRequest bundles the parameters of a limit order on the peer-to-peer market.
//
type MarketFxOrderRequest struct {
	DryRun         bool
	SubmitID       string
	CurrencyPair   string
	BuySell        exchange.Side
	Volume         decimal.Decimal
	VolumeCurrency string
	LimitPrice     decimal.Decimal
}

type marketFxOrderForm struct {
	DryRun         bool   `url:"dryRun"`
	SubmitID       string `url:"submitId"`
	CurrencyPair   string `url:"currencyPair"`
	BuySell        string `url:"buySell"`
	Volume         string `url:"volume"`
	VolumeCurrency string `url:"volumeCurrency"`
	LimitPrice     string `url:"limitPrice"`
}

func (o *MarketFxOrderRequest) form() (url.Values, error) {
	if o.SubmitID == "" {
		return nil, exchange.ErrMissingSubmitID
	}

	return query.Values(marketFxOrderForm{
		DryRun:         o.DryRun,
		SubmitID:       o.SubmitID,
		CurrencyPair:   o.CurrencyPair,
		BuySell:        o.BuySell.String(),
		Volume:         o.Volume.String(),
		VolumeCurrency: o.VolumeCurrency,
		LimitPrice:     o.LimitPrice.String(),
	})
}

type marketFxOrdersQuery struct {
	OrderID string `url:"orderId,omitempty"`
}

type marketFxOrderCloseForm struct {
	OrderID string `url:"orderId"`
}

//
// PayoutRequest bundles the parameters of a transfer out to a bank account.
//
type PayoutRequest struct {
	DryRun        bool
	SubmitID      string
	Currency      string
	Amount        decimal.Decimal
	AccountNumber string
	RecipientName string
	TransferTitle string
}
