package v2

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Currency         string `json:"currency"`
	BalanceTotal     string `json:"balanceTotal"`
	BalanceAvailable string `json:"balanceAvailable"`
	BalanceReserved  string `json:"balanceReserved"`
}

//
// DirectFxRate is the rate at which Walutomat itself exchanges a pair. Ts identifies the quote and
// may be passed back with a direct exchange to lock it in.
//
type DirectFxRate struct {
	Ts           string `json:"ts"`
	CurrencyPair string `json:"currencyPair"`
	BuyRate      string `json:"buyRate"`
	SellRate     string `json:"sellRate"`
}

type DirectFxExchange struct {
	ExchangeID string `json:"exchangeId"`
}

//
// Orderbook holds the best offers of a pair, best price first on both sides.
//
type Orderbook struct {
	CurrencyPair string           `json:"currencyPair"`
	Bids         []OrderbookEntry `json:"bids"`
	Asks         []OrderbookEntry `json:"asks"`
}

//
// OrderbookEntry represents a single price level. The server sends the price as a decimal string;
// it is decoded to a float64, which is precise enough for display but not for bookkeeping.
//
type OrderbookEntry struct {
	Price                   float64 `json:"price"`
	Volume                  string  `json:"volume"`
	ValueInOppositeCurrency string  `json:"valueInOppositeCurrency"`
}

func (o *OrderbookEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Price                   string `json:"price"`
		Volume                  string `json:"volume"`
		ValueInOppositeCurrency string `json:"valueInOppositeCurrency"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	price, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil {
		return fmt.Errorf("failed to parse price %q: %w", raw.Price, err)
	}

	o.Price = price
	o.Volume = raw.Volume
	o.ValueInOppositeCurrency = raw.ValueInOppositeCurrency

	return nil
}

func (o *OrderbookEntry) VolumeDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(o.Volume)
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
// OrderPlacement is the answer to a new order. A repeated submit id yields the original order's id
// with Duplicate set.
//
type OrderPlacement struct {
	OrderID   string `json:"orderId"`
	Duplicate bool   `json:"duplicate"`
}
