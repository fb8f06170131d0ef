package exchange

import (
	"github.com/lukehollenback/walutomat/constants"
	"github.com/shopspring/decimal"
)

//
// Quote represents the top of an order book: the best bid and best ask of a pair along with the
// volumes (in the base currency) available at those levels.
//
type Quote struct {
	Pair      Pair
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	BidVolume decimal.Decimal
	AskVolume decimal.Decimal
}

//
// Spread returns the difference between the best ask and the best bid.
//
func (o *Quote) Spread() decimal.Decimal {
	return o.Ask.Sub(o.Bid)
}

//
// Mid returns the midpoint between the best bid and the best ask.
//
func (o *Quote) Mid() decimal.Decimal {
	return o.Ask.Add(o.Bid).Div(constants.Two())
}
