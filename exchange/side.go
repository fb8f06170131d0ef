package exchange

import (
	"fmt"
	"strings"
)

//
// Side represents which side of the market an order or exchange instruction is on. Its value is the
// exact token the API expects in its "buySell" fields.
//
type Side string

const (
	Buy  = Side("BUY")
	Sell = Side("SELL")
)

func (o Side) String() string {
	return string(o)
}

//
// ParseSide converts a case-insensitive "buy"/"sell" token into a Side.
//
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown order side %q (expected BUY or SELL)", s)
	}
}
