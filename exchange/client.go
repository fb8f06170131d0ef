package exchange

import (
	"context"
)

//
// Quoter generically provides an interface to anything that can report the top of a pair's order
// book. Both generations of the Walutomat client implement it on top of their public order book
// endpoints, which lets callers (e.g. pollers) work against either one.
//
// Implementations must trust the server's ordering of price levels (best first) rather than
// re-sorting, and must return ErrEmptyOrderbook when either side of the book is empty.
//
type Quoter interface {

	//
	// BestQuote retrieves the current best bid and ask for the specified pair.
	//
	BestQuote(ctx context.Context, pair Pair) (*Quote, error)
}
