package monitor

import (
	"time"

	"github.com/lukehollenback/walutomat/exchange"
)

//
// Sample is the outcome of asking for a single pair's quote. Exactly one of Quote and Err is set.
//
type Sample struct {
	Time  time.Time
	Pair  exchange.Pair
	Quote *exchange.Quote
	Err   error
}

//
// Round holds the samples of every configured pair taken during one interval, in configuration
// order.
//
type Round struct {
	Seq     int
	Time    time.Time
	Samples []Sample
}

//
// Failed returns how many of the round's samples could not be taken.
//
func (o *Round) Failed() int {
	n := 0

	for _, s := range o.Samples {
		if s.Err != nil {
			n++
		}
	}

	return n
}
