package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/walutomat/constants"
	"github.com/lukehollenback/walutomat/exchange"
	"github.com/lukehollenback/walutomat/poller/monitor"
	"github.com/lukehollenback/walutomat/structs/evictingqueue"
	"github.com/shopspring/decimal"
)

//
// Mode is an enum that represents what the poll table prints for each pair.
//
type Mode int

const (
	Spreads Mode = iota // ask-bid
	Depths              // askVolume/bidVolume
	Prices              // bid/ask
)

func (o Mode) String() string {
	return [...]string{"spreads", "depths", "prices"}[o]
}

//
// table prints one line per polled round, repeating the pair header every few lines. In Spreads
// mode each spread is coloured against the rolling average of its pair's recent spreads: green when
// tighter, red when wider.
//
type table struct {
	out         io.Writer
	au          aurora.Aurora
	mode        Mode
	pairs       []exchange.Pair
	sep         string
	headerEvery int
	rows        int
	windows     map[exchange.Pair]*evictingqueue.EvictingQueue[decimal.Decimal]
}

func newTable(out io.Writer, au aurora.Aurora, mode Mode, pairs []exchange.Pair, sep string, headerEvery int, window int) *table {
	windows := make(map[exchange.Pair]*evictingqueue.EvictingQueue[decimal.Decimal], len(pairs))

	for _, p := range pairs {
		windows[p] = evictingqueue.New[decimal.Decimal](window)
	}

	return &table{
		out:         out,
		au:          au,
		mode:        mode,
		pairs:       pairs,
		sep:         sep,
		headerEvery: headerEvery,
		windows:     windows,
	}
}

func (o *table) header() string {
	names := make([]string, len(o.pairs))

	for i, p := range o.pairs {
		names[i] = p.Format(o.sep)
	}

	//
	// Price cells are twice as wide as the others.
	//
	if o.mode == Prices {
		return strings.Join(names, "        ")
	}

	return strings.Join(names, " ")
}

//
// HandleRound matches the monitor service's round handler signature.
//
func (o *table) HandleRound(round *monitor.Round) {
	if o.rows == 0 {
		fmt.Fprintln(o.out, o.header())
	}

	o.rows = (o.rows + 1) % o.headerEvery

	cells := make([]string, len(round.Samples))

	for i := range round.Samples {
		cells[i] = o.cell(&round.Samples[i])
	}

	fmt.Fprintln(o.out, " "+strings.Join(cells, "  "))
}

func (o *table) cell(s *monitor.Sample) string {
	if s.Err != nil {
		return "------"
	}

	q := s.Quote

	switch o.mode {
	case Depths:
		return q.AskVolume.StringFixed(constants.VolumeDecimals) + "/" + q.BidVolume.StringFixed(constants.VolumeDecimals)

	case Prices:
		return fmt.Sprintf(constants.SpreadFmt+"/"+constants.SpreadFmt, q.Bid.InexactFloat64(), q.Ask.InexactFloat64())

	default:
		return o.spread(s.Pair, q.Spread())
	}
}

func (o *table) spread(pair exchange.Pair, spread decimal.Decimal) string {
	text := fmt.Sprintf(constants.SpreadFmt, spread.InexactFloat64())

	window, ok := o.windows[pair]
	if !ok {
		return text
	}

	avg, ok := average(window.Values())
	window.Add(spread)

	if !ok {
		return text
	}

	switch spread.Cmp(avg) {
	case -1:
		return o.au.Green(text).String()
	case 1:
		return o.au.Red(text).String()
	default:
		return text
	}
}

//
// average returns the mean of the provided values, or false when there are none.
//
func average(values []decimal.Decimal) (decimal.Decimal, bool) {
	if len(values) == 0 {
		return decimal.Zero, false
	}

	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values)))), true
}
