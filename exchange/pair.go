package exchange

import (
	"fmt"
	"strings"
)

//
// Pair represents a currency pair, e.g. EUR/PLN. The two API generations spell pairs differently
// ("EUR_PLN" for v1, "EURPLN" for v2), so a Pair is formatted with the separator the caller needs.
//
type Pair struct {
	Base  string
	Quote string
}

func NewPair(base string, quote string) Pair {
	return Pair{
		Base:  strings.ToUpper(base),
		Quote: strings.ToUpper(quote),
	}
}

//
// ParsePair parses either spelling of a pair: "EUR_PLN" or "EURPLN". The latter is only accepted
// for three-letter currency codes.
//
func ParsePair(s string) (Pair, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	if base, quote, ok := strings.Cut(s, "_"); ok {
		if base == "" || quote == "" {
			return Pair{}, fmt.Errorf("malformed currency pair %q", s)
		}

		return NewPair(base, quote), nil
	}

	if len(s) == 6 {
		return NewPair(s[:3], s[3:]), nil
	}

	return Pair{}, fmt.Errorf("malformed currency pair %q", s)
}

//
// Format renders the pair with the provided separator between the base and quote currencies.
//
func (o Pair) Format(sep string) string {
	return o.Base + sep + o.Quote
}

func (o Pair) String() string {
	return o.Format("_")
}

//
// Combinations returns every pair that can be formed from the provided currencies, keeping their
// order: each currency is paired as the base with every currency that follows it.
//
func Combinations(currencies ...string) []Pair {
	pairs := make([]Pair, 0, len(currencies)*(len(currencies)-1)/2)

	for i := 0; i < len(currencies)-1; i++ {
		for j := i + 1; j < len(currencies); j++ {
			pairs = append(pairs, NewPair(currencies[i], currencies[j]))
		}
	}

	return pairs
}
