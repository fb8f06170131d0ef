package constants

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL      = "https://api.walutomat.pl"
	DefaultPollInterval = 1 * time.Second
	DefaultWindow       = 30
	HeaderEvery         = 20
	SpreadFmt           = "%1.4f"
	VolumeDecimals      = 2
)

var (
	defaultCurrencies = []string{"EUR", "GBP", "USD", "CHF", "PLN"}

	two = decimal.NewFromInt(2)
)

//
// DefaultCurrencies returns the currencies whose pairs are polled when no other set is configured.
// A fresh slice is returned on every call.
//
func DefaultCurrencies() []string {
	return append([]string(nil), defaultCurrencies...)
}

func Two() decimal.Decimal {
	return two
}
