package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/uuid"
	"github.com/lukehollenback/walutomat/exchange"
	v2 "github.com/lukehollenback/walutomat/exchange/walutomat/v2"
	"github.com/lukehollenback/walutomat/poller"
	"github.com/lukehollenback/walutomat/poller/monitor"
	"github.com/lukehollenback/walutomat/poller/writer"
	"github.com/shopspring/decimal"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"orderbook":  {"Print a v1 order book, asks and bids side by side.", runOrderbook},
	"spreads":    {"Poll v1 spreads (ask-bid) of every configured pair.", pollCommand(Spreads, false)},
	"depths":     {"Poll v1 top-of-book volumes (ask/bid) of every configured pair.", pollCommand(Depths, false)},
	"prices":     {"Poll v1 best prices (bid/ask) of every configured pair.", pollCommand(Prices, false)},
	"v2-spreads": {"Poll v2 best-offer spreads of every configured pair.", pollCommand(Spreads, true)},
	"balance":    {"Print the v2 account balances.", runBalance},
	"rate":       {"Print the v2 direct FX rate of a pair.", runRate},
	"orders":     {"List v2 market orders.", runOrders},
	"order":      {"Place a v2 market limit order.", runOrder},
	"close":      {"Withdraw a v2 market order.", runClose},
	"exchange":   {"Exchange currency at the v2 direct FX rate.", runExchange},
}

func runOrderbook(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orderbook", flag.ContinueOnError)
	pairFlag := fs.String("pair", "EUR_PLN", "The pair whose order book to print.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	pair, err := exchange.ParsePair(*pairFlag)
	if err != nil {
		return err
	}

	orderbook, err := a.v1().GetOrderbook(ctx, pair.Format("_"))
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, orderbook.Pair)

	for i := 0; i < len(orderbook.Asks) && i < len(orderbook.Bids); i++ {
		fmt.Fprintf(a.out, "%s %s\n", orderbook.Asks[i].Price, orderbook.Bids[i].Price)
	}

	return nil
}

//
// pollCommand builds a command that polls every pair of the configured currencies once per
// interval until interrupted, printing a table row per round and optionally recording every sample
// to a CSV file.
//
func pollCommand(mode Mode, useV2 bool) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		fs := flag.NewFlagSet(mode.String(), flag.ContinueOnError)
		csvPath := fs.String("csv", "", "Also write every sample to this CSV file.")

		if err := fs.Parse(args); err != nil {
			return err
		}

		pairs := exchange.Combinations(a.cfg.Poller.Currencies...)

		var quoter exchange.Quoter = a.v1()
		sep := "_"

		if useV2 {
			quoter = a.v2()
			sep = ""
		}

		tbl := newTable(a.out, a.au, mode, pairs, sep, a.cfg.Poller.HeaderEvery, a.cfg.Poller.Window)

		mon := monitor.New(quoter, pairs, a.cfg.Poller.Interval, a.log)
		mon.SetRequestTimeout(a.cfg.API.Timeout)
		mon.RegisterRoundHandler(tbl.HandleRound)

		//
		// Start up all necessary services. The writer (if any) must be running before the first round
		// is handed to it.
		//
		services := make([]poller.Service, 0, 2)

		if *csvPath != "" {
			w := writer.New(*csvPath, a.log)
			mon.RegisterRoundHandler(w.HandleRound)
			services = append(services, w)
		}

		services = append(services, mon)

		for i, s := range services {
			chStarted, err := s.Start()
			if err != nil {
				stopAll(services[:i])

				return fmt.Errorf("failed to start a service: %w", err)
			}

			<-chStarted
		}

		//
		// Block until we are shut down by the operating system.
		//
		<-ctx.Done()

		a.log.Info("An operating system interrupt has been received. Shutting down all services...")

		stopAll(services)

		return nil
	}
}

//
// stopAll stops the provided services in reverse order and waits for each to finish.
//
func stopAll(services []poller.Service) {
	for i := len(services) - 1; i >= 0; i-- {
		chStopped, err := services[i].Stop()
		if err != nil {
			continue
		}

		<-chStopped
	}
}

//
// value unwraps a v2 result, treating a rejection or a successful result without a payload as an
// error.
//
func value[T any](result *v2.Result[T]) (*T, error) {
	v, err := result.Value()
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, errors.New("the server returned a successful result without a payload")
	}

	return v, nil
}

func runBalance(ctx context.Context, a *app, args []string) error {
	result, err := a.v2().AccountBalance(ctx)
	if err != nil {
		return err
	}

	balances, err := value(result)
	if err != nil {
		return err
	}

	for _, b := range *balances {
		fmt.Fprintf(a.out, "%s %s (blocked %s)\n", b.Currency, b.BalanceTotal, b.BalanceReserved)
	}

	return nil
}

func runRate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ContinueOnError)
	pairFlag := fs.String("pair", "EUR_PLN", "The pair whose rate to print.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	pair, err := exchange.ParsePair(*pairFlag)
	if err != nil {
		return err
	}

	result, err := a.v2().DirectFxRate(ctx, pair.Format(""))
	if err != nil {
		return err
	}

	rate, err := value(result)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s buy %s sell %s (ts %s)\n", rate.CurrencyPair, rate.BuyRate, rate.SellRate, rate.Ts)

	return nil
}

func runOrders(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	id := fs.String("id", "", "Only show the order with this id.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.v2().MarketFxOrders(ctx, *id)
	if err != nil {
		return err
	}

	orders, err := value(result)
	if err != nil {
		return err
	}

	for i := range *orders {
		fmt.Fprintln(a.out, (*orders)[i].String())
	}

	return nil
}

//
// tradeFlags are the flags shared by the order placing commands.
//
type tradeFlags struct {
	pair     *string
	side     *string
	volume   *string
	currency *string
	submitID *string
	dryRun   *bool
}

func registerTradeFlags(fs *flag.FlagSet) *tradeFlags {
	return &tradeFlags{
		pair:     fs.String("pair", "", "The currency pair, e.g. EUR_PLN."),
		side:     fs.String("side", "", "BUY or SELL."),
		volume:   fs.String("volume", "", "The amount to trade."),
		currency: fs.String("currency", "", "The currency the volume is denominated in."),
		submitID: fs.String("submit-id", "", "Idempotency token. A fresh UUID is used when omitted."),
		dryRun:   fs.Bool("dry-run", false, "Validate the request without executing it."),
	}
}

type trade struct {
	pair     exchange.Pair
	side     exchange.Side
	volume   decimal.Decimal
	currency string
	submitID string
	dryRun   bool
}

func (o *tradeFlags) parse() (*trade, error) {
	pair, err := exchange.ParsePair(*o.pair)
	if err != nil {
		return nil, err
	}

	side, err := exchange.ParseSide(*o.side)
	if err != nil {
		return nil, err
	}

	volume, err := decimal.NewFromString(*o.volume)
	if err != nil {
		return nil, fmt.Errorf("invalid volume %q: %w", *o.volume, err)
	}

	if *o.currency == "" {
		return nil, errors.New("a volume currency is required")
	}

	submitID := *o.submitID
	if submitID == "" {
		submitID = uuid.NewString()
	}

	return &trade{
		pair:     pair,
		side:     side,
		volume:   volume,
		currency: *o.currency,
		submitID: submitID,
		dryRun:   *o.dryRun,
	}, nil
}

func runOrder(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	tf := registerTradeFlags(fs)
	priceFlag := fs.String("price", "", "The limit price.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := tf.parse()
	if err != nil {
		return err
	}

	price, err := decimal.NewFromString(*priceFlag)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", *priceFlag, err)
	}

	result, err := a.v2().MarketFxOrder(ctx, &v2.MarketFxOrderRequest{
		DryRun:         t.dryRun,
		SubmitID:       t.submitID,
		CurrencyPair:   t.pair.Format(""),
		BuySell:        t.side,
		Volume:         t.volume,
		VolumeCurrency: t.currency,
		LimitPrice:     price,
	})
	if err != nil {
		return err
	}

	placement, err := value(result)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Order %s placed (submit id %s, duplicate %t)\n", placement.OrderID, t.submitID, placement.Duplicate)

	return nil
}

func runClose(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	id := fs.String("id", "", "The id of the order to withdraw.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == "" {
		return errors.New("an order id is required")
	}

	result, err := a.v2().MarketFxOrderClose(ctx, *id)
	if err != nil {
		return err
	}

	order, err := value(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, order.String())

	return nil
}

func runExchange(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("exchange", flag.ContinueOnError)
	tf := registerTradeFlags(fs)
	ts := fs.String("ts", "", "Only exchange at the rate quoted with this timestamp.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := tf.parse()
	if err != nil {
		return err
	}

	result, err := a.v2().DirectFxExchange(ctx, &v2.DirectFxExchangeRequest{
		DryRun:         t.dryRun,
		SubmitID:       t.submitID,
		CurrencyPair:   t.pair.Format(""),
		BuySell:        t.side,
		Volume:         t.volume,
		VolumeCurrency: t.currency,
		Ts:             *ts,
	})
	if err != nil {
		return err
	}

	exchanged, err := value(result)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exchange %s done (submit id %s)\n", exchanged.ExchangeID, t.submitID)

	return nil
}
