package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lukehollenback/walutomat/exchange"
	"github.com/lukehollenback/walutomat/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	Name = "monitor-service"
)

//
// Service represents a quote monitor service instance. Once started, it asks its quoter for the
// best quote of every configured pair once per interval and hands each completed round to the
// registered round handlers.
//
type Service struct {
	mu        *sync.Mutex
	cancel    context.CancelFunc
	chStopped chan bool
	state     state

	quoter   exchange.Quoter
	pairs    []exchange.Pair
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	logger   *logrus.Entry

	onRoundHandlers []func(*Round)
}

//
// New instantiates a monitor service that polls the provided pairs through the provided quoter.
//
func New(quoter exchange.Quoter, pairs []exchange.Pair, interval time.Duration, log logrus.FieldLogger) *Service {
	if log == nil {
		log = exchange.DiscardLogger()
	}

	return &Service{
		mu:              &sync.Mutex{},
		state:           stopped,
		quoter:          quoter,
		pairs:           append([]exchange.Pair(nil), pairs...),
		interval:        interval,
		now:             time.Now,
		logger:          logger.WithComponent(log, Name),
		onRoundHandlers: make([]func(*Round), 0),
	}
}

//
// SetRequestTimeout bounds each individual quote request. Zero (the default) leaves requests
// bounded only by the service's lifetime.
//
func (o *Service) SetRequestTimeout(timeout time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.timeout = timeout
}

//
// RegisterRoundHandler registers a handler to be executed, in registration order, whenever a round
// of samples completes.
//
func (o *Service) RegisterRoundHandler(handler func(*Round)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onRoundHandlers = append(o.onRoundHandlers, handler)
}

//
// Start implements the Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// Validate that necessary configurations have been provided.
	//
	if o.state != stopped {
		return nil, errors.New("the monitor service is already running")
	}

	if o.quoter == nil {
		return nil, errors.New("the monitor service has no quoter to poll")
	}

	if len(o.pairs) == 0 {
		return nil, errors.New("the monitor service has no pairs to poll")
	}

	if o.interval <= 0 {
		return nil, errors.New("the monitor service's poll interval must be positive")
	}

	//
	// (Re)initialize our instance variables.
	//
	var ctx context.Context

	ctx, o.cancel = context.WithCancel(context.Background())
	o.chStopped = make(chan bool, 1)
	o.state = running

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(ctx, o.chStopped)

	//
	// Return our "started" channel in case the caller wants to block on it and log some debug info.
	//
	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.WithFields(logrus.Fields{
		"pairs":    len(o.pairs),
		"interval": o.interval,
	}).Info("Started.")

	return chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != running {
		return nil, errors.New("the monitor service is not running")
	}

	o.logger.Info("Stopping...")

	//
	// Tell the goroutine that was spun off by the service to shutdown.
	//
	o.state = stopping
	o.cancel()

	//
	// Return the "stopped" channel that the caller can block on if they need to know that the
	// service has completely shutdown.
	//
	return o.chStopped, nil
}

//
// service polls one round per interval until its context is cancelled. The first round is polled
// immediately.
//
func (o *Service) service(ctx context.Context, chStopped chan<- bool) {
	limiter := rate.NewLimiter(rate.Every(o.interval), 1)

	for seq := 0; ; seq++ {
		if err := limiter.Wait(ctx); err != nil {
			break
		}

		round := o.poll(ctx, seq)

		//
		// A round interrupted by a shutdown is incomplete and is dropped.
		//
		if ctx.Err() != nil {
			break
		}

		o.processRound(round)
	}

	o.mu.Lock()
	o.state = stopped
	o.mu.Unlock()

	o.logger.Info("Stopped.")

	chStopped <- true
}

//
// poll takes one sample per pair, sequentially and in configuration order. A failing pair is
// logged and recorded on its sample; it never aborts the round.
//
func (o *Service) poll(ctx context.Context, seq int) *Round {
	o.mu.Lock()
	timeout := o.timeout
	o.mu.Unlock()

	round := &Round{
		Seq:     seq,
		Time:    o.now(),
		Samples: make([]Sample, 0, len(o.pairs)),
	}

	for _, pair := range o.pairs {
		reqCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
		}

		quote, err := o.quoter.BestQuote(reqCtx, pair)
		cancel()

		sample := Sample{
			Time:  o.now(),
			Pair:  pair,
			Quote: quote,
			Err:   err,
		}

		if err != nil {
			sample.Quote = nil

			if ctx.Err() == nil {
				o.logger.WithError(err).WithField("pair", pair.String()).Warn("Failed to retrieve quote.")
			}
		}

		round.Samples = append(round.Samples, sample)
	}

	if failed := round.Failed(); failed > 0 {
		o.logger.WithFields(logrus.Fields{
			"seq":    seq,
			"failed": failed,
		}).Debug("Round completed with failures.")
	}

	return round
}

//
// processRound fires off the registered round handlers.
//
func (o *Service) processRound(round *Round) {
	o.mu.Lock()
	handlers := make([]func(*Round), len(o.onRoundHandlers))
	copy(handlers, o.onRoundHandlers)
	o.mu.Unlock()

	// NOTE ~> Handlers run outside of the lock so that they may register further handlers or stop
	//  the service.
	for _, handler := range handlers {
		handler(round)
	}
}
