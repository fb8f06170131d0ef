package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lukehollenback/walutomat/exchange"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	eurPLN = exchange.NewPair("EUR", "PLN")
	gbpPLN = exchange.NewPair("GBP", "PLN")
)

//
// fakeQuoter answers with a fixed quote for EUR/PLN and fails every other pair.
//
type fakeQuoter struct {
	mu    sync.Mutex
	calls []exchange.Pair
}

func (o *fakeQuoter) BestQuote(ctx context.Context, pair exchange.Pair) (*exchange.Quote, error) {
	o.mu.Lock()
	o.calls = append(o.calls, pair)
	o.mu.Unlock()

	if pair != eurPLN {
		return nil, exchange.ErrEmptyOrderbook
	}

	return &exchange.Quote{
		Pair: pair,
		Bid:  decimal.RequireFromString("4.28"),
		Ask:  decimal.RequireFromString("4.29"),
	}, nil
}

func collect(service *Service, n int) <-chan *Round {
	ch := make(chan *Round, n)

	service.RegisterRoundHandler(func(round *Round) {
		select {
		case ch <- round:
		default:
		}
	})

	return ch
}

func receive(t *testing.T, ch <-chan *Round) *Round {
	t.Helper()

	select {
	case round := <-ch:
		return round
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a round")
		return nil
	}
}

func stop(t *testing.T, service *Service) {
	t.Helper()

	chStopped, err := service.Stop()
	require.NoError(t, err)

	select {
	case <-chStopped:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the service to stop")
	}
}

func TestService_PollsRounds(t *testing.T) {
	log, hook := test.NewNullLogger()
	quoter := &fakeQuoter{}

	service := New(quoter, []exchange.Pair{eurPLN, gbpPLN}, 10*time.Millisecond, log)
	rounds := collect(service, 8)

	chStarted, err := service.Start()
	require.NoError(t, err)
	assert.True(t, <-chStarted)

	first := receive(t, rounds)
	second := receive(t, rounds)

	stop(t, service)

	assert.Equal(t, 0, first.Seq)
	assert.Equal(t, 1, second.Seq)

	require.Len(t, first.Samples, 2)
	assert.Equal(t, eurPLN, first.Samples[0].Pair)
	assert.NoError(t, first.Samples[0].Err)
	assert.Equal(t, "0.01", first.Samples[0].Quote.Spread().String())

	assert.Equal(t, gbpPLN, first.Samples[1].Pair)
	assert.Nil(t, first.Samples[1].Quote)
	assert.True(t, errors.Is(first.Samples[1].Err, exchange.ErrEmptyOrderbook))
	assert.Equal(t, 1, first.Failed())

	//
	// Every failing pair is logged with its name, and the loop carries on regardless.
	//
	warned := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			assert.Equal(t, "GBP_PLN", entry.Data["pair"])
			assert.Equal(t, Name, entry.Data["component"])
			warned++
		}
	}
	assert.GreaterOrEqual(t, warned, 2)

	quoter.mu.Lock()
	defer quoter.mu.Unlock()
	assert.Equal(t, []exchange.Pair{eurPLN, gbpPLN}, quoter.calls[:2])
}

func TestService_Restart(t *testing.T) {
	service := New(&fakeQuoter{}, []exchange.Pair{eurPLN}, 10*time.Millisecond, nil)
	rounds := collect(service, 1)

	_, err := service.Start()
	require.NoError(t, err)

	_, err = service.Start()
	assert.Error(t, err, "starting twice must fail")

	receive(t, rounds)
	stop(t, service)

	_, err = service.Stop()
	assert.Error(t, err, "stopping a stopped service must fail")

	_, err = service.Start()
	require.NoError(t, err)

	receive(t, rounds)
	stop(t, service)
}

func TestService_StartValidation(t *testing.T) {
	_, err := New(&fakeQuoter{}, nil, time.Second, nil).Start()
	assert.Error(t, err)

	_, err = New(&fakeQuoter{}, []exchange.Pair{eurPLN}, 0, nil).Start()
	assert.Error(t, err)

	_, err = New(nil, []exchange.Pair{eurPLN}, time.Second, nil).Start()
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "stopped", stopped.String())
	assert.Equal(t, "running", running.String())
	assert.Equal(t, "stopping", stopping.String())
}

func TestService_HandlerMayStopService(t *testing.T) {
	service := New(&fakeQuoter{}, []exchange.Pair{eurPLN}, 10*time.Millisecond, nil)
	chStopped := make(chan (<-chan bool), 1)

	service.RegisterRoundHandler(func(round *Round) {
		if ch, err := service.Stop(); err == nil {
			chStopped <- ch
		}
	})

	_, err := service.Start()
	require.NoError(t, err)

	select {
	case ch := <-chStopped:
		assert.True(t, <-ch)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the handler to stop the service")
	}
}
