package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"stock-predictor/internal/models"
	"stock-predictor/pkg/predictor"
)

// RequestHorizonDays is sent with every request. The user-editable horizon
// is not threaded through.
const RequestHorizonDays = 365

// TransportErrorMessage is shown for any failure below the payload level
const TransportErrorMessage = "API error"

// Predictor fetches a forecast series for a symbol
type Predictor interface {
	Predict(ctx context.Context, symbol string, days int) (models.ForecastSeries, error)
}

type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s RequestStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// RequestState is the outcome of the latest request. Series is only set
// when Status is StatusSucceeded, Message only when it is StatusFailed.
type RequestState struct {
	Status  RequestStatus
	Series  models.ForecastSeries
	Message string
	Seq     uint64
	Symbol  string
}

// IsEmpty reports a successful request that returned no points
func (s RequestState) IsEmpty() bool {
	return s.Status == StatusSucceeded && len(s.Series) == 0
}

// ForecastController runs forecast requests and keeps only the outcome of
// the most recently started one.
type ForecastController struct {
	mu        sync.Mutex
	predictor Predictor
	log       zerolog.Logger
	seq       uint64
	state     RequestState
	listener  func(RequestState)
}

func NewForecastController(p Predictor, log zerolog.Logger) *ForecastController {
	return &ForecastController{
		predictor: p,
		log:       log.With().Str("service", "forecast").Logger(),
	}
}

// OnChange registers a listener called after every state transition. It runs
// with the controller's lock held and must not call back into the controller.
func (c *ForecastController) OnChange(fn func(RequestState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

func (c *ForecastController) State() RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RequestForecast moves the controller to pending and fetches a forecast in
// the background. The returned channel is closed once the response has been
// applied, or dropped because a newer request started in the meantime.
func (c *ForecastController) RequestForecast(ctx context.Context, symbol string) <-chan struct{} {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = RequestState{Status: StatusPending, Seq: seq, Symbol: symbol}
	notify(c.listener, c.state)
	c.mu.Unlock()

	c.log.Debug().Uint64("seq", seq).Str("symbol", symbol).Msg("Forecast requested")

	done := make(chan struct{})
	go func() {
		defer close(done)
		series, err := c.predictor.Predict(ctx, symbol, RequestHorizonDays)
		c.complete(seq, symbol, series, err)
	}()
	return done
}

func (c *ForecastController) complete(seq uint64, symbol string, series models.ForecastSeries, err error) {
	next := classify(series, err)
	next.Seq = seq
	next.Symbol = symbol

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		c.log.Debug().
			Uint64("seq", seq).
			Uint64("latest", latest).
			Str("symbol", symbol).
			Msg("Discarding superseded forecast response")
		return
	}
	c.state = next
	notify(c.listener, next)
	c.mu.Unlock()

	switch next.Status {
	case StatusFailed:
		c.log.Warn().Err(err).Str("symbol", symbol).Str("message", next.Message).Msg("Forecast failed")
	default:
		c.log.Info().Str("symbol", symbol).Int("points", len(next.Series)).Msg("Forecast received")
	}
}

func classify(series models.ForecastSeries, err error) RequestState {
	if err == nil {
		if series == nil {
			series = models.ForecastSeries{}
		}
		return RequestState{Status: StatusSucceeded, Series: series}
	}

	var serviceErr *predictor.ServiceError
	if errors.As(err, &serviceErr) {
		return RequestState{Status: StatusFailed, Message: serviceErr.Message}
	}
	return RequestState{Status: StatusFailed, Message: TransportErrorMessage}
}

func notify(listener func(RequestState), state RequestState) {
	if listener != nil {
		listener(state)
	}
}
