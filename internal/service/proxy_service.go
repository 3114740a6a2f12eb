// Package service contains the service layer for the NSE gateway
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nsvirk/nsegateway/internal/models"
	"github.com/nsvirk/nsegateway/internal/nse"
	"github.com/nsvirk/nsegateway/pkg/utils/zaplogger"
)

// Dispatcher runs one upstream request to completion
type Dispatcher interface {
	Dispatch(ctx context.Context, req nse.Request) (*nse.Result, error)
}

// Recorder receives every finished dispatch
type Recorder interface {
	Record(ctx context.Context, o models.DispatchOutcome) error
}

// ProxyService serves the gateway's upstream-backed endpoints
type ProxyService struct {
	dispatcher Dispatcher
	recorders  []Recorder
	newID      func() string
	now        func() time.Time
}

// NewProxyService creates a new proxy service; nil recorders are skipped
func NewProxyService(dispatcher Dispatcher, recorders ...Recorder) *ProxyService {
	s := &ProxyService{
		dispatcher: dispatcher,
		newID:      func() string { return uuid.New().String() },
		now:        time.Now,
	}
	for _, r := range recorders {
		if r != nil {
			s.recorders = append(s.recorders, r)
		}
	}
	return s
}

// OptionChain returns the raw option chain for an index or equity symbol
func (s *ProxyService) OptionChain(ctx context.Context, identifier string) ([]byte, error) {
	return s.serve(ctx, nse.Request{Kind: nse.OptionChain, Identifier: identifier})
}

// EquityQuote returns the raw quote for an equity symbol
func (s *ProxyService) EquityQuote(ctx context.Context, identifier string) ([]byte, error) {
	return s.serve(ctx, nse.Request{Kind: nse.EquityQuote, Identifier: identifier})
}

// MarketStatus returns the raw market status document
func (s *ProxyService) MarketStatus(ctx context.Context) ([]byte, error) {
	return s.serve(ctx, nse.Request{Kind: nse.MarketStatus})
}

func (s *ProxyService) serve(ctx context.Context, req nse.Request) ([]byte, error) {
	requestID := s.newID()
	start := s.now()
	identifier := nse.NormalizeIdentifier(req.Identifier)

	zaplogger.Info("Request received", zaplogger.Fields{
		"request_id": requestID,
		"kind":       req.Kind.String(),
		"identifier": identifier,
	})

	result, err := s.dispatcher.Dispatch(ctx, req)

	outcome := models.DispatchOutcome{
		RequestID:  requestID,
		Kind:       req.Kind.String(),
		Identifier: identifier,
		StartedAt:  start,
		Duration:   s.now().Sub(start),
	}
	if endpoint, resolveErr := nse.Resolve(req.Kind, identifier); resolveErr == nil {
		outcome.Path = endpoint.Path
		if req.Kind.NeedsIdentifier() {
			outcome.Class = endpoint.Class.String()
		}
	}

	switch {
	case err == nil:
		outcome.Outcome = models.OutcomeSuccess
		outcome.Attempts = result.Attempts
		outcome.PayloadBytes = len(result.Payload)
	case errors.Is(err, nse.ErrInvalidIdentifier):
		outcome.Outcome = models.OutcomeRejected
		outcome.Error = err.Error()
	default:
		outcome.Outcome = models.OutcomeFailure
		outcome.Error = err.Error()
		var exhausted *nse.RetriesExhaustedError
		if errors.As(err, &exhausted) {
			outcome.Attempts = exhausted.Attempts
		}
		zaplogger.Error("Proxy request error", zaplogger.Fields{
			"request_id": requestID,
			"kind":       outcome.Kind,
			"identifier": identifier,
			"attempts":   outcome.Attempts,
			"error":      err.Error(),
		})
	}

	s.record(ctx, outcome)

	if err != nil {
		return nil, err
	}
	zaplogger.Debug("Request served", zaplogger.Fields{
		"request_id": requestID,
		"attempts":   outcome.Attempts,
		"bytes":      outcome.PayloadBytes,
		"duration":   outcome.Duration.String(),
	})
	return result.Payload, nil
}

// record hands the outcome to every recorder; recorder failures are only logged
func (s *ProxyService) record(ctx context.Context, o models.DispatchOutcome) {
	for _, r := range s.recorders {
		if err := r.Record(ctx, o); err != nil {
			zaplogger.Warn("Failed to record dispatch", zaplogger.Fields{
				"request_id": o.RequestID,
				"error":      err.Error(),
			})
		}
	}
}
