// Package openf1 reads race sessions and drivers from the OpenF1 API under a
// fail-fast rate limiter and a bounded retry policy.
package openf1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/race-betting-ledger/internal/config"
	"github.com/race-betting-ledger/internal/domain/race"
	"github.com/race-betting-ledger/internal/platform/resilience"
)

const (
	sessionsEndpoint = "sessions"
	driversEndpoint  = "drivers"
)

// Recorder receives per-attempt client telemetry
type Recorder interface {
	ObserveRequest(endpoint, outcome string)
	ObserveRetry(endpoint string)
	ObserveRateLimited()
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, string) {}
func (nopRecorder) ObserveRetry(string)           {}
func (nopRecorder) ObserveRateLimited()           {}

// Client implements race.ReadRepository against OpenF1
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *resilience.PermitLimiter
	retriers   map[string]*resilience.Retrier
	recorder   Recorder
	logger     *slog.Logger
}

var _ race.ReadRepository = (*Client)(nil)

func NewClient(logger *slog.Logger, cfg config.OpenF1Config, recorder Recorder) *Client {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    resilience.NewPermitLimiter(cfg.RateLimitForPeriod, cfg.RateLimitRefresh),
		retriers:   make(map[string]*resilience.Retrier, 2),
		recorder:   recorder,
		logger:     logger.With("component", "openf1_client"),
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts:  cfg.RetryMaxAttempts,
		BaseDelay:    cfg.RetryBaseDelay,
		Multiplier:   cfg.RetryMultiplier,
		JitterFactor: cfg.RetryJitterFactor,
		MaxDelay:     cfg.RetryMaxDelay,
	}
	for _, endpoint := range []string{sessionsEndpoint, driversEndpoint} {
		endpoint := endpoint
		c.retriers[endpoint] = resilience.NewRetrier(retryCfg, isRetryable).OnRetry(func(err error, wait time.Duration) {
			c.recorder.ObserveRetry(endpoint)
			c.logger.Debug("Retrying race-data call", "endpoint", endpoint, "wait", wait, "error", err)
		})
	}

	return c
}

func (c *Client) GetEvents(ctx context.Context, query race.EventsQuery) ([]race.Event, error) {
	params := url.Values{}
	if query.Year != nil {
		params.Set("year", strconv.Itoa(*query.Year))
	}
	if strings.TrimSpace(query.Country) != "" {
		params.Set("country_name", query.Country)
	}
	if query.MeetingKey != nil {
		params.Set("meeting_key", strconv.Itoa(*query.MeetingKey))
	}
	if strings.TrimSpace(query.SessionType) != "" {
		params.Set("session_type", query.SessionType)
	}

	var sessions []sessionDTO
	if err := c.call(ctx, sessionsEndpoint, params, &sessions); err != nil {
		return nil, err
	}

	events := make([]race.Event, 0, len(sessions))
	for _, s := range sessions {
		events = append(events, s.toEvent())
	}
	return events, nil
}

func (c *Client) GetDrivers(ctx context.Context, sessionKey string, driverNumber *int) ([]race.Driver, error) {
	params := url.Values{}
	params.Set("session_key", sessionKey)
	if driverNumber != nil {
		params.Set("driver_number", strconv.Itoa(*driverNumber))
	}

	var dtos []driverDTO
	if err := c.call(ctx, driversEndpoint, params, &dtos); err != nil {
		return nil, err
	}

	drivers := make([]race.Driver, 0, len(dtos))
	for _, d := range dtos {
		drivers = append(drivers, d.toDriver())
	}
	return drivers, nil
}

// call takes one permit for the whole logical call, then runs the retried request.
// A local limiter rejection is an internal failure; only an upstream 429 is RATE_LIMITED.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Acquire(); err != nil {
		c.recorder.ObserveRateLimited()
		c.logger.Warn("Race-data call rejected by rate limiter", "endpoint", endpoint)
		return race.ErrInternalFailure
	}

	_, err := resilience.Retry(ctx, c.retriers[endpoint], func(ctx context.Context) (struct{}, error) {
		err := c.fetch(ctx, endpoint, params, out)
		c.recorder.ObserveRequest(endpoint, outcomeLabel(err))
		return struct{}{}, err
	})
	if err != nil {
		return c.classify(endpoint, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build openf1 request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode openf1 %s response: %w", endpoint, err)
	}
	return nil
}

// classify maps the final failure of a call onto the retrieval error taxonomy
func (c *Client) classify(endpoint string, err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		c.logger.Info("Race-data call rejected by upstream", "endpoint", endpoint, "status", statusErr.StatusCode)
		switch statusErr.StatusCode {
		case http.StatusUnprocessableEntity:
			return race.ErrQueryTooBroad
		case http.StatusTooManyRequests:
			c.logger.Warn("Draining local permits after upstream rate limit", "endpoint", endpoint, "available", c.limiter.Available())
			c.limiter.Drain()
			return race.ErrRateLimited
		default:
			return race.ErrInternalFailure
		}
	}

	c.logger.Error("Race-data call failed", "endpoint", endpoint, "error", err)
	return race.ErrInternalFailure
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.StatusCode)
	}
	var transportErr *transportError
	if errors.As(err, &transportErr) {
		return "network_error"
	}
	return "error"
}
