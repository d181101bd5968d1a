// Package metrics exposes the service counters scraped by Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every counter the services report. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	openf1Requests    *prometheus.CounterVec
	openf1Retries     *prometheus.CounterVec
	openf1RateLimited prometheus.Counter
	betsPlaced        *prometheus.CounterVec
	eventsSettled     prometheus.Counter
	payoutsCredited   prometheus.Counter
	outboxRelayed     *prometheus.CounterVec
	ledgerRecorded    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		openf1Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "openf1_requests_total",
			Help: "Upstream race-data requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		openf1Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "openf1_retries_total",
			Help: "Upstream race-data retries by endpoint",
		}, []string{"endpoint"}),
		openf1RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openf1_rate_limited_total",
			Help: "Race-data calls rejected by the local rate limiter",
		}),
		betsPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bets_placed_total",
			Help: "Bet placement attempts by outcome",
		}, []string{"outcome"}),
		eventsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "events_settled_total",
			Help: "Events whose pending bets were settled",
		}),
		payoutsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payouts_credited_total",
			Help: "Accounts credited with winnings",
		}),
		outboxRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_outbox_relayed_total",
			Help: "Outbox messages relayed to the journal topic by outcome",
		}, []string{"outcome"}),
		ledgerRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_entries_recorded_total",
			Help: "Ledger entries handled by the recorder by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.openf1Requests,
		m.openf1Retries,
		m.openf1RateLimited,
		m.betsPlaced,
		m.eventsSettled,
		m.payoutsCredited,
		m.outboxRelayed,
		m.ledgerRecorded,
	)

	return m
}

func (m *Metrics) ObserveRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.openf1Requests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveRetry(endpoint string) {
	if m == nil {
		return
	}
	m.openf1Retries.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.openf1RateLimited.Inc()
}

func (m *Metrics) BetPlaced(outcome string) {
	if m == nil {
		return
	}
	m.betsPlaced.WithLabelValues(outcome).Inc()
}

func (m *Metrics) EventSettled(creditedAccounts int) {
	if m == nil {
		return
	}
	m.eventsSettled.Inc()
	m.payoutsCredited.Add(float64(creditedAccounts))
}

func (m *Metrics) OutboxRelayed(outcome string) {
	if m == nil {
		return
	}
	m.outboxRelayed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) LedgerRecorded(outcome string) {
	if m == nil {
		return
	}
	m.ledgerRecorded.WithLabelValues(outcome).Inc()
}
