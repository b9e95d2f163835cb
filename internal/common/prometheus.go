package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	SubmissionReviewTotal      = "submission_reviews_total"
	RewardIssuanceTotal        = "reward_issuances_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		SubmissionReviewTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SubmissionReviewTotal,
			Help: "Count of submission status transitions",
		}, []string{"stage", "to_status"}),
		RewardIssuanceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RewardIssuanceTotal,
			Help: "Count of reward issuance attempts by outcome",
		}, []string{"type", "status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)

// RegisterMetrics registers every collector above into reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range PromCounters {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	for _, h := range PromHistograms {
		if err := reg.Register(h); err != nil {
			return err
		}
	}

	return nil
}
