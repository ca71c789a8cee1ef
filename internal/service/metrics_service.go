package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uniterm/uniterm-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	proposalTotal   *prometheus.CounterVec
	sweepDeleted    *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	proposalTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exam_term_proposals_total",
		Help: "Exam term proposals by validation outcome",
	}, []string{"outcome"})

	sweepDeleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "integrity_sweep_deleted_total",
		Help: "Rows deleted by the duplicate sweep, per entity type",
	}, []string{"entity"})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestDuration,
		requestTotal,
		proposalTotal,
		sweepDeleted,
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		proposalTotal:   proposalTotal,
		sweepDeleted:    sweepDeleted,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveProposal counts a proposal by its validation outcome.
func (s *MetricsService) ObserveProposal(outcome string) {
	s.proposalTotal.WithLabelValues(outcome).Inc()
}

// ObserveSweep records the deletions performed by one integrity sweep.
func (s *MetricsService) ObserveSweep(result models.SweepResult) {
	s.sweepDeleted.WithLabelValues("subjects").Add(float64(result.Subjects))
	s.sweepDeleted.WithLabelValues("exams").Add(float64(result.Exams))
	s.sweepDeleted.WithLabelValues("exam_terms").Add(float64(result.ExamTerms))
	s.sweepDeleted.WithLabelValues("rooms").Add(float64(result.Rooms))
	s.sweepDeleted.WithLabelValues("demo_users").Add(float64(result.DemoUsers))
}
