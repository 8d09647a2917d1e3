package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	StatusCategoryTotal *prometheus.CounterVec

	// Authentication metrics
	LoginCounter    prometheus.Counter
	RegisterCounter prometheus.Counter
	AuthErrors      *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Solution lifecycle metrics
	SolutionOperations *prometheus.CounterVec
	ReviewDecisions    *prometheus.CounterVec
	InterestsCreated   prometheus.Counter

	// Onboarding wizard metrics
	WizardTurns         *prometheus.CounterVec
	ExtractionFailures  *prometheus.CounterVec
	ExtractionDuration  *prometheus.HistogramVec
	WizardSessionsStart prometheus.Counter

	// Agent metrics
	AgentTurns     *prometheus.CounterVec
	ReportsSaved   prometheus.Counter
	UploadsTotal   *prometheus.CounterVec
	NotifyFailures prometheus.Counter

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration. Only the
// first call registers collectors.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() { register(config.Metrics.Prefix) })
}

func register(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StatusCategoryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category"},
	)

	LoginCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_login_total",
		Help: "Total number of login attempts",
	})

	RegisterCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_register_total",
		Help: "Total number of user registrations",
	})

	AuthErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors by type",
		},
		[]string{"type"},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	SolutionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_solution_operations_total",
			Help: "Total number of solution operations",
		},
		[]string{"operation"},
	)

	ReviewDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_review_decisions_total",
			Help: "Evaluator decisions by track and resulting status",
		},
		[]string{"track", "status"},
	)

	InterestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_interests_created_total",
		Help: "Total number of interest leads captured",
	})

	WizardTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_wizard_turns_total",
			Help: "Onboarding wizard turns by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	WizardSessionsStart = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_wizard_sessions_started_total",
		Help: "Total number of onboarding wizard sessions started",
	})

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_extraction_failures_total",
			Help: "LLM extraction failures by operation and reason",
		},
		[]string{"operation", "reason"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_extraction_duration_seconds",
			Help:    "Duration of LLM calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"operation"},
	)

	AgentTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_agent_turns_total",
			Help: "Agent chat turns by outcome",
		},
		[]string{"outcome"},
	)

	ReportsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_research_reports_saved_total",
		Help: "Total number of research reports persisted",
	})

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_uploads_total",
			Help: "File uploads by bucket kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_notify_failures_total",
		Help: "Email relay calls that failed",
	})
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware records request count, duration and status category
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			if HttpRequestsTotal == nil {
				return err
			}
			duration := time.Since(start).Seconds()
			method := c.Request().Method
			path := c.Path()
			code := c.Response().Status
			status := strconv.Itoa(code)

			HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
			if category := statusCategory(code); category != "" {
				StatusCategoryTotal.WithLabelValues(category).Inc()
			}
			return err
		}
	}
}

func statusCategory(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	}
	return ""
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// TrackExtraction returns a function that records the duration of an LLM call
func TrackExtraction(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if ExtractionDuration == nil {
			return
		}
		ExtractionDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// RecordSolutionOperation increments the counter for solution operations
func RecordSolutionOperation(operation string) {
	if SolutionOperations != nil {
		SolutionOperations.WithLabelValues(operation).Inc()
	}
}

// RecordReviewDecision counts an evaluator status write on one track
func RecordReviewDecision(track, status string) {
	if ReviewDecisions != nil {
		ReviewDecisions.WithLabelValues(track, status).Inc()
	}
}

func RecordInterestCreated() {
	if InterestsCreated != nil {
		InterestsCreated.Inc()
	}
}

func RecordLogin() {
	if LoginCounter != nil {
		LoginCounter.Inc()
	}
}

func RecordRegister() {
	if RegisterCounter != nil {
		RegisterCounter.Inc()
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	if AuthErrors != nil {
		AuthErrors.WithLabelValues(errorType).Inc()
	}
}

// RecordWizardTurn counts a wizard turn for a step: "advanced", "completed" or "failed"
func RecordWizardTurn(step int, outcome string) {
	if WizardTurns != nil {
		WizardTurns.WithLabelValues(strconv.Itoa(step), outcome).Inc()
	}
}

func RecordWizardStart() {
	if WizardSessionsStart != nil {
		WizardSessionsStart.Inc()
	}
}

// RecordExtractionFailure counts an LLM failure: reason is "parse", "timeout" or "call"
func RecordExtractionFailure(operation, reason string) {
	if ExtractionFailures != nil {
		ExtractionFailures.WithLabelValues(operation, reason).Inc()
	}
}

func RecordAgentTurn(outcome string) {
	if AgentTurns != nil {
		AgentTurns.WithLabelValues(outcome).Inc()
	}
}

func RecordReportSaved() {
	if ReportsSaved != nil {
		ReportsSaved.Inc()
	}
}

func RecordUpload(kind, outcome string) {
	if UploadsTotal != nil {
		UploadsTotal.WithLabelValues(kind, outcome).Inc()
	}
}

func RecordNotifyFailure() {
	if NotifyFailures != nil {
		NotifyFailures.Inc()
	}
}
