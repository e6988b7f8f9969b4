package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.DefaultRegisterer

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path/method/code.",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by path/method/code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "code"},
	)

	admissionDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_admissions_total",
			Help: "Admission decisions by outcome code.",
		},
		[]string{"decision"},
	)

	admissionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reservation_admission_duration_seconds",
			Help:    "Duration of admission decisions by outcome code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"decision"},
	)

	reservationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_ops_total",
			Help: "Reservation side operations by op and result.",
		},
		[]string{"op", "result"},
	)

	activeReservations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_reservations",
			Help: "Reservations confirmed minus reservations cancelled since start.",
		},
	)
)

func GinMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	code := strconv.Itoa(c.Writer.Status())
	path := c.FullPath()

	// unmatched routes have no FullPath
	if path == "" {
		path = c.Request.URL.Path
	}

	if path == "/metrics" || strings.HasPrefix(path, "/debug/pprof/") {
		return
	}

	method := c.Request.Method

	httpRequests.WithLabelValues(path, method, code).Inc()
	httpDuration.WithLabelValues(path, method, code).Observe(time.Since(start).Seconds())
}

func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveAdmission records one admission outcome, e.g. CONFIRMED or SLOT_CONFLICT.
func ObserveAdmission(decision string, start time.Time) {
	admissionDecisions.WithLabelValues(decision).Inc()
	admissionDuration.WithLabelValues(decision).Observe(time.Since(start).Seconds())
}

func ObserveReservationOp(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	reservationOps.WithLabelValues(op, result).Inc()
}

func AddActiveReservations(delta float64) {
	activeReservations.Add(delta)
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		admissionDecisions,
		admissionDuration,
		reservationOps,
		activeReservations,
	}

	for _, c := range collectors {
		_ = registry.Register(c)
	}
}
