package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	CheckinCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaflow_checkins_total",
			Help: "Total number of terminal check-in outcomes",
		},
		[]string{"result"},
	)

	CheckinRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaflow_checkin_retries_total",
			Help: "Total number of check-in retry attempts",
		},
	)

	SchedulerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaflow_scheduler_ticks_total",
			Help: "Total number of scheduler ticks",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CheckinCounter)
	prometheus.MustRegister(CheckinRetries)
	prometheus.MustRegister(SchedulerTicks)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
