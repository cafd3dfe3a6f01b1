package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	ItemsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_items_added_total",
			Help: "Total number of items added to the catalog",
		},
	)
	ItemsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_items_rejected_total",
			Help: "Total number of batch candidates rejected, by reason",
		},
		[]string{"reason"},
	)
	ItemsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_items_updated_total",
			Help: "Total number of items updated",
		},
	)
	ItemsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_items_deleted_total",
			Help: "Total number of items deleted",
		},
	)
	EventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_event_publish_failures_total",
			Help: "Total number of item event batches that could not be published",
		},
	)
)

// RegisterItemsStored exposes the current catalog size. Call once per registry.
func RegisterItemsStored(registerer prometheus.Registerer, count func() int) error {
	return registerer.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "catalog_items_stored",
			Help: "Number of items currently in the catalog",
		},
		func() float64 { return float64(count()) },
	))
}

// RejectReason labels a rejected candidate for ItemsRejected.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, item.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, item.ErrValidation):
		return "validation"
	default:
		return "other"
	}
}

// NormalizePath returns the route template, so /items/:name is one series
// no matter which name was requested.
func NormalizePath(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

func Middleware(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	duration := time.Since(start).Seconds()
	path := NormalizePath(c)
	status := strconv.Itoa(c.Writer.Status())
	RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
}
