package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_http_requests_total",
			Help: "Total number of HTTP requests processed by the messaging service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	grpcClientHandledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_client_handled_total",
			Help: "Total number of gRPC calls issued to upstream services.",
		},
		[]string{"grpc_service", "grpc_method", "grpc_code"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	syncEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_sync_events_total",
			Help: "Total number of change events received by the reconciler.",
		},
		[]string{"stream"},
	)
	syncEventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_sync_events_dropped_total",
			Help: "Total number of change events dropped as malformed or unauthorized.",
		},
		[]string{"stream"},
	)
	syncEventsDuplicateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_sync_events_duplicate_total",
			Help: "Total number of duplicate change events suppressed.",
		},
		[]string{"stream"},
	)
	unreadDriftRecomputesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_unread_drift_recomputes_total",
			Help: "Total number of unread-count recomputations triggered by detected drift.",
		},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_active_sessions",
			Help: "Number of live user sessions.",
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		grpcClientHandledTotal,
		wsActiveConnections,
		wsEventsTotal,
		syncEventsTotal,
		syncEventsDroppedTotal,
		syncEventsDuplicateTotal,
		unreadDriftRecomputesTotal,
		activeSessions,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func GRPCClientMetricsUnaryInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		err := invoker(ctx, method, req, reply, cc, opts...)
		statusInfo := status.Convert(err)
		service, m := splitFullMethod(method)
		grpcClientHandledTotal.WithLabelValues(service, m, statusInfo.Code().String()).Inc()
		return err
	}
}

func splitFullMethod(fullMethod string) (string, string) {
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 3 {
		return "unknown", "unknown"
	}
	return parts[1], parts[2]
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncSyncEvent(stream string) {
	syncEventsTotal.WithLabelValues(stream).Inc()
}

func IncSyncDropped(stream string) {
	syncEventsDroppedTotal.WithLabelValues(stream).Inc()
}

func IncSyncDuplicate(stream string) {
	syncEventsDuplicateTotal.WithLabelValues(stream).Inc()
}

func IncDriftRecompute() {
	unreadDriftRecomputesTotal.Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
