package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	registerOnce sync.Once

	exchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p4chord",
			Subsystem: "exchange",
			Name:      "total",
			Help:      "Chord exchanges by layout and terminal state.",
		},
		[]string{"layout", "state"},
	)
	exchangeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "p4chord",
			Subsystem: "exchange",
			Name:      "duration_seconds",
			Help:      "Chord exchange duration in seconds, parse to decode.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"layout", "state"},
	)
	responderFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p4chord",
			Subsystem: "responder",
			Name:      "frames_total",
			Help:      "Frames handled by the reference responder.",
		},
		[]string{"layout", "result"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(exchanges, exchangeDuration, responderFrames)
	})
}

func RecordExchange(layout, state string, duration time.Duration) {
	RegisterMetrics()
	exchanges.WithLabelValues(layout, state).Inc()
	exchangeDuration.WithLabelValues(layout, state).Observe(duration.Seconds())
}

func RecordResponderFrame(layout, result string) {
	RegisterMetrics()
	responderFrames.WithLabelValues(layout, result).Inc()
}

// ServeMetrics exposes /metrics on addr until ctx is done.
func ServeMetrics(ctx context.Context, addr string) error {
	RegisterMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("observability.metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
