// Package http provides the operational HTTP server: health and readiness
// probes, a Prometheus metrics endpoint and a small HTML index.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spotfetch/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

type Metrics struct {
	MessagesTotal    *prometheus.CounterVec
	ConversionsTotal *prometheus.CounterVec
	ConversionTime   *prometheus.HistogramVec
	PayloadBytes     prometheus.Histogram
}

func newMetrics() *Metrics {
	metrics := &Metrics{
		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotfetch_messages_total",
				Help: "Total number of messages processed",
			},
			[]string{"type", "status"},
		),
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotfetch_conversions_total",
				Help: "Total number of conversion attempts by outcome",
			},
			[]string{"status"},
		),
		ConversionTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "spotfetch_conversion_duration_seconds",
				Help: "Time spent from link receipt to final outcome",
				// Conversions routinely take tens of seconds, so the default
				// buckets top out too early.
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 90, 120, 180},
			},
			[]string{"status"},
		),
		PayloadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spotfetch_payload_bytes",
				Help:    "Size of successfully fetched audio payloads",
				Buckets: prometheus.ExponentialBuckets(1<<20, 2, 7),
			},
		),
	}

	prometheus.MustRegister(
		metrics.MessagesTotal,
		metrics.ConversionsTotal,
		metrics.ConversionTime,
		metrics.PayloadBytes,
	)

	return metrics
}

func setupRoutes(logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok","service":"spotfetch"}`)); err != nil {
			logger.Debug("Failed to write healthz response", zap.Error(err))
		}
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ready","service":"spotfetch"}`)); err != nil {
			logger.Debug("Failed to write readyz response", zap.Error(err))
		}
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/", homeHandler(logger))

	return mux
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>SpotFetch</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">🎵 SpotFetch</h1>
    <p>Telegram Spotify Track Downloader Bot</p>

    <h2>Endpoints</h2>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>

    <h2>Status</h2>
    <p>Service is running and ready to process Telegram messages.</p>
</body>
</html>`)); err != nil {
			logger.Debug("Failed to write home page response", zap.Error(err))
		}
	}
}

func createHTTPServer(config *core.ServerConfig, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		config:  config,
		logger:  logger,
		server:  createHTTPServer(config, setupRoutes(logger)),
		metrics: newMetrics(),
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

// RecordMessage implements core.MetricsRecorder.
func (s *Server) RecordMessage(msgType, status string) {
	s.metrics.MessagesTotal.WithLabelValues(msgType, status).Inc()
}

// RecordConversion implements core.MetricsRecorder. payloadBytes is only
// observed for successful conversions, so failure outcomes never skew the
// size distribution.
func (s *Server) RecordConversion(status string, duration time.Duration, payloadBytes int64) {
	s.metrics.ConversionsTotal.WithLabelValues(status).Inc()
	s.metrics.ConversionTime.WithLabelValues(status).Observe(duration.Seconds())
	if payloadBytes > 0 {
		s.metrics.PayloadBytes.Observe(float64(payloadBytes))
	}
}
