// Package server exposes the bot's operational endpoints: HTTP health,
// status and metrics, and a gRPC health service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dasmlab/kotoba/pkg/session"
)

// StatusSource supplies the live values reported by the status endpoints.
type StatusSource interface {
	Connected() bool
}

// HTTPServer provides HTTP endpoints for health, status and Prometheus metrics.
type HTTPServer struct {
	gateway StatusSource
	session *session.State
	mode    string
	prefix  string
	started time.Time
	logger  *logrus.Logger
	srv     *http.Server
}

// NewHTTPServer creates a new HTTP server listening on port.
func NewHTTPServer(gateway StatusSource, state *session.State, mode, prefix string, port int, logger *logrus.Logger) *HTTPServer {
	if logger == nil {
		logger = logrus.New()
	}
	s := &HTTPServer{
		gateway: gateway,
		session: state,
		mode:    mode,
		prefix:  prefix,
		started: time.Now(),
		logger:  logger,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", s.handleHealth)

	// Session and gateway status
	mux.HandleFunc("/status", s.handleStatus)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// Start serves until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.WithFields(logrus.Fields{
		"addr": s.srv.Addr,
	}).Info("Starting HTTP server for health, status and metrics")

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// handleHealth reports healthy only while the chat gateway is connected.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if !s.gateway.Connected() {
		status = "disconnected"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
	})
}

// handleStatus returns the translation session and gateway state.
func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.session.Snapshot()
	status, err := structpb.NewStruct(map[string]interface{}{
		"mode":           s.mode,
		"prefix":         s.prefix,
		"auto_translate": snap.AutoTranslate,
		"lang_from":      snap.From,
		"lang_to":        snap.To,
		"connected":      s.gateway.Connected(),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build status")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := protojson.Marshal(status)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal status")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
