package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlexandreRouma/vhf-framing/internal/channel"
	"github.com/AlexandreRouma/vhf-framing/internal/config"
)

// HTTPServer provides HTTP endpoints for monitoring the framing service
type HTTPServer struct {
	server     *http.Server
	logger     *slog.Logger
	channelMgr *channel.Manager
	startTime  time.Time
}

// NewHTTPServer creates the observability HTTP server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger, channelMgr *channel.Manager) *HTTPServer {
	h := &HTTPServer{
		logger:     logger,
		channelMgr: channelMgr,
		startTime:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/v1/channels", h.handleChannels)
	mux.Handle("/metrics", promhttp.Handler())

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// Start begins serving in a background goroutine
func (h *HTTPServer) Start() error {
	h.logger.Info("HTTP server starting", slog.String("address", h.server.Addr))

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server failed", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("HTTP server stopping")
	return h.server.Shutdown(ctx)
}

// handleHealth reports service liveness and uptime
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, map[string]any{
		"status":          "ok",
		"uptime_seconds":  time.Since(h.startTime).Seconds(),
		"active_channels": h.channelMgr.ActiveSessions(),
	})
}

// handleChannels reports per-channel deframer statistics
func (h *HTTPServer) handleChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, map[string]any{
		"channels": h.channelMgr.AllStats(),
	})
}

func (h *HTTPServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}
