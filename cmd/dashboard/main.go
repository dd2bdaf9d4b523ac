package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growbox_dashboard/internal/api"
	"growbox_dashboard/internal/bootstrap"
	"growbox_dashboard/internal/config"
	"growbox_dashboard/internal/live"
	"growbox_dashboard/internal/logger"
	"growbox_dashboard/internal/metrics"
	"growbox_dashboard/internal/submit"
	"growbox_dashboard/internal/tui"
	"growbox_dashboard/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// requestTimeout bounds the one-shot GET and POST calls. The push stream
// uses its own client without a timeout.
const requestTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

func run() error {
	fs := config.Flags("dashboard")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	log, closeLog, err := logger.NewFile(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, reg, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.Device.BaseURL, &http.Client{Timeout: requestTimeout})

	bridge := tui.NewBridge()
	reconciler := view.NewReconciler(bridge)
	controller := submit.NewController(client, reconciler, bridge.Feedback, log, submit.Options{
		ClearAfter: cfg.Feedback.ClearAfter,
		Metrics:    m,
	})

	stream, err := newStream(cfg, client, log)
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(ctx, reconciler, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.SetProgram(program)

	log.Infow("dashboard_started", "device", cfg.Device.BaseURL, "transport", cfg.Push.Transport)

	go bootstrap.NewLoader(client, reconciler, log, m).Load(ctx)
	go func() {
		if err := live.NewSubscriber(stream, reconciler, log, m).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("push_stream_stopped", "err", err)
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	log.Infow("dashboard_stopped")
	return nil
}

// newStream builds the push transport selected by push.transport.
func newStream(cfg *config.Config, client *api.Client, log *logger.Logger) (live.Stream, error) {
	switch cfg.Push.Transport {
	case config.TransportWebSocket:
		u, err := live.WebSocketURL(cfg.Device.BaseURL, api.WSPath)
		if err != nil {
			return nil, err
		}
		return live.NewWebSocketStream(u, websocket.DefaultDialer, cfg.Push.Retry, log), nil
	default:
		return live.NewEventSource(client.URL(api.EventsPath), &http.Client{}, cfg.Push.Retry, log), nil
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Errorw("metrics_listener_failed", "err", err, "addr", addr)
	}
}
