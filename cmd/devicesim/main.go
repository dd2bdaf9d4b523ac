package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growbox_dashboard/internal/config"
	"growbox_dashboard/internal/handlers"
	"growbox_dashboard/internal/logger"
	"growbox_dashboard/internal/repository"
	"growbox_dashboard/internal/repository/db"
	"growbox_dashboard/internal/server"
	"growbox_dashboard/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fs := config.Flags("devicesim")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	// load configs/config.yml and flags
	cfg, err := config.Load(fs)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("config_read_failed", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)

	// open DB
	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("sqlite_init_failed", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("sqlite_close_failed", "err", cerr)
		}
	}()

	// wire dependencies
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, service.SimOptions{FaultRate: cfg.Sim.SensorFaultRate})
	apiHandler := handlers.NewHandler(services, log, reg)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start simulator
	go services.Simulator.Run(ctx, cfg.Sim.Tick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Server.Port, apiHandler, log)
	log.Infow("devicesim_started", "port", cfg.Server.Port, "tick", cfg.Sim.Tick, "sensor_fault_rate", cfg.Sim.SensorFaultRate)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("server_start_failed", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("devicesim_stopping")

	// stop the simulator and close open streams
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server_forced_shutdown", "err", err)
	}
}
