// dashd is the dashboard daemon.
// It runs the HTTP API, the web UI server, the SSH terminal dashboard,
// and the background agenda refresh scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"dayboard/internal/agenda"
	"dayboard/internal/config"
	"dayboard/internal/db"
	"dayboard/internal/server"
	"dayboard/internal/webapi"
	"dayboard/internal/webserver"
)

func main() {
	configPath := flag.String("config", "", "Config file path (default: ~/.config/dayboard/config.yaml)")
	dbPath := flag.String("db", "", "Database path (default: ~/.local/share/dayboard/dayboard.db)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dashd",
	})

	if *configPath == "" {
		*configPath = config.DefaultPath()
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	home, _ := os.UserHomeDir()
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(home, ".local", "share", "dayboard", "dayboard.db")
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer database.Close()
	logger.Info("Database opened", "path", *dbPath)

	// Agenda service over the upstream API, pushing refreshes out
	// through the API server's WebSocket feed.
	var api *webapi.Server
	client := agenda.NewClient(cfg.UpstreamURL)
	svc := agenda.NewService(client, time.Duration(cfg.CacheTTLMinutes)*time.Minute, func(events []agenda.Event) {
		if api != nil {
			api.BroadcastAgenda(events)
		}
	})

	api = webapi.New(webapi.Config{
		Addr:      cfg.APIAddr,
		DB:        database,
		Agenda:    svc,
		DevMode:   cfg.DevMode,
		DevOrigin: cfg.DevOrigin,
	})

	web, err := webserver.New(webserver.Config{
		Addr:   cfg.WebAddr,
		APIURL: "http://127.0.0.1" + cfg.APIAddr,
	})
	if err != nil {
		logger.Fatal("Failed to create web server", "error", err)
	}

	hostKey := cfg.HostKeyPath
	if hostKey == "" {
		hostKey = filepath.Join(home, ".ssh", "dayboard_ed25519")
	}
	sshSrv, err := server.New(server.Config{
		Addr:        cfg.SSHAddr,
		HostKeyPath: hostKey,
		DB:          database,
		Agenda:      svc,
	})
	if err != nil {
		logger.Fatal("Failed to create SSH server", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RefreshCron != "" {
		if err := svc.StartScheduler(cfg.RefreshCron); err != nil {
			logger.Fatal("Failed to start agenda scheduler", "error", err)
		}
		defer svc.StopScheduler()
	}

	// Reload config on file change; only log levels and TTL are safe
	// to change at runtime, addresses require a restart.
	stopWatch, err := config.Watch(*configPath, func(updated *config.Config) {
		logger.Info("Config reloaded", "path", *configPath)
		cfg = updated
	})
	if err != nil {
		logger.Warn("Config watch unavailable", "error", err)
	} else {
		defer stopWatch()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 3)
	go func() {
		errCh <- api.Start(ctx)
	}()
	go func() {
		errCh <- web.Start(ctx)
	}()
	go func() {
		errCh <- sshSrv.Start()
	}()

	logger.Info("API listening", "addr", cfg.APIAddr)
	logger.Info("Web listening", "addr", cfg.WebAddr)
	logger.Info("SSH listening", "addr", cfg.SSHAddr)
	fmt.Printf("\n  Web:  http://localhost%s\n", cfg.WebAddr)
	fmt.Printf("  API:  http://localhost%s\n", cfg.APIAddr)
	fmt.Printf("  SSH:  ssh -p %s localhost\n\n", cfg.SSHAddr[1:])

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server error", "error", err)
		}
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		sshSrv.Shutdown(shutdownCtx)
	}

	logger.Info("Shutdown complete")
}
