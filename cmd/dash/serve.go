package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dayboard/internal/agenda"
	"dayboard/internal/config"
	"dayboard/internal/db"
	"dayboard/internal/webapi"
)

// serveCmd runs the API server in the foreground. The full daemon with
// the web and SSH surfaces lives in cmd/dashd; this is the lightweight
// variant for development and single-client setups.
func serveCmd(logger *log.Logger) *cobra.Command {
	var devMode bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server in the foreground",
		Run: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				logger.Fatal("Failed to load config", "error", err)
			}

			dbPath := cfg.DBPath
			if dbPath == "" {
				home, _ := os.UserHomeDir()
				dbPath = filepath.Join(home, ".local", "share", "dayboard", "dayboard.db")
			}
			database, err := db.Open(dbPath)
			if err != nil {
				logger.Fatal("Failed to open database", "error", err)
			}
			defer database.Close()

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
				DevMode:   devMode || cfg.DevMode,
				DevOrigin: cfg.DevOrigin,
			})

			if cfg.RefreshCron != "" {
				if err := svc.StartScheduler(cfg.RefreshCron); err != nil {
					logger.Fatal("Failed to start agenda scheduler", "error", err)
				}
				defer svc.StopScheduler()
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger.Info("API listening", "addr", cfg.APIAddr)
			if err := api.Start(ctx); err != nil {
				logger.Fatal("Server error", "error", err)
			}
		},
	}
	cmd.Flags().BoolVar(&devMode, "dev", false, "Enable CORS for local frontend development")
	return cmd
}
