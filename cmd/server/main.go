package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"newslens/internal/application"
	"newslens/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Newslens Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  GEMINI_API_KEY        Gemini API key (required)\n")
		fmt.Printf("  PORT                  Server port (default: 8080)\n")
		fmt.Printf("  HOST                  Server host (default: 0.0.0.0)\n")
		fmt.Printf("  SUMMARY_FORMAT        Model output schema: object or list (default: object)\n")
		fmt.Printf("  EDGE_CACHE_TYPE       Edge cache type: memory or redis (default: redis)\n")
		fmt.Printf("  DURABLE_CACHE_TYPE    Summary cache type: memory or cloud-storage (default: cloud-storage)\n")
		fmt.Printf("  WARM_SCHEDULE         Cron expression for feed warming (empty disables)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Newslens Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create application")
	}
	defer app.Close()

	router := server.New(app)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", app.Config.Host, app.Config.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Pre-render feed listings on a schedule so the edge cache stays warm
	c := cron.New()
	if app.Config.WarmSchedule != "" {
		_, err := c.AddFunc(app.Config.WarmSchedule, func() {
			app.Warmer.Run(ctx)
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", app.Config.WarmSchedule).Msg("failed to schedule feed warming")
		}
		log.Info().Str("schedule", app.Config.WarmSchedule).Msg("feed warming scheduled")
		c.Start()
		defer c.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("host", app.Config.Host).Str("port", app.Config.Port).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-sigChan
	log.Info().Msg("shutting down server")

	cancel()
	c.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
