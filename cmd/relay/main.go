package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kentchat/internal/app"
	"kentchat/internal/relay"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
		queueLimit int
	)
	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Run the KentChat store-and-forward relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath, configPath != "")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("queue-limit") {
				cfg.QueueLimit = queueLimit
			}
			if err := app.SetupLogging(os.Stderr, cfg.LogLevel); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn, error, critical or off")
	cmd.Flags().IntVar(&queueLimit, "queue-limit", 1000, "maximum queued envelopes per user")
	return cmd
}

func serve(ctx context.Context, cfg app.Config) error {
	log := app.Log("RLAY")
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           relay.NewServer(relay.WithQueueLimit(cfg.QueueLimit)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("Relay listening on %s", cfg.ListenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
