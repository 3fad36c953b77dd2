package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kentchat/internal/app"
)

const passphraseEnv = "KENTCHAT_PASSPHRASE"

var (
	home       string
	configPath string
	passphrase string
	relayURL   string
	logLevel   string

	appCtx *app.App
)

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Flag values are bound to package
// state, so only one tree should run at a time.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kentchat",
		Short:         "End-to-end encrypted chat over an untrusted relay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := app.SetupLogging(os.Stderr, cfg.LogLevel); err != nil {
				return err
			}
			if passphrase == "" {
				passphrase = os.Getenv(passphraseEnv)
			}
			appCtx, err = app.New(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.kentchat)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "",
		"passphrase protecting the identity (or $"+passphraseEnv+")")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn, error, critical or off")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		registerCmd(),
		trustCmd(),
		peersCmd(),
		sendCmd(),
		recvCmd(),
		listenCmd(),
		chatCmd(),
	)
	return root
}

// loadConfig layers defaults, the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	path, required := configPath, configPath != ""
	if path == "" {
		h := home
		if h == "" {
			h = app.DefaultConfig().Home
		}
		path = app.DefaultConfigPath(h)
	}
	cfg, err := app.LoadConfig(path, required)
	if err != nil {
		return app.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("home") {
		cfg.Home = home
	}
	if flags.Changed("relay") {
		cfg.RelayURL = relayURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func requirePassphrase() error {
	if passphrase == "" {
		return errors.New("passphrase required (-p or $" + passphraseEnv + ")")
	}
	return nil
}

// requestContext bounds one relay round trip by the configured timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return requestContextFor(cmd, appCtx)
}

func requestContextFor(cmd *cobra.Command, a *app.App) (context.Context, context.CancelFunc) {
	if a.Config.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), a.Config.Timeout)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
