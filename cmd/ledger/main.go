package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries what every command needs once the root command has run.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	now     func() time.Time
	cfgFile string
}

func newRootCmd(now func() time.Time) *cobra.Command {
	a := &app{v: viper.New(), now: now}

	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "📒 Personal income and expense ledger",
		Long: `spice-ledger records income and expenses against your own categories,
browses the history, and summarizes where the money went.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("backend", "file", "storage backend (file, sqlite, memory)")
	rootCmd.PersistentFlags().String("data-dir", config.DefaultDataDir, "where ledger data is stored")

	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyStorageBackend, rootCmd.PersistentFlags().Lookup("backend"))
	_ = a.v.BindPFlag(config.KeyStoragePath, rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.AddCommand(a.categoriesCmd())
	rootCmd.AddCommand(a.transactionsCmd())
	rootCmd.AddCommand(a.historyCmd())
	rootCmd.AddCommand(a.statsCmd())
	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.importCmd())
	rootCmd.AddCommand(a.resetCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(time.Now).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(userMessage(err)))
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		a.v.AddConfigPath(fmt.Sprintf("%s/.config/ledger", home))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("LEDGER")
	a.v.SetEnvKeyReplacer(envKeyReplacer)
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	a.cfg = config.Load(a.v)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if err := common.SetupLogger(a.cfg.LogLevel, a.cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// userMessage prefixes ledger errors with a plain explanation.
func userMessage(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.Error()
	}
	if desc := common.Describe(err); desc != "Unexpected error" {
		return fmt.Sprintf("%s: %v", desc, err)
	}
	return err.Error()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger version %s\n", version)
		},
	}
}
