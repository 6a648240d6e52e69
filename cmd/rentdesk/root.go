package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/rentdesk/internal/cli"
	"github.com/aretw0/rentdesk/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rentdesk",
	Short: "Rental desk for a beach equipment counter",
	Long: `rentdesk registers equipment rentals (SUP, kayak, loungers, phone and dry bags)
through a guided dialogue and keeps the resulting records queryable and editable.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file loaded before configuration")
}

// loadConfig loads the .env file (when present) and the layered configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// withEnvironment builds the wired Desk for a command and closes it afterwards.
func withEnvironment(cmd *cobra.Command, fn func(env *cli.Environment) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger := cli.CreateLogger(cfg.Log, debug)

	env, err := cli.NewEnvironment(cmd.Context(), *cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(); err != nil {
			logger.Warn("failed to close backends", "err", err)
		}
	}()
	return fn(env)
}
