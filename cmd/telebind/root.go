package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/runixer/telebind/internal/app"
	"github.com/runixer/telebind/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigSubPath = "configs/config.yaml"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	servicesKey contextKey = iota
	configKey
	loggerKey
)

// archiveAnnotation marks commands that need the configured archive.
const archiveAnnotation = "archive"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "telebind",
		Short: "Command-line client for the Telegram Bot API",
		Long: `Telebind talks to the Telegram Bot API with a bot token: it polls for
updates, sends messages and media, and downloads files.

The token comes from the config file or TELEBIND_TELEGRAM_TOKEN.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := mustGetString(cmd, "config")
			verbose := mustGetBool(cmd, "verbose")

			if err := app.LoadEnv(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}

			resolvedCfgPath, err := findConfigPath(cfgFile)
			if err != nil {
				return err
			}
			cfg, err := config.Load(resolvedCfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg, verbose)
			slog.SetDefault(logger)

			_, withArchive := cmd.Annotations[archiveAnnotation]
			services, err := app.SetupServices(cmd.Context(), logger, cfg, withArchive)
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), servicesKey, services)
			ctx = context.WithValue(ctx, configKey, cfg)
			ctx = context.WithValue(ctx, loggerKey, logger)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s := getServices(cmd); s != nil {
				if err := s.Close(); err != nil {
					return fmt.Errorf("failed to close archive: %w", err)
				}
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: "+defaultConfigSubPath+" if present)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logs as text on stderr")

	root.AddCommand(
		newMeCmd(),
		newPollCmd(),
		newSendCmd(),
		newSendMediaCmd(),
		newSendLocationCmd(),
		newActionCmd(),
		newForwardCmd(),
		newFileCmd(),
		newDownloadCmd(),
		newPhotosCmd(),
		newDumpCmd(),
		newHistoryCmd(),
	)
	return root
}

// newLogger logs JSON at the configured level, or text at debug level with
// --verbose.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func getServices(cmd *cobra.Command) *app.Services {
	if s := cmd.Context().Value(servicesKey); s != nil {
		return s.(*app.Services)
	}
	return nil
}

func getConfig(cmd *cobra.Command) *config.Config {
	if c := cmd.Context().Value(configKey); c != nil {
		return c.(*config.Config)
	}
	return nil
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	if l := cmd.Context().Value(loggerKey); l != nil {
		return l.(*slog.Logger)
	}
	return slog.Default()
}

func findConfigPath(providedPath string) (string, error) {
	if providedPath != "" {
		if _, err := os.Stat(providedPath); err == nil {
			return providedPath, nil
		}
		return "", fmt.Errorf("config file not found: %s", providedPath)
	}

	if _, err := os.Stat(defaultConfigSubPath); err == nil {
		return defaultConfigSubPath, nil
	}

	// Not found - defaults and environment only.
	return "", nil
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// mustGetString retrieves a string flag value. Panics on error (indicates bug in flag name).
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("bug: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetInt retrieves an int flag value. Panics on error (indicates bug in flag name).
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("bug: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetBool retrieves a bool flag value. Panics on error (indicates bug in flag name).
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("bug: failed to get flag %q: %v", name, err))
	}
	return val
}
