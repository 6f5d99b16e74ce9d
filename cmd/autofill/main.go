package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"autofill-agent/internal/di"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/infrastructure/env"
)

type rootFlags struct {
	logLevel     string
	logDir       string
	patternsFile string
	trackerURL   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "autofill",
		Short:         "Fill job application forms from an applicant profile",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logDir, "log-dir", "", "directory for JSON log files, empty keeps the env setting")
	pf.StringVar(&flags.patternsFile, "patterns", "", "YAML file with pattern-table overrides")
	pf.StringVar(&flags.trackerURL, "tracker-url", "", "job tracker base URL")

	root.AddCommand(newRunCmd(flags), newServeCmd(flags), newClassifyCmd(flags))
	return root
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command, flags *rootFlags) di.Config {
	cfg := di.ConfigFromEnv(env.NewEnvService())

	if cmd.Flags().Changed("log-level") {
		cfg.Logger.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-dir") {
		cfg.Logger.Dir = flags.logDir
	}
	if flags.patternsFile != "" {
		cfg.PatternsFile = flags.patternsFile
	}
	if flags.trackerURL != "" {
		cfg.TrackerURL = flags.trackerURL
	}
	return cfg
}

func readProfile(path string) (*entity.Profile, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open profile: %w", err)
		}
		defer f.Close()
		r = f
	}

	var p entity.Profile
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
