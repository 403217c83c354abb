package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sentinelhq/sentinel/internal/config"
	"github.com/sentinelhq/sentinel/internal/output"
	"github.com/sentinelhq/sentinel/internal/supervisor"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger

	// Build information - set via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel desktop shell - supervise the local Sentinel API backend",
	Long: `Sentinel launches the Sentinel API backend (uvicorn on 127.0.0.1:8000),
waits for its /health endpoint to answer and stops it again when the shell exits.

Quick Start:
  sentinel run              # Start the backend and keep it up until Ctrl+C
  sentinel status           # Probe the backend health endpoint once
  sentinel config init      # Write a default configuration file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for version and completion commands
		if cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}
		logger = newLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// ExitError carries a process exit code for failures that have already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// PrintError reports a failure returned by Execute. When structured output
// was requested the error envelope goes to stdout in place of the result;
// otherwise a plain line goes to stderr. An ExitError has already been
// reported by its command and prints nothing.
func PrintError(stdout, stderr io.Writer, err error) {
	var ee *ExitError
	if err == nil || errors.As(err, &ee) {
		return
	}
	format := errorFormat()
	if format == output.FormatText {
		output.PrintError(stderr, err, format)
		return
	}
	output.PrintError(stdout, err, format)
}

// errorFormat is the format requested on the command line, as far as it was
// parsed before the failure. Only status takes --format.
func errorFormat() output.Format {
	f, err := output.ParseFormat(statusFormat)
	if err != nil {
		return output.FormatText
	}
	return f
}

// loadConfig reads the config file, falling back to defaults plus environment
// overrides when it does not exist.
func loadConfig(path string) (*config.Config, error) {
	c, err := config.Load(path)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return config.FromEnv()
	}
	return nil, err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/sentinel/config.toml)")

	rootCmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

func buildMode() string {
	if supervisor.ReleaseBuild {
		return "release"
	}
	return "dev"
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, Version)
				return
			}
			fmt.Fprintf(w, "sentinel version %s\n", Version)
			fmt.Fprintf(w, "  commit:  %s\n", Commit)
			fmt.Fprintf(w, "  built:   %s\n", Date)
			fmt.Fprintf(w, "  builder: %s\n", BuiltBy)
			fmt.Fprintf(w, "  mode:    %s\n", buildMode())
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			if cfgFile != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cfgFile)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Print(cfg, cmd.OutOrStdout())
		},
	})

	return cmd
}
