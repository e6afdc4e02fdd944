package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vk/bigantr/internal/app"
)

// Environment variables controlling logging. The command takes no flags.
const (
	EnvLogLevel  = "BIGANTR_LOG_LEVEL"
	EnvLogFormat = "BIGANTR_LOG_FORMAT"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return ParseWithEnv(args, output, os.Getenv)
}

// ParseWithEnv is Parse with an explicit environment lookup.
func ParseWithEnv(args []string, output io.Writer, getenv func(string) string) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var cfg *app.Config
	cmd := &cobra.Command{
		Use:   "bigantr [CONFIG]",
		Short: "Run the BIGANTR landscape evolution model",
		Long: `bigantr evolves a landscape of bedrock-incising, gravel-abrading rivers.

CONFIG is an optional parameter file in HCL (.hcl), JSON (.json) or TOML
(.toml) format. Sections it leaves out are filled from the built-in
defaults; with no CONFIG the model runs on defaults alone.

Environment:
  ` + EnvLogLevel + `    debug, info, warn or error (default info)
  ` + EnvLogFormat + `   text or json (default text)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			c, err := app.NewConfig(app.Config{
				ConfigPath: path,
				LogLevel:   getenv(EnvLogLevel),
				LogFormat:  getenv(EnvLogFormat),
			})
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		// Help was requested and printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
