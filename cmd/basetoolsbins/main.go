package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/installer"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/logging"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/platform"
)

const (
	utilityName  = "BaseToolsBins"
	majorVersion = 0
	minorVersion = 1
)

// Build will be set at build time via -ldflags
var Build = "dev"

const usageText = `
Usage: %s [options]

Copyright (c) 2007 - 2014, Intel Corporation. All rights reserved.

Options:
  --version             Show program's version number and exit.
  -h, --help            Show this help message and exit.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp(os.Stdout, os.Stderr, os.Getenv).run(ctx, os.Args)
	stop()
	os.Exit(code)
}

// app carries everything an invocation reads from its environment.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	getenv   func(string) string
	detector platform.Detector
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		getenv:   getenv,
		detector: platform.NewDetector(),
	}
}

// run executes one invocation and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	invocation := ""
	if len(args) > 0 {
		invocation = args[0]
		args = args[1:]
	}

	cmd := a.rootCmd(invocation)
	cmd.SetArgs(normalizeArgs(args))

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "%s: ERROR %d: %v\n", utilityName, installer.KindOf(err).Code(), err)
		return 1
	}
	return 0
}

func (a *app) rootCmd(invocation string) *cobra.Command {
	var showVersion bool

	cmd := &cobra.Command{
		Use:           utilityName,
		Short:         "Installs the BaseTools binaries shipped next to this executable",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), banner())
				return nil
			}
			return a.install(cmd.Context(), cmd.OutOrStdout(), invocation)
		},
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		out := c.OutOrStdout()
		fmt.Fprintln(out, banner())
		fmt.Fprintf(out, usageText, utilityName)
	})

	cmd.Flags().SetNormalizeFunc(lowerCaseFlags)
	cmd.Flags().BoolVar(&showVersion, "version", false, "Show program's version number and exit.")
	cmd.Flags().BoolP("help", "h", false, "Show this help message and exit.")

	return cmd
}

func (a *app) install(ctx context.Context, stdout io.Writer, invocation string) error {
	cfg := loadConfig(a.getenv)

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Output: a.stderr,
	})
	if err != nil {
		return fmt.Errorf("invalid %s: %w", envLogLevel, err)
	}

	info, err := a.detector.Detect(ctx)
	if err != nil {
		return err
	}
	if info != nil {
		logger = logging.With(logger, info.Fields()...)
	}
	logger.Debug("starting", "version", banner(), "invocation", invocation)

	outcome, err := installer.New(installer.Config{
		InvocationPath: invocation,
		Dir:            cfg.InstallDir,
		Stdout:         stdout,
		Logger:         logger,
		DisableLock:    cfg.DisableLock,
	}).Run(ctx)
	if err != nil {
		// stderr already gets the error line; only a log file needs it twice
		if cfg.LogFile != "" {
			logger.Error("install failed", "error", err)
		}
		return err
	}

	logger.Debug("finished", "outcome", outcome.String())
	return nil
}

func banner() string {
	return fmt.Sprintf("%s Version %d.%d %s", utilityName, majorVersion, minorVersion, Build)
}

func lowerCaseFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ToLower(name))
}

// normalizeArgs lower-cases the flags the program understands so that
// -H, --HELP and --Version are accepted. Other arguments pass through
// untouched and are ignored by the command.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		switch {
		case strings.EqualFold(arg, "-h"), strings.EqualFold(arg, "--help"), strings.EqualFold(arg, "--version"):
			out[i] = strings.ToLower(arg)
		default:
			out[i] = arg
		}
	}
	return out
}
