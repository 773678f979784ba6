// Package commands implements the fetchmd CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/fetchmd/internal/exitcode"
	"github.com/jmylchreest/fetchmd/internal/logger"
	"github.com/jmylchreest/fetchmd/internal/output"
	"github.com/jmylchreest/fetchmd/internal/version"
	"github.com/jmylchreest/fetchmd/pkg/cleaner"
	"github.com/jmylchreest/fetchmd/pkg/fetchmd"
	"github.com/jmylchreest/fetchmd/pkg/fetcher"
)

// newFetcher builds the page fetcher for an invocation. Tests replace it.
var newFetcher = fetcher.New

const longHelp = `fetchmd loads a web page in a headless browser, waits for it to settle,
strips scripts, styles and navigation chrome, and prints the page as
Markdown.

Settings can also come from a config file (.fetchmd.yaml in the home or
current directory) or from FETCHMD_* environment variables, e.g.
FETCHMD_WAIT_FOR=load.

Exit codes:
  0    success
  1    invalid URL or arguments
  2    page could not be fetched
  3    HTML could not be converted
  4    output could not be written
  130  interrupted
  255  unexpected error

Examples:
  # Print a page as Markdown
  fetchmd https://example.com

  # Save to a file, waiting only for the load event
  fetchmd https://example.com -o page.md --wait-for load

  # Keep scripts and styles, use underlined headings
  fetchmd https://example.com --no-strip-scripts --heading-style underlined

  # Plain HTTP fetch without a browser, as JSON
  fetchmd https://example.com --engine static --format json`

// newRootCmd builds the command with its own viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "fetchmd <url>",
		Short:         "Fetch a web page through a headless browser and convert it to Markdown",
		Long:          longHelp,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v); err != nil {
				return exitcode.Wrap(exitcode.InvalidInput, err)
			}
			return runFetch(cmd, loadSettings(v, args[0]))
		},
	}
	cmd.SetVersionTemplate(version.Full() + "\n")

	flags := cmd.Flags()

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", string(output.FormatMarkdown), "output format: "+joinNames(output.Formats))

	// Fetch settings
	flags.Int("timeout", int(fetcher.DefaultTimeout.Milliseconds()), "page load timeout in milliseconds")
	flags.String("wait-for", string(fetcher.WaitNetworkIdle), "page state to wait for: "+joinNames(fetcher.WaitConditions))
	flags.String("engine", string(fetcher.EngineChromedp), "fetch engine: "+joinNames(fetcher.Engines))
	flags.String("chrome-path", "", "Chrome/Chromium binary (default: auto-detect)")
	flags.String("user-agent", fetcher.DefaultUserAgent, "User-Agent header sent with requests")

	// Conversion settings
	flags.Bool("no-strip-scripts", false, "keep noscript text and navigation elements (script and style bodies are always dropped)")
	flags.Bool("no-images", false, "drop image references from the output")
	flags.String("heading-style", string(cleaner.HeadingATX), "heading style: "+joinNames(cleaner.HeadingStyles))

	// Logging and config
	flags.BoolP("verbose", "v", false, "print progress to stderr")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("log-json", false, "emit logs as JSON")
	flags.String("config", "", "config file (default $HOME/.fetchmd.yaml)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	})
	cmd.Args = func(cmd *cobra.Command, args []string) error {
		return exitcode.Wrap(exitcode.InvalidInput, cobra.ExactArgs(1)(cmd, args))
	}

	// Bind to viper
	_ = v.BindPFlags(flags)

	return cmd
}

// initConfig wires the config file and environment into v. A missing
// default config file is not an error; a missing --config file is.
func initConfig(v *viper.Viper) error {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".fetchmd")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("FETCHMD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	logger.Debug("config file loaded", "path", v.ConfigFileUsed())
	return nil
}

func runFetch(cmd *cobra.Command, s settings) error {
	if err := checkURL(s.URL); err != nil {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	}
	if err := s.validate(); err != nil {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	}

	// Initialize logger based on flags
	logger.Init(logger.Options{
		Debug:   s.Debug,
		Verbose: s.Verbose,
		JSON:    s.LogJSON,
		Output:  cmd.ErrOrStderr(),
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fetchOpts, err := s.fetchOptions()
	if err != nil {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	}
	convOpts, err := s.conversionOptions()
	if err != nil {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	}
	format, err := s.outputFormat()
	if err != nil {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	}

	f, err := newFetcher(s.fetcherConfig())
	if err != nil {
		return exitcode.Wrap(exitcode.InvalidInput, err)
	}

	pipeline := fetchmd.New(
		fetchmd.WithFetcher(f),
		fetchmd.WithFetchOptions(fetchOpts),
		fetchmd.WithConversionOptions(convOpts),
	)

	doc, err := pipeline.Run(ctx, s.URL)
	if ctx.Err() != nil {
		return exitcode.Wrap(exitcode.Interrupted, errors.New("interrupted by user"))
	}
	if err != nil {
		return err
	}

	dest := output.Destination(s.Output)
	if err := output.Emit(dest, cmd.OutOrStdout(), format, doc); err != nil {
		return exitcode.Wrap(exitcode.Output, err)
	}
	if !dest.IsStdout() {
		logger.Info("saved", "path", s.Output, "format", format)
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), newRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from panic", "panic", r, "stack", string(debug.Stack()))
			fmt.Fprintf(stderr, "Unexpected error: %v\n", r)
			code = exitcode.CodeUnexpected
		}
	}()

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		logError(stderr, err)
	}
	return exitcode.Code(err)
}

// logError prints an error message to stderr.
func logError(w io.Writer, err error) {
	if exitcode.KindOf(err) == exitcode.Interrupted {
		fmt.Fprintln(w, "Interrupted by user")
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
