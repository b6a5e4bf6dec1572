// Package main provides the sesslink CLI application.
//
// sesslink tracks which session of a system applies to the document,
// directory or project you are working in. The shell command runs an
// interactive loop over one registry with the process system registered.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xmhha/sesslink/pkg/config"
	"github.com/0xmhha/sesslink/pkg/logger"
)

// version is set during build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	logLevel   string
	format     string
}

// load reads the configuration and applies flag overrides.
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.NewLoader(o.configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.format != "" {
		cfg.Display.Format = o.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

// newRootCmd builds the command tree. Running the root command starts
// the shell.
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "sesslink",
		Short: "Link sessions to the documents, directories and projects they serve",
		Long: `sesslink keeps a registry of sessions per system and links them to
usage contexts. Asking for "the session here" returns the sessions linked
to the current document, directory or project first, then the sessions
that are friendly to it, then everything else.

Run without arguments to start the interactive shell.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.format, "format", "", "output format (table, json, simple)")

	root.AddCommand(
		newShellCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return root
}

func newShellCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive session shell",
		Long: `Starts an interactive loop over a session registry. Type "help" in the
shell for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	sh := &shellCommand{
		config: cfg,
		logger: logger.New(cfg.LoggerConfig()),
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
	}
	return sh.Execute(cmd.Context())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sesslink %s\n", version)
		},
	}
}
