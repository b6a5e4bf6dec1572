package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/sesslink/pkg/config"
)

// configCommand handles configuration management subcommands.
type configCommand struct {
	opts *globalOptions
	out  io.Writer
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	c := &configCommand{opts: opts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management (show, path, init)",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			c.out = cmd.OutOrStdout()
		},
	}

	var showFormat string
	show := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.runShow(showFormat)
		},
	}
	show.Flags().StringVar(&showFormat, "output", "yaml", "output format (yaml, json)")

	path := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.runPath()
		},
	}

	var force bool
	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.runInit(output, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&output, "path", "", "output path for config file (default: ~/.config/sesslink/config.yaml)")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

// runShow displays the current configuration.
func (c *configCommand) runShow(format string) error {
	cfg, err := c.opts.load()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return c.showJSON(cfg)
	case "yaml":
		return c.showYAML(cfg)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// showYAML displays configuration in YAML format.
func (c *configCommand) showYAML(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(c.out, "# Current Configuration")
	fmt.Fprintln(c.out, "# Source:", c.configSource())
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, string(data))
	return nil
}

// showJSON displays configuration in JSON format.
func (c *configCommand) showJSON(cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(c.out, string(data))
	return nil
}

// searchPaths returns the configuration file candidates in order of
// precedence.
func (c *configCommand) searchPaths() []string {
	var paths []string
	if c.opts.configPath != "" {
		paths = append(paths, c.opts.configPath)
	} else if env := os.Getenv(config.EnvConfig); env != "" {
		paths = append(paths, env)
	}
	return append(paths, "./sesslink.yaml", config.DefaultPath())
}

// runPath shows the configuration file paths.
func (c *configCommand) runPath() error {
	fmt.Fprintln(c.out, "Configuration file search paths (in order of precedence):")
	fmt.Fprintln(c.out)

	for i, p := range c.searchPaths() {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Fprintf(c.out, "  %d. %s [%s]\n", i+1, p, exists)
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Active configuration:", c.configSource())
	return nil
}

// runInit writes the default configuration.
func (c *configCommand) runInit(outputPath string, force bool) error {
	if outputPath == "" {
		outputPath = config.DefaultPath()
	}

	if _, err := os.Stat(outputPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", outputPath)
	}

	if err := config.Save(config.Default(), outputPath); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Default configuration written to: %s\n", outputPath)
	return nil
}

// configSource returns the path of the active configuration file.
func (c *configCommand) configSource() string {
	for _, p := range c.searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return "defaults (no config file found)"
}
