package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init      Create a minimal config file
  path      Show config file locations
  defaults  Show all default values
  show      Show current merged config (same as bare 'maintkit config')
  set       Set a value in the global config file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())
	cmd.AddCommand(NewCmdConfigDefaults())
	cmd.AddCommand(NewCmdConfigShow())
	cmd.AddCommand(NewCmdConfigSet())

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var global, local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a minimal config file",
		Long: `Create a minimal config file with starter settings.

Use --global to create in ~/.config/maintkit/config.yaml (applies everywhere)
Use --local to create in ./.maintkit.yaml (applies only in this directory)
Without flags, you'll be prompted to choose.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, global, local)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Create global config file (~/.config/maintkit/config.yaml)")
	cmd.Flags().BoolVar(&local, "local", false, "Create local config file (./.maintkit.yaml)")

	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		Long:  `Show the paths to global and local config files and indicate which exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(cmd.OutOrStdout())
		},
	}
}

// NewCmdConfigDefaults creates the config defaults subcommand.
func NewCmdConfigDefaults() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show all default configuration values",
		Long: `Show a complete configuration with all default values.

This can be redirected to create a config file with all defaults:
  maintkit config defaults > ~/.config/maintkit/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeConfig(cmd.OutOrStdout(), config.DefaultConfig(), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current merged configuration",
		Long:  `Show the configuration after merging defaults, global and local configs, .env and MAINTKIT_* variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigSet creates the config set subcommand.
func NewCmdConfigSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a value in the global config file. Available keys:
  api_url, graphql_url, contributors_file, review_format, include_owner,
  workers, index_url, manifest, cache_ttl`,
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}
}

func runConfigInit(cmd *cobra.Command, global, local bool) error {
	if global && local {
		return fmt.Errorf("cannot specify both --global and --local")
	}

	out := cmd.OutOrStdout()
	paths := config.GetConfigPaths()
	var targetPath string
	var location string

	if global {
		targetPath = paths.GlobalPath
		location = "global"
	} else if local {
		targetPath = paths.LocalPath
		location = "local"
	} else {
		fmt.Fprintln(out, "Where would you like to create the config file?")
		fmt.Fprintf(out, "  [1] Global (%s) - applies everywhere\n", paths.GlobalPath)
		fmt.Fprintf(out, "  [2] Local (%s) - applies only in this directory\n", paths.LocalPath)
		fmt.Fprint(out, "Choose [1/2]: ")

		reader := bufio.NewReader(cmd.InOrStdin())
		choice, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			targetPath = paths.GlobalPath
			location = "global"
		case "2":
			targetPath = paths.LocalPath
			location = "local"
		default:
			return fmt.Errorf("invalid choice: %s (must be 1 or 2)", choice)
		}
		fmt.Fprintln(out)
	}

	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'maintkit config show' to view current config", targetPath)
	}

	if err := config.SaveTo(targetPath, config.MinimalConfig()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s config file: %s\n\n", location, targetPath)
	fmt.Fprintln(out, "Edit this file to customize maintkit behavior.")
	fmt.Fprintln(out, "Run 'maintkit config defaults' to see all available options.")

	return nil
}

func runConfigPath(out io.Writer) error {
	paths := config.GetConfigPaths()

	fmt.Fprintln(out, "Configuration file locations:")
	fmt.Fprintln(out)

	globalStatus := "not found"
	if paths.GlobalExists {
		globalStatus = "exists"
	}
	fmt.Fprintf(out, "  Global: %s (%s)\n", paths.GlobalPath, globalStatus)

	localStatus := "not found"
	if paths.LocalExists {
		localStatus = "exists"
	}
	fmt.Fprintf(out, "  Local:  %s (%s)\n", paths.LocalPath, localStatus)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Load order: defaults -> global -> local -> .env -> %s_* environment\n", config.EnvPrefix)

	return nil
}

func runConfigShow(cmd *cobra.Command, format string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return writeConfig(cmd.OutOrStdout(), cfg, format)
}

func writeConfig(out io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "yaml":
		yamlStr, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		fmt.Fprint(out, yamlStr)
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		return fmt.Errorf("invalid format: %s (must be yaml or json)", format)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(config.ConfigPath())
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s in %s.\n", key, value, config.ConfigPath())
	return nil
}
