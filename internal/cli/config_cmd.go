// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands.
//
// Commands:
//   webnote config show           Show the effective configuration
//   webnote config get KEY        Show one setting (e.g. storage.backend)
//   webnote config set KEY VALUE  Change a setting in the config file
//   webnote config keys           List all setting keys
//   webnote config path           Show the config file path
//   webnote config init           Write a config file with the defaults

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/webnote/internal/config"
)

func (app *App) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change settings. Keys use dot notation and the names from the
config file, for example editor.auto_save, storage.backend or ui.theme.`,
	}
	cmd.AddCommand(
		app.configShowCommand(),
		app.configGetCommand(),
		app.configSetCommand(),
		app.configKeysCommand(),
		app.configPathCommand(),
		app.configInitCommand(),
	)
	return cmd
}

// configPath is the file config commands read and write.
func (app *App) configPath() (string, error) {
	if app.Flags.ConfigFile != "" {
		return app.Flags.ConfigFile, nil
	}
	return config.ConfigPathTOML()
}

func (app *App) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if app.Flags.JSON {
				settings := make(map[string]interface{})
				for _, key := range config.GetAllKeys() {
					if v, err := app.cfg.Get(key); err == nil {
						settings[key] = v
					}
				}
				return NewJSONResponse("config show", ConfigData{Path: path, Settings: settings}).Print(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render("# "+path))
			fmt.Fprint(cmd.OutOrStdout(), app.cfg.String())
			return nil
		},
	}
}

func (app *App) configGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return OutputJSON(app.Flags.JSON, cmd.OutOrStdout(), "config get", func() (interface{}, error) {
				v, err := app.cfg.Get(args[0])
				if err != nil {
					return nil, err
				}
				if !app.Flags.JSON {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				}
				return map[string]interface{}{"key": args[0], "value": v}, nil
			})
		},
	}
}

func (app *App) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return OutputJSON(app.Flags.JSON, cmd.OutOrStdout(), "config set", func() (interface{}, error) {
				path, err := app.configPath()
				if err != nil {
					return nil, err
				}
				// Start from the file, not the effective config, so flags and
				// environment overrides are not written back.
				cfg, err := readConfigFile(path)
				if err != nil {
					return nil, err
				}
				key := strings.ToLower(args[0])
				if err := cfg.Set(key, args[1]); err != nil {
					return nil, fmt.Errorf("config set %s: %w", key, err)
				}
				cfg.SetDefaults()
				if err := cfg.Validate(); err != nil {
					return nil, err
				}
				if err := config.SaveTOML(cfg, path); err != nil {
					return nil, err
				}
				v, _ := cfg.Get(key)
				if !app.Flags.JSON {
					fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Set"), key, "=", v)
				}
				return map[string]interface{}{"key": key, "value": v, "path": path}, nil
			})
		},
	}
}

// readConfigFile loads the TOML file at path over the defaults, without
// environment overrides. A missing file yields the defaults.
func readConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (app *App) configKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all setting keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys := config.GetAllKeys()
			if app.Flags.JSON {
				return NewJSONResponse("config keys", keys).Print(cmd.OutOrStdout())
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func (app *App) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if app.Flags.JSON {
				return NewJSONResponse("config path", map[string]string{"path": path}).Print(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (app *App) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				ok, err := RequireConfirmation("overwrite "+path, confirmOptions(cmd, false, app.Flags.JSON))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render("Cancelled."))
					return nil
				}
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return err
			}
			if app.Flags.JSON {
				return NewJSONResponse("config init", map[string]string{"path": path}).Print(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Wrote"), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
