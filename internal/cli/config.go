package cli

import (
	"strings"

	"vence-cli/internal/api"
	"vence-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit ~/.vence/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetAPICmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored config and the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			timeout, err := app.requestTimeout()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":   path,
					"stored": app.cfg,
					"effective": map[string]any{
						"apiUrl":  app.APIURL,
						"timeout": timeout.String(),
						"logFile": app.LogFile,
						"format":  app.Format,
					},
				},
			})
		},
	}
}

func newConfigSetAPICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-api <url>",
		Short: "Store the backend API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(args[0])
			c, err := api.New(raw)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.cfg.APIURL = c.BaseURL()
			if err := config.Save(app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			path, _ := config.ConfigPath()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"apiUrl": app.cfg.APIURL,
					"path":   path,
				},
				"_hints": []string{"vence kpi"},
			})
		},
	}
}
