package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/config"
	"vence-cli/internal/format"
	"vence-cli/internal/logging"
	"vence-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	APIURL  string
	Format  string
	Pretty  bool
	Timeout string
	LogFile string
	Debug   bool

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "vence",
		Short:        "Vence tax obligation dashboard (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  vence

  # Scriptable commands
  vence obligations --status late
  vence kpi
  vence calendar --month 2024-06 --text

  # Day shortcut (same as: vence day 2024-06-14)
  vence 2024-06-14
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal; it only logs when a file is configured.
		return app.init(cmd == cmd.Root())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("VENCE_API_URL", ""), "Backend API base URL (default: config apiUrl, then "+config.DefaultAPIURL+")")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("VENCE_FORMAT", format.JSON), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Timeout, "timeout", envOr("VENCE_TIMEOUT", ""), "Whole-request timeout, e.g. 30s (default: config timeout)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("VENCE_LOG_FILE", ""), "Write logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")

	cmd.AddCommand(newObligationsCmd(app))
	cmd.AddCommand(newKPICmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newDayCmd(app))
	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newAssignCmd(app))
	cmd.AddCommand(newUploadCmd(app))
	cmd.AddCommand(newChatCmd(app))
	cmd.AddCommand(newKnowledgeCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// init resolves settings with precedence flag > env > config > default.
// Flags already carry the env value as their default.
func (app *App) init(quiet bool) error {
	if !format.Valid(app.Format) {
		return fmt.Errorf("invalid --format %q (expected json|edn|yaml)", app.Format)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.cfg = cfg

	app.APIURL = strings.TrimSpace(app.APIURL)
	if app.APIURL == "" {
		app.APIURL = cfg.APIURLOr(config.DefaultAPIURL)
	}
	if strings.TrimSpace(app.LogFile) == "" {
		app.LogFile = cfg.LogFile
	}

	log, err := logging.New(logging.Options{Path: app.LogFile, Quiet: quiet, Debug: app.Debug})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	app.log = log
	return nil
}

func (app *App) requestTimeout() (time.Duration, error) {
	if v := strings.TrimSpace(app.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("invalid --timeout %q", app.Timeout)
		}
		return d, nil
	}
	return app.cfg.RequestTimeout()
}

func (app *App) client() (*api.Client, error) {
	d, err := app.requestTimeout()
	if err != nil {
		return nil, err
	}
	opts := []api.Option{api.WithLogger(app.log)}
	if d > 0 {
		opts = append(opts, api.WithTimeout(d))
	}
	return api.New(app.APIURL, opts...)
}

func runTUI(cmd *cobra.Command, app *App) error {
	c, err := app.client()
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), c, tui.Options{
		Logger: app.log,
		Theme:  app.cfg.TUITheme(),
		Glyphs: app.cfg.TUIGlyphs(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
