package cli

import (
	"strings"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"

	"github.com/spf13/cobra"
)

// obligationRow is an obligation plus its derived badge at render time.
type obligationRow struct {
	model.Obligation
	Badge string `json:"badge"`
	Late  bool   `json:"late"`
}

func obligationRows(obs []model.Obligation, now time.Time) []obligationRow {
	out := make([]obligationRow, 0, len(obs))
	for _, o := range obs {
		out = append(out, obligationRow{
			Obligation: o,
			Badge:      o.Badge(now).String(),
			Late:       o.IsLate(now),
		})
	}
	return out
}

func newObligationsCmd(app *App) *cobra.Command {
	var search, status, window string

	cmd := &cobra.Command{
		Use:     "obligations",
		Aliases: []string{"list", "ls"},
		Short:   "List obligations (filtered like the dashboard list)",
		Example: strings.TrimSpace(`
vence obligations --status late
vence obligations --search paiva --time week
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := dashboard.ParseStatusFilter(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			tw, err := dashboard.ParseTimeWindow(window)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			obs, err := c.Dashboard(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			now := time.Now()
			crit := dashboard.Criteria{Search: search, Status: st, Time: tw}
			rows := obligationRows(dashboard.Filter(obs, crit, now), now)
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{
					"count":  len(rows),
					"total":  len(obs),
					"search": strings.TrimSpace(search),
					"status": st,
					"time":   tw,
				},
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on client name or CUIT")
	cmd.Flags().StringVar(&status, "status", string(dashboard.StatusAll), "Status filter (all|presented|pending|late)")
	cmd.Flags().StringVar(&window, "time", string(dashboard.TimeAll), "Due window (all|week|month)")
	return cmd
}

func newKPICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kpi",
		Short: "Show pending/presented counts and the next due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			obs, err := c.Dashboard(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			s := dashboard.Summarize(obs)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"pending":        s.Pending,
					"presented":      s.Presented,
					"next_due":       s.NextDue,
					"next_due_label": s.NextDueLabel(),
				},
			})
		},
	}
}

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			clients, err := c.Clients(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": clients,
				"meta": map[string]any{"count": len(clients)},
			})
		},
	}
	cmd.AddCommand(newClientsAddCmd(app))
	cmd.AddCommand(newClientsDeleteCmd(app))
	return cmd
}

func newClientsAddCmd(app *App) *cobra.Command {
	var in model.Client

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a client",
		Example: strings.TrimSpace(`
vence clients add --name "LAS PAIVA SA" --cuit 30-71238604-1 --type RI --taxes "IVA, Ganancias"
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := c.CreateClient(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   created,
				"_hints": []string{"vence clients"},
			})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&in.CUIT, "cuit", "", "Client CUIT")
	cmd.Flags().StringVar(&in.ClientType, "type", "", "Client type, e.g. RI or Monotributo")
	cmd.Flags().StringVar(&in.Taxes, "taxes", "", "Comma-separated taxes the client files")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("cuit")
	return cmd
}

func newClientsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a client and its obligations",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.DeleteClient(cmd.Context(), id); err != nil {
				if api.IsNotFound(err) {
					return writeErr(cmd, errNotFound("client", id.String()))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"id": id, "deleted": true},
				"_hints": []string{"vence clients", "vence obligations"},
			})
		},
	}
}
