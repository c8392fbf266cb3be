package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"

	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	var month string
	var text bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month grid with obligations bucketed by due date",
		Example: strings.TrimSpace(`
vence calendar
vence calendar --month 2024-06 --text
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			m := dashboard.MonthOf(now)
			if strings.TrimSpace(month) != "" {
				var err error
				if m, err = dashboard.ParseMonth(month); err != nil {
					return writeErr(cmd, err)
				}
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			obs, err := c.Dashboard(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			g := dashboard.BuildMonth(m, obs, model.DateOf(now))
			if text {
				return writeCalendarText(cmd.OutOrStdout(), g)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"month":   m.String(),
					"title":   m.Title(),
					"leading": g.Leading,
					"days":    g.Days,
				},
				"_hints": []string{"vence day <YYYY-MM-DD>"},
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, default: current)")
	cmd.Flags().BoolVar(&text, "text", false, "Print a plain-text grid instead of structured output")
	return cmd
}

// writeCalendarText prints one row per week. Days with obligations carry
// their count, e.g. "14*2"; today is bracketed.
func writeCalendarText(w io.Writer, g dashboard.Grid) error {
	const cell = 7
	var b strings.Builder
	b.WriteString(g.Month.Title())
	b.WriteByte('\n')
	for _, h := range dashboard.WeekdayHeaders {
		fmt.Fprintf(&b, "%-*s", cell, h)
	}
	b.WriteString("\n")
	for _, week := range g.Weeks() {
		var line strings.Builder
		for _, c := range week {
			label := ""
			if !c.Empty() {
				label = fmt.Sprintf("%d", c.Day)
				if n := len(c.Obligations); n > 0 {
					label += fmt.Sprintf("*%d", n)
				}
				if c.Today {
					label = "[" + label + "]"
				}
			}
			fmt.Fprintf(&line, "%-*s", cell, label)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func newDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List the obligations due on one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := model.ParseDate(args[0])
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
			d := dashboard.OpenDay(date, dashboard.ObligationsOn(obs, date))
			now := time.Now()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"date":  d.Date,
					"title": d.Title,
					"items": obligationRows(d.Items, now),
				},
			})
		},
	}
}
