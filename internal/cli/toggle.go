package cli

import (
	"context"
	"strings"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// currentObligation re-reads the dashboard and returns the row for id.
func currentObligation(ctx context.Context, c *api.Client, id model.ID) (obligationRow, bool, error) {
	obs, err := c.Dashboard(ctx)
	if err != nil {
		return obligationRow{}, false, err
	}
	for _, o := range obs {
		if o.ID == id {
			return obligationRows([]model.Obligation{o}, time.Now())[0], true, nil
		}
	}
	return obligationRow{}, false, nil
}

// writeMutation prints the state of id after a write. The write's own response
// is not trusted as the new state, so the snapshot is re-read whether or not
// the write succeeded; opErr is returned after the state is printed.
func writeMutation(cmd *cobra.Command, app *App, c *api.Client, id model.ID, opErr error) error {
	row, found, fetchErr := currentObligation(cmd.Context(), c, id)
	if fetchErr != nil {
		app.log.Warn("refetch failed", zap.String("id", id.String()), zap.Error(fetchErr))
	}
	if found {
		err := writeOut(cmd, app, map[string]any{
			"data":   row,
			"_hints": []string{"vence day " + row.DueDate.String()},
		})
		if err != nil && opErr == nil {
			return err
		}
	}
	switch {
	case opErr != nil && api.IsNotFound(opErr):
		return writeErr(cmd, errNotFound("obligation", id.String()))
	case opErr != nil:
		return writeErr(cmd, opErr)
	case fetchErr != nil:
		return writeErr(cmd, fetchErr)
	case !found:
		return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id}})
	}
	return nil
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip an obligation between Pending and Presented",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeMutation(cmd, app, c, id, c.Toggle(cmd.Context(), id))
		},
	}
}

func newAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> [assignee...]",
		Short: "Set who handles an obligation (no name unassigns it)",
		Example: strings.TrimSpace(`
vence assign 12 Maria Cruz
vence assign 12
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			assignee := strings.TrimSpace(strings.Join(args[1:], " "))
			if assignee == "" {
				assignee = model.DefaultAssignee
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeMutation(cmd, app, c, id, c.Assign(cmd.Context(), id, assignee))
		},
	}
}
