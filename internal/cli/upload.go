package cli

import (
	"strings"

	"vence-cli/internal/api"

	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <calendar|clients> <file>",
		Short: "Upload a tax calendar PDF or a clients spreadsheet",
		Example: strings.TrimSpace(`
vence upload calendar ./calendario-2024.pdf
vence upload clients ./clientes.xlsx
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := api.ParseUploadKind(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := c.UploadFile(cmd.Context(), kind, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			hints := []string{"vence obligations"}
			if kind.RefreshesClients() {
				hints = append(hints, "vence clients")
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"kind":          res.Kind,
					"message":       res.Message,
					"summary":       res.Summary(),
					"created":       res.Created,
					"updated":       res.Updated,
					"rules_created": res.RulesCreated,
				},
				"_hints": hints,
			})
		},
	}
}
