package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newKnowledgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Show the assistant's knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			content, err := c.Knowledge(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"content": content},
				"meta": map[string]any{"length": len([]rune(content))},
			})
		},
	}
	cmd.AddCommand(newKnowledgeSetCmd(app))
	cmd.AddCommand(newKnowledgeUploadCmd(app))
	return cmd
}

func newKnowledgeSetCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set [text...]",
		Short: "Replace the knowledge base with text or a file's contents",
		Example: strings.TrimSpace(`
vence knowledge set "Monotributo recategoriza en enero y julio"
vence knowledge set --file ./notas.md
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			switch {
			case file != "" && len(args) > 0:
				return writeErr(cmd, errors.New("knowledge set: pass text or --file, not both"))
			case file != "":
				b, err := os.ReadFile(file)
				if err != nil {
					return writeErr(cmd, err)
				}
				content = string(b)
			}
			if strings.TrimSpace(content) == "" {
				return writeErr(cmd, errors.New("knowledge set: content is empty"))
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			msg, err := c.SetKnowledge(cmd.Context(), content)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"message": msg, "length": len([]rune(content))},
				"_hints": []string{"vence knowledge"},
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the content from this file")
	return cmd
}

func newKnowledgeUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <pdf>",
		Short: "Append a PDF's text to the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := c.UploadKnowledgeFile(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   res,
				"_hints": []string{"vence knowledge"},
			})
		},
	}
}
