package cli

import (
	"errors"
	"fmt"
	"strings"

	"vence-cli/internal/chat"

	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var conv chat.Conversation
			p, ok := conv.Submit(strings.Join(args, " "))
			if !ok {
				return writeErr(cmd, errors.New("chat: message is empty"))
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			reply, err := c.Chat(cmd.Context(), p.Text)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%s %w", chat.ErrorReply, err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"message": p.Text,
					"reply":   reply,
				},
			})
		},
	}
}
