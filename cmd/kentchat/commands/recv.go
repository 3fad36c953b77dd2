package commands

import (
	"github.com/spf13/cobra"

	"kentchat/internal/domain"
)

// recv: fetch and open queued messages.
func recvCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and open your queued messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			me, err := appCtx.Username()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			msgs, err := appCtx.Messages.ReceiveMessages(ctx, passphrase, me, limit)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printMessage(cmd, m)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of messages to fetch (0 for all)")
	return cmd
}

func printMessage(cmd *cobra.Command, m domain.DecryptedMessage) {
	tag := ""
	if !m.SignatureValid {
		tag = " (UNVERIFIED)"
	}
	switch m.Message.Type {
	case domain.MessageTypeTunnel:
		printf(cmd, "[%s]%s tunnel orig=%s %s\n", m.From, tag, m.Message.Orig, m.Message.Body)
	default:
		printf(cmd, "[%s]%s %s\n", m.From, tag, m.Message.Body)
	}
}
