package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"kentchat/internal/domain"
	"kentchat/internal/services/keyring"
)

// send <peer> <message>: seal and send a message to <peer>.
func sendCmd() *cobra.Command {
	var (
		msgType string
		orig    string
	)
	cmd := &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Seal and send a message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			me, err := appCtx.Username()
			if err != nil {
				return err
			}
			to := domain.Username(args[0])
			msg := domain.Message{Type: msgType, Orig: orig, Body: args[1]}

			ctx, cancel := requestContext(cmd)
			defer cancel()

			err = appCtx.Messages.SendMessage(ctx, passphrase, me, to, msg)
			if errors.Is(err, keyring.ErrUnknownPeer) {
				// First contact: pin the relay's key for them and retry.
				p, terr := appCtx.Peers.Trust(ctx, to, false)
				if terr != nil {
					return terr
				}
				printf(cmd, "Pinned %s on first use (fingerprint %s)\n", p.Username, p.Fingerprint)
				err = appCtx.Messages.SendMessage(ctx, passphrase, me, to, msg)
			}
			if err != nil {
				return err
			}
			printf(cmd, "sent\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&msgType, "type", domain.MessageTypeChat, "message type (chat or tunnel)")
	cmd.Flags().StringVar(&orig, "orig", "", "originating tunnel id for tunnel messages")
	return cmd
}
