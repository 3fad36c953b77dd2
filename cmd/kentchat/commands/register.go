package commands

import (
	"github.com/spf13/cobra"

	"kentchat/internal/domain"
)

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Publish your public key to the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			profile, err := appCtx.Peers.Publish(ctx, passphrase, domain.Username(args[0]))
			if err != nil {
				return err
			}
			printf(cmd, "Registered %s on %s (fingerprint %s)\n",
				profile.Username, profile.ServerURL, profile.Fingerprint)
			return nil
		},
	}
	return cmd
}
