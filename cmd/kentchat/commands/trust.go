package commands

import (
	"github.com/spf13/cobra"

	"kentchat/internal/domain"
)

func trustCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "trust <peer>",
		Short: "Fetch a peer's public key from the relay and pin it",
		Long: "Fetch a peer's public key from the relay and pin it locally. Compare the\n" +
			"printed fingerprint with your peer out of band. A key that differs from\n" +
			"the one already pinned is refused unless --replace is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			p, err := appCtx.Peers.Trust(ctx, domain.Username(args[0]), replace)
			if err != nil {
				return err
			}
			printf(cmd, "Pinned %s\nFingerprint: %s\n", p.Username, p.Fingerprint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace a previously pinned key")
	return cmd
}
