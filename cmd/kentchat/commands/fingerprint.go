package commands

import (
	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print identity fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			fp, err := appCtx.Identity.FingerprintIdentity(passphrase)
			if err != nil {
				return err
			}
			printf(cmd, "Fingerprint: %s\n", fp)
			return nil
		},
	}
	return cmd
}
