package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kentchat/internal/store"
)

func initCmd() *cobra.Command {
	var (
		bits  int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an RSA identity and store it encrypted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if !force {
				_, err := appCtx.IdentityStore.LoadIdentity(passphrase)
				if !errors.Is(err, store.ErrNoIdentity) {
					return fmt.Errorf("identity already exists in %s (use --force to replace it)", appCtx.Config.Home)
				}
			}
			if bits == 0 {
				bits = appCtx.Config.RSABits
			}

			id, fp, err := appCtx.Identity.GenerateIdentity(passphrase, bits)
			if err != nil {
				return err
			}
			printf(cmd, "Identity created (%d-bit RSA).\nFingerprint: %s\n", id.Bits, fp)
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 0, "RSA modulus size (default from config, 2048)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing identity")
	return cmd
}
