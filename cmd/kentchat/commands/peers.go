package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func peersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peers",
		Short: "List pinned peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			peers, err := appCtx.PeerStore.ListPeers()
			if err != nil {
				return err
			}
			if len(peers) == 0 {
				printf(cmd, "No pinned peers.\n")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tFINGERPRINT\tPINNED")
			for _, p := range peers {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Username, p.Fingerprint,
					time.Unix(p.PinnedUTC, 0).UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}
