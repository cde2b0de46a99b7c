// prtgcli/cmd/prtgcli/refresh.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/prtg"
)

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch devices and sensors into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.requireStore(ctx, "refresh")
			if err != nil {
				return err
			}
			defer closeStore(s)

			client, err := a.clients.NewClient(a.config.ClientConfig())
			if err != nil {
				return err
			}
			cached := prtg.NewCachedClient(client, s)

			logging.Logger.Info().Msg("Refreshing PRTG content cache")
			for _, content := range []prtg.Content{prtg.ContentDevices, prtg.ContentSensors} {
				objects, err := cached.Refresh(ctx, content)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cached %d %s\n", len(objects), content)
			}
			return nil
		},
	}
}
