// prtgcli/cmd/prtgcli/watch.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/store"
)

func newWatchCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print updates as they are submitted through the cache",
		Long: `watch subscribes to the cache's update channel and prints every update that
another prtgcli process submits, until interrupted or --count updates were seen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := a.requireStore(ctx, "watch")
			if err != nil {
				return err
			}
			defer closeStore(s)

			rs, ok := s.(*store.RedisStore)
			if !ok {
				return logging.ConfigError("watch needs a Redis cache", nil)
			}
			pubsub, err := rs.Subscribe(ctx)
			if err != nil {
				return err
			}
			defer pubsub.Close()

			logging.Logger.Info().Str("channel", a.config.CacheChannel).Msg("Watching for updates")
			ch := pubsub.Channel()
			for seen := 0; count <= 0 || seen < count; {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-ch:
					if !ok {
						return nil
					}
					update, err := store.ParseUpdate(msg.Payload)
					if err != nil {
						logging.Logger.Warn().Err(err).Msg("Ignoring malformed update")
						continue
					}
					fmt.Fprintf(out, "%d %s=%s\n", update.ObjectID, update.Attribute, update.Value)
					seen++
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many updates (0 watches until interrupted)")
	return cmd
}
