// prtgcli/cmd/prtgcli/commit.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rgehrsitz/prtgcli/pkg/logging"
)

func newCommitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commit",
		Short: "Submit staged updates to PRTG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := a.requireStore(ctx, "commit")
			if err != nil {
				return err
			}
			defer closeStore(s)

			pending, err := s.PendingUpdates(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No staged updates")
				return nil
			}

			client, err := a.openClient(s)
			if err != nil {
				return err
			}

			// Only the applied prefix leaves the queue.
			n, submitErr := submitAll(ctx, client, pending)
			if err := s.TrimUpdates(ctx, n); err != nil {
				if submitErr != nil {
					logging.LogError(logging.Logger, submitErr)
				}
				return err
			}
			if submitErr != nil {
				fmt.Fprintf(out, "Committed %d of %d updates\n", n, len(pending))
				return submitErr
			}
			fmt.Fprintf(out, "Committed %d updates\n", n)
			return nil
		},
	}
}
