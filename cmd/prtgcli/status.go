// prtgcli/cmd/prtgcli/status.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rgehrsitz/prtgcli/pkg/format"
	"rgehrsitz/prtgcli/pkg/object"
)

func newStatusCmd(a *app) *cobra.Command {
	var outFormat string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the PRTG server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.openClient(nil)
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			out, err := format.Format([]object.MonitoredObject{status}, a.formatOptions(outFormat, ""))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "f", string(format.ModeTable), "Display format (pretty or csv)")
	return cmd
}
