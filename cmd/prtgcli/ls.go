// prtgcli/cmd/prtgcli/ls.go

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rgehrsitz/prtgcli/pkg/format"
	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/prtg"
)

// selection is the object query shared by ls and update.
type selection struct {
	content   string
	attribute string
	regex     string
	parents   bool
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.content, "content", "c", string(prtg.ContentDevices), "Content (devices or sensors)")
	cmd.Flags().StringVarP(&s.attribute, "attribute", "a", "", "Attribute the regex is matched against (default name)")
	cmd.Flags().StringVarP(&s.regex, "regex", "r", "", "Filter by regular expression")
	cmd.Flags().BoolVarP(&s.parents, "parents", "p", false, "Look up the devices owning the matching sensors")
}

func (s *selection) fetch(ctx context.Context, c prtg.Client) ([]object.MonitoredObject, error) {
	content, err := prtg.ParseContent(s.content)
	if err != nil {
		return nil, err
	}
	filter := prtg.Filter{Attribute: s.attribute, Pattern: s.regex}
	if s.parents {
		return prtg.FetchParents(ctx, c, filter)
	}
	return c.Fetch(ctx, content, filter)
}

func newLsCmd(a *app) *cobra.Command {
	var (
		sel        selection
		outFormat  string
		sortColumn string
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List devices or sensors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(s)

			client, err := a.openClient(s)
			if err != nil {
				return err
			}
			objects, err := sel.fetch(ctx, client)
			if err != nil {
				return err
			}

			out, err := format.Format(objects, a.formatOptions(outFormat, sortColumn))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&outFormat, "format", "f", string(format.ModeTable), "Display format (pretty or csv)")
	cmd.Flags().StringVarP(&sortColumn, "sort", "s", format.DefaultSortColumn, "Sort by column")
	return cmd
}
