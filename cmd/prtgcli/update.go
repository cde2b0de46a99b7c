// prtgcli/cmd/prtgcli/update.go

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
	"rgehrsitz/prtgcli/pkg/prtg"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		sel       selection
		assign    string
		rulesFile string
		dedupe    bool
		commit    bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Compute property updates for the selected objects",
		Long: `update computes property changes for the selected objects, either a single
assignment (--update attribute=value) or the configured rule set.

The changes are printed. With --commit they are submitted to PRTG right away;
otherwise they are staged in the cache for "prtgcli commit" when the cache is
enabled.`,
		Args: cobra.NoArgs,
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

			plan, err := a.planner(assign, rulesFile, dedupe)
			if err != nil {
				return err
			}

			objects, err := sel.fetch(ctx, client)
			if err != nil {
				return err
			}
			if s != nil && !commit {
				// Build on staged values, not what PRTG held before them.
				pending, err := s.PendingUpdates(ctx)
				if err != nil {
					return err
				}
				objects, _ = prtg.ApplyUpdates(objects, pending)
			}
			commands, err := plan(objects)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(commands) == 0 {
				fmt.Fprintln(out, "No updates")
				return nil
			}
			printCommands(out, commands)

			switch {
			case commit:
				n, err := submitAll(ctx, client, commands)
				fmt.Fprintf(out, "Committed %d of %d updates\n", n, len(commands))
				return err
			case s != nil:
				if err := s.StageUpdates(ctx, commands); err != nil {
					return err
				}
				fmt.Fprintf(out, "Staged %d updates; run 'prtgcli commit' to apply them\n", len(commands))
			default:
				fmt.Fprintf(out, "%d updates not submitted; rerun with --commit to apply them\n", len(commands))
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&assign, "update", "u", "", "Set attribute=value on every selected object")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Rule file to evaluate instead of the configured rules")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Keep only the last update per object and attribute")
	cmd.Flags().BoolVar(&commit, "commit", false, "Submit the updates to PRTG")
	return cmd
}

type planFunc func(objects []object.MonitoredObject) ([]engine.UpdateCommand, error)

// planner resolves how commands are computed before anything is fetched, so
// bad input fails without a remote call.
func (a *app) planner(assign, rulesFile string, dedupe bool) (planFunc, error) {
	var opts []engine.Option
	if dedupe {
		opts = append(opts, engine.WithDedupe())
	}

	if assign != "" {
		attribute, value, err := parseAssignment(assign)
		if err != nil {
			return nil, err
		}
		return func(objects []object.MonitoredObject) ([]engine.UpdateCommand, error) {
			commands := engine.Assign(objects, attribute, value)
			if dedupe {
				commands = engine.Dedupe(commands)
			}
			return commands, nil
		}, nil
	}

	ruleList := a.config.Rules
	if rulesFile != "" {
		var err error
		if ruleList, err = loadRulesFile(rulesFile); err != nil {
			return nil, err
		}
	}
	if len(ruleList) == 0 {
		return nil, logging.ConfigError("no rules configured; pass --update or --rules", nil)
	}

	e, err := engine.NewEngine(ruleList, opts...)
	if err != nil {
		return nil, err
	}
	logging.Logger.Debug().Int("rules", len(ruleList)).Msg("Loaded rule set")
	return func(objects []object.MonitoredObject) ([]engine.UpdateCommand, error) {
		return e.Evaluate(objects), nil
	}, nil
}

// parseAssignment splits "attribute=value". The value may itself contain '='.
func parseAssignment(s string) (string, string, error) {
	attribute, value, ok := strings.Cut(s, "=")
	attribute = strings.TrimSpace(attribute)
	if !ok || attribute == "" {
		return "", "", logging.ConfigError(fmt.Sprintf("invalid update '%s' (want attribute=value)", s), nil)
	}
	return attribute, value, nil
}

// submitAll submits commands in order and stops at the first failure. It
// returns how many were applied.
func submitAll(ctx context.Context, c prtg.Client, commands []engine.UpdateCommand) (int, error) {
	for i, cmd := range commands {
		if err := c.Submit(ctx, cmd); err != nil {
			return i, err
		}
	}
	return len(commands), nil
}

func printCommands(w io.Writer, commands []engine.UpdateCommand) {
	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"objid", "attribute", "value"})
	for _, c := range commands {
		t.AppendRow(table.Row{c.ObjectID, c.Attribute, c.Value})
	}
	fmt.Fprintln(w, t.Render())
}
