package cmd

import (
	"strings"

	"github.com/cottand/mqcheck/frontend/builtin"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "builtins [prefix]",
		Short:        "List the signatures of the builtin functions",
		RunE:         runBuiltins,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}
}

func runBuiltins(cmd *cobra.Command, args []string) error {
	if _, err := settings(cmd); err != nil {
		return err
	}
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	tbl := builtin.Default()
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"builtin", "signature"})
	shown := 0
	for _, name := range tbl.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		var sigs []string
		for _, overload := range tbl.MustLookup(name) {
			sigs = append(sigs, overload.String())
		}
		t.AppendRow(table.Row{name, strings.Join(sigs, "\n")})
		shown++
	}
	if shown == 0 {
		return errors.Errorf("no builtin starts with %q", prefix)
	}
	t.Render()
	return nil
}
