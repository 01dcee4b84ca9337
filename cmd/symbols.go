package cmd

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "symbols program.yaml",
		Short:        "Print the inferred type of every binding of a program",
		RunE:         runSymbols,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	files, err := checkFiles(cfg, args)
	if err != nil {
		return err
	}
	f := files[0]

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"id", "name", "kind", "at", "type"})
	for _, sym := range sortedSignatures(f.prog, f.res) {
		t.AppendRow(table.Row{strconv.Itoa(int(sym.ID)), sym.Name, sym.Kind.String(), sym.Span.String(), f.res.Signatures[sym.ID]})
	}
	t.AppendFooter(table.Row{"", "", "", "output", f.res.OutputString()})
	t.Render()

	// Errors still go to the usual report, after the table
	if f.res.HasErrors() {
		writeText(cmd.OutOrStdout(), f)
	}
	return nil
}
