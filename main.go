package main

import (
	"os"

	"github.com/cottand/mqcheck/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "mqcheck [subcommand]",
	Short:        "mqcheck\n a static type checker for mq queries",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	cmd.Register(rootCmd)
}
