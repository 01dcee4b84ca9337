package cmd

import (
	"os"

	"github.com/cottand/mqcheck/internal/config"
	"github.com/cottand/mqcheck/internal/log"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	configPath *string
	logLevel   *string
	colorMode  *string
	inputType  *string
	format     *string
)

// Register adds every subcommand and the shared flags to root
func Register(root *cobra.Command) {
	flags := root.PersistentFlags()
	configPath = flags.StringP("config", "c", "", "configuration file (default "+config.DefaultFile+" if present)")
	logLevel = flags.StringP("log-level", "l", "", "log level: debug, info, warn or error")
	colorMode = flags.String("color", "", "colored output: auto, always or never")
	inputType = flags.StringP("input", "i", "", "type of the program input, like markdown, string or [number]")
	format = flags.StringP("format", "f", "", "output format: text or yaml")

	root.AddCommand(newCheckCmd(), newSymbolsCmd(), newBuiltinsCmd())
}

// settings loads the configuration file and applies flags over it.
// It also sets up logging and colors for the rest of the command.
func settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	overrides := []struct {
		flag     string
		dst, src *string
	}{
		{"log-level", &cfg.LogLevel, logLevel},
		{"color", &cfg.Color, colorMode},
		{"input", &cfg.Input, inputType},
		{"format", &cfg.Format, format},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = *o.src
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	log.SetLevel(cfg.Level())
	switch cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	default:
		fd := os.Stdout.Fd()
		color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	}
	return cfg, nil
}
