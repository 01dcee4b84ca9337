package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cottand/mqcheck/frontend"
	"github.com/cottand/mqcheck/frontend/hir"
	"github.com/cottand/mqcheck/internal/config"
	"github.com/cottand/mqcheck/internal/log"
	"github.com/cottand/mqcheck/mqcheck"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "check program.yaml...",
		Short:        "Type check resolved mq programs",
		Long:         "Type check resolved mq programs, reporting every type error found.\nExits with a non-zero status when any program has errors.",
		RunE:         runCheck,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
	}
}

// checked is one checked file
type checked struct {
	path string
	prog *hir.Program
	res  *frontend.Result
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	files, err := checkFiles(cfg, args)
	if err != nil {
		return err
	}

	failed := 0
	for _, f := range files {
		if f.res.HasErrors() {
			failed++
		}
	}
	if err := report(cmd.OutOrStdout(), cfg.Format, files); err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("type errors found in %d of %d programs", failed, len(files))
	}
	return nil
}

// checkFiles loads and checks every path. Each file is a separate run, with
// its own id in the logs.
func checkFiles(cfg config.Config, paths []string) ([]checked, error) {
	input, err := mqcheck.ParseInputType(cfg.Input)
	if err != nil {
		return nil, err
	}
	files := make([]checked, 0, len(paths))
	for _, path := range paths {
		logger := log.DefaultLogger.With("section", "cli", "run", uuid.NewString(), "file", path)
		opts := []frontend.Option{frontend.WithLogger(logger)}
		if input != nil {
			opts = append(opts, frontend.WithInputType(input))
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrap(err, "could not get absolute path of target")
		}
		prog, res, err := mqcheck.CheckFile(os.DirFS(filepath.Dir(abs)), filepath.Base(abs), opts...)
		if err != nil {
			return nil, err
		}
		logger.Info("checked", "errors", len(res.Errors))
		files = append(files, checked{path: path, prog: prog, res: res})
	}
	return files, nil
}

func report(w io.Writer, format string, files []checked) error {
	if format == config.FormatYAML {
		return writeYAML(w, files)
	}
	for _, f := range files {
		writeText(w, f)
	}
	return nil
}

// sortedSignatures pairs each user binding of prog with its signature, in symbol order
func sortedSignatures(prog *hir.Program, res *frontend.Result) []hir.Symbol {
	var syms []hir.Symbol
	for _, sym := range prog.SortedSymbols() {
		if _, ok := res.Signatures[sym.ID]; ok && sym.IsUserDefined() {
			syms = append(syms, sym)
		}
	}
	return syms
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
