package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	errorStyle = color.New(color.FgRed, color.Bold)
	okStyle    = color.New(color.FgGreen)
	fileStyle  = color.New(color.Bold)
	typeStyle  = color.New(color.FgCyan)
)

func writeText(w io.Writer, f checked) {
	for _, err := range f.res.Errors {
		_, _ = fmt.Fprintf(w, "%s:%v: %s %s\n",
			fileStyle.Sprint(f.path), err.Span, errorStyle.Sprintf("error[E%03d]", err.Code), err.Error())
	}
	if f.res.HasErrors() {
		_, _ = fmt.Fprintf(w, "%s: %s\n", fileStyle.Sprint(f.path), errorStyle.Sprint(plural(len(f.res.Errors), "error")))
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %s, output %s\n", fileStyle.Sprint(f.path), okStyle.Sprint("ok"), typeStyle.Sprint(f.res.OutputString()))
}

type fileReport struct {
	File       string            `yaml:"file"`
	Output     string            `yaml:"output"`
	Errors     []errorReport     `yaml:"errors"`
	Signatures []signatureReport `yaml:"signatures,omitempty"`
}

type errorReport struct {
	At      string `yaml:"at"`
	Code    string `yaml:"code"`
	Kind    string `yaml:"kind"`
	Message string `yaml:"message"`
}

type signatureReport struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Type string `yaml:"type"`
}

func writeYAML(w io.Writer, files []checked) error {
	reports := make([]fileReport, 0, len(files))
	for _, f := range files {
		r := fileReport{File: f.path, Output: f.res.OutputString(), Errors: []errorReport{}}
		for _, err := range f.res.Errors {
			r.Errors = append(r.Errors, errorReport{
				At:      err.Span.String(),
				Code:    fmt.Sprintf("E%03d", err.Code),
				Kind:    err.Code.String(),
				Message: err.Error(),
			})
		}
		for _, sym := range sortedSignatures(f.prog, f.res) {
			r.Signatures = append(r.Signatures, signatureReport{Name: sym.Name, Kind: sym.Kind.String(), Type: f.res.Signatures[sym.ID]})
		}
		reports = append(reports, r)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return errors.Wrap(err, "could not write report")
	}
	return enc.Close()
}
