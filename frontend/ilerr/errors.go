package ilerr

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cottand/mqcheck/frontend/types"
)

// Errors collects the TypeErrors of a checking run in the order they were found.
// Nothing is ever removed or deduplicated.
type Errors struct {
	errs []*TypeError
}

func (r *Errors) With(err ...*TypeError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil || len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []*TypeError {
	if r == nil {
		return nil
	}
	return slices.Clip(r.errs)
}

func (r *Errors) Len() int {
	if r == nil {
		return 0
	}
	return len(r.errs)
}

func (r *Errors) HasError() bool {
	return r.Len() > 0
}

// Resolve fixes the message of every error against sub
func (r *Errors) Resolve(sub types.Subst) {
	if r == nil {
		return
	}
	for _, e := range r.errs {
		e.Resolve(sub)
	}
}

func (r *Errors) LogValue() slog.Value {
	if r == nil {
		return slog.GroupValue()
	}
	var vals []slog.Attr
	for i, v := range r.errs {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
