package infer

import (
	"log/slog"

	"github.com/cottand/mqcheck/frontend/types"
)

// slogType renders t through sub only if the record is emitted
func slogType(sub types.Subst, t types.Type) slog.LogValuer {
	return typeLogValuer{sub: sub, t: t}
}

func slogScheme(sub types.Subst, s types.Scheme) slog.LogValuer {
	return schemeLogValuer{sub: sub, s: s}
}

type typeLogValuer struct {
	sub types.Subst
	t   types.Type
}

type schemeLogValuer struct {
	sub types.Subst
	s   types.Scheme
}

func (l typeLogValuer) LogValue() slog.Value {
	return slog.StringValue(types.NewNamer(l.sub).Name(l.t))
}

func (l schemeLogValuer) LogValue() slog.Value {
	return slog.StringValue(types.NewNamer(l.sub).Scheme(l.s))
}
