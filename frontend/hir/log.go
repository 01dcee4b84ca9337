package hir

import (
	"log/slog"
)

// SlogNode wraps a Node as a slog.LogValuer so its surface syntax is only
// rendered when the record is actually emitted
func SlogNode(n Node) slog.LogValuer {
	return nodeLogValuer{n}
}

type nodeLogValuer struct{ Node }

func (l nodeLogValuer) LogValue() slog.Value {
	if l.Node == nil {
		return slog.StringValue("nil")
	}
	return slog.GroupValue(
		slog.String("str", NodeString(nil, l.Node)),
		slog.String("pos", l.Pos().String()),
		slog.String("name", l.Describe()),
	)
}

func (s Symbol) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("id", uint64(s.ID)),
		slog.String("name", s.Name),
		slog.String("kind", s.Kind.String()),
	)
}
