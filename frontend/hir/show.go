package hir

import (
	"strconv"
	"strings"
)

// NodeString renders n in surface syntax. prog is used to look up the names
// of binding sites and may be nil, in which case symbols render as #id
func NodeString(prog *Program, n Node) string {
	ctx := showContext{Builder: &strings.Builder{}, prog: prog}
	ctx.show(n)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
	prog *Program
}

func (ctx showContext) name(id SymbolID) string {
	if s, ok := ctx.prog.Symbol(id); ok && s.Name != "" {
		return s.Name
	}
	return "#" + strconv.Itoa(int(id))
}

func (ctx showContext) list(nodes []Node, sep string) {
	for i, n := range nodes {
		if i > 0 {
			ctx.WriteString(sep)
		}
		ctx.show(n)
	}
}

func (ctx showContext) params(params []SymbolID) {
	ctx.WriteString("(")
	for i, p := range params {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.WriteString(ctx.name(p))
	}
	ctx.WriteString(")")
}

func (ctx showContext) show(n Node) {
	switch n := n.(type) {
	case nil:
		ctx.WriteString("nil")
	case *Literal:
		switch n.Kind {
		case LitString:
			ctx.WriteString(strconv.Quote(n.Value))
		case LitSymbol:
			ctx.WriteString(":" + n.Value)
		case LitNone:
			ctx.WriteString("None")
		default:
			ctx.WriteString(n.Value)
		}
	case *Self:
		ctx.WriteString("self")
	case *Nodes:
		ctx.WriteString("nodes")
	case *Selector:
		ctx.WriteString(n.Path)
	case *Ident:
		ctx.WriteString(n.Name)
	case *Interpolated:
		ctx.WriteString(`s"`)
		for _, part := range n.Parts {
			if lit, ok := part.(*Literal); ok && lit.Kind == LitString {
				ctx.WriteString(lit.Value)
				continue
			}
			ctx.WriteString("${")
			ctx.show(part)
			ctx.WriteString("}")
		}
		ctx.WriteString(`"`)
	case *Array:
		ctx.WriteString("[")
		ctx.list(n.Elems, ", ")
		ctx.WriteString("]")
	case *Mapping:
		ctx.WriteString("{")
		for i, e := range n.Entries {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.show(e.Key)
			ctx.WriteString(": ")
			ctx.show(e.Value)
		}
		ctx.WriteString("}")
	case *Index:
		ctx.show(n.Target)
		ctx.WriteString("[")
		ctx.show(n.Index)
		ctx.WriteString("]")
	case *Call:
		ctx.show(n.Callee)
		ctx.WriteString("(")
		ctx.list(n.Args, ", ")
		ctx.WriteString(")")
	case *Pipe:
		ctx.list(n.Stages, " | ")
	case *Let:
		ctx.WriteString("let " + ctx.name(n.Symbol) + " = ")
		ctx.show(n.Value)
	case *Def:
		ctx.WriteString("def " + ctx.name(n.Symbol))
		ctx.params(n.Params)
		ctx.WriteString(": ")
		ctx.show(n.Body)
		ctx.WriteString(";")
	case *Fn:
		ctx.WriteString("fn")
		ctx.params(n.Params)
		ctx.WriteString(": ")
		ctx.show(n.Body)
		ctx.WriteString(";")
	case *If:
		for i, b := range n.Branches {
			if i == 0 {
				ctx.WriteString("if (")
			} else {
				ctx.WriteString(" elif (")
			}
			ctx.show(b.Cond)
			ctx.WriteString("): ")
			ctx.show(b.Body)
		}
		if n.Else != nil {
			ctx.WriteString(" else: ")
			ctx.show(n.Else)
		}
	case *While:
		ctx.WriteString("while (")
		ctx.show(n.Cond)
		ctx.WriteString("): ")
		ctx.show(n.Body)
		ctx.WriteString(";")
	case *Until:
		ctx.WriteString("until (")
		ctx.show(n.Cond)
		ctx.WriteString("): ")
		ctx.show(n.Body)
		ctx.WriteString(";")
	case *Foreach:
		ctx.WriteString("foreach (" + ctx.name(n.Var) + ", ")
		ctx.show(n.Iter)
		ctx.WriteString("): ")
		ctx.show(n.Body)
		ctx.WriteString(";")
	case *Try:
		ctx.WriteString("try ")
		ctx.show(n.Body)
		ctx.WriteString(" catch ")
		ctx.show(n.Catch)
	case *Match:
		ctx.WriteString("match (")
		ctx.show(n.Scrutinee)
		ctx.WriteString("):")
		for _, arm := range n.Arms {
			ctx.WriteString(" | ")
			ctx.showPattern(arm.Pattern)
			ctx.WriteString(": ")
			ctx.show(arm.Body)
		}
		ctx.WriteString(" end")
	case *And:
		ctx.show(n.Left)
		ctx.WriteString(" && ")
		ctx.show(n.Right)
	case *Or:
		ctx.show(n.Left)
		ctx.WriteString(" || ")
		ctx.show(n.Right)
	case *Break:
		ctx.WriteString("break")
	case *Continue:
		ctx.WriteString("continue")
	}
}

func (ctx showContext) showPattern(p Pattern) {
	switch p := p.(type) {
	case *LitPattern:
		ctx.show(&p.Lit)
	case *BindPattern:
		ctx.WriteString(ctx.name(p.Symbol))
	case *WildcardPattern:
		ctx.WriteString("_")
	case *ArrayPattern:
		ctx.WriteString("[")
		for i, elem := range p.Elems {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.showPattern(elem)
		}
		if p.Rest != Unresolved {
			if len(p.Elems) > 0 {
				ctx.WriteString(", ")
			}
			ctx.WriteString(".." + ctx.name(p.Rest))
		}
		ctx.WriteString("]")
	case *MappingPattern:
		ctx.WriteString("{")
		for i, e := range p.Entries {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.show(&e.Key)
			ctx.WriteString(": ")
			ctx.showPattern(e.Value)
		}
		ctx.WriteString("}")
	}
}
