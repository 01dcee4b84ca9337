package builtin

import (
	"github.com/cottand/mqcheck/frontend/types"
)

func fn(ret types.Type, params ...types.Type) types.Func { return types.FuncOf(ret, params...) }

// Arithmetic: + on numbers or strings, and - * / % ^ on numbers,
// with their named forms
func registerArithmetic(b *Builder) {
	b.Add("+", fn(types.Number, types.Number, types.Number))
	b.Add("+", fn(types.String, types.String, types.String))
	b.Add("add", fn(types.Number, types.Number, types.Number))
	b.Add("add", fn(types.String, types.String, types.String))

	b.Many([]string{"-", "*", "/", "%", "^"}, fn(types.Number, types.Number, types.Number))
	b.Many([]string{"sub", "mul", "div", "mod", "pow"}, fn(types.Number, types.Number, types.Number))
}

func registerComparison(b *Builder) {
	b.Many([]string{"<", ">", "<=", ">=", "lt", "gt", "lte", "gte"}, fn(types.Bool, types.Number, types.Number))

	for _, name := range []string{"==", "!=", "eq", "ne"} {
		a := b.Var()
		b.Add(name, fn(types.Bool, a, a))
	}
}

func registerLogical(b *Builder) {
	b.Many([]string{"and", "or", "&&", "||"}, fn(types.Bool, types.Bool, types.Bool))
	b.Many([]string{"!", "not"}, fn(types.Bool, types.Bool))
	b.Many([]string{"unary-", "negate"}, fn(types.Number, types.Number))
}

func registerMath(b *Builder) {
	b.Many([]string{"abs", "ceil", "floor", "round", "trunc"}, fn(types.Number, types.Number))

	for _, name := range []string{"min", "max"} {
		b.Add(name, fn(types.Number, types.Number, types.Number))
		b.Add(name, fn(types.String, types.String, types.String))
		b.Add(name, fn(types.Symbol, types.Symbol, types.Symbol))
	}

	b.Add("nan", fn(types.Number))
	b.Add("infinite", fn(types.Number))
	b.Add("is_nan", fn(types.Bool, types.Number))
}

func registerString(b *Builder) {
	b.Many([]string{"downcase", "upcase", "trim"}, fn(types.String, types.String))

	b.Many([]string{"starts_with", "ends_with"}, fn(types.Bool, types.String, types.String))
	b.Many([]string{"index", "rindex"}, fn(types.Number, types.String, types.String))

	b.Many([]string{"replace", "gsub"}, fn(types.String, types.String, types.String, types.String))
	b.Add("split", fn(types.ArrayOf(types.String), types.String, types.String))
	b.Add("join", fn(types.String, types.ArrayOf(types.String), types.String))

	b.Add("explode", fn(types.ArrayOf(types.Number), types.String))
	b.Add("implode", fn(types.String, types.ArrayOf(types.Number)))
	b.Add("utf8bytelen", fn(types.Number, types.String))
	b.Add("regex_match", fn(types.ArrayOf(types.String), types.String, types.String))
	b.Many([]string{"base64", "base64d", "url_encode"}, fn(types.String, types.String))

	k, v := b.Var(), b.Var()
	b.Add("capture", fn(types.MappingOf(k, v), types.String, types.String))
}

func registerArray(b *Builder) {
	for _, name := range []string{"reverse", "sort", "uniq", "compact"} {
		a := b.Var()
		b.Add(name, fn(types.ArrayOf(a), types.ArrayOf(a)))
	}

	a := b.Var()
	b.Add("flatten", fn(types.ArrayOf(a), types.ArrayOf(types.ArrayOf(a))))

	a = b.Var()
	b.Add("len", fn(types.Number, types.ArrayOf(a)))
	b.Add("len", fn(types.Number, types.String))

	a = b.Var()
	b.Add("slice", fn(types.ArrayOf(a), types.ArrayOf(a), types.Number, types.Number))

	a = b.Var()
	b.Add("insert", fn(types.ArrayOf(a), types.ArrayOf(a), types.Number, a))

	a = b.Var()
	b.Add("array", fn(types.ArrayOf(a), a))

	b.Add("range", fn(types.ArrayOf(types.Number), types.Number, types.Number))
	b.Add("range", fn(types.ArrayOf(types.Number), types.Number, types.Number, types.Number))

	a = b.Var()
	b.Add("repeat", fn(types.ArrayOf(a), a, types.Number))
}

func registerMapping(b *Builder) {
	k, v := b.Var(), b.Var()
	b.Add("keys", fn(types.ArrayOf(k), types.MappingOf(k, v)))

	k, v = b.Var(), b.Var()
	b.Add("values", fn(types.ArrayOf(v), types.MappingOf(k, v)))

	k, v = b.Var(), b.Var()
	b.Add("entries", fn(types.ArrayOf(types.ArrayOf(k)), types.MappingOf(k, v)))

	k, v = b.Var(), b.Var()
	b.Add("get", fn(v, types.MappingOf(k, v), k))

	k, v = b.Var(), b.Var()
	b.Add("set", fn(types.MappingOf(k, v), types.MappingOf(k, v), k, v))

	k, v = b.Var(), b.Var()
	b.Add("del", fn(types.MappingOf(k, v), types.MappingOf(k, v), k))

	k, v = b.Var(), b.Var()
	b.Add("update", fn(types.MappingOf(k, v), types.MappingOf(k, v), types.MappingOf(k, v)))

	k, v = b.Var(), b.Var()
	b.Add("dict", fn(types.MappingOf(k, v), k, v))
}

func registerConversion(b *Builder) {
	b.Add("to_number", fn(types.Number, types.String))

	a := b.Var()
	b.Add("to_string", fn(types.String, a))

	a = b.Var()
	b.Add("to_array", fn(types.ArrayOf(a), a))

	a = b.Var()
	b.Add("type", fn(types.String, a))
}

func registerDateTime(b *Builder) {
	b.Add("now", fn(types.Number))
	b.Add("from_date", fn(types.Number, types.String))
	b.Add("to_date", fn(types.String, types.Number, types.String))
}

func registerIO(b *Builder) {
	for _, name := range []string{"print", "stderr"} {
		a := b.Var()
		b.Add(name, fn(a, a))
	}
	b.Add("error", fn(types.None, types.String))
	b.Add("halt", fn(types.None, types.Number))
	b.Add("input", fn(types.String))
}

func registerUtility(b *Builder) {
	a := b.Var()
	b.Add("coalesce", fn(a, a, a))
}

// Markdown builtins take and produce document nodes
func registerMarkdown(b *Builder) {
	a := b.Var()
	b.Add("to_markdown", fn(types.Node, a))

	b.Many([]string{"to_markdown_string", "to_text", "to_html"}, fn(types.String, types.Node))
	b.Many([]string{
		"to_code_inline",
		"to_strong",
		"to_em",
		"increase_header_level",
		"decrease_header_level",
		"to_math",
		"to_math_inline",
		"to_md_table_row",
		"to_mdx",
	}, fn(types.Node, types.Node))

	b.Many([]string{"to_h", "to_md_list"}, fn(types.Node, types.Node, types.Number))
	b.Add("to_code", fn(types.Node, types.Node, types.String))
	b.Add("attr", fn(types.String, types.Node, types.String))
	b.Add("set_attr", fn(types.Node, types.Node, types.String, types.String))
	b.Many([]string{"to_link", "to_image"}, fn(types.Node, types.String, types.String, types.String))

	b.Many([]string{"get_title", "get_url", "to_md_name", "to_md_text"}, fn(types.String, types.Node))
	b.Add("to_hr", fn(types.Node))

	a = b.Var()
	b.Add("to_md_table_cell", fn(types.Node, a, types.Number, types.Number))

	b.Many([]string{"set_check", "set_list_ordered"}, fn(types.Node, types.Node, types.Bool))
	b.Many([]string{"set_code_block_lang", "set_ref"}, fn(types.Node, types.Node, types.String))
}

func registerVariable(b *Builder) {
	a := b.Var()
	b.Add("all_symbols", fn(types.ArrayOf(a)))
	b.Add("get_variable", fn(types.String, types.String))
	b.Add("set_variable", fn(types.None, types.String, types.String))
	b.Add("intern", fn(types.Symbol, types.String))
}

func registerDebug(b *Builder) {
	b.Add("is_debug_mode", fn(types.Bool))
	b.Add("breakpoint", fn(types.None))

	a := b.Var()
	b.Add("assert", fn(a, a, a))
}

func registerFile(b *Builder) {
	b.Add("read_file", fn(types.String, types.String))
}
