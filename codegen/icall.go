package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/gdnative-go/gdnative/api"
)

// icallSig is one erased trampoline signature: return kind, argument kinds
// and the variadic flag. Two methods with equal erased signatures share the
// generated trampoline.
type icallSig struct {
	ret     api.TypeKind
	args    []api.TypeKind
	varargs bool
}

// name derives the trampoline symbol from the signature. The symbol doubles
// as the dedup key.
func (s icallSig) name() string {
	var b strings.Builder
	b.WriteString("icall")
	b.WriteString(convFor(s.ret).token)
	for _, a := range s.args {
		b.WriteString(convFor(a).token)
	}
	if s.varargs {
		b.WriteString("Varargs")
	}
	return b.String()
}

// variantCall reports whether the trampoline must route through variant
// boxing end to end: varargs, or any position whose type has no direct ABI
// representation.
func (s icallSig) variantCall() bool {
	if s.varargs || !(api.Type{Kind: s.ret}).HasDirectABI() {
		return true
	}
	for _, a := range s.args {
		if !(api.Type{Kind: a}).HasDirectABI() {
			return true
		}
	}
	return false
}

// sigOf computes the erased signature of a manifest method.
func sigOf(m *api.Method) icallSig {
	sig := icallSig{
		ret:     erase(api.ParseType(m.ReturnType).Kind),
		varargs: m.HasVarargs,
	}
	for _, a := range m.Arguments {
		sig.args = append(sig.args, erase(api.ParseType(a.Type).Kind))
	}
	return sig
}

// icallName records the signature on a miss and returns the shared symbol.
func (e *Emitter) icallName(sig icallSig) string {
	name := sig.name()
	if _, ok := e.icalls[name]; !ok {
		e.icalls[name] = sig
	}
	return name
}

// boundaryType is the Go type of one trampoline parameter or return.
func (e *Emitter) boundaryType(k api.TypeKind) *jen.Statement {
	c := convFor(k)
	switch {
	case c.variant:
		return jen.Qual(e.corePath(), "Variant")
	case c.handle:
		return jen.Qual(e.cfg.Module, "Handle")
	case c.prim != "":
		return jen.Id(c.prim)
	default:
		return jen.Qual(e.corePath(), c.coreType)
	}
}

// boxExpr boxes one trampoline parameter into a core.Variant.
func (e *Emitter) boxExpr(k api.TypeKind, arg *jen.Statement) *jen.Statement {
	c := convFor(k)
	if c.variant {
		return arg
	}
	return jen.Qual(e.corePath(), c.ctor).Call(arg)
}

// EmitIcalls produces the trampoline file from the signatures accumulated
// while emitting classes, in symbol order.
func (e *Emitter) EmitIcalls() *jen.File {
	f := e.newFile()
	f.PackageComment("Shared marshalling trampolines, one per erased method signature.")

	names := make([]string, 0, len(e.icalls))
	for n := range e.icalls {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		e.emitIcall(f, n, e.icalls[n])
	}
	return f
}

func (e *Emitter) emitIcall(f *jen.File, name string, sig icallSig) {
	mode := "pointer call"
	if sig.variantCall() {
		mode = "variant call"
	}
	f.Commentf("%s: %s.", name, mode)

	params := []jen.Code{
		jen.Id("bind").Qual(e.cfg.Module, "MethodBind"),
		jen.Id("owner").Qual(e.cfg.Module, "Handle"),
	}
	for i, a := range sig.args {
		params = append(params, jen.Id(fmt.Sprintf("arg%d", i)).Add(e.boundaryType(a)))
	}
	if sig.varargs {
		params = append(params, jen.Id("varargs").Op("...").Qual(e.corePath(), "Variant"))
	}

	fn := f.Func().Id(name).Params(params...)
	if sig.ret != api.KindVoid {
		fn.Add(e.boundaryType(sig.ret))
	}

	fn.BlockFunc(func(g *jen.Group) {
		boxed := make([]jen.Code, 0, len(sig.args))
		for i, a := range sig.args {
			boxed = append(boxed, e.boxExpr(a, jen.Id(fmt.Sprintf("arg%d", i))))
		}

		var argsExpr *jen.Statement
		switch {
		case sig.varargs:
			g.Id("args").Op(":=").Make(
				jen.Index().Qual(e.corePath(), "Variant"),
				jen.Lit(0), jen.Lit(len(sig.args)).Op("+").Len(jen.Id("varargs")),
			)
			if len(boxed) > 0 {
				g.Id("args").Op("=").Append(append([]jen.Code{jen.Id("args")}, boxed...)...)
			}
			g.Id("args").Op("=").Append(jen.Id("args"), jen.Id("varargs").Op("..."))
			argsExpr = jen.Id("args")
		case len(sig.args) == 0:
			argsExpr = jen.Nil()
		default:
			argsExpr = jen.Index().Qual(e.corePath(), "Variant").Values(boxed...)
		}

		call := jen.Qual(e.sysPath(), "Get").Call().Dot("MethodBindCall").Call(
			jen.Id("bind"), jen.Id("owner"), argsExpr,
		)

		c := convFor(sig.ret)
		switch {
		case sig.ret == api.KindVoid:
			g.List(jen.Id("_"), jen.Id("_")).Op("=").Add(call)
		case c.variant:
			g.List(jen.Id("ret"), jen.Id("_")).Op(":=").Add(call)
			g.Return(jen.Id("ret"))
		default:
			g.List(jen.Id("ret"), jen.Id("_")).Op(":=").Add(call)
			g.List(jen.Id("out"), jen.Id("_")).Op(":=").Id("ret").Dot(c.accessor).Call()
			g.Return(jen.Id("out"))
		}
	})
}
