package codegen

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"

	"github.com/gdnative-go/gdnative/api"
	"github.com/gdnative-go/gdnative/errors"
)

const defaultModule = "github.com/gdnative-go/gdnative"

// Config carries the emitter knobs.
type Config struct {
	// Package is the name of the emitted package.
	Package string
	// Module is the import path of the runtime module the emitted code
	// calls into.
	Module string
	Logger *zap.Logger
}

// Emitter turns an api.Model plus its documentation index into Go source.
// One Emitter accumulates trampoline signatures across all classes it
// emits; EmitIcalls must run after the last class.
type Emitter struct {
	model  *api.Model
	docs   *api.Docs
	cfg    Config
	icalls map[string]icallSig
	log    *zap.Logger
}

// New builds an emitter. docs may be nil, in which case wrappers carry only
// the synthesised summary line.
func New(model *api.Model, docs *api.Docs, cfg Config) *Emitter {
	if cfg.Package == "" {
		cfg.Package = "classes"
	}
	if cfg.Module == "" {
		cfg.Module = defaultModule
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{
		model:  model,
		docs:   docs,
		cfg:    cfg,
		icalls: make(map[string]icallSig),
		log:    log,
	}
}

func (e *Emitter) corePath() string   { return e.cfg.Module + "/core" }
func (e *Emitter) sysPath() string    { return e.cfg.Module + "/sys" }
func (e *Emitter) objectPath() string { return e.cfg.Module + "/object" }

func (e *Emitter) newFile() *jen.File {
	f := jen.NewFile(e.cfg.Package)
	f.HeaderComment("Code generated by bindgen; DO NOT EDIT.")
	f.ImportName(e.cfg.Module, "gdnative")
	f.ImportName(e.corePath(), "core")
	f.ImportName(e.sysPath(), "sys")
	f.ImportName(e.objectPath(), "object")
	return f
}

// Generate emits every class of the model plus the trampoline file into
// outDir. Classes are processed in name order so output is reproducible.
func (e *Emitter) Generate(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindInvalidData, err, "create output directory")
	}

	classes := make([]*api.Class, len(e.model.Classes))
	copy(classes, e.model.Classes)
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })

	for _, c := range classes {
		path := filepath.Join(outDir, fileName(c.GoName()))
		if err := e.EmitClass(c).Save(path); err != nil {
			return errors.Wrap(errors.PhaseEmit, errors.KindInvalidData, err, "write "+path)
		}
		e.log.Debug("emitted class",
			zap.String("class", c.Name),
			zap.String("file", path))
	}

	path := filepath.Join(outDir, "icalls.gen.go")
	if err := e.EmitIcalls().Save(path); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindInvalidData, err, "write "+path)
	}

	e.log.Info("emission complete",
		zap.Int("classes", len(classes)),
		zap.Int("icalls", len(e.icalls)))
	return nil
}

// Render emits one class to source text. Test hook.
func (e *Emitter) Render(c *api.Class) (string, error) {
	var buf bytes.Buffer
	if err := e.EmitClass(c).Render(&buf); err != nil {
		return "", errors.Wrap(errors.PhaseEmit, errors.KindInvalidData, err, "render "+c.Name)
	}
	return buf.String(), nil
}

// RenderIcalls emits the accumulated trampolines to source text. Test hook.
func (e *Emitter) RenderIcalls() (string, error) {
	var buf bytes.Buffer
	if err := e.EmitIcalls().Render(&buf); err != nil {
		return "", errors.Wrap(errors.PhaseEmit, errors.KindInvalidData, err, "render icalls")
	}
	return buf.String(), nil
}

// EmitClass produces the complete file for one class.
func (e *Emitter) EmitClass(c *api.Class) *jen.File {
	f := e.newFile()
	goName := c.GoName()

	e.emitStruct(f, c, goName)
	e.emitMetadata(f, c, goName)
	e.emitEnums(f, c, goName)
	e.emitConstants(f, c, goName)
	e.emitUpcasts(f, c, goName)
	e.emitCast(f, c, goName)
	e.emitSingleton(f, c, goName)
	e.emitConstructor(f, c, goName)
	e.emitQueueFree(f, c, goName)
	e.emitMethodTable(f, c, goName)
	for i := range c.Methods {
		e.emitMethod(f, c, goName, &c.Methods[i])
	}
	return f
}

func (e *Emitter) emitStruct(f *jen.File, c *api.Class, goName string) {
	f.Commentf("%s wraps the engine class `%s` (%s API).", goName, c.Name, c.APIType)
	if c.IsReference {
		f.Comment("Instances are reference counted.")
	} else {
		f.Comment("Instances are manually managed; the caller frees them.")
	}
	if c.Singleton {
		f.Comment("The class is an engine singleton; use the accessor below.")
	} else if !c.Instantiable {
		f.Comment("The class cannot be instantiated directly.")
	}

	if c.BaseClass == "" {
		f.Type().Id(goName).Struct(
			jen.Id("owner").Qual(e.cfg.Module, "Handle"),
		)
		f.Comment("Raw returns the engine object handle.")
		f.Func().Params(jen.Id("c").Op("*").Id(goName)).Id("Raw").Params().
			Qual(e.cfg.Module, "Handle").
			Block(jen.Return(jen.Id("c").Dot("owner")))
	} else {
		f.Type().Id(goName).Struct(
			jen.Id(api.TranslateClassName(c.BaseClass)),
		)
	}

	f.Var().Id("_").Qual(e.objectPath(), "GodotObject").Op("=").
		Parens(jen.Op("*").Id(goName)).Call(jen.Nil())
}

func (e *Emitter) emitMetadata(f *jen.File, c *api.Class, goName string) {
	f.Func().Params(jen.Id("c").Op("*").Id(goName)).Id("ClassName").Params().String().
		Block(jen.Return(jen.Lit(c.Name)))
	f.Func().Params(jen.Id("c").Op("*").Id(goName)).Id("RefCountedClass").Params().Bool().
		Block(jen.Return(jen.Lit(c.IsReference)))
}

func (e *Emitter) emitEnums(f *jen.File, c *api.Class, goName string) {
	enums := make([]api.Enum, len(c.Enums))
	copy(enums, c.Enums)
	sort.Slice(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })

	for _, en := range enums {
		typeName := goName + en.Name
		f.Commentf("%s is the `%s` enum of `%s`.", typeName, en.Name, c.Name)
		f.Type().Id(typeName).Int64()

		names := en.ValueNames()
		f.Const().DefsFunc(func(g *jen.Group) {
			for _, n := range names {
				g.Id(goName + exported(n)).Id(typeName).Op("=").Lit(int(en.Values[n]))
			}
		})
	}
}

func (e *Emitter) emitConstants(f *jen.File, c *api.Class, goName string) {
	// The manifest repeats enum values inside the class constant map; those
	// are already emitted as typed enum constants.
	inEnum := make(map[string]bool)
	for _, en := range c.Enums {
		for n := range en.Values {
			inEnum[n] = true
		}
	}

	names := make([]string, 0, len(c.Constants))
	for _, n := range c.ConstantNames() {
		if !inEnum[n] {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return
	}
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, n := range names {
			g.Id(goName + exported(n)).Int64().Op("=").Lit(int(c.Constants[n]))
		}
	})
}

func (e *Emitter) emitUpcasts(f *jen.File, c *api.Class, goName string) {
	for _, anc := range e.model.Ancestors(c) {
		ancName := anc.GoName()
		f.Commentf("As%s returns the %s view of the object.", ancName, ancName)
		f.Func().Params(jen.Id("c").Op("*").Id(goName)).Id("As" + ancName).Params().
			Op("*").Id(ancName).
			Block(jen.Return(jen.Op("&").Id("c").Dot(ancName)))
	}
}

func (e *Emitter) emitCast(f *jen.File, c *api.Class, goName string) {
	f.Commentf("Cast%s attempts a checked downcast to %s.", goName, goName)
	f.Func().Id("Cast"+goName).Params(
		jen.Id("obj").Qual(e.objectPath(), "GodotObject"),
	).Params(jen.Op("*").Id(goName), jen.Bool()).Block(
		jen.List(jen.Id("h"), jen.Id("ok")).Op(":=").
			Qual(e.objectPath(), "CastRaw").Call(jen.Id("obj").Dot("Raw").Call(), jen.Lit(c.Name)),
		jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), jen.False())),
		jen.Id("out").Op(":=").Op("&").Id(goName).Values(),
		jen.Id("out").Dot("owner").Op("=").Id("h"),
		jen.Return(jen.Id("out"), jen.True()),
	)
}

func (e *Emitter) emitSingleton(f *jen.File, c *api.Class, goName string) {
	if !c.Singleton {
		return
	}
	engineName := c.SingletonName
	if engineName == "" {
		engineName = goName
	}
	prefix := unexported(goName)

	f.Var().Defs(
		jen.Id(prefix+"SingletonOnce").Qual("sync", "Once"),
		jen.Id(prefix+"SingletonObj").Op("*").Id(goName),
	)

	f.Commentf("%sSingleton returns the `%s` engine singleton.", goName, engineName)
	f.Func().Id(goName+"Singleton").Params().Op("*").Id(goName).Block(
		jen.Id(prefix+"SingletonOnce").Dot("Do").Call(jen.Func().Params().Block(
			jen.Id("h").Op(":=").Qual(e.sysPath(), "Get").Call().Dot("SingletonGet").Call(jen.Lit(engineName)),
			jen.Id("obj").Op(":=").Op("&").Id(goName).Values(),
			jen.Id("obj").Dot("owner").Op("=").Id("h"),
			jen.Id(prefix+"SingletonObj").Op("=").Id("obj"),
		)),
		jen.Return(jen.Id(prefix+"SingletonObj")),
	)
}

func (e *Emitter) emitConstructor(f *jen.File, c *api.Class, goName string) {
	if !c.Instantiable || c.Singleton {
		return
	}
	f.Commentf("New%s constructs a fresh %s instance.", goName, goName)
	f.Func().Id("New"+goName).Params().Op("*").Id(goName).BlockFunc(func(g *jen.Group) {
		g.Id("h").Op(":=").Qual(e.sysPath(), "Get").Call().Dot("ObjectConstruct").Call(jen.Lit(c.Name))
		if c.IsReference {
			g.Qual(e.sysPath(), "Get").Call().Dot("ReferenceInit").Call(jen.Id("h"))
		}
		g.Id("obj").Op(":=").Op("&").Id(goName).Values()
		g.Id("obj").Dot("owner").Op("=").Id("h")
		g.Return(jen.Id("obj"))
	})
}

// emitQueueFree adds the frame-deferred destructor entry point on the Node
// root; descendants inherit it through embedding. Skipped when the manifest
// already declares queue_free as a regular method.
func (e *Emitter) emitQueueFree(f *jen.File, c *api.Class, goName string) {
	if c.Name != "Node" || hasMethod(c, "queue_free") {
		return
	}
	f.Comment("QueueFree schedules the node for deletion at the end of the current frame.")
	f.Func().Params(jen.Id("c").Op("*").Id(goName)).Id("QueueFree").Params().Block(
		jen.List(jen.Id("_"), jen.Id("_")).Op("=").
			Qual(e.sysPath(), "Get").Call().Dot("ObjectCall").Call(
				jen.Id("c").Dot("Raw").Call(), jen.Lit("queue_free"), jen.Nil(),
			),
	)
}

func hasMethod(c *api.Class, name string) bool {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return true
		}
	}
	return false
}

// tableField maps a method name to its bind-table field, avoiding the
// table's own members.
func tableField(method string) string {
	n := unexported(method)
	if n == "once" || n == "resolve" {
		n += "_"
	}
	return n
}

func (e *Emitter) emitMethodTable(f *jen.File, c *api.Class, goName string) {
	methods := boundMethods(c)
	if len(methods) == 0 {
		return
	}
	tableType := unexported(goName) + "MethodTable"
	tableVar := unexported(goName) + "Methods"

	f.Commentf("%s caches the method binds of `%s`, resolved on first use.", tableType, c.Name)
	f.Type().Id(tableType).StructFunc(func(g *jen.Group) {
		g.Id("once").Qual("sync", "Once")
		for _, m := range methods {
			g.Id(tableField(m.Name)).Qual(e.cfg.Module, "MethodBind")
		}
	})

	f.Var().Id(tableVar).Id(tableType)

	f.Func().Params(jen.Id("t").Op("*").Id(tableType)).Id("resolve").Params().Block(
		jen.Id("t").Dot("once").Dot("Do").Call(jen.Func().Params().BlockFunc(func(g *jen.Group) {
			g.Id("eng").Op(":=").Qual(e.sysPath(), "Get").Call()
			for _, m := range methods {
				g.Id("t").Dot(tableField(m.Name)).Op("=").
					Id("eng").Dot("MethodBindGet").Call(jen.Lit(c.Name), jen.Lit(m.Name))
			}
		})),
	)
}

// boundMethods filters out methods that never get a bind-table entry.
func boundMethods(c *api.Class) []*api.Method {
	out := make([]*api.Method, 0, len(c.Methods))
	for i := range c.Methods {
		if c.Methods[i].Name == "free" {
			continue
		}
		out = append(out, &c.Methods[i])
	}
	return out
}

// wrapperName maps an engine method name to its Go wrapper identifier,
// stepping around the metadata methods every class carries.
func wrapperName(method string) string {
	n := exported(method)
	switch n {
	case "ClassName", "RefCountedClass", "Raw":
		return n + "_"
	}
	return n
}

// argType is the wrapper-level Go type of one argument.
func (e *Emitter) argType(t api.Type) *jen.Statement {
	switch t.Kind {
	case api.KindEnum:
		if e.enumKnown(t) {
			return jen.Id(t.GoSpelling())
		}
		return jen.Int64()
	case api.KindObject:
		if _, ok := e.model.Get(t.Class); ok {
			return jen.Op("*").Id(api.TranslateClassName(t.Class))
		}
		return jen.Qual(e.objectPath(), "GodotObject")
	default:
		return e.boundaryType(t.Kind)
	}
}

func (e *Emitter) enumKnown(t api.Type) bool {
	c, ok := e.model.Get(t.EnumClass)
	if !ok {
		return false
	}
	for _, en := range c.Enums {
		if en.Name == t.EnumName {
			return true
		}
	}
	return false
}

func (e *Emitter) emitMethod(f *jen.File, c *api.Class, goName string, m *api.Method) {
	if m.Name == "free" {
		// Lifecycle is owned by the object layer.
		return
	}

	sig := sigOf(m)
	icall := e.icallName(sig)
	ret := api.ParseType(m.ReturnType)
	tableVar := unexported(goName) + "Methods"

	f.Commentf("%s calls the engine method `%s`.", wrapperName(m.Name), m.Name)
	if e.docs != nil {
		if desc, ok := e.docs.Get(c.Name, m.Name); ok {
			f.Comment("")
			for _, line := range strings.Split(desc, "\n") {
				f.Comment(line)
			}
		}
	}

	params := make([]jen.Code, 0, len(m.Arguments)+1)
	argNames := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		argNames[i] = unexported(a.Name)
		params = append(params, jen.Id(argNames[i]).Add(e.argType(api.ParseType(a.Type))))
	}
	if m.HasVarargs {
		params = append(params, jen.Id("varargs").Op("...").Qual(e.corePath(), "Variant"))
	}

	fn := f.Func().Params(jen.Id("c").Op("*").Id(goName)).Id(wrapperName(m.Name)).Params(params...)
	e.addReturnType(fn, ret)

	fn.BlockFunc(func(g *jen.Group) {
		g.Id(tableVar).Dot("resolve").Call()

		callArgs := []jen.Code{
			jen.Id(tableVar).Dot(tableField(m.Name)),
			jen.Id("c").Dot("Raw").Call(),
		}
		for i, a := range m.Arguments {
			callArgs = append(callArgs, e.boundaryExpr(api.ParseType(a.Type), argNames[i]))
		}
		if m.HasVarargs {
			callArgs = append(callArgs, jen.Id("varargs").Op("..."))
		}
		call := jen.Id(icall).Call(callArgs...)

		e.addReturn(g, ret, call)
	})
}

// boundaryExpr converts a wrapper argument to its trampoline representation.
func (e *Emitter) boundaryExpr(t api.Type, name string) *jen.Statement {
	switch t.Kind {
	case api.KindEnum:
		if e.enumKnown(t) {
			return jen.Int64().Call(jen.Id(name))
		}
		return jen.Id(name)
	case api.KindObject:
		return jen.Id(name).Dot("Raw").Call()
	default:
		return jen.Id(name)
	}
}

func (e *Emitter) addReturnType(fn *jen.Statement, ret api.Type) {
	switch ret.Kind {
	case api.KindVoid:
	case api.KindEnum:
		if e.enumKnown(ret) {
			fn.Id(ret.GoSpelling())
		} else {
			fn.Int64()
		}
	case api.KindObject:
		if _, ok := e.model.Get(ret.Class); ok {
			fn.Op("*").Id(api.TranslateClassName(ret.Class))
		} else {
			fn.Qual(e.objectPath(), "AnyObject")
		}
	default:
		fn.Add(e.boundaryType(ret.Kind))
	}
}

func (e *Emitter) addReturn(g *jen.Group, ret api.Type, call *jen.Statement) {
	switch ret.Kind {
	case api.KindVoid:
		g.Add(call)
	case api.KindEnum:
		if e.enumKnown(ret) {
			g.Return(jen.Id(ret.GoSpelling()).Call(call))
		} else {
			g.Return(call)
		}
	case api.KindObject:
		if _, ok := e.model.Get(ret.Class); ok {
			retName := api.TranslateClassName(ret.Class)
			g.Id("h").Op(":=").Add(call)
			g.If(jen.Op("!").Id("h").Dot("Valid").Call()).Block(jen.Return(jen.Nil()))
			g.Id("out").Op(":=").Op("&").Id(retName).Values()
			g.Id("out").Dot("owner").Op("=").Id("h")
			g.Return(jen.Id("out"))
		} else {
			g.Return(jen.Qual(e.objectPath(), "NewAny").Call(call))
		}
	default:
		g.Return(call)
	}
}
