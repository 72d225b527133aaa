package codegen

import (
	"strings"
	"testing"

	"github.com/gdnative-go/gdnative/api"
)

const testManifest = `[
	{
		"name": "Object",
		"base_class": "",
		"api_type": "core",
		"instanciable": true,
		"is_reference": false,
		"constants": {},
		"methods": [
			{"name": "get_class", "return_type": "String", "is_const": true, "arguments": []},
			{"name": "get_name", "return_type": "String", "is_const": true, "arguments": []},
			{"name": "call", "return_type": "Variant", "has_varargs": true, "arguments": [
				{"name": "method", "type": "String"}
			]}
		],
		"enums": [
			{"name": "Mode", "values": {"A": 2, "B": 1, "C": 1}}
		]
	},
	{
		"name": "Node",
		"base_class": "Object",
		"api_type": "core",
		"instanciable": true,
		"is_reference": false,
		"constants": {"NOTIFICATION_READY": 13, "NOTIFICATION_PROCESS": 17},
		"methods": [
			{"name": "add_child", "return_type": "void", "arguments": [
				{"name": "node", "type": "Object"},
				{"name": "type", "type": "bool"}
			]},
			{"name": "get_parent", "return_type": "Object", "arguments": []}
		],
		"enums": []
	}
]`

func testEmitter(t *testing.T) (*Emitter, *api.Model) {
	t.Helper()
	m, err := api.Load([]byte(testManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return New(m, nil, Config{Package: "classes"}), m
}

func render(t *testing.T, e *Emitter, m *api.Model, class string) string {
	t.Helper()
	c, ok := m.Get(class)
	if !ok {
		t.Fatalf("class %s missing", class)
	}
	src, err := e.Render(c)
	if err != nil {
		t.Fatalf("Render(%s): %v", class, err)
	}
	return src
}

func TestEnumEmissionOrder(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Object")

	// Sorted by (value, name): B=1, C=1, A=2.
	iB := strings.Index(src, "ObjectB ObjectMode = 1")
	iC := strings.Index(src, "ObjectC ObjectMode = 1")
	iA := strings.Index(src, "ObjectA ObjectMode = 2")
	if iB < 0 || iC < 0 || iA < 0 {
		t.Fatalf("enum constants missing:\n%s", src)
	}
	if !(iB < iC && iC < iA) {
		t.Errorf("enum order wrong: B=%d C=%d A=%d", iB, iC, iA)
	}
}

func TestConstantOrder(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Node")

	iReady := strings.Index(src, "NodeNotificationReady   int64 = 13")
	iProc := strings.Index(src, "NodeNotificationProcess int64 = 17")
	if iReady < 0 || iProc < 0 {
		t.Fatalf("constants missing:\n%s", src)
	}
	if iReady > iProc {
		t.Error("constants not sorted by value")
	}
}

func TestStructEmbedsBase(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Node")

	if !strings.Contains(src, "type Node struct {\n\tObject\n}") {
		t.Errorf("base not embedded:\n%s", src)
	}
	if !strings.Contains(src, "func (c *Node) AsObject() *Object") {
		t.Error("missing upcast helper")
	}
	if !strings.Contains(src, "func CastNode(obj object.GodotObject) (*Node, bool)") {
		t.Error("missing downcast helper")
	}
}

func TestKeywordSanitised(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Node")

	if !strings.Contains(src, "type_ bool") {
		t.Errorf("reserved argument name not sanitised:\n%s", src)
	}
}

func TestIcallDedup(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Object")

	// get_class and get_name share the erased signature () -> String.
	if strings.Count(src, "icallStr(") != 2 {
		t.Errorf("methods with equal shapes should share one trampoline:\n%s", src)
	}

	icalls, err := e.RenderIcalls()
	if err != nil {
		t.Fatalf("RenderIcalls: %v", err)
	}
	if strings.Count(icalls, "func icallStr(") != 1 {
		t.Errorf("expected exactly one shared trampoline:\n%s", icalls)
	}
}

func TestVarargsForcesVariantCall(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Object")

	if !strings.Contains(src, "varargs ...core.Variant") {
		t.Errorf("varargs wrapper missing variadic tail:\n%s", src)
	}
	if !strings.Contains(src, "icallVarStrVarargs(") {
		t.Errorf("varargs method not routed through varargs trampoline:\n%s", src)
	}

	icalls, err := e.RenderIcalls()
	if err != nil {
		t.Fatalf("RenderIcalls: %v", err)
	}
	if !strings.Contains(icalls, "icallVarStrVarargs: variant call.") {
		t.Errorf("varargs trampoline should be a variant call:\n%s", icalls)
	}
	if !strings.Contains(icalls, "icallStr: pointer call.") {
		t.Errorf("direct-ABI trampoline should be a pointer call:\n%s", icalls)
	}
}

func TestObjectReturnWrapsHandle(t *testing.T) {
	e, m := testEmitter(t)
	src := render(t, e, m, "Node")

	if !strings.Contains(src, "func (c *Node) GetParent() *Object") {
		t.Errorf("object return type wrong:\n%s", src)
	}
	if !strings.Contains(src, "if !h.Valid()") {
		t.Error("nil-handle guard missing")
	}
}

func TestDeterministicEmission(t *testing.T) {
	run := func() (string, string) {
		e, m := testEmitter(t)
		a := render(t, e, m, "Object")
		b := render(t, e, m, "Node")
		ic, err := e.RenderIcalls()
		if err != nil {
			t.Fatalf("RenderIcalls: %v", err)
		}
		return a + b, ic
	}
	src1, ic1 := run()
	src2, ic2 := run()
	if src1 != src2 {
		t.Error("class emission not deterministic")
	}
	if ic1 != ic2 {
		t.Error("trampoline emission not deterministic")
	}
}
