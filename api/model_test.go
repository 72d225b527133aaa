package api

import (
	"strings"
	"testing"
)

const sampleManifest = `[
	{
		"name": "Object",
		"base_class": "",
		"api_type": "core",
		"singleton": false,
		"instanciable": true,
		"is_reference": false,
		"constants": {"NOTIFICATION_POSTINITIALIZE": 0},
		"methods": [
			{"name": "get_class", "return_type": "String", "is_const": true, "arguments": []}
		],
		"enums": []
	},
	{
		"name": "Reference",
		"base_class": "Object",
		"api_type": "core",
		"instanciable": true,
		"is_reference": true,
		"constants": {},
		"methods": [],
		"enums": []
	},
	{
		"name": "Node",
		"base_class": "Object",
		"api_type": "core",
		"instanciable": true,
		"is_reference": false,
		"constants": {},
		"methods": [
			{"name": "new", "return_type": "void", "arguments": []},
			{"name": "add_child", "return_type": "void", "arguments": [
				{"name": "node", "type": "Object", "has_default_value": false},
				{"name": "legible_unique_name", "type": "bool", "has_default_value": true, "default_value": "False"}
			]}
		],
		"enums": [
			{"name": "ProcessMode", "values": {"PAUSE_MODE_INHERIT": 0, "PAUSE_MODE_STOP": 1}}
		]
	},
	{
		"name": "_OS",
		"base_class": "Object",
		"api_type": "core",
		"singleton": true,
		"singleton_name": "OS",
		"instanciable": false,
		"is_reference": false,
		"constants": {},
		"methods": [],
		"enums": []
	}
]`

func loadSample(t *testing.T) *Model {
	t.Helper()
	m, err := Load([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestLoadManifest(t *testing.T) {
	m := loadSample(t)
	if len(m.Classes) != 4 {
		t.Fatalf("classes = %d, want 4", len(m.Classes))
	}

	node, ok := m.Get("Node")
	if !ok {
		t.Fatal("Node missing")
	}
	if !m.Inherits(node, "Object") {
		t.Error("Node should inherit Object")
	}
	if m.Inherits(node, "Reference") {
		t.Error("Node should not inherit Reference")
	}

	anc := m.Ancestors(node)
	if len(anc) != 1 || anc[0].Name != "Object" {
		t.Errorf("ancestors = %v", anc)
	}
}

func TestUnderscoredClass(t *testing.T) {
	m := loadSample(t)
	os, _ := m.Get("_OS")
	if !os.IsUnderscored() {
		t.Error("expected underscored")
	}
	if os.GoName() != "OS" {
		t.Errorf("GoName = %q, want OS", os.GoName())
	}
}

func TestLoadRejectsCycle(t *testing.T) {
	cyclic := `[
		{"name": "A", "base_class": "B", "constants": {}, "methods": [], "enums": []},
		{"name": "B", "base_class": "A", "constants": {}, "methods": [], "enums": []},
		{"name": "Root", "base_class": "", "constants": {}, "methods": [], "enums": []}
	]`
	if _, err := Load([]byte(cyclic)); err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestLoadRejectsDuplicate(t *testing.T) {
	dup := `[
		{"name": "Object", "base_class": "", "constants": {}, "methods": [], "enums": []},
		{"name": "Object", "base_class": "", "constants": {}, "methods": [], "enums": []}
	]`
	if _, err := Load([]byte(dup)); err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestEnumValueOrder(t *testing.T) {
	e := Enum{Name: "E", Values: map[string]int64{"A": 2, "B": 1, "C": 1}}
	got := e.ValueNames()
	want := []string{"B", "C", "A"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		kind TypeKind
		goSp string
	}{
		{"void", KindVoid, ""},
		{"int", KindInt, "int64"},
		{"float", KindFloat, "float64"},
		{"String", KindString, "string"},
		{"Vector2", KindVector2, "core.Vector2"},
		{"PoolByteArray", KindPoolByteArray, "core.PoolByteArray"},
		{"Node", KindObject, "Node"},
		{"_OS", KindObject, "OS"},
		{"enum.Node::ProcessMode", KindEnum, "NodeProcessMode"},
		{"enum._OS::Month", KindEnum, "OSMonth"},
	}
	for _, tt := range tests {
		typ := ParseType(tt.in)
		if typ.Kind != tt.kind {
			t.Errorf("ParseType(%q).Kind = %v, want %v", tt.in, typ.Kind, tt.kind)
		}
		if typ.GoSpelling() != tt.goSp {
			t.Errorf("ParseType(%q).GoSpelling() = %q, want %q", tt.in, typ.GoSpelling(), tt.goSp)
		}
	}
}

func TestHasDirectABI(t *testing.T) {
	if (Type{Kind: KindVariant}).HasDirectABI() {
		t.Error("Variant has no direct ABI representation")
	}
	for _, k := range []TypeKind{KindVoid, KindBool, KindInt, KindString, KindObject, KindEnum, KindPoolByteArray} {
		if !(Type{Kind: k}).HasDirectABI() {
			t.Errorf("kind %v should have a direct ABI representation", k)
		}
	}
}
