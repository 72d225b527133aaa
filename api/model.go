package api

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/gdnative-go/gdnative/errors"
)

// Class is one entry of the engine's class manifest. Immutable after load.
type Class struct {
	Name          string           `json:"name"`
	BaseClass     string           `json:"base_class"`
	APIType       string           `json:"api_type"`
	Singleton     bool             `json:"singleton"`
	SingletonName string           `json:"singleton_name"`
	Instantiable  bool             `json:"instanciable"`
	IsReference   bool             `json:"is_reference"`
	Constants     map[string]int64 `json:"constants"`
	Methods       []Method         `json:"methods"`
	Enums         []Enum           `json:"enums"`
}

// Method is one method descriptor of a class.
type Method struct {
	Name       string     `json:"name"`
	ReturnType string     `json:"return_type"`
	IsEditor   bool       `json:"is_editor"`
	IsConst    bool       `json:"is_const"`
	IsReverse  bool       `json:"is_reverse"`
	IsVirtual  bool       `json:"is_virtual"`
	HasVarargs bool       `json:"has_varargs"`
	Arguments  []Argument `json:"arguments"`
}

// Argument is one method argument descriptor.
type Argument struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	HasDefaultValue bool   `json:"has_default_value"`
	DefaultValue    string `json:"default_value"`
}

// Enum is one class-scoped enum with its named values.
type Enum struct {
	Name   string           `json:"name"`
	Values map[string]int64 `json:"values"`
}

// Model is the parsed class manifest with lookup indexes.
type Model struct {
	Classes []*Class
	byName  map[string]*Class
}

// Load parses an api.json document and validates the hierarchy: the base
// chain must be acyclic and rooted at the single class with no base.
func Load(data []byte) (*Model, error) {
	var classes []*Class
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, errors.ParseFailed("api.json", err)
	}

	m := &Model{Classes: classes, byName: make(map[string]*Class, len(classes))}
	roots := 0
	for _, c := range classes {
		if _, dup := m.byName[c.Name]; dup {
			return nil, errors.DuplicateClass(errors.PhaseParse, c.Name)
		}
		m.byName[c.Name] = c
		if c.BaseClass == "" {
			roots++
		}
	}
	if roots != 1 && len(classes) > 0 {
		return nil, errors.InvalidData(errors.PhaseParse, nil, "class hierarchy must have exactly one root")
	}

	// Cycle and dangling-base check by walking every chain to the root.
	for _, c := range classes {
		seen := map[string]bool{c.Name: true}
		for cur := c.BaseClass; cur != ""; {
			if seen[cur] {
				return nil, errors.InvalidData(errors.PhaseParse, []string{c.Name}, "cyclic base chain")
			}
			seen[cur] = true
			base, ok := m.byName[cur]
			if !ok {
				return nil, errors.NotFound(errors.PhaseParse, "base class", cur)
			}
			cur = base.BaseClass
		}
	}

	return m, nil
}

// Get returns a class by its engine name.
func (m *Model) Get(name string) (*Class, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// Ancestors returns the transitive base chain of a class, nearest first.
func (m *Model) Ancestors(c *Class) []*Class {
	var out []*Class
	for cur := c.BaseClass; cur != ""; {
		base, ok := m.byName[cur]
		if !ok {
			break
		}
		out = append(out, base)
		cur = base.BaseClass
	}
	return out
}

// Inherits reports whether class transitively derives from ancestor.
func (m *Model) Inherits(c *Class, ancestor string) bool {
	for cur := c.BaseClass; cur != ""; {
		if cur == ancestor {
			return true
		}
		base, ok := m.byName[cur]
		if !ok {
			return false
		}
		cur = base.BaseClass
	}
	return false
}

// IsUnderscored reports whether the class carries the manifest's leading
// underscore marker.
func (c *Class) IsUnderscored() bool {
	return strings.HasPrefix(c.Name, "_")
}

// GoName is the identifier used in the generated binding: the engine name
// with any leading underscore stripped.
func (c *Class) GoName() string {
	return strings.TrimPrefix(c.Name, "_")
}

// ConstantNames returns constant names sorted by (value, name), the
// deterministic order the emitter uses.
func (c *Class) ConstantNames() []string {
	names := make([]string, 0, len(c.Constants))
	for n := range c.Constants {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := c.Constants[names[i]], c.Constants[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})
	return names
}

// ValueNames returns enum value names sorted by (value, name).
func (e *Enum) ValueNames() []string {
	names := make([]string, 0, len(e.Values))
	for n := range e.Values {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := e.Values[names[i]], e.Values[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})
	return names
}
