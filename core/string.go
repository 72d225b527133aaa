package core

// GodotString wraps the engine's copy-on-write string. On the Go side the
// payload is immutable, so NewRef is a plain copy.
type GodotString struct {
	s string
}

func NewGodotString(s string) GodotString { return GodotString{s: s} }

// NewRef returns a string sharing the same contents.
func (g GodotString) NewRef() GodotString { return g }

func (g GodotString) String() string { return g.s }

func (g GodotString) Len() int { return len(g.s) }

func (g GodotString) IsEmpty() bool { return g.s == "" }

// ToVariant implements the conversion bridge.
func (g GodotString) ToVariant() Variant { return StringVariant(g.s) }

// FromVariant implements the conversion bridge.
func (g *GodotString) FromVariant(v Variant) error {
	s, ok := v.AsString()
	if !ok {
		return typeError(TypeString, v.Type())
	}
	g.s = s
	return nil
}

// NodePath is a parsed path to a node in the scene tree. Stored verbatim;
// the engine owns path resolution.
type NodePath struct {
	path string
}

func NewNodePath(path string) NodePath { return NodePath{path: path} }

func (p NodePath) NewRef() NodePath { return p }

func (p NodePath) String() string { return p.path }

func (p NodePath) IsEmpty() bool { return p.path == "" }

func (p NodePath) ToVariant() Variant { return NodePathVariant(p) }

func (p *NodePath) FromVariant(v Variant) error {
	np, ok := v.AsNodePath()
	if !ok {
		// String coerces to NodePath, matching engine behaviour.
		if s, sok := v.AsString(); sok {
			p.path = s
			return nil
		}
		return typeError(TypeNodePath, v.Type())
	}
	*p = np
	return nil
}
