package core

// Geometric value types. Layout mirrors the engine's value types; all are
// plain value semantics, no engine round-trip involved.

type Vector2 struct {
	X, Y float32
}

type Vector3 struct {
	X, Y, Z float32
}

type Rect2 struct {
	Position Vector2
	Size     Vector2
}

type Transform2D struct {
	X, Y, Origin Vector2
}

type Plane struct {
	Normal Vector3
	D      float32
}

type Quat struct {
	X, Y, Z, W float32
}

type AABB struct {
	Position Vector3
	Size     Vector3
}

type Basis struct {
	X, Y, Z Vector3
}

type Transform struct {
	Basis  Basis
	Origin Vector3
}

type Color struct {
	R, G, B, A float32
}

// RID is an opaque resource identifier issued by an engine server.
type RID struct {
	ID int64
}

func (v Vector2) ToVariant() Variant { return Vector2Variant(v) }

func (v *Vector2) FromVariant(src Variant) error {
	x, ok := src.AsVector2()
	if !ok {
		return typeError(TypeVector2, src.Type())
	}
	*v = x
	return nil
}

func (v Vector3) ToVariant() Variant { return Vector3Variant(v) }

func (v *Vector3) FromVariant(src Variant) error {
	x, ok := src.AsVector3()
	if !ok {
		return typeError(TypeVector3, src.Type())
	}
	*v = x
	return nil
}

func (c Color) ToVariant() Variant { return ColorVariant(c) }

func (c *Color) FromVariant(src Variant) error {
	x, ok := src.AsColor()
	if !ok {
		return typeError(TypeColor, src.Type())
	}
	*c = x
	return nil
}

func (r RID) ToVariant() Variant { return RIDVariant(r) }

func (r *RID) FromVariant(src Variant) error {
	x, ok := src.AsRID()
	if !ok {
		return typeError(TypeRID, src.Type())
	}
	*r = x
	return nil
}
