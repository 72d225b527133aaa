package core

import (
	"fmt"

	gdnative "github.com/gdnative-go/gdnative"
)

// VariantType identifies the payload of a Variant. Values match the
// engine's own tag order.
type VariantType int32

const (
	TypeNil VariantType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeVector2
	TypeRect2
	TypeVector3
	TypeTransform2D
	TypePlane
	TypeQuat
	TypeAABB
	TypeBasis
	TypeTransform
	TypeColor
	TypeNodePath
	TypeRID
	TypeObject
	TypeDictionary
	TypeArray
	TypePoolByteArray
	TypePoolIntArray
	TypePoolRealArray
	TypePoolStringArray
	TypePoolVector2Array
	TypePoolVector3Array
	TypePoolColorArray
)

var variantTypeNames = map[VariantType]string{
	TypeNil:              "Nil",
	TypeBool:             "bool",
	TypeInt:              "int",
	TypeFloat:            "float",
	TypeString:           "String",
	TypeVector2:          "Vector2",
	TypeRect2:            "Rect2",
	TypeVector3:          "Vector3",
	TypeTransform2D:      "Transform2D",
	TypePlane:            "Plane",
	TypeQuat:             "Quat",
	TypeAABB:             "AABB",
	TypeBasis:            "Basis",
	TypeTransform:        "Transform",
	TypeColor:            "Color",
	TypeNodePath:         "NodePath",
	TypeRID:              "RID",
	TypeObject:           "Object",
	TypeDictionary:       "Dictionary",
	TypeArray:            "Array",
	TypePoolByteArray:    "PoolByteArray",
	TypePoolIntArray:     "PoolIntArray",
	TypePoolRealArray:    "PoolRealArray",
	TypePoolStringArray:  "PoolStringArray",
	TypePoolVector2Array: "PoolVector2Array",
	TypePoolVector3Array: "PoolVector3Array",
	TypePoolColorArray:   "PoolColorArray",
}

func (t VariantType) String() string {
	if n, ok := variantTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("VariantType(%d)", int32(t))
}

// Variant is the engine's tagged union, the universal currency at call
// boundaries. The zero value is nil.
type Variant struct {
	kind VariantType
	val  any
}

// NilVariant returns the nil variant.
func NilVariant() Variant { return Variant{} }

func BoolVariant(b bool) Variant        { return Variant{TypeBool, b} }
func IntVariant(v int64) Variant        { return Variant{TypeInt, v} }
func FloatVariant(v float64) Variant    { return Variant{TypeFloat, v} }
func StringVariant(s string) Variant    { return Variant{TypeString, s} }
func NodePathVariant(p NodePath) Variant { return Variant{TypeNodePath, p.path} }

func Vector2Variant(v Vector2) Variant     { return Variant{TypeVector2, v} }
func Vector3Variant(v Vector3) Variant     { return Variant{TypeVector3, v} }
func Rect2Variant(v Rect2) Variant         { return Variant{TypeRect2, v} }
func Transform2DVariant(v Transform2D) Variant { return Variant{TypeTransform2D, v} }
func PlaneVariant(v Plane) Variant         { return Variant{TypePlane, v} }
func QuatVariant(v Quat) Variant           { return Variant{TypeQuat, v} }
func AABBVariant(v AABB) Variant           { return Variant{TypeAABB, v} }
func BasisVariant(v Basis) Variant         { return Variant{TypeBasis, v} }
func TransformVariant(v Transform) Variant { return Variant{TypeTransform, v} }
func ColorVariant(v Color) Variant         { return Variant{TypeColor, v} }
func RIDVariant(v RID) Variant             { return Variant{TypeRID, v} }

// ObjectVariant wraps an engine object handle. A zero handle produces nil.
func ObjectVariant(h gdnative.Handle) Variant {
	if !h.Valid() {
		return Variant{}
	}
	return Variant{TypeObject, h}
}

func DictionaryVariant(d Dictionary) Variant  { return Variant{TypeDictionary, d} }
func ArrayVariant(a VariantArray) Variant     { return Variant{TypeArray, a} }

func PoolByteArrayVariant(p PoolByteArray) Variant       { return Variant{TypePoolByteArray, p} }
func PoolIntArrayVariant(p PoolIntArray) Variant         { return Variant{TypePoolIntArray, p} }
func PoolRealArrayVariant(p PoolRealArray) Variant       { return Variant{TypePoolRealArray, p} }
func PoolStringArrayVariant(p PoolStringArray) Variant   { return Variant{TypePoolStringArray, p} }
func PoolVector2ArrayVariant(p PoolVector2Array) Variant { return Variant{TypePoolVector2Array, p} }
func PoolVector3ArrayVariant(p PoolVector3Array) Variant { return Variant{TypePoolVector3Array, p} }
func PoolColorArrayVariant(p PoolColorArray) Variant     { return Variant{TypePoolColorArray, p} }

// Type returns the variant's tag.
func (v Variant) Type() VariantType { return v.kind }

// IsNil reports whether the variant is nil.
func (v Variant) IsNil() bool { return v.kind == TypeNil }

// NewRef returns a variant sharing the same payload. Container payloads
// stay shared; scalar payloads are copied by value.
func (v Variant) NewRef() Variant { return v }

func (v Variant) AsBool() (bool, bool) {
	b, ok := v.val.(bool)
	return b, ok && v.kind == TypeBool
}

func (v Variant) AsInt() (int64, bool) {
	i, ok := v.val.(int64)
	return i, ok && v.kind == TypeInt
}

func (v Variant) AsFloat() (float64, bool) {
	switch v.kind {
	case TypeFloat:
		f, ok := v.val.(float64)
		return f, ok
	case TypeInt:
		// The engine coerces int to real where a real is expected.
		i, ok := v.val.(int64)
		return float64(i), ok
	}
	return 0, false
}

func (v Variant) AsString() (string, bool) {
	s, ok := v.val.(string)
	return s, ok && v.kind == TypeString
}

func (v Variant) AsNodePath() (NodePath, bool) {
	if v.kind != TypeNodePath {
		return NodePath{}, false
	}
	s, ok := v.val.(string)
	return NodePath{path: s}, ok
}

func (v Variant) AsObject() (gdnative.Handle, bool) {
	h, ok := v.val.(gdnative.Handle)
	return h, ok && v.kind == TypeObject
}

func (v Variant) AsDictionary() (Dictionary, bool) {
	d, ok := v.val.(Dictionary)
	return d, ok && v.kind == TypeDictionary
}

func (v Variant) AsArray() (VariantArray, bool) {
	a, ok := v.val.(VariantArray)
	return a, ok && v.kind == TypeArray
}

func (v Variant) AsVector2() (Vector2, bool) {
	x, ok := v.val.(Vector2)
	return x, ok && v.kind == TypeVector2
}

func (v Variant) AsVector3() (Vector3, bool) {
	x, ok := v.val.(Vector3)
	return x, ok && v.kind == TypeVector3
}

func (v Variant) AsRect2() (Rect2, bool) {
	x, ok := v.val.(Rect2)
	return x, ok && v.kind == TypeRect2
}

func (v Variant) AsTransform2D() (Transform2D, bool) {
	x, ok := v.val.(Transform2D)
	return x, ok && v.kind == TypeTransform2D
}

func (v Variant) AsPlane() (Plane, bool) {
	x, ok := v.val.(Plane)
	return x, ok && v.kind == TypePlane
}

func (v Variant) AsQuat() (Quat, bool) {
	x, ok := v.val.(Quat)
	return x, ok && v.kind == TypeQuat
}

func (v Variant) AsAABB() (AABB, bool) {
	x, ok := v.val.(AABB)
	return x, ok && v.kind == TypeAABB
}

func (v Variant) AsBasis() (Basis, bool) {
	x, ok := v.val.(Basis)
	return x, ok && v.kind == TypeBasis
}

func (v Variant) AsTransform() (Transform, bool) {
	x, ok := v.val.(Transform)
	return x, ok && v.kind == TypeTransform
}

func (v Variant) AsColor() (Color, bool) {
	x, ok := v.val.(Color)
	return x, ok && v.kind == TypeColor
}

func (v Variant) AsRID() (RID, bool) {
	x, ok := v.val.(RID)
	return x, ok && v.kind == TypeRID
}

func (v Variant) AsPoolByteArray() (PoolByteArray, bool) {
	p, ok := v.val.(PoolByteArray)
	return p, ok && v.kind == TypePoolByteArray
}

func (v Variant) AsPoolIntArray() (PoolIntArray, bool) {
	p, ok := v.val.(PoolIntArray)
	return p, ok && v.kind == TypePoolIntArray
}

func (v Variant) AsPoolRealArray() (PoolRealArray, bool) {
	p, ok := v.val.(PoolRealArray)
	return p, ok && v.kind == TypePoolRealArray
}

func (v Variant) AsPoolStringArray() (PoolStringArray, bool) {
	p, ok := v.val.(PoolStringArray)
	return p, ok && v.kind == TypePoolStringArray
}

func (v Variant) AsPoolVector2Array() (PoolVector2Array, bool) {
	p, ok := v.val.(PoolVector2Array)
	return p, ok && v.kind == TypePoolVector2Array
}

func (v Variant) AsPoolVector3Array() (PoolVector3Array, bool) {
	p, ok := v.val.(PoolVector3Array)
	return p, ok && v.kind == TypePoolVector3Array
}

func (v Variant) AsPoolColorArray() (PoolColorArray, bool) {
	p, ok := v.val.(PoolColorArray)
	return p, ok && v.kind == TypePoolColorArray
}

// String renders the variant for logs. Never used as a wire format.
func (v Variant) String() string {
	switch v.kind {
	case TypeNil:
		return "Nil"
	case TypeObject:
		return fmt.Sprintf("Object(%d)", v.val.(gdnative.Handle))
	default:
		return fmt.Sprintf("%s(%v)", v.kind, v.val)
	}
}

// variantKey is a comparable rendering used for dictionary keys.
type variantKey struct {
	kind VariantType
	repr string
}

func (v Variant) hashKey() variantKey {
	return variantKey{kind: v.kind, repr: fmt.Sprintf("%v", v.val)}
}

// Equals compares two variants by tag and payload identity. Containers
// compare by reference, matching engine semantics for dictionary keys.
func (v Variant) Equals(other Variant) bool {
	return v.hashKey() == other.hashKey()
}
