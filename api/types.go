package api

import "strings"

// TypeKind discriminates the closed type sum of the manifest.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindNodePath
	KindVariant
	KindVector2
	KindVector3
	KindRect2
	KindTransform2D
	KindPlane
	KindQuat
	KindAABB
	KindBasis
	KindTransform
	KindColor
	KindRID
	KindDictionary
	KindVariantArray
	KindPoolByteArray
	KindPoolIntArray
	KindPoolRealArray
	KindPoolStringArray
	KindPoolVector2Array
	KindPoolVector3Array
	KindPoolColorArray
	KindEnum
	KindObject
)

// Type is one parsed type descriptor.
type Type struct {
	Kind TypeKind
	// Class is the engine class name for KindObject.
	Class string
	// EnumClass and EnumName identify a class-scoped enum for KindEnum.
	EnumClass string
	EnumName  string
}

var simpleTypes = map[string]TypeKind{
	"void":             KindVoid,
	"bool":             KindBool,
	"int":              KindInt,
	"float":            KindFloat,
	"String":           KindString,
	"NodePath":         KindNodePath,
	"Variant":          KindVariant,
	"Vector2":          KindVector2,
	"Vector3":          KindVector3,
	"Rect2":            KindRect2,
	"Transform2D":      KindTransform2D,
	"Plane":            KindPlane,
	"Quat":             KindQuat,
	"AABB":             KindAABB,
	"Basis":            KindBasis,
	"Transform":        KindTransform,
	"Color":            KindColor,
	"RID":              KindRID,
	"Dictionary":       KindDictionary,
	"Array":            KindVariantArray,
	"PoolByteArray":    KindPoolByteArray,
	"PoolIntArray":     KindPoolIntArray,
	"PoolRealArray":    KindPoolRealArray,
	"PoolStringArray":  KindPoolStringArray,
	"PoolVector2Array": KindPoolVector2Array,
	"PoolVector3Array": KindPoolVector3Array,
	"PoolColorArray":   KindPoolColorArray,
}

// ParseType translates an engine type spelling into the type sum. A string
// beginning with "enum." is split at "::" into (class, enum name); any
// other unknown spelling is an object class reference.
func ParseType(s string) Type {
	if s == "" {
		return Type{Kind: KindVoid}
	}
	if k, ok := simpleTypes[s]; ok {
		return Type{Kind: k}
	}
	if rest, ok := strings.CutPrefix(s, "enum."); ok {
		class, name, found := strings.Cut(rest, "::")
		if !found {
			// Global-scope enums degrade to int.
			return Type{Kind: KindInt}
		}
		return Type{Kind: KindEnum, EnumClass: class, EnumName: name}
	}
	return Type{Kind: KindObject, Class: s}
}

// goSpelling is the fixed engine-to-Go translation table for non-object
// types, as they appear in emitted code.
var goSpelling = map[TypeKind]string{
	KindBool:             "bool",
	KindInt:              "int64",
	KindFloat:            "float64",
	KindString:           "string",
	KindNodePath:         "core.NodePath",
	KindVariant:          "core.Variant",
	KindVector2:          "core.Vector2",
	KindVector3:          "core.Vector3",
	KindRect2:            "core.Rect2",
	KindTransform2D:      "core.Transform2D",
	KindPlane:            "core.Plane",
	KindQuat:             "core.Quat",
	KindAABB:             "core.AABB",
	KindBasis:            "core.Basis",
	KindTransform:        "core.Transform",
	KindColor:            "core.Color",
	KindRID:              "core.RID",
	KindDictionary:       "core.Dictionary",
	KindVariantArray:     "core.VariantArray",
	KindPoolByteArray:    "core.PoolByteArray",
	KindPoolIntArray:     "core.PoolIntArray",
	KindPoolRealArray:    "core.PoolRealArray",
	KindPoolStringArray:  "core.PoolStringArray",
	KindPoolVector2Array: "core.PoolVector2Array",
	KindPoolVector3Array: "core.PoolVector3Array",
	KindPoolColorArray:   "core.PoolColorArray",
}

// GoSpelling returns the implementation-language spelling of the type as
// used by the emitter. Void yields the empty string.
func (t Type) GoSpelling() string {
	switch t.Kind {
	case KindVoid:
		return ""
	case KindEnum:
		return TranslateClassName(t.EnumClass) + t.EnumName
	case KindObject:
		return TranslateClassName(t.Class)
	default:
		return goSpelling[t.Kind]
	}
}

// HasDirectABI reports whether the type crosses the boundary without
// variant boxing; types that fail this force the variant-call trampoline.
// Object handles are direct; only Variant itself requires boxing.
func (t Type) HasDirectABI() bool {
	return t.Kind != KindVariant
}

// TranslateClassName strips the underscore marker from manifest class
// names; all other names pass through.
func TranslateClassName(name string) string {
	return strings.TrimPrefix(name, "_")
}
