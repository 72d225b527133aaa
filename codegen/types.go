package codegen

import "github.com/gdnative-go/gdnative/api"

// conv describes how one erased type kind crosses the trampoline boundary:
// its signature token, the core constructor that boxes it into a variant,
// the accessor that unboxes a returned variant, and its Go spelling.
type conv struct {
	token    string
	ctor     string // core constructor, e.g. BoolVariant
	accessor string // core.Variant accessor, e.g. AsBool
	prim     string // builtin spelling when not a core type
	coreType string // named type in the core package
	handle   bool   // engine object handle
	variant  bool   // passes through as core.Variant unboxed
}

var convs = map[api.TypeKind]conv{
	api.KindVoid:    {token: "Void"},
	api.KindBool:    {token: "Bool", ctor: "BoolVariant", accessor: "AsBool", prim: "bool"},
	api.KindInt:     {token: "I64", ctor: "IntVariant", accessor: "AsInt", prim: "int64"},
	api.KindFloat:   {token: "F64", ctor: "FloatVariant", accessor: "AsFloat", prim: "float64"},
	api.KindString:  {token: "Str", ctor: "StringVariant", accessor: "AsString", prim: "string"},
	api.KindVariant: {token: "Var", variant: true},

	api.KindNodePath:    {token: "Np", ctor: "NodePathVariant", accessor: "AsNodePath", coreType: "NodePath"},
	api.KindVector2:     {token: "Vec2", ctor: "Vector2Variant", accessor: "AsVector2", coreType: "Vector2"},
	api.KindVector3:     {token: "Vec3", ctor: "Vector3Variant", accessor: "AsVector3", coreType: "Vector3"},
	api.KindRect2:       {token: "Rect2", ctor: "Rect2Variant", accessor: "AsRect2", coreType: "Rect2"},
	api.KindTransform2D: {token: "Xform2", ctor: "Transform2DVariant", accessor: "AsTransform2D", coreType: "Transform2D"},
	api.KindPlane:       {token: "Plane", ctor: "PlaneVariant", accessor: "AsPlane", coreType: "Plane"},
	api.KindQuat:        {token: "Quat", ctor: "QuatVariant", accessor: "AsQuat", coreType: "Quat"},
	api.KindAABB:        {token: "Aabb", ctor: "AABBVariant", accessor: "AsAABB", coreType: "AABB"},
	api.KindBasis:       {token: "Basis", ctor: "BasisVariant", accessor: "AsBasis", coreType: "Basis"},
	api.KindTransform:   {token: "Xform", ctor: "TransformVariant", accessor: "AsTransform", coreType: "Transform"},
	api.KindColor:       {token: "Color", ctor: "ColorVariant", accessor: "AsColor", coreType: "Color"},
	api.KindRID:         {token: "Rid", ctor: "RIDVariant", accessor: "AsRID", coreType: "RID"},

	api.KindDictionary:   {token: "Dict", ctor: "DictionaryVariant", accessor: "AsDictionary", coreType: "Dictionary"},
	api.KindVariantArray: {token: "Arr", ctor: "ArrayVariant", accessor: "AsArray", coreType: "VariantArray"},

	api.KindPoolByteArray:    {token: "Pba", ctor: "PoolByteArrayVariant", accessor: "AsPoolByteArray", coreType: "PoolByteArray"},
	api.KindPoolIntArray:     {token: "Pia", ctor: "PoolIntArrayVariant", accessor: "AsPoolIntArray", coreType: "PoolIntArray"},
	api.KindPoolRealArray:    {token: "Pra", ctor: "PoolRealArrayVariant", accessor: "AsPoolRealArray", coreType: "PoolRealArray"},
	api.KindPoolStringArray:  {token: "Psa", ctor: "PoolStringArrayVariant", accessor: "AsPoolStringArray", coreType: "PoolStringArray"},
	api.KindPoolVector2Array: {token: "Pv2a", ctor: "PoolVector2ArrayVariant", accessor: "AsPoolVector2Array", coreType: "PoolVector2Array"},
	api.KindPoolVector3Array: {token: "Pv3a", ctor: "PoolVector3ArrayVariant", accessor: "AsPoolVector3Array", coreType: "PoolVector3Array"},
	api.KindPoolColorArray:   {token: "Pca", ctor: "PoolColorArrayVariant", accessor: "AsPoolColorArray", coreType: "PoolColorArray"},

	api.KindObject: {token: "Obj", ctor: "ObjectVariant", accessor: "AsObject", handle: true},
}

// erase collapses a type to its trampoline kind: enums marshal as int64 and
// every object class shares the handle shape.
func erase(k api.TypeKind) api.TypeKind {
	if k == api.KindEnum {
		return api.KindInt
	}
	return k
}

func convFor(k api.TypeKind) conv {
	return convs[erase(k)]
}
