package core

import "fmt"

// EnumRepr selects the wire shape of an enum codec.
type EnumRepr int

const (
	// ReprExternal is the default: an externally tagged dictionary
	// { variant_name: payload }, payload nil for unit variants.
	ReprExternal EnumRepr = iota
	// ReprStr encodes the variant name as a string.
	ReprStr
	// ReprInt encodes the variant's declaration ordinal as an integer.
	ReprInt
)

// EnumCodec converts values of a closed Go "enum" type to and from
// variants. Variants are declared in order; declaration order is the
// ordinal used by ReprInt.
type EnumCodec[T comparable] struct {
	enumName string
	repr     EnumRepr
	names    []string
	byName   map[string]T
	byValue  map[T]string
	ordinals map[string]int64
}

// NewEnumCodec starts a codec for the named enum type.
func NewEnumCodec[T comparable](enumName string) *EnumCodec[T] {
	return &EnumCodec[T]{
		enumName: enumName,
		byName:   make(map[string]T),
		byValue:  make(map[T]string),
		ordinals: make(map[string]int64),
	}
}

// Variant declares a named variant. Declaration order is significant.
func (c *EnumCodec[T]) Variant(name string, value T) *EnumCodec[T] {
	if _, dup := c.byName[name]; !dup {
		c.ordinals[name] = int64(len(c.names))
		c.names = append(c.names, name)
	}
	c.byName[name] = value
	c.byValue[value] = name
	return c
}

// WithRepr overrides the default external tagging.
func (c *EnumCodec[T]) WithRepr(repr EnumRepr) *EnumCodec[T] {
	c.repr = repr
	return c
}

// Names returns the declared variant names in order.
func (c *EnumCodec[T]) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// ToVariant encodes a value. Unknown values fail with CustomError.
func (c *EnumCodec[T]) ToVariant(v T) (Variant, error) {
	name, ok := c.byValue[v]
	if !ok {
		return Variant{}, CustomError{Message: fmt.Sprintf("value %v is not a declared %s variant", v, c.enumName)}
	}
	switch c.repr {
	case ReprStr:
		return StringVariant(name), nil
	case ReprInt:
		return IntVariant(c.ordinals[name]), nil
	default:
		dict := NewDictionary()
		dict.Set(StringVariant(name), Variant{})
		return DictionaryVariant(dict), nil
	}
}

// FromVariant decodes a value. A tag naming no declared variant yields
// UnknownEnumVariantError carrying the full expected list; a payload of
// the wrong shape yields InvalidEnumReprError.
func (c *EnumCodec[T]) FromVariant(v Variant) (T, error) {
	var zero T
	switch c.repr {
	case ReprStr:
		s, ok := v.AsString()
		if !ok {
			return zero, InvalidEnumReprError{Expected: c.enumName, Err: typeError(TypeString, v.Type())}
		}
		return c.lookup(s)
	case ReprInt:
		i, ok := v.AsInt()
		if !ok {
			return zero, InvalidEnumReprError{Expected: c.enumName, Err: typeError(TypeInt, v.Type())}
		}
		if i < 0 || i >= int64(len(c.names)) {
			return zero, UnknownEnumVariantError{Variant: fmt.Sprint(i), Expected: c.Names()}
		}
		return c.byName[c.names[i]], nil
	default:
		dict, ok := v.AsDictionary()
		if !ok {
			return zero, InvalidEnumReprError{Expected: c.enumName, Err: typeError(TypeDictionary, v.Type())}
		}
		if dict.Len() != 1 {
			return zero, InvalidEnumReprError{
				Expected: c.enumName,
				Err:      InvalidLengthError{Expected: 1, Got: dict.Len()},
			}
		}
		tag, ok := dict.Keys().Get(0).AsString()
		if !ok {
			return zero, InvalidEnumReprError{Expected: c.enumName, Err: typeError(TypeString, dict.Keys().Get(0).Type())}
		}
		return c.lookup(tag)
	}
}

func (c *EnumCodec[T]) lookup(name string) (T, error) {
	v, ok := c.byName[name]
	if !ok {
		var zero T
		return zero, UnknownEnumVariantError{Variant: name, Expected: c.Names()}
	}
	return v, nil
}
