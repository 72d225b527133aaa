package core

import (
	"fmt"
	"reflect"
	"strings"
)

// ToVariant converts a value into a variant without consuming it.
type ToVariant interface {
	ToVariant() Variant
}

// OwnedToVariant converts a value into a variant, moving ownership of any
// engine-side payload into the variant. Types whose ToVariant would need a
// fresh reference implement this instead.
type OwnedToVariant interface {
	OwnedToVariant() Variant
}

// FromVariant populates the receiver from a variant. Implementations report
// failures with the conversion error sum in varerr.go.
type FromVariant interface {
	FromVariant(Variant) error
}

// ToVariantValue converts an arbitrary Go value using the structural
// mapping: nil-like to nil, scalars to their tags, slices to variant
// arrays, maps and structs to dictionaries keyed by field name. Types
// implementing ToVariant take precedence.
func ToVariantValue(value any) (Variant, error) {
	if value == nil {
		return Variant{}, nil
	}
	switch v := value.(type) {
	case Variant:
		return v, nil
	case ToVariant:
		return v.ToVariant(), nil
	case bool:
		return BoolVariant(v), nil
	case int:
		return IntVariant(int64(v)), nil
	case int32:
		return IntVariant(int64(v)), nil
	case int64:
		return IntVariant(v), nil
	case uint32:
		return IntVariant(int64(v)), nil
	case float32:
		return FloatVariant(float64(v)), nil
	case float64:
		return FloatVariant(v), nil
	case string:
		return StringVariant(v), nil
	case []byte:
		return PoolByteArrayVariant(NewPoolByteArray(v...)), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Variant{}, nil
		}
		return ToVariantValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		arr := NewVariantArray()
		for i := 0; i < rv.Len(); i++ {
			elem, err := ToVariantValue(rv.Index(i).Interface())
			if err != nil {
				return Variant{}, ElementError{Index: i, Err: err}
			}
			arr.PushBack(elem)
		}
		return ArrayVariant(arr), nil
	case reflect.Map:
		dict := NewDictionary()
		iter := rv.MapRange()
		for iter.Next() {
			key, err := ToVariantValue(iter.Key().Interface())
			if err != nil {
				return Variant{}, err
			}
			val, err := ToVariantValue(iter.Value().Interface())
			if err != nil {
				return Variant{}, FieldError{Field: fmt.Sprint(iter.Key()), Err: err}
			}
			dict.Set(key, val)
		}
		return DictionaryVariant(dict), nil
	case reflect.Struct:
		if rv.NumField() == 0 {
			// Unit struct maps to nil.
			return Variant{}, nil
		}
		dict := NewDictionary()
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			name, opts := fieldSpec(field)
			if name == "-" {
				continue
			}
			if opts.skip {
				continue
			}
			val, err := ToVariantValue(rv.Field(i).Interface())
			if err != nil {
				return Variant{}, FieldError{Field: name, Err: err}
			}
			dict.Set(StringVariant(name), val)
		}
		return DictionaryVariant(dict), nil
	}

	return Variant{}, CustomError{Message: fmt.Sprintf("cannot convert %T to variant", value)}
}

// FromVariantValue populates dst (a non-nil pointer) from a variant using
// the structural mapping. Types implementing FromVariant take precedence.
func FromVariantValue(v Variant, dst any) error {
	switch d := dst.(type) {
	case *Variant:
		*d = v
		return nil
	case FromVariant:
		return d.FromVariant(v)
	case *bool:
		b, ok := v.AsBool()
		if !ok {
			return typeError(TypeBool, v.Type())
		}
		*d = b
		return nil
	case *int64:
		i, ok := v.AsInt()
		if !ok {
			return typeError(TypeInt, v.Type())
		}
		*d = i
		return nil
	case *int:
		i, ok := v.AsInt()
		if !ok {
			return typeError(TypeInt, v.Type())
		}
		*d = int(i)
		return nil
	case *int32:
		i, ok := v.AsInt()
		if !ok {
			return typeError(TypeInt, v.Type())
		}
		*d = int32(i)
		return nil
	case *float64:
		f, ok := v.AsFloat()
		if !ok {
			return typeError(TypeFloat, v.Type())
		}
		*d = f
		return nil
	case *float32:
		f, ok := v.AsFloat()
		if !ok {
			return typeError(TypeFloat, v.Type())
		}
		*d = float32(f)
		return nil
	case *string:
		s, ok := v.AsString()
		if !ok {
			return typeError(TypeString, v.Type())
		}
		*d = s
		return nil
	case *[]byte:
		p, ok := v.AsPoolByteArray()
		if !ok {
			return typeError(TypePoolByteArray, v.Type())
		}
		r := p.Read()
		buf := make([]byte, len(r.Slice()))
		copy(buf, r.Slice())
		r.Release()
		*d = buf
		return nil
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return CustomError{Message: fmt.Sprintf("destination %T is not a non-nil pointer", dst)}
	}
	elem := rv.Elem()

	switch elem.Kind() {
	case reflect.Slice:
		arr, ok := v.AsArray()
		if !ok {
			return typeError(TypeArray, v.Type())
		}
		out := reflect.MakeSlice(elem.Type(), arr.Len(), arr.Len())
		for i := 0; i < arr.Len(); i++ {
			if err := FromVariantValue(arr.Get(i), out.Index(i).Addr().Interface()); err != nil {
				return ElementError{Index: i, Err: err}
			}
		}
		elem.Set(out)
		return nil
	case reflect.Struct:
		if elem.NumField() == 0 {
			if !v.IsNil() {
				return typeError(TypeNil, v.Type())
			}
			return nil
		}
		dict, ok := v.AsDictionary()
		if !ok {
			return typeError(TypeDictionary, v.Type())
		}
		rt := elem.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			name, opts := fieldSpec(field)
			if name == "-" || opts.skip {
				continue
			}
			fv, found := dict.Get(StringVariant(name))
			if !found {
				if opts.opt {
					continue
				}
				return FieldError{Field: name, Err: InvalidNilError{}}
			}
			if err := FromVariantValue(fv, elem.Field(i).Addr().Interface()); err != nil {
				return FieldError{Field: name, Err: err}
			}
		}
		return nil
	}

	return CustomError{Message: fmt.Sprintf("cannot convert variant to %T", dst)}
}

type fieldOpts struct {
	opt  bool
	skip bool
}

// fieldSpec reads the `variant` struct tag: `variant:"name,opt"` renames
// and marks optional, `variant:"-"` excludes, `variant:",skip"` fills the
// field from its zero value on decode and omits it on encode.
func fieldSpec(field reflect.StructField) (string, fieldOpts) {
	name := field.Name
	var opts fieldOpts
	tag, ok := field.Tag.Lookup("variant")
	if !ok {
		return name, opts
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		switch p {
		case "opt":
			opts.opt = true
		case "skip":
			opts.skip = true
		}
	}
	return name, opts
}
