package dispatch

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/errors"
)

// Varargs iterates the argument slice of one dispatched call. Arguments
// are consumed in order through Read; Done rejects unconsumed trailers.
type Varargs struct {
	args []core.Variant
	idx  int
}

// NewVarargs wraps an engine argument slice.
func NewVarargs(args []core.Variant) *Varargs {
	return &Varargs{args: args}
}

// Len returns the total argument count.
func (v *Varargs) Len() int { return len(v.args) }

// Remaining returns the number of unconsumed arguments.
func (v *Varargs) Remaining() int { return len(v.args) - v.idx }

// Rest consumes and returns all remaining arguments.
func (v *Varargs) Rest() []core.Variant {
	out := v.args[v.idx:]
	v.idx = len(v.args)
	return out
}

// Read starts binding the next argument.
func (v *Varargs) Read() *ArgReader {
	return &ArgReader{v: v, ordinal: v.idx}
}

// Done verifies every argument was consumed.
func (v *Varargs) Done() error {
	if v.idx < len(v.args) {
		return errors.ExcessArguments(len(v.args), v.idx)
	}
	return nil
}

// ArgReader binds one argument, carrying optional context that ends up in
// conversion errors.
type ArgReader struct {
	v        *Varargs
	ordinal  int
	name     string
	typeName string
}

// WithName records the declared argument name for error context.
func (r *ArgReader) WithName(name string) *ArgReader {
	r.name = name
	return r
}

// WithTypeName records the expected type spelling for error context.
func (r *ArgReader) WithTypeName(typeName string) *ArgReader {
	r.typeName = typeName
	return r
}

func (r *ArgReader) next() (core.Variant, bool) {
	if r.v.idx >= len(r.v.args) {
		return core.Variant{}, false
	}
	out := r.v.args[r.v.idx]
	r.v.idx++
	return out, true
}

func (r *ArgReader) convertError(v core.Variant, cause error) error {
	name := r.name
	if name == "" {
		name = fmt.Sprintf("#%d", r.ordinal)
	}
	b := errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
		Path(name).
		Value(v).
		Cause(cause).
		Detail("argument %d cannot be converted", r.ordinal)
	if r.typeName != "" {
		b = b.GoType(r.typeName)
	}
	return b.EngineType(v.Type().String()).Build()
}

// Get consumes the next argument and converts it to T. A missing argument
// and a failed conversion are both errors.
func Get[T any](r *ArgReader) (T, error) {
	var out T
	v, ok := r.next()
	if !ok {
		return out, errors.MissingArgument(r.ordinal, r.name)
	}
	if err := core.FromVariantValue(v, &out); err != nil {
		return out, r.convertError(v, err)
	}
	return out, nil
}

// GetOptional consumes the next argument if present. An absent or nil
// argument yields the zero value and ok=false; only a present argument
// that fails to convert is an error.
func GetOptional[T any](r *ArgReader) (T, bool, error) {
	var out T
	v, ok := r.next()
	if !ok || v.IsNil() {
		return out, false, nil
	}
	if err := core.FromVariantValue(v, &out); err != nil {
		return out, false, r.convertError(v, err)
	}
	return out, true, nil
}

// FromVarargs fills a struct from the argument list, one field per
// argument in declaration order. The `variant` tag renames a field for
// error messages; `,opt` marks it optional, `,skip` and `-` leave it at
// its zero value without consuming an argument.
func FromVarargs(va *Varargs, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.InvalidInput(errors.PhaseDispatch, "FromVarargs needs a non-nil struct pointer")
	}
	elem := rv.Elem()
	rt := elem.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opt, skip := fieldTag(field)
		if skip {
			continue
		}

		r := va.Read().WithName(name).WithTypeName(field.Type.String())
		v, present := r.next()
		if !present || v.IsNil() {
			if opt {
				continue
			}
			return errors.MissingArgument(r.ordinal, name)
		}
		if err := core.FromVariantValue(v, elem.Field(i).Addr().Interface()); err != nil {
			return r.convertError(v, err)
		}
	}
	return va.Done()
}

// fieldTag reads the `variant` struct tag for argument binding.
func fieldTag(field reflect.StructField) (name string, opt, skip bool) {
	name = field.Name
	tag, ok := field.Tag.Lookup("variant")
	if !ok {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return name, false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		switch p {
		case "opt":
			opt = true
		case "skip":
			skip = true
		}
	}
	return name, opt, skip
}
