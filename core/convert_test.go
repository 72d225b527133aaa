package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	values := []any{true, int64(-7), 3.5, "hello"}
	for _, in := range values {
		v, err := ToVariantValue(in)
		if err != nil {
			t.Fatalf("ToVariantValue(%v): %v", in, err)
		}
		out := reflect.New(reflect.TypeOf(in))
		if err := FromVariantValue(v, out.Interface()); err != nil {
			t.Fatalf("FromVariantValue(%v): %v", in, err)
		}
		if got := out.Elem().Interface(); got != in {
			t.Errorf("round trip %v -> %v", in, got)
		}
	}
}

type velocity struct {
	X float64
	Y float64
}

type playerState struct {
	Name     string
	Health   int64
	Velocity velocity
	Nick     string `variant:"nickname,opt"`
	Cache    int64  `variant:",skip"`
}

func TestStructRoundTrip(t *testing.T) {
	in := playerState{Name: "bob", Health: 10, Velocity: velocity{X: 1, Y: 2}}
	v, err := ToVariantValue(in)
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := v.AsDictionary()
	if !ok {
		t.Fatalf("expected dictionary, got %s", v.Type())
	}
	if dict.Contains(StringVariant("Cache")) {
		t.Error("skip field was encoded")
	}

	var out playerState
	if err := FromVariantValue(v, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestStructMissingField(t *testing.T) {
	dict := NewDictionary()
	dict.Set(StringVariant("Name"), StringVariant("x"))
	var out playerState
	err := FromVariantValue(DictionaryVariant(dict), &out)
	var fe FieldError
	if !errors.As(err, &fe) || fe.Field != "Health" {
		t.Fatalf("expected FieldError on Health, got %v", err)
	}
	if !errors.As(fe.Err, &InvalidNilError{}) {
		t.Errorf("expected InvalidNilError inside, got %v", fe.Err)
	}
}

func TestUnitStructIsNil(t *testing.T) {
	type unit struct{}
	v, err := ToVariantValue(unit{})
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsNil() {
		t.Errorf("unit struct produced %s, want Nil", v.Type())
	}
	var u unit
	if err := FromVariantValue(v, &u); err != nil {
		t.Errorf("unit struct decode: %v", err)
	}
}

func TestSliceRoundTrip(t *testing.T) {
	in := []int64{5, 6, 7}
	v, err := ToVariantValue(in)
	if err != nil {
		t.Fatal(err)
	}
	var out []int64
	if err := FromVariantValue(v, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip %v -> %v", in, out)
	}
}

func TestSliceElementError(t *testing.T) {
	arr := NewVariantArray()
	arr.PushBack(IntVariant(1))
	arr.PushBack(StringVariant("oops"))
	var out []int64
	err := FromVariantValue(ArrayVariant(arr), &out)
	var ee ElementError
	if !errors.As(err, &ee) || ee.Index != 1 {
		t.Fatalf("expected ElementError at index 1, got %v", err)
	}
}

func TestInvalidType(t *testing.T) {
	var s string
	err := FromVariantValue(IntVariant(1), &s)
	var te InvalidTypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected InvalidTypeError, got %v", err)
	}
	if te.Expected != TypeString || te.Got != TypeInt {
		t.Errorf("got %+v", te)
	}
}

type direction int

const (
	north direction = iota
	south
	east
)

func directionCodec() *EnumCodec[direction] {
	return NewEnumCodec[direction]("Direction").
		Variant("North", north).
		Variant("South", south).
		Variant("East", east)
}

func TestEnumCodecExternalRoundTrip(t *testing.T) {
	c := directionCodec()
	for _, d := range []direction{north, south, east} {
		v, err := c.ToVariant(d)
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.FromVariant(v)
		if err != nil {
			t.Fatal(err)
		}
		if got != d {
			t.Errorf("round trip %v -> %v", d, got)
		}
	}
}

func TestEnumCodecUnknownVariant(t *testing.T) {
	c := directionCodec()
	dict := NewDictionary()
	dict.Set(StringVariant("West"), Variant{})
	_, err := c.FromVariant(DictionaryVariant(dict))
	var ue UnknownEnumVariantError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownEnumVariantError, got %v", err)
	}
	if ue.Variant != "West" {
		t.Errorf("variant = %q", ue.Variant)
	}
	want := []string{"North", "South", "East"}
	if !reflect.DeepEqual(ue.Expected, want) {
		t.Errorf("expected list = %v, want %v", ue.Expected, want)
	}
}

func TestEnumCodecReprs(t *testing.T) {
	c := directionCodec().WithRepr(ReprStr)
	v, _ := c.ToVariant(south)
	if s, _ := v.AsString(); s != "South" {
		t.Errorf("str repr = %q", s)
	}

	ci := directionCodec().WithRepr(ReprInt)
	v, _ = ci.ToVariant(east)
	if i, _ := v.AsInt(); i != 2 {
		t.Errorf("int repr = %d, want 2", i)
	}
	if _, err := ci.FromVariant(IntVariant(9)); err == nil {
		t.Error("expected error for out-of-range ordinal")
	}
}

func TestEnumCodecBadRepr(t *testing.T) {
	c := directionCodec()
	_, err := c.FromVariant(IntVariant(1))
	var re InvalidEnumReprError
	if !errors.As(err, &re) {
		t.Fatalf("expected InvalidEnumReprError, got %v", err)
	}
}
