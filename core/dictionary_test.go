package core

import "testing"

func TestDictionaryContains(t *testing.T) {
	d := NewDictionary()
	d.Set(StringVariant("foo"), IntVariant(42))
	d.Set(StringVariant("bar"), IntVariant(1337))

	if !d.Contains(StringVariant("foo")) {
		t.Error(`Contains("foo") = false, want true`)
	}
	if d.Contains(StringVariant("nope")) {
		t.Error(`Contains("nope") = true, want false`)
	}

	keys := d.Keys()
	if !d.ContainsAll(keys) {
		t.Error("dictionary does not contain its own key set")
	}

	subset := NewVariantArray()
	subset.PushBack(StringVariant("bar"))
	if !d.ContainsAll(subset) {
		t.Error("ContainsAll rejected a subset")
	}

	superset := NewVariantArray()
	superset.PushBack(StringVariant("foo"))
	superset.PushBack(StringVariant("missing"))
	if d.ContainsAll(superset) {
		t.Error("ContainsAll accepted a non-subset")
	}
}

func TestDictionaryInsertionOrder(t *testing.T) {
	d := NewDictionary()
	d.Set(StringVariant("z"), IntVariant(1))
	d.Set(StringVariant("a"), IntVariant(2))
	d.Set(StringVariant("m"), IntVariant(3))

	keys := d.Keys()
	want := []string{"z", "a", "m"}
	for i, w := range want {
		got, _ := keys.Get(i).AsString()
		if got != w {
			t.Errorf("keys[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestDictionaryOverwriteAndErase(t *testing.T) {
	d := NewDictionary()
	d.Set(IntVariant(1), StringVariant("one"))
	d.Set(IntVariant(1), StringVariant("uno"))
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
	v, _ := d.Get(IntVariant(1))
	if s, _ := v.AsString(); s != "uno" {
		t.Errorf("value = %q, want uno", s)
	}

	if !d.Erase(IntVariant(1)) {
		t.Error("Erase returned false for present key")
	}
	if d.Erase(IntVariant(1)) {
		t.Error("Erase returned true for absent key")
	}
}

func TestDictionaryNewRefShares(t *testing.T) {
	d := NewDictionary()
	ref := d.NewRef()
	d.Set(StringVariant("k"), IntVariant(7))
	if !ref.Contains(StringVariant("k")) {
		t.Error("NewRef does not share storage")
	}
}
