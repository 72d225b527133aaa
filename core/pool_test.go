package core

import "testing"

func TestPoolByteArrayCopyOnWrite(t *testing.T) {
	arr := NewPoolByteArray(0, 1, 2, 3, 4, 5, 6, 7)

	before := arr.Read()
	defer before.Release()

	w := arr.Write()
	for i := range w.Slice() {
		w.Slice()[i] *= 2
	}
	w.Release()

	after := arr.Read()
	defer after.Release()

	want := []byte{0, 2, 4, 6, 8, 10, 12, 14}
	got := after.Slice()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("after[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	// The reader taken before the write still sees the original data.
	orig := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	for i, v := range before.Slice() {
		if v != orig[i] {
			t.Errorf("before[%d] = %d, want %d", i, v, orig[i])
		}
	}
}

func TestPoolWriteAccessDiscardedUntilRelease(t *testing.T) {
	arr := NewPoolIntArray(1, 2, 3)

	w := arr.Write()
	w.Slice()[0] = 99

	r := arr.Read()
	if r.Slice()[0] != 1 {
		t.Errorf("write leaked before release: got %d", r.Slice()[0])
	}
	r.Release()

	w.Release()
	r2 := arr.Read()
	if r2.Slice()[0] != 99 {
		t.Errorf("write not committed on release: got %d", r2.Slice()[0])
	}
	r2.Release()
}

func TestPoolAccessAfterRelease(t *testing.T) {
	arr := NewPoolByteArray(1)
	r := arr.Read()
	r.Release()
	if r.Slice() != nil {
		t.Error("expected nil slice after release")
	}

	w := arr.Write()
	w.Release()
	w.Release() // second release is a no-op
	if w.Slice() != nil {
		t.Error("expected nil slice after release")
	}
}

func TestPoolNewRefShares(t *testing.T) {
	arr := NewPoolStringArray("a")
	ref := arr.NewRef()
	arr.Append("b")
	if ref.Len() != 2 {
		t.Fatalf("ref.Len() = %d, want 2", ref.Len())
	}
}
