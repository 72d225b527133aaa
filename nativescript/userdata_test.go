package nativescript

import (
	stderrors "errors"
	"testing"

	gderrors "github.com/gdnative-go/gdnative/errors"
)

type counter struct {
	count int64
}

func kindOf(t *testing.T, err error) gderrors.Kind {
	t.Helper()
	var e *gderrors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("not a structured error: %v", err)
	}
	return e.Kind
}

func TestDefaultUserDataAccess(t *testing.T) {
	ud := WrapDefault(&counter{})

	if err := ud.MapMut(func(c *counter) { c.count = 41 }); err != nil {
		t.Fatalf("MapMut: %v", err)
	}
	var got int64
	if err := ud.Map(func(c *counter) { got = c.count }); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got != 41 {
		t.Errorf("count = %d, want 41", got)
	}
}

func TestDefaultUserDataContention(t *testing.T) {
	ud := WrapDefault(&counter{})
	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = ud.MapMut(func(c *counter) {
			close(acquired)
			<-release
		})
	}()
	<-acquired

	err := ud.Map(func(c *counter) {})
	if err == nil {
		t.Error("Map should fail while a writer holds the lock")
	} else if kindOf(t, err) != gderrors.KindContended {
		t.Errorf("kind = %v, want contended", kindOf(t, err))
	}
	if err := ud.MapMut(func(c *counter) {}); err == nil {
		t.Error("MapMut should fail while a writer holds the lock")
	}

	close(release)
	<-done
}

func TestMutexDataAccess(t *testing.T) {
	ud := WrapMutex(&counter{})
	if err := ud.MapMut(func(c *counter) { c.count = 7 }); err != nil {
		t.Fatalf("MapMut: %v", err)
	}
	var got int64
	if err := ud.Map(func(c *counter) { got = c.count }); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
}

func TestLocalCellOffGoroutine(t *testing.T) {
	ud := WrapLocalCell(&counter{count: 3})

	if err := ud.Map(func(c *counter) {}); err != nil {
		t.Fatalf("origin-goroutine access failed: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- ud.Map(func(c *counter) {})
	}()
	err := <-errCh
	if err == nil {
		t.Fatal("access from another goroutine should fail")
	}
	if kindOf(t, err) != gderrors.KindWrongThread {
		t.Errorf("kind = %v, want wrong_thread", kindOf(t, err))
	}
}

func TestLocalCellReentrantBorrow(t *testing.T) {
	ud := WrapLocalCell(&counter{})
	err := ud.Map(func(c *counter) {
		if inner := ud.MapMut(func(c *counter) {}); inner == nil {
			t.Error("re-entrant borrow should fail")
		} else if kindOf(t, inner) != gderrors.KindContended {
			t.Errorf("kind = %v, want contended", kindOf(t, inner))
		}
	})
	if err != nil {
		t.Fatalf("outer borrow: %v", err)
	}
}

func TestAetherYieldsFreshDefault(t *testing.T) {
	ud := WrapAether(&counter{count: 99})

	if err := ud.MapMut(func(c *counter) { c.count = 5 }); err != nil {
		t.Fatalf("MapMut: %v", err)
	}
	var got int64 = -1
	if err := ud.Map(func(c *counter) { got = c.count }); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got != 0 {
		t.Errorf("count = %d, want fresh zero value", got)
	}

	owned, ok := ud.(OwnedUserData[counter])
	if !ok {
		t.Fatal("Aether should support owned access")
	}
	if err := owned.MapOwned(func(c counter) {}); err != nil {
		t.Errorf("MapOwned: %v", err)
	}
}

func TestArcDataImmutable(t *testing.T) {
	ud := WrapArc(&counter{count: 12})

	var got int64
	if err := ud.Map(func(c *counter) { got = c.count }); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got != 12 {
		t.Errorf("count = %d, want 12", got)
	}

	err := ud.MapMut(func(c *counter) { c.count = 1 })
	if err == nil {
		t.Fatal("MapMut should be refused")
	}
	if kindOf(t, err) != gderrors.KindUnsupported {
		t.Errorf("kind = %v, want unsupported", kindOf(t, err))
	}
}

func TestRawRoundTrip(t *testing.T) {
	ud := WrapDefault(&counter{count: 8})

	raw := ud.IntoRaw()
	if raw == 0 {
		t.Fatal("IntoRaw returned zero id")
	}
	if again := ud.IntoRaw(); again != raw {
		t.Errorf("IntoRaw not idempotent: %d then %d", raw, again)
	}

	back, ok := FromRaw[counter](raw)
	if !ok {
		t.Fatal("FromRaw failed")
	}
	var got int64
	if err := back.Map(func(c *counter) { got = c.count }); err != nil {
		t.Fatalf("Map through recovered wrapper: %v", err)
	}
	if got != 8 {
		t.Errorf("count = %d, want 8", got)
	}

	// Wrong target type fails the round-trip.
	if _, ok := FromRaw[string](raw); ok {
		t.Error("FromRaw with mismatched type should fail")
	}

	if !releaseRaw(raw) {
		t.Error("first release should succeed")
	}
	if releaseRaw(raw) {
		t.Error("second release should fail")
	}
	if _, ok := FromRaw[counter](raw); ok {
		t.Error("FromRaw after release should fail")
	}
}
