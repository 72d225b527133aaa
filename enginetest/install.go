package enginetest

import (
	"testing"

	"github.com/gdnative-go/gdnative/sys"
)

// Install binds a fresh fake engine through the normal init entrypoint and
// unbinds it when the test finishes.
func Install(t *testing.T) *Engine {
	t.Helper()
	if sys.Bound() {
		t.Fatal("ABI table already bound; a previous test leaked it")
	}
	eng := New()
	sys.GDNativeInit(sys.InitOptions{API: eng})
	t.Cleanup(sys.GDNativeTerminate)
	return eng
}
