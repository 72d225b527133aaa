package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(PhaseConvert, KindTypeMismatch).
		Path("args", "velocity").
		GoType("string").
		EngineType("Vector2").
		Detail("cannot convert").
		Build()

	msg := err.Error()
	for _, want := range []string{"[convert]", "type_mismatch", "args.velocity", "Go type string", "engine type Vector2", "cannot convert"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestErrorIs(t *testing.T) {
	err := Contended("MyClass")
	if !stderrors.Is(err, &Error{Phase: PhaseDispatch, Kind: KindContended}) {
		t.Error("expected Is to match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseDispatch, Kind: KindWrongThread}) {
		t.Error("expected Is to reject different kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := ParseFailed("api.json", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via Unwrap")
	}
	if !strings.Contains(err.Error(), "caused by: boom") {
		t.Errorf("cause not rendered: %s", err.Error())
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
		want string
	}{
		{NotBound("core API table"), KindNotBound, "core API table accessed before binding"},
		{DuplicateClass(PhaseRegister, "Foo"), KindDuplicate, `class "Foo" already registered`},
		{MissingArgument(2, "speed"), KindMissingArg, "missing argument #2 (speed)"},
		{ExcessArguments(4, 3), KindExcessArgs, "got 4 arguments, expected 3"},
		{WrongThread("Cell"), KindWrongThread, "origin goroutine"},
		{NoSpawner(), KindNoSpawner, "no local task spawner"},
	}

	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
		}
		if !strings.Contains(tt.err.Error(), tt.want) {
			t.Errorf("message %q missing %q", tt.err.Error(), tt.want)
		}
	}
}

func TestPanicked(t *testing.T) {
	err := Panicked("player.go:42 (Damage)", "oh no")
	if err.Kind != KindPanic {
		t.Fatalf("kind = %s", err.Kind)
	}
	if !strings.Contains(err.Error(), "player.go:42") {
		t.Errorf("site missing: %s", err.Error())
	}
}
