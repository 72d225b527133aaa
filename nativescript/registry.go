package nativescript

import (
	"sync"

	"go.uber.org/zap"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/errors"
	"github.com/gdnative-go/gdnative/object"
	"github.com/gdnative-go/gdnative/sys"
)

// InitHandle is the capability to register classes, handed to user code
// inside the nativescript init callback.
type InitHandle struct {
	log *zap.Logger
}

// NewInitHandle builds the registration capability.
func NewInitHandle() *InitHandle {
	return &InitHandle{log: sys.Logger().Named("nativescript")}
}

// ClassConfig describes one user class.
type ClassConfig[C any] struct {
	// Name is the engine-visible class name.
	Name string
	// Base is the engine base class; empty means "Reference".
	Base string
	// Tool marks the class as runnable inside the editor.
	Tool bool
	// New constructs the instance for a fresh owner. Nil constructs the
	// zero value.
	New func(owner object.AnyObject) *C
	// Wrap selects the user-data policy. Nil means WrapDefault.
	Wrap Wrapper[C]
	// Register, when set, attaches methods, properties and signals.
	Register func(b *ClassBuilder[C])
}

// Process-unique type tags, allocated per class name on first use.
var typeTags = struct {
	mu      sync.Mutex
	next    uint64
	byClass map[string]gdnative.TypeTag
}{next: 1, byClass: make(map[string]gdnative.TypeTag)}

// TypeTagFor returns the stable non-zero tag of a class name.
func TypeTagFor(class string) gdnative.TypeTag {
	typeTags.mu.Lock()
	defer typeTags.mu.Unlock()
	if tag, ok := typeTags.byClass[class]; ok {
		return tag
	}
	tag := gdnative.TypeTag(typeTags.next)
	typeTags.next++
	typeTags.byClass[class] = tag
	return tag
}

// RegisterClass publishes a user class to the engine: constructor and
// destructor thunks, a type tag, and whatever the Register callback
// attaches. Valid only inside the init callback.
func RegisterClass[C any](h *InitHandle, cfg ClassConfig[C]) error {
	if cfg.Name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "class name must not be empty")
	}
	if cfg.Base == "" {
		cfg.Base = "Reference"
	}
	if !sys.RegistrationOpen() {
		return errors.Frozen("class registration")
	}

	wrap := cfg.Wrap
	if wrap == nil {
		wrap = WrapDefault[C]
	}
	log := h.log.With(zap.String("class", cfg.Name))

	create := func(owner gdnative.Handle) (ud gdnative.UserData) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("constructor panicked", zap.Any("panic", r))
				ud = 0
			}
		}()
		var val *C
		if cfg.New != nil {
			val = cfg.New(object.NewAny(owner))
		} else {
			val = new(C)
		}
		if val == nil {
			log.Error("constructor returned nil")
			return 0
		}
		return wrap(val).IntoRaw()
	}

	destroy := func(owner gdnative.Handle, ud gdnative.UserData) {
		if ud == 0 {
			// Failed constructor; tolerated by contract.
			log.Warn("destroying instance with zero user data")
			return
		}
		if !releaseRaw(ud) {
			log.Warn("user data destroyed twice", zap.Uint64("ud", uint64(ud)))
		}
	}

	rec := sys.ClassRecord{
		Name:    cfg.Name,
		Base:    cfg.Base,
		Tool:    cfg.Tool,
		Create:  create,
		Destroy: destroy,
	}
	if err := sys.Get().RegisterClass(rec); err != nil {
		return errors.Wrap(errors.PhaseRegister, errors.KindDuplicate, err, "register "+cfg.Name)
	}
	sys.Get().SetClassTypeTag(cfg.Name, TypeTagFor(cfg.Name))
	log.Debug("class registered", zap.String("base", cfg.Base))

	if cfg.Register != nil {
		b := &ClassBuilder[C]{class: cfg.Name, log: log}
		cfg.Register(b)
		if b.err != nil {
			return b.err
		}
	}
	return nil
}
