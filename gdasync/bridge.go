package gdasync

import (
	"sync"

	"go.uber.org/zap"

	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/core"
	"github.com/gdnative-go/gdnative/nativescript"
	"github.com/gdnative-go/gdnative/object"
	"github.com/gdnative-go/gdnative/sys"
)

// bridgeClass instances relay one signal emission each into a waiting
// async body, then return to the pool.
const bridgeClass = "GoSignalBridge"

type bridge struct {
	owner gdnative.Handle
	slot  uint64
	ch    chan []core.Variant
}

var bridges = struct {
	mu       sync.Mutex
	free     []*bridge
	busy     map[gdnative.Handle]*bridge
	nextSlot uint64
}{busy: make(map[gdnative.Handle]*bridge)}

func registerBridgeClass(h *nativescript.InitHandle) error {
	return nativescript.RegisterClass(h, nativescript.ClassConfig[stateData]{
		Name: bridgeClass,
		Base: "Reference",
		Wrap: nativescript.WrapAether[stateData],
		New: func(_ object.AnyObject) *stateData {
			return &stateData{}
		},
		Register: func(b *nativescript.ClassBuilder[stateData]) {
			b.Method("_signal_arrived", signalArrived).Done()
		},
	})
}

// acquire hands out a pooled bridge, constructing one when the pool is
// empty. Slot ids grow monotonically so a late delivery can never be
// mistaken for a fresh wait.
func acquire() (*bridge, bool) {
	bridges.mu.Lock()
	var b *bridge
	if n := len(bridges.free); n > 0 {
		b = bridges.free[n-1]
		bridges.free = bridges.free[:n-1]
	}
	bridges.mu.Unlock()

	if b == nil {
		owner := sys.Get().NativeScriptInstance(bridgeClass)
		if !owner.Valid() {
			return nil, false
		}
		b = &bridge{owner: owner}
	}

	bridges.mu.Lock()
	bridges.nextSlot++
	b.slot = bridges.nextSlot
	b.ch = make(chan []core.Variant, 1)
	bridges.busy[b.owner] = b
	bridges.mu.Unlock()
	return b, true
}

// signalArrived routes one delivery into the waiting async body. The
// connection carries the wait's slot id as its trailing bind; a delivery
// whose slot does not match the bridge's current wait is stale (the bridge
// was reacquired since that connection was made) and is dropped.
func signalArrived(owner gdnative.Handle, _ gdnative.UserData, args []core.Variant) core.Variant {
	var slot uint64
	if n := len(args); n > 0 {
		if v, ok := args[n-1].AsInt(); ok {
			slot = uint64(v)
			args = args[:n-1]
		}
	}

	bridges.mu.Lock()
	b := bridges.busy[owner]
	if b != nil && b.slot == slot {
		delete(bridges.busy, owner)
		bridges.free = append(bridges.free, b)
	} else {
		b = nil
	}
	bridges.mu.Unlock()

	if b == nil {
		logger().Warn("stale signal delivery dropped",
			zap.Uint64("owner", uint64(owner)),
			zap.Uint64("slot", slot))
		return core.NilVariant()
	}
	select {
	case b.ch <- args:
	default:
	}
	return core.NilVariant()
}

func awaitSignal(src gdnative.Handle, name string) <-chan []core.Variant {
	b, ok := acquire()
	if !ok {
		logger().Error("bridge construction failed; async classes not registered?")
		ch := make(chan []core.Variant)
		close(ch)
		return ch
	}
	binds := []core.Variant{core.IntVariant(int64(b.slot))}
	if err := sys.Get().ObjectConnect(src, name, b.owner, "_signal_arrived", binds, true); err != nil {
		logger().Error("signal connection failed",
			zap.String("signal", name),
			zap.Error(err))
		bridges.mu.Lock()
		delete(bridges.busy, b.owner)
		bridges.free = append(bridges.free, b)
		bridges.mu.Unlock()
		close(b.ch)
	}
	return b.ch
}

// drainBridges closes every busy slot and empties the pool.
func drainBridges() {
	bridges.mu.Lock()
	busy := bridges.busy
	bridges.busy = make(map[gdnative.Handle]*bridge)
	bridges.free = nil
	bridges.mu.Unlock()
	for _, b := range busy {
		close(b.ch)
	}
}
