package gdasync

import "sync"

// The pump carries work from spawner goroutines back onto the engine
// thread; the engine's frame callback drains it.
var pump = struct {
	mu  sync.Mutex
	fns []func()
}{}

func post(fn func()) {
	pump.mu.Lock()
	pump.fns = append(pump.fns, fn)
	pump.mu.Unlock()
}

func drain() {
	pump.mu.Lock()
	fns := pump.fns
	pump.fns = nil
	pump.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
