package gdasync

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Spawner starts an async method body. The contract is deliberately thin:
// the core consumes whatever executor the embedding installs and never
// owns an event loop.
type Spawner interface {
	Spawn(task func())
}

// GoroutineSpawner runs every task on its own goroutine. The stock choice
// outside tests.
type GoroutineSpawner struct{}

func (GoroutineSpawner) Spawn(task func()) { go task() }

// Spawners are installed per goroutine, mirroring the per-thread executor
// discipline of the engine's script threads.
var spawners = struct {
	mu sync.Mutex
	m  map[int64]Spawner
}{m: make(map[int64]Spawner)}

// SetLocalSpawner installs the spawner for the current goroutine. A nil
// spawner uninstalls.
func SetLocalSpawner(s Spawner) {
	id := goid()
	spawners.mu.Lock()
	defer spawners.mu.Unlock()
	if s == nil {
		delete(spawners.m, id)
		return
	}
	spawners.m[id] = s
}

func localSpawner() Spawner {
	spawners.mu.Lock()
	defer spawners.mu.Unlock()
	return spawners.m[goid()]
}

func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseInt(fields[1], 10, 64)
	return id
}
