package gdnative

// Handle is an opaque reference to an engine-owned object.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Valid reports whether the handle refers to an object.
func (h Handle) Valid() bool { return h != 0 }

// MethodBind is an opaque reference to a resolved engine method.
// Bind 0 means the method could not be resolved.
type MethodBind uint64

// TypeTag is a process-unique tag the engine stores alongside a native
// script instance. Downcasts compare tags instead of class name strings.
type TypeTag uint64

// UserData is an opaque reference to the per-instance wrapper a user-data
// policy produced. It round-trips through the engine untouched.
type UserData uint64

// RPCMode is the network disposition of a registered method or property.
type RPCMode int32

const (
	RPCDisabled RPCMode = iota
	RPCRemote
	RPCMaster
	RPCPuppet
	RPCRemoteSync
	RPCMasterSync
	RPCPuppetSync
)
