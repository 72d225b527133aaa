// Package object provides the typestate reference system for engine-owned
// objects.
//
// Every engine object has a fixed memory policy: reference counted
// (classes deriving Reference) or manually managed (everything else). On
// top of that, a reference carries an ownership tag chosen by how it was
// obtained:
//
//	Unique      - statically the only live reference; full access
//	Shared      - came from the engine; must be upgraded before use
//	ThreadLocal - a Shared reference pinned to the current goroutine
//
// Tag conversions are explicit, named operations documenting the invariant
// the caller attests:
//
//	tref := object.AssumeSafe(ref)   // engine safety rules hold for 'tref's use
//	uniq := object.AssumeUnique(ref) // no other reference exists
//	shrd := object.IntoShared(uniq)  // always allowed
//
// Operations on a freed manually managed object are undefined behaviour by
// contract; AssumeSafe is the user's attestation this has not happened.
// With sys.DebugChecks enabled, a best-effort liveness probe panics early
// instead, but this is a debugging aid, never a guarantee.
package object
