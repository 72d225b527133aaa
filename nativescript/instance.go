package nativescript

import (
	gdnative "github.com/gdnative-go/gdnative"
	"github.com/gdnative-go/gdnative/object"
)

// Instance pairs an owner engine object with its policy-wrapped user data.
// The owner is always treated as shared: it arrived through an engine
// callback and carries no uniqueness guarantee.
type Instance[C any] struct {
	Owner object.AnyObject
	Data  UserData[C]
}

// InstanceFromRaw reassembles an Instance inside a dispatch callback from
// the raw owner handle and user-data id the engine passed through.
func InstanceFromRaw[C any](owner gdnative.Handle, ud gdnative.UserData) (Instance[C], bool) {
	data, ok := FromRaw[C](ud)
	if !ok {
		return Instance[C]{}, false
	}
	return Instance[C]{Owner: object.NewAny(owner), Data: data}, true
}
