// Package vm implements the host-object model of a script host: objects
// whose properties live in a per-object table of slots, addressed by stable
// integer identifiers and resolved by name through a prototype chain.
//
// An Object's table mixes three kinds of live slots:
//   - Value slots holding a script value directly
//   - Builtin slots caching a native descriptor declared by the object's Class
//   - ProtoRef slots, local caches pointing at a slot of the prototype
//
// A slot's identifier is its index and is never reused. Deleting a member
// leaves a tombstone in place so identifiers handed out earlier stay valid.
//
// Dispatch (get, put, call, construct) runs on the thread that owns the
// object graph; only reference counts may be touched from other goroutines.
// Hosts that need cross-goroutine access go through host.Worker.
package vm
