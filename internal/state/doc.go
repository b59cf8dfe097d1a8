// Package state provides the typed resource registry and the hook
// scheduler that together drive the editor.
//
// The registry maps a type key to a single guarded value of that type.
// Systems are plain functions whose parameters declare what they borrow:
// Shared[T] for read access, Exclusive[T] for write access, plus parameter
// kinds contributed by other packages (event data, render chunks). Each
// system derives a descriptor list from its signature; the scheduler uses
// the descriptors to reject self-conflicting systems at registration and
// to run non-conflicting systems of a hook in parallel while serializing
// conflicting ones in registration order.
package state
