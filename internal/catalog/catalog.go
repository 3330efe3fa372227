// Package catalog enumerates every known message variant exchanged between a
// game client and server: the declared field order that drives encode and
// decode, the wire-independent internal ID, and the side (client or server)
// each variant originates from.
//
// The catalog does not know wire IDs; mapping a wire byte to an InternalID
// (and back) is the mappings package's job.
package catalog

import (
	"fmt"

	"github.com/relaywire/realmproxy/internal/wire"
)

// ErrCatalog is the sentinel every catalog dispatch failure wraps.
var ErrCatalog = fmt.Errorf("catalog")

// Side tags which end of a relay a variant originates from.
type Side int

const (
	SideClient Side = iota
	SideServer
)

func (s Side) String() string {
	if s == SideServer {
		return "server"
	}
	return "client"
}

// Message is the tagged sum over every known variant. Only types defined in
// this package can implement it: encodeFields is unexported, closing the sum
// to the catalog the same way the original code-generated enum closes it.
type Message interface {
	InternalID() InternalID
	encodeFields(w *wire.Writer) error
}

type descriptor struct {
	name   string
	side   Side
	decode func(*wire.Reader) (Message, error)
}

var registry = make(map[InternalID]descriptor)
var byName = make(map[string]InternalID)

// register is called from each variant's init() to add it to every dispatch
// table at once, keeping internal IDs, sides, decode slots, and names in
// lockstep the way the original's code generator does.
func register(id InternalID, name string, side Side, decode func(*wire.Reader) (Message, error)) {
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("catalog: internal id %d already registered (%s)", id, name))
	}
	registry[id] = descriptor{name: name, side: side, decode: decode}
	byName[name] = id
}

// ByName looks up a variant's internal ID by its registered diagnostic name,
// for config loaders that extract a wire-ID table keyed by name rather than
// by this package's own iota values.
func ByName(name string) (InternalID, bool) {
	id, ok := byName[name]
	return id, ok
}

// VariantOf returns m's internal ID. Total.
func VariantOf(m Message) InternalID { return m.InternalID() }

// Decode looks up id's decoder and applies it to r.
func Decode(id InternalID, r *wire.Reader) (Message, error) {
	d, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: unregistered internal id %d", ErrCatalog, id)
	}
	return d.decode(r)
}

// Encode dispatches on m's own variant tag.
func Encode(m Message, w *wire.Writer) error {
	return m.encodeFields(w)
}

// SideOf returns the side a variant originates from. Total over registered
// IDs.
func SideOf(id InternalID) (Side, bool) {
	d, ok := registry[id]
	return d.side, ok
}

// NameOf returns a variant's diagnostic name.
func NameOf(id InternalID) string {
	if d, ok := registry[id]; ok {
		return d.name
	}
	return fmt.Sprintf("unknown(%d)", id)
}
