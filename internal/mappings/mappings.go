// Package mappings owns the per-run, externally-extracted data every relay
// shares: the binary cipher key and the bidirectional wire-ID <-> internal-ID
// table. A Mappings value is immutable after construction and safe for
// concurrent use by every relay.
package mappings

import (
	"encoding/hex"
	"fmt"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/cipher"
)

// ErrMapping is the sentinel every mapping failure wraps.
var ErrMapping = fmt.Errorf("mapping")

// Mappings pairs the shared binary key with the wire<->internal ID table
// extracted from a specific client build.
type Mappings struct {
	key      [cipher.KeyLen]byte
	wireToID map[uint8]catalog.InternalID
	idToWire map[catalog.InternalID]uint8
}

// New validates hexKey (must decode to exactly cipher.KeyLen bytes) and
// builds a Mappings from the given wire-ID -> internal-ID table. Internal IDs
// are not checked for duplicates: if two wire IDs map to the same internal
// ID, WireID returns one of them, and which one is not defined.
func New(hexKey string, wireToInternal map[uint8]catalog.InternalID) (*Mappings, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key hex %q: %v", ErrMapping, hexKey, err)
	}
	if len(raw) != cipher.KeyLen {
		return nil, fmt.Errorf("%w: invalid key length %d (want %d) for %q", ErrMapping, len(raw), cipher.KeyLen, hexKey)
	}
	var key [cipher.KeyLen]byte
	copy(key[:], raw)

	wireToID := make(map[uint8]catalog.InternalID, len(wireToInternal))
	idToWire := make(map[catalog.InternalID]uint8, len(wireToInternal))
	for wire, id := range wireToInternal {
		wireToID[wire] = id
		idToWire[id] = wire
	}
	return &Mappings{key: key, wireToID: wireToID, idToWire: idToWire}, nil
}

// InternalID maps a wire ID to its internal ID, if mapped.
func (m *Mappings) InternalID(wireID uint8) (catalog.InternalID, bool) {
	id, ok := m.wireToID[wireID]
	return id, ok
}

// WireID maps an internal ID to its wire ID, if mapped.
func (m *Mappings) WireID(id catalog.InternalID) (uint8, bool) {
	wire, ok := m.idToWire[id]
	return wire, ok
}

// ClientCiphers builds the cipher pair for the client-facing end of a
// relay: the accepted socket.
func (m *Mappings) ClientCiphers() (*cipher.Pair, error) {
	return cipher.ClientPair(m.key)
}

// ServerCiphers builds the cipher pair for the server-facing end of a
// relay: the dialed socket.
func (m *Mappings) ServerCiphers() (*cipher.Pair, error) {
	return cipher.ServerPair(m.key)
}
