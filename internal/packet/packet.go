// Package packet implements the raw packet: the opaque byte container that
// sits between the frame codec and the pipe, plus the lazy-decode handle
// plugins see.
package packet

import (
	"fmt"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/logging"
	"github.com/relaywire/realmproxy/internal/mappings"
	"github.com/relaywire/realmproxy/internal/metrics"
	"github.com/relaywire/realmproxy/internal/wire"
)

// ErrEmpty is returned by New when given a zero-length buffer; a raw packet
// is always non-empty (it carries at least a wire ID).
var ErrEmpty = fmt.Errorf("packet: empty buffer")

// Raw is an immutable container over a byte sequence of length >= 1: the
// first byte is the wire message ID, the rest is the decrypted payload. It
// is cheap to pass by value since the backing array is never mutated after
// construction.
type Raw struct {
	bytes []byte
}

// New wraps b as a raw packet. b is not copied; callers must not mutate it
// afterward.
func New(b []byte) (Raw, error) {
	if len(b) == 0 {
		return Raw{}, ErrEmpty
	}
	return Raw{bytes: b}, nil
}

// WireID returns the packet's first byte.
func (r Raw) WireID() uint8 { return r.bytes[0] }

// Payload returns the bytes after the wire ID.
func (r Raw) Payload() []byte { return r.bytes[1:] }

// Bytes returns the full underlying buffer (wire ID + payload).
func (r Raw) Bytes() []byte { return r.bytes }

// ToTyped looks up the packet's wire ID against m and decodes its payload via
// the catalog. Fails with a wrapped mappings.ErrMapping if the wire ID is
// unmapped.
func (r Raw) ToTyped(m *mappings.Mappings) (catalog.Message, error) {
	id, ok := m.InternalID(r.WireID())
	if !ok {
		return nil, fmt.Errorf("%w: unmapped wire id %d", mappings.ErrMapping, r.WireID())
	}
	return catalog.Decode(id, wire.NewReader(r.Payload()))
}

// FromTyped looks up msg's internal ID against m and encodes it as a raw
// packet. Fails with a wrapped mappings.ErrMapping if the internal ID is
// unmapped.
func FromTyped(msg catalog.Message, m *mappings.Mappings) (Raw, error) {
	wireID, ok := m.WireID(msg.InternalID())
	if !ok {
		return Raw{}, fmt.Errorf("%w: unmapped internal id %d (%s)", mappings.ErrMapping, msg.InternalID(), catalog.NameOf(msg.InternalID()))
	}
	w := wire.NewWriter()
	if err := catalog.Encode(msg, w); err != nil {
		return Raw{}, err
	}
	buf := make([]byte, 0, 1+len(w.Bytes()))
	buf = append(buf, wireID)
	buf = append(buf, w.Bytes()...)
	return Raw{bytes: buf}, nil
}

// Handle is the lazy-decode wrapper plugins receive for one raw packet.
// Typed decodes the underlying packet at most once: the outcome, success or
// failure, is cached and never retried, and a failure is logged exactly
// once.
type Handle struct {
	raw       Raw
	mappings  *mappings.Mappings
	attempted bool
	decoded   catalog.Message
	err       error
}

// NewHandle wraps raw for lazy typed decoding against m.
func NewHandle(raw Raw, m *mappings.Mappings) *Handle {
	return &Handle{raw: raw, mappings: m}
}

// Raw returns the underlying raw packet, always available without decoding.
func (h *Handle) Raw() Raw { return h.raw }

// Typed returns the packet's decoded form, decoding on first call only. ok is
// false if decoding has failed (now or on a prior call); the failure was
// already logged once and is not re-logged.
func (h *Handle) Typed() (msg catalog.Message, ok bool) {
	if !h.attempted {
		h.attempted = true
		h.decoded, h.err = h.raw.ToTyped(h.mappings)
		if h.err != nil {
			logging.L().Warn("packet_decode_failed", "wire_id", h.raw.WireID(), "error", h.err)
			metrics.IncDecodeFailure()
		}
	}
	return h.decoded, h.err == nil
}
