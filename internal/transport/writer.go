package transport

import (
	"net"

	"github.com/relaywire/realmproxy/internal/frame"
	"github.com/relaywire/realmproxy/internal/packet"
)

// WriteHooks customizes per-packet write instrumentation. This plays the role
// the donor's AsyncTx hooks played, but inline rather than through a fan-in
// goroutine: the pipe's backpressure rule requires each direction's forwarder
// to block on the downstream write before consuming its next input, so there
// is no queue to fan into.
type WriteHooks struct {
	OnError func(error)
	OnAfter func()
}

// PacketWriter serializes writes of raw packets onto one connection through
// its frame codec, running hooks around each one.
type PacketWriter struct {
	conn  net.Conn
	codec *frame.Codec
	hooks WriteHooks
}

// NewPacketWriter builds a writer for one connection's outbound direction.
func NewPacketWriter(conn net.Conn, codec *frame.Codec, hooks WriteHooks) *PacketWriter {
	return &PacketWriter{conn: conn, codec: codec, hooks: hooks}
}

// WriteBatch writes each packet in order, stopping at the first error.
func (p *PacketWriter) WriteBatch(batch []packet.Raw) error {
	for _, raw := range batch {
		if err := p.codec.WritePacket(p.conn, raw); err != nil {
			if p.hooks.OnError != nil {
				p.hooks.OnError(err)
			}
			return err
		}
		if p.hooks.OnAfter != nil {
			p.hooks.OnAfter()
		}
	}
	return nil
}
