// Package frame implements the wire framing layer: a 4-byte big-endian total
// length header, a cleartext wire ID byte, and an enciphered payload.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/relaywire/realmproxy/internal/cipher"
	"github.com/relaywire/realmproxy/internal/metrics"
	"github.com/relaywire/realmproxy/internal/packet"
)

// ErrTransport wraps I/O failures reading or writing a frame's bytes.
var ErrTransport = fmt.Errorf("frame: transport")

// ErrFraming wraps a structurally invalid frame: a total length too short to
// hold even a wire ID.
var ErrFraming = fmt.Errorf("frame: framing")

// headerLen is the 4-byte total length field.
const headerLen = 4

// minFrameLen is the smallest legal total length: 4 bytes of header plus 1
// byte of wire ID, with an empty payload.
const minFrameLen = headerLen + 1

// Codec holds one connection's pair of keystreams and turns the byte stream
// into raw packets and back. It is stateful: every Process call advances its
// keystreams, so one Codec must serve exactly one connection in exactly one
// direction pair.
type Codec struct {
	recv *cipher.Stream
	send *cipher.Stream
}

// New builds a Codec from a cipher pair already orientated for this
// connection's end (see cipher.ClientPair / cipher.ServerPair).
func New(pair *cipher.Pair) *Codec {
	return &Codec{recv: pair.Recv, send: pair.Send}
}

// ReadPacket reads exactly one frame from r, deciphers its payload in place,
// and returns it as a raw packet. The wire ID byte is never enciphered.
func (c *Codec) ReadPacket(r io.Reader) (packet.Raw, error) {
	var lenBuf [headerLen]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return packet.Raw{}, fmt.Errorf("%w: reading length header: %v", ErrTransport, err)
	}
	total := binary.BigEndian.Uint32(lenBuf[:])
	if total < minFrameLen {
		return packet.Raw{}, fmt.Errorf("%w: total length %d below minimum %d", ErrFraming, total, minFrameLen)
	}
	rest := make([]byte, total-headerLen)
	if _, err := io.ReadFull(r, rest); err != nil {
		return packet.Raw{}, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}
	c.recv.Process(rest[1:])
	raw, err := packet.New(rest)
	if err != nil {
		return packet.Raw{}, fmt.Errorf("%w: %v", ErrFraming, err)
	}
	metrics.IncFramesDecoded()
	return raw, nil
}

// WritePacket enciphers raw's payload with the codec's send keystream and
// writes the resulting frame to w. raw itself is left untouched: the payload
// is copied before enciphering.
func (c *Codec) WritePacket(w io.Writer, raw packet.Raw) error {
	payload := append([]byte(nil), raw.Payload()...)
	c.send.Process(payload)

	total := headerLen + 1 + len(payload)
	var header [headerLen]byte
	binary.BigEndian.PutUint32(header[:], uint32(total))

	body := make([]byte, 1+len(payload))
	body[0] = raw.WireID()
	copy(body[1:], payload)

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("%w: writing length header: %v", ErrTransport, err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("%w: writing body: %v", ErrTransport, err)
	}
	metrics.IncFramesEncoded()
	return nil
}
