// Package cipher provides the two independent keystream generators used to
// encipher and decipher one relay's message payloads.
package cipher

import (
	"crypto/rc4"
	"fmt"
)

// KeyLen is the length in bytes of the combined binary key from which a
// cipher pair is derived; each half seeds one keystream generator.
const KeyLen = 26

// HalfLen is the length of each half of the combined key.
const HalfLen = KeyLen / 2

// Stream is one keystream generator. It is not reseekable: Process advances
// its internal state by exactly len(buf) bytes and cannot be rewound.
type Stream struct {
	rc4 *rc4.Cipher
}

// Process XORs the keystream over buf in place, advancing state by len(buf).
func (s *Stream) Process(buf []byte) {
	s.rc4.XORKeyStream(buf, buf)
}

func newStream(key []byte) (*Stream, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: new stream: %w", err)
	}
	return &Stream{rc4: c}, nil
}

// Pair is the two keystream generators owned exclusively by one codec
// instance: one for the direction it receives on, one for the direction it
// sends on.
type Pair struct {
	Recv *Stream
	Send *Stream
}

// splitKey derives the two 13-byte halves of a 26-byte combined key.
func splitKey(key [KeyLen]byte) (half0, half1 []byte) {
	return key[:HalfLen], key[HalfLen:]
}

// ClientPair builds the cipher pair for the client-side end of a connection:
// half0 is paired with receive, half1 with send. A relay uses this for its
// accepted, client-facing socket.
func ClientPair(key [KeyLen]byte) (*Pair, error) {
	half0, half1 := splitKey(key)
	return newPair(half0, half1)
}

// ServerPair builds the cipher pair for the server-side end of a connection:
// half0 is paired with send, half1 with receive — the complement of
// ClientPair, so the two ends of one connection produce matching streams. A
// relay uses this for its dialed, server-facing socket.
func ServerPair(key [KeyLen]byte) (*Pair, error) {
	half0, half1 := splitKey(key)
	recv, err := newStream(half1)
	if err != nil {
		return nil, err
	}
	send, err := newStream(half0)
	if err != nil {
		return nil, err
	}
	return &Pair{Recv: recv, Send: send}, nil
}

func newPair(recvKey, sendKey []byte) (*Pair, error) {
	recv, err := newStream(recvKey)
	if err != nil {
		return nil, err
	}
	send, err := newStream(sendKey)
	if err != nil {
		return nil, err
	}
	return &Pair{Recv: recv, Send: send}, nil
}
