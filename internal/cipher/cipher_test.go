package cipher

import (
	"bytes"
	"testing"
)

func testKey() [KeyLen]byte {
	var k [KeyLen]byte
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func TestClientServerPairsMatch(t *testing.T) {
	key := testKey()
	client, err := ClientPair(key)
	if err != nil {
		t.Fatalf("ClientPair: %v", err)
	}
	server, err := ServerPair(key)
	if err != nil {
		t.Fatalf("ServerPair: %v", err)
	}

	msg := []byte("hello, realm")
	clientOut := append([]byte(nil), msg...)
	client.Send.Process(clientOut)

	serverIn := append([]byte(nil), clientOut...)
	server.Recv.Process(serverIn)

	if !bytes.Equal(serverIn, msg) {
		t.Fatalf("client->server stream mismatch: got %q, want %q", serverIn, msg)
	}

	serverOut := append([]byte(nil), msg...)
	server.Send.Process(serverOut)

	clientIn := append([]byte(nil), serverOut...)
	client.Recv.Process(clientIn)

	if !bytes.Equal(clientIn, msg) {
		t.Fatalf("server->client stream mismatch: got %q, want %q", clientIn, msg)
	}
}

func TestStreamNotReseekable(t *testing.T) {
	key := testKey()
	pair, err := ClientPair(key)
	if err != nil {
		t.Fatalf("ClientPair: %v", err)
	}
	a := []byte("aaaa")
	b := []byte("aaaa")
	pair.Send.Process(a)
	pair.Send.Process(b)
	if bytes.Equal(a, b) {
		t.Fatalf("expected successive Process calls to diverge, got identical output %q", a)
	}
}

func TestInvalidKeyLength(t *testing.T) {
	if _, err := newStream(make([]byte, 0)); err == nil {
		t.Fatal("expected error for empty key")
	}
}
