package server

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/directory"
	"github.com/relaywire/realmproxy/internal/mappings"
)

func testMappings(t *testing.T) *mappings.Mappings {
	t.Helper()
	m, err := mappings.New(strings.Repeat("ab", 26), map[uint8]catalog.InternalID{1: catalog.IDHello})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func startTestServer(t *testing.T, dir *directory.Directory) (*Server, context.CancelFunc) {
	t.Helper()
	s := New(
		WithListenAddr("127.0.0.1:0"),
		WithMappings(testMappings(t)),
		WithDirectory(dir),
		WithDefaultServer("realm"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Serve(ctx)
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("server never became ready")
	}
	return s, cancel
}

func TestServePolicyRequestRespondsAndCloses(t *testing.T) {
	s, cancel := startTestServer(t, directory.New(nil))
	defer cancel()

	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("<policy-file-request/>\x00")); err != nil {
		t.Fatal(err)
	}

	body, err := io.ReadAll(conn)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "<cross-domain-policy>") {
		t.Fatalf("unexpected policy response: %q", body)
	}
}

func TestHandleConnFailsRelayForUnknownDefaultServer(t *testing.T) {
	s, cancel := startTestServer(t, directory.New(nil))
	defer cancel()

	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte{0xAA, 0xBB, 0xCC, 0xDD}); err != nil {
		t.Fatal(err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = conn.Read(buf)
	if err == nil {
		t.Fatal("expected the connection to be closed once the relay fails to resolve its default server")
	}
}
