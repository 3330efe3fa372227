package pipe

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/cipher"
	"github.com/relaywire/realmproxy/internal/frame"
	"github.com/relaywire/realmproxy/internal/logging"
	"github.com/relaywire/realmproxy/internal/mappings"
	"github.com/relaywire/realmproxy/internal/packet"
	"github.com/relaywire/realmproxy/internal/plugin"
	"github.com/relaywire/realmproxy/internal/transport"
)

func testKey() [cipher.KeyLen]byte {
	var k [cipher.KeyLen]byte
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func testMappings(t *testing.T) *mappings.Mappings {
	t.Helper()
	key := testKey()
	m, err := mappings.New(hex.EncodeToString(key[:]), map[uint8]catalog.InternalID{
		1: catalog.IDHello,
		2: catalog.IDPing,
	})
	require.NoError(t, err)
	return m
}

type noopState struct{}

func (noopState) OnPacket(*packet.Handle, *plugin.Context) {}

type cancelState struct{}

func (cancelState) OnPacket(_ *packet.Handle, ctx *plugin.Context) { ctx.Cancel() }

type injectState struct{ msg catalog.Message }

func (s injectState) OnPacket(_ *packet.Handle, ctx *plugin.Context) { ctx.Inject(s.msg) }

// clientFacingPair builds two connected conns with frame codecs orientated
// as the two ends of a relay's accepted (client-facing) socket: a is the
// client-side end a relay would use, b is the complementary end a real
// client peer would use.
func clientFacingPair(t *testing.T, key [cipher.KeyLen]byte) (a, b net.Conn, codecA, codecB *frame.Codec) {
	t.Helper()
	a, b = net.Pipe()
	clientPair, err := cipher.ClientPair(key)
	require.NoError(t, err)
	serverPair, err := cipher.ServerPair(key)
	require.NoError(t, err)
	return a, b, frame.New(clientPair), frame.New(serverPair)
}

// serverFacingPair builds two connected conns with frame codecs orientated
// as the two ends of a relay's dialed (server-facing) socket.
func serverFacingPair(t *testing.T, key [cipher.KeyLen]byte) (a, b net.Conn, codecA, codecB *frame.Codec) {
	t.Helper()
	a, b = net.Pipe()
	serverPair, err := cipher.ServerPair(key)
	require.NoError(t, err)
	clientPair, err := cipher.ClientPair(key)
	require.NoError(t, err)
	return a, b, frame.New(serverPair), frame.New(clientPair)
}

func TestDeliverForwardsUncancelledPacket(t *testing.T) {
	m := testMappings(t)
	key := testKey()
	r := NewRelay(1, m, nil, "", nil)
	logger := logging.ForRelay(r.id, "test-client")

	servConnA, servConnB, servCodecA, servCodecB := serverFacingPair(t, key)
	cliConnA, _, cliCodecA, _ := clientFacingPair(t, key)
	defer servConnA.Close()
	defer servConnB.Close()
	defer cliConnA.Close()

	toServer := transport.NewPacketWriter(servConnA, servCodecA, transport.WriteHooks{})
	toClient := transport.NewPacketWriter(cliConnA, cliCodecA, transport.WriteHooks{})

	hello, err := packet.FromTyped(catalog.Hello{BuildVersion: "1.0", GameID: 42}, m)
	require.NoError(t, err)
	ev := event{side: catalog.SideClient, raw: hello}

	received := make(chan packet.Raw, 1)
	go func() {
		raw, err := servCodecB.ReadPacket(servConnB)
		require.NoError(t, err)
		received <- raw
	}()

	require.NoError(t, r.deliver(ev, []plugin.State{noopState{}}, logger, toServer, toClient))

	select {
	case raw := <-received:
		require.Equal(t, hello.Bytes(), raw.Bytes())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded packet")
	}
}

func TestDeliverDropsCancelledPacket(t *testing.T) {
	m := testMappings(t)
	key := testKey()
	r := NewRelay(1, m, nil, "", nil)
	logger := logging.ForRelay(r.id, "test-client")

	servConnA, servConnB, servCodecA, _ := serverFacingPair(t, key)
	cliConnA, cliConnB, cliCodecA, _ := clientFacingPair(t, key)
	defer servConnA.Close()
	defer servConnB.Close()
	defer cliConnA.Close()
	defer cliConnB.Close()

	toServer := transport.NewPacketWriter(servConnA, servCodecA, transport.WriteHooks{})
	toClient := transport.NewPacketWriter(cliConnA, cliCodecA, transport.WriteHooks{})

	hello, err := packet.FromTyped(catalog.Hello{BuildVersion: "1.0"}, m)
	require.NoError(t, err)
	ev := event{side: catalog.SideClient, raw: hello}

	require.NoError(t, r.deliver(ev, []plugin.State{cancelState{}}, logger, toServer, toClient))

	// Nothing was written in either direction: net.Pipe hands writes over
	// synchronously, so a write with no reader would have blocked deliver,
	// and a read on the server peer now times out with no data.
	require.NoError(t, servConnB.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	buf := make([]byte, 1)
	_, err = servConnB.Read(buf)
	require.Error(t, err)
}

func TestDeliverRoutesInjectedMessageByOwnSide(t *testing.T) {
	m := testMappings(t)
	key := testKey()
	r := NewRelay(1, m, nil, "", nil)
	logger := logging.ForRelay(r.id, "test-client")

	servConnA, servConnB, servCodecA, servCodecB := serverFacingPair(t, key)
	cliConnA, cliConnB, cliCodecA, cliCodecB := clientFacingPair(t, key)
	defer servConnA.Close()
	defer servConnB.Close()
	defer cliConnA.Close()
	defer cliConnB.Close()

	toServer := transport.NewPacketWriter(servConnA, servCodecA, transport.WriteHooks{})
	toClient := transport.NewPacketWriter(cliConnA, cliCodecA, transport.WriteHooks{})

	hello, err := packet.FromTyped(catalog.Hello{BuildVersion: "1.0"}, m)
	require.NoError(t, err)
	ev := event{side: catalog.SideClient, raw: hello}

	gotServer := make(chan packet.Raw, 1)
	gotClient := make(chan packet.Raw, 1)
	go func() {
		raw, err := servCodecB.ReadPacket(servConnB)
		require.NoError(t, err)
		gotServer <- raw
	}()
	go func() {
		raw, err := cliCodecB.ReadPacket(cliConnB)
		require.NoError(t, err)
		gotClient <- raw
	}()

	states := []plugin.State{injectState{msg: catalog.Ping{Serial: 7}}}
	require.NoError(t, r.deliver(ev, states, logger, toServer, toClient))

	select {
	case raw := <-gotServer:
		require.Equal(t, uint8(1), raw.WireID())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded client packet")
	}
	select {
	case raw := <-gotClient:
		require.Equal(t, uint8(2), raw.WireID())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for injected server packet")
	}
}

func TestDeliverSkipsUnencodableInjectionButForwardsOriginal(t *testing.T) {
	m := testMappings(t)
	key := testKey()
	r := NewRelay(1, m, nil, "", nil)
	logger := logging.ForRelay(r.id, "test-client")

	servConnA, servConnB, servCodecA, servCodecB := serverFacingPair(t, key)
	cliConnA, cliConnB, cliCodecA, cliCodecB := clientFacingPair(t, key)
	defer servConnA.Close()
	defer servConnB.Close()
	defer cliConnA.Close()
	defer cliConnB.Close()

	toServer := transport.NewPacketWriter(servConnA, servCodecA, transport.WriteHooks{})
	toClient := transport.NewPacketWriter(cliConnA, cliCodecA, transport.WriteHooks{})

	hello, err := packet.FromTyped(catalog.Hello{BuildVersion: "1.0"}, m)
	require.NoError(t, err)
	ev := event{side: catalog.SideClient, raw: hello}

	// testMappings maps no wire ID for catalog.IDPic, so FromTyped fails
	// with mappings.ErrMapping, which deliver must wrap in ErrInjection
	// without ending the relay.
	states := []plugin.State{injectState{msg: catalog.Pic{Width: 1, Height: 1, Bitmap: make([]byte, 4)}}}

	gotServer := make(chan packet.Raw, 1)
	go func() {
		raw, err := servCodecB.ReadPacket(servConnB)
		require.NoError(t, err)
		gotServer <- raw
	}()

	require.NoError(t, r.deliver(ev, states, logger, toServer, toClient))

	select {
	case <-gotServer:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the original packet to still be forwarded")
	}

	require.NoError(t, cliConnB.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	buf := make([]byte, 1)
	_, err = cliConnB.Read(buf)
	require.Error(t, err, "the unencodable injection must not have reached the client")
}

func TestErrInjectionWrapsMappingFailure(t *testing.T) {
	m := testMappings(t)
	_, err := packet.FromTyped(catalog.Pic{Width: 1, Height: 1, Bitmap: make([]byte, 4)}, m)
	require.Error(t, err)

	wrapped := fmt.Errorf("%w: %w", ErrInjection, err)
	require.True(t, errors.Is(wrapped, ErrInjection))
	require.True(t, errors.Is(wrapped, mappings.ErrMapping))
}

func TestReadLoopPreservesPerSideOrder(t *testing.T) {
	m := testMappings(t)
	key := testKey()
	writerConn, readerConn, writerCodec, readerCodec := clientFacingPair(t, key)
	defer writerConn.Close()
	defer readerConn.Close()

	pings := []catalog.Message{
		catalog.Hello{BuildVersion: "a"},
		catalog.Hello{BuildVersion: "bb"},
		catalog.Hello{BuildVersion: "ccc"},
	}
	go func() {
		for _, p := range pings {
			raw, err := packet.FromTyped(p, m)
			require.NoError(t, err)
			require.NoError(t, writerCodec.WritePacket(writerConn, raw))
		}
	}()

	out := make(chan event, len(pings))
	reader := bufio.NewReader(readerConn)
	go readLoop(reader, readerCodec, catalog.SideClient, out)

	for i, want := range pings {
		select {
		case ev := <-out:
			require.NoError(t, ev.err)
			msg, err := ev.raw.ToTyped(m)
			require.NoError(t, err)
			require.Equal(t, want, msg, "packet %d out of order", i)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for packet %d", i)
		}
	}
}

func TestReadLoopReportsErrorExactlyOnce(t *testing.T) {
	key := testKey()
	writerConn, readerConn, _, readerCodec := clientFacingPair(t, key)
	require.NoError(t, writerConn.Close())
	defer readerConn.Close()

	out := make(chan event, 2)
	reader := bufio.NewReader(readerConn)
	go readLoop(reader, readerCodec, catalog.SideServer, out)

	select {
	case ev := <-out:
		require.Error(t, ev.err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error event")
	}
	select {
	case ev := <-out:
		t.Fatalf("readLoop sent a second event after error: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
