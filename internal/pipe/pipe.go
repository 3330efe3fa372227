// Package pipe orchestrates one relay: the pairing of one client connection
// with one backend server connection, merging both directions through the
// registered plugins and on to the opposite peer.
package pipe

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/directory"
	"github.com/relaywire/realmproxy/internal/frame"
	"github.com/relaywire/realmproxy/internal/logging"
	"github.com/relaywire/realmproxy/internal/mappings"
	"github.com/relaywire/realmproxy/internal/metrics"
	"github.com/relaywire/realmproxy/internal/packet"
	"github.com/relaywire/realmproxy/internal/plugin"
	"github.com/relaywire/realmproxy/internal/transport"
)

// Relay is one client<->server pairing: it owns both socket halves
// exclusively for its lifetime and is never shared across goroutines beyond
// its own Run.
type Relay struct {
	id            uint64
	mappings      *mappings.Mappings
	directory     *directory.Directory
	defaultServer string
	factories     []plugin.Factory
}

// NewRelay builds a relay identified by id, dialing defaultServer through
// dir when Run is called.
func NewRelay(id uint64, m *mappings.Mappings, dir *directory.Directory, defaultServer string, factories []plugin.Factory) *Relay {
	return &Relay{id: id, mappings: m, directory: dir, defaultServer: defaultServer, factories: factories}
}

// ID returns the relay's registry identifier.
func (r *Relay) ID() uint64 { return r.id }

// event carries one side's next raw packet, or the error that ended that
// side's read loop.
type event struct {
	side catalog.Side
	raw  packet.Raw
	err  error
}

// sided pairs a raw packet with the side it is to be delivered as, which
// determines which socket it is written to: a side tag is which direction
// it originated from, so a client-tagged packet is written to the server
// and vice versa.
type sided struct {
	side catalog.Side
	raw  packet.Raw
}

// Run dials the relay's backend server, wires up both directions through
// every registered plugin, and blocks until the relay ends: either side's
// socket closing, a framing error, or ctx being cancelled.
func (r *Relay) Run(ctx context.Context, clientConn net.Conn, clientReader *bufio.Reader, clientCodec *frame.Codec) error {
	defer func() { _ = clientConn.Close() }()

	addr, ok := r.directory.Socket(r.defaultServer)
	if !ok {
		return fmt.Errorf("%w: unknown default server %q", ErrPipe, r.defaultServer)
	}
	serverConn, serverCodec, err := transport.Dial(ctx, addr.String(), r.mappings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPipe, err)
	}
	defer func() { _ = serverConn.Close() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = clientConn.Close()
			_ = serverConn.Close()
		case <-done:
		}
	}()

	logger := logging.ForRelay(r.id, clientConn.RemoteAddr().String())

	clientEP := plugin.Endpoint{Addr: clientConn.RemoteAddr()}
	serverEP := plugin.Endpoint{Addr: serverConn.RemoteAddr()}
	states := make([]plugin.State, len(r.factories))
	for i, f := range r.factories {
		states[i] = f(clientEP, serverEP)
	}

	clientEvents := make(chan event, 1)
	serverEvents := make(chan event, 1)
	go readLoop(clientReader, clientCodec, catalog.SideClient, clientEvents)
	go readLoop(bufio.NewReader(serverConn), serverCodec, catalog.SideServer, serverEvents)

	toServer := transport.NewPacketWriter(serverConn, serverCodec, transport.WriteHooks{
		OnError: func(err error) { logger.Warn("write_to_server_failed", "error", err) },
	})
	toClient := transport.NewPacketWriter(clientConn, clientCodec, transport.WriteHooks{
		OnError: func(err error) { logger.Warn("write_to_client_failed", "error", err) },
	})

	for {
		var ev event
		select {
		case ev = <-clientEvents:
		case ev = <-serverEvents:
		case <-ctx.Done():
			return nil
		}
		if ev.err != nil {
			return fmt.Errorf("%w: %w", ErrPipe, ev.err)
		}
		if err := r.deliver(ev, states, logger, toServer, toClient); err != nil {
			return err
		}
	}
}

// deliver runs one observed packet through every plugin, then writes the
// resulting batch (the original packet, unless cancelled, plus any
// injections) to the appropriate peers.
func (r *Relay) deliver(ev event, states []plugin.State, logger *slog.Logger, toServer, toClient *transport.PacketWriter) error {
	handle := packet.NewHandle(ev.raw, r.mappings)
	pctx := plugin.NewContext()
	for _, st := range states {
		st.OnPacket(handle, pctx)
	}

	batch := make([]sided, 0, 1+len(pctx.Injected()))
	if pctx.Cancelled() {
		metrics.IncCancelled()
	} else {
		batch = append(batch, sided{side: ev.side, raw: ev.raw})
	}
	for _, msg := range pctx.Injected() {
		side, ok := catalog.SideOf(msg.InternalID())
		if !ok {
			continue
		}
		rawMsg, err := packet.FromTyped(msg, r.mappings)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInjection, err)
			logger.Warn("injection_encode_failed", "internal_id", msg.InternalID(), "error", err)
			metrics.IncInjectionError()
			continue
		}
		metrics.IncInjected()
		batch = append(batch, sided{side: side, raw: rawMsg})
	}

	for _, item := range batch {
		var err error
		switch item.side {
		case catalog.SideClient:
			err = toServer.WriteBatch([]packet.Raw{item.raw})
		case catalog.SideServer:
			err = toClient.WriteBatch([]packet.Raw{item.raw})
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPipe, err)
		}
	}
	return nil
}

// readLoop pulls frames off r in order and reports them on out, preserving
// this side's FIFO order since it is the only producer writing to out. It
// ends by sending exactly one error event, then returns.
func readLoop(r *bufio.Reader, codec *frame.Codec, side catalog.Side, out chan<- event) {
	for {
		raw, err := codec.ReadPacket(r)
		if err != nil {
			out <- event{side: side, err: err}
			return
		}
		out <- event{side: side, raw: raw}
	}
}
