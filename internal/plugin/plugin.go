// Package plugin defines the capability surface the pipe exposes to
// observers of a relay: per-relay initialization and a callback invoked for
// every packet crossing the relay in either direction.
package plugin

import (
	"net"

	"github.com/relaywire/realmproxy/internal/catalog"
	"github.com/relaywire/realmproxy/internal/packet"
)

// Endpoint describes one side of a relay as seen by a plugin: enough to
// correlate state across packets without exposing the live connection.
type Endpoint struct {
	Addr net.Addr
}

// State is what a plugin returns from its factory to track data across the
// lifetime of one relay; it is never shared between relays.
type State interface {
	// OnPacket is called once per packet observed on the relay, in the order
	// the pipe decided to deliver them. It must never block: a plugin
	// callback that calls out to blocking I/O stalls the entire relay.
	OnPacket(handle *packet.Handle, ctx *Context)
}

// Factory builds a fresh State for one relay, given both its endpoints.
type Factory func(client, server Endpoint) State

// Context is the per-packet control surface a plugin's OnPacket is given: it
// can cancel the triggering packet and/or inject additional ones into the
// same delivery batch.
type Context struct {
	cancelled bool
	injected  []catalog.Message
}

// NewContext returns a fresh, unmodified context for one packet.
func NewContext() *Context { return &Context{} }

// Cancel marks the triggering packet to be dropped instead of forwarded.
// Calling it more than once has no additional effect.
func (c *Context) Cancel() { c.cancelled = true }

// Cancelled reports whether Cancel was called for this packet.
func (c *Context) Cancelled() bool { return c.cancelled }

// Inject appends a synthetic message to be delivered alongside the
// triggering packet, routed by its own side rather than the triggering
// packet's direction.
func (c *Context) Inject(m catalog.Message) { c.injected = append(c.injected, m) }

// Injected returns every message queued by Inject, in call order.
func (c *Context) Injected() []catalog.Message { return c.injected }
