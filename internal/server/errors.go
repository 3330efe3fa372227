package server

import (
	"errors"

	"github.com/relaywire/realmproxy/internal/frame"
	"github.com/relaywire/realmproxy/internal/mappings"
	"github.com/relaywire/realmproxy/internal/metrics"
	"github.com/relaywire/realmproxy/internal/transport"
	"github.com/relaywire/realmproxy/internal/wire"
)

// mapErrToMetric classifies a relay-ending error to a metrics.Err* label, the
// way the donor's mapErrToMetric maps a connection failure to a metric label.
// ErrInjection never reaches here: it never ends a relay, so it has no label.
func mapErrToMetric(err error) string {
	switch {
	case errors.Is(err, frame.ErrTransport), errors.Is(err, transport.ErrDial), errors.Is(err, transport.ErrListen):
		return metrics.ErrTransport
	case errors.Is(err, frame.ErrFraming):
		return metrics.ErrFraming
	case errors.Is(err, wire.ErrFieldCodec):
		return metrics.ErrFieldCodec
	case errors.Is(err, mappings.ErrMapping):
		return metrics.ErrMapping
	case errors.Is(err, ErrContext):
		return metrics.ErrContext
	default:
		return metrics.ErrOther
	}
}
