package pipe

import "fmt"

// ErrPipe wraps every failure that ends a relay: a transport error from
// either socket, a framing error, or an unresolvable default server.
var ErrPipe = fmt.Errorf("pipe")

// ErrInjection wraps a plugin-injected message that failed to encode. It
// never ends a relay: the triggering packet still flows, the injection is
// skipped, and the wrapped error is logged exactly once.
var ErrInjection = fmt.Errorf("pipe: injection")
