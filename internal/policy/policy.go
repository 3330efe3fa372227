// Package policy handles the one-shot cross-domain policy file preamble that
// Flash clients send ahead of the real protocol on the same TCP port.
package policy

import (
	"bufio"
	"bytes"
	"io"
)

// request is the exact byte sequence, including its trailing NUL, that
// signals a policy-file request rather than the start of a real frame.
var request = []byte("<policy-file-request/>\x00")

// document is the exact cross-domain policy response.
const document = `<?xml version="1.0"?>
<!DOCTYPE cross-domain-policy SYSTEM "/xml/dtds/cross-domain-policy.dtd">
<cross-domain-policy>
    <site-control permitted-cross-domain-policies="all"/>
    <allow-access-from domain="*" to-ports="*"/>
</cross-domain-policy>
`

// Detect peeks at r for a policy-file request without consuming anything
// unless the full request matches. On match, it discards the request bytes,
// writes the policy document to w, and returns matched=true: the caller
// should close the connection. On any divergence, it returns matched=false
// having consumed nothing, leaving every peeked byte in r for the frame
// codec to read.
func Detect(r *bufio.Reader, w io.Writer) (matched bool, err error) {
	for n := 1; n <= len(request); n++ {
		peeked, _ := r.Peek(n)
		if len(peeked) < n {
			// Stream ended (or errored) before a full candidate prefix was
			// available; not a policy request, nothing consumed.
			return false, nil
		}
		if !bytes.Equal(peeked, request[:n]) {
			return false, nil
		}
	}
	if _, err := r.Discard(len(request)); err != nil {
		return false, err
	}
	if _, err := io.WriteString(w, document); err != nil {
		return false, err
	}
	return true, nil
}
