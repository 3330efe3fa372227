package policy

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestDetectMatchesPolicyRequest(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(string(request)))
	var out bytes.Buffer
	matched, err := Detect(r, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected match")
	}
	if !strings.Contains(out.String(), "cross-domain-policy") {
		t.Fatalf("unexpected response: %q", out.String())
	}
	if r.Buffered() != 0 {
		t.Fatalf("expected request bytes consumed, %d still buffered", r.Buffered())
	}
}

func TestDetectLeavesNonMatchingBytesUnconsumed(t *testing.T) {
	frameBytes := []byte{0, 0, 0, 5, 1, 'x'}
	r := bufio.NewReader(bytes.NewReader(frameBytes))
	var out bytes.Buffer
	matched, err := Detect(r, &out)
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Fatal("expected no match")
	}
	rest := make([]byte, len(frameBytes))
	n, err := r.Read(rest)
	if err != nil || n != len(frameBytes) || !bytes.Equal(rest, frameBytes) {
		t.Fatalf("expected all original bytes replayed, got %v (n=%d, err=%v)", rest[:n], n, err)
	}
}

func TestDetectPartialPrefixThenDiverge(t *testing.T) {
	// Matches "<policy-" then diverges.
	in := []byte("<policy-wrong>")
	r := bufio.NewReader(bytes.NewReader(in))
	var out bytes.Buffer
	matched, err := Detect(r, &out)
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Fatal("expected no match")
	}
	replayed, _ := r.Peek(len(in))
	if !bytes.Equal(replayed, in) {
		t.Fatalf("expected original bytes still buffered, got %v", replayed)
	}
}
