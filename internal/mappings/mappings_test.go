package mappings

import (
	"strings"
	"testing"

	"github.com/relaywire/realmproxy/internal/catalog"
)

func validHexKey() string {
	return strings.Repeat("ab", 26)
}

func TestNewAndLookups(t *testing.T) {
	m, err := New(validHexKey(), map[uint8]catalog.InternalID{5: catalog.IDHello, 200: catalog.IDPic})
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := m.InternalID(5); !ok || id != catalog.IDHello {
		t.Fatalf("InternalID(5) = (%v,%v)", id, ok)
	}
	if wireID, ok := m.WireID(catalog.IDPic); !ok || wireID != 200 {
		t.Fatalf("WireID(IDPic) = (%v,%v)", wireID, ok)
	}
	if _, ok := m.InternalID(1); ok {
		t.Fatal("expected unmapped wire id to miss")
	}
}

func TestNewRejectsWrongKeyLength(t *testing.T) {
	if _, err := New(strings.Repeat("ab", 10), nil); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestNewRejectsInvalidHex(t *testing.T) {
	if _, err := New("not-hex-at-all-xyz", nil); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestClientAndServerCiphersPair(t *testing.T) {
	m, err := New(validHexKey(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ClientCiphers(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ServerCiphers(); err != nil {
		t.Fatal(err)
	}
}
