package plugin

import (
	"testing"

	"github.com/relaywire/realmproxy/internal/catalog"
)

func TestContextStartsUncancelledAndUninjected(t *testing.T) {
	ctx := NewContext()
	if ctx.Cancelled() {
		t.Fatal("fresh context should not be cancelled")
	}
	if len(ctx.Injected()) != 0 {
		t.Fatal("fresh context should have no injected messages")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	ctx := NewContext()
	ctx.Cancel()
	ctx.Cancel()
	if !ctx.Cancelled() {
		t.Fatal("expected context to be cancelled")
	}
}

func TestInjectPreservesCallOrder(t *testing.T) {
	ctx := NewContext()
	ctx.Inject(catalog.Ping{Serial: 1})
	ctx.Inject(catalog.Ping{Serial: 2})
	ctx.Inject(catalog.Ping{Serial: 3})

	got := ctx.Injected()
	if len(got) != 3 {
		t.Fatalf("expected 3 injected messages, got %d", len(got))
	}
	for i, want := range []uint32{1, 2, 3} {
		p, ok := got[i].(catalog.Ping)
		if !ok {
			t.Fatalf("injected[%d] is %T, want catalog.Ping", i, got[i])
		}
		if p.Serial != want {
			t.Fatalf("injected[%d].Serial = %d, want %d", i, p.Serial, want)
		}
	}
}
