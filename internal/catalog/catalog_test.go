package catalog

import (
	"testing"

	"github.com/relaywire/realmproxy/internal/wire"
)

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	w := wire.NewWriter()
	if err := Encode(m, w); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(m.InternalID(), wire.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func TestHelloRoundTrip(t *testing.T) {
	m := Hello{BuildVersion: "1.2.3", GameID: 42, GUID: "guid-x", Password: "secret", CharID: 7}
	got := roundTrip(t, m)
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestMoveRoundTrip(t *testing.T) {
	m := Move{
		Time: 1000,
		Pos:  WorldPos{X: 5, Y: -6},
		Records: []MoveSample{
			{Time: 1, Pos: WorldPos{X: 1.5, Y: -2.5}},
			{Time: 2, Pos: WorldPos{X: 3, Y: 4}},
		},
	}
	got := roundTrip(t, m).(Move)
	if got.Time != m.Time || got.Pos != m.Pos || len(got.Records) != len(m.Records) {
		t.Fatalf("got %+v, want %+v", got, m)
	}
	for i := range m.Records {
		if got.Records[i] != m.Records[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, got.Records[i], m.Records[i])
		}
	}
}

func TestUseItemRoundTrip(t *testing.T) {
	m := UseItem{
		Time:    1000,
		Item:    SlotObject{ObjectID: 1, SlotID: 2, ObjectType: 3},
		Pos:     WorldPos{X: 1, Y: 2},
		UseType: 4,
	}
	got := roundTrip(t, m)
	if got != m {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestEnemyShootWithoutOptionalFields(t *testing.T) {
	m := EnemyShoot{BulletID: 1, OwnerID: 99, BulletType: 2, Pos: WorldPos{X: 1, Y: 2}, Angle: 0.5, Damage: 10}
	got := roundTrip(t, m).(EnemyShoot)
	if got.NumShots.Valid || got.AngleInc.Valid {
		t.Fatalf("expected absent optional fields, got %+v", got)
	}
	if got.BulletID != m.BulletID || got.Damage != m.Damage {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestEnemyShootWithOptionalFields(t *testing.T) {
	m := EnemyShoot{
		BulletID: 1, OwnerID: 99, BulletType: 2, Pos: WorldPos{X: 1, Y: 2}, Angle: 0.5, Damage: 10,
		NumShots: wire.Option[uint8]{Valid: true, Value: 3},
		AngleInc: wire.Option[float32]{Valid: true, Value: 0.1},
	}
	got := roundTrip(t, m).(EnemyShoot)
	if !got.NumShots.Valid || got.NumShots.Value != 3 {
		t.Fatalf("NumShots: got %+v", got.NumShots)
	}
	if !got.AngleInc.Valid || got.AngleInc.Value != 0.1 {
		t.Fatalf("AngleInc: got %+v", got.AngleInc)
	}
}

func TestPicManualAdapter(t *testing.T) {
	m := Pic{Width: 2, Height: 2, Bitmap: make([]byte, 2*2*4)}
	for i := range m.Bitmap {
		m.Bitmap[i] = byte(i)
	}
	got := roundTrip(t, m).(Pic)
	if got.Width != m.Width || got.Height != m.Height || string(got.Bitmap) != string(m.Bitmap) {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestPicRejectsMismatchedBitmapLength(t *testing.T) {
	m := Pic{Width: 2, Height: 2, Bitmap: make([]byte, 3)}
	w := wire.NewWriter()
	if err := Encode(m, w); err == nil {
		t.Fatal("expected error for mismatched bitmap length")
	}
}

func TestSideAndNameLookups(t *testing.T) {
	side, ok := SideOf(IDHello)
	if !ok || side != SideClient {
		t.Fatalf("SideOf(IDHello) = (%v,%v), want (client,true)", side, ok)
	}
	side, ok = SideOf(IDPic)
	if !ok || side != SideServer {
		t.Fatalf("SideOf(IDPic) = (%v,%v), want (server,true)", side, ok)
	}
	if NameOf(IDHello) != "Hello" {
		t.Fatalf("NameOf(IDHello) = %q", NameOf(IDHello))
	}
	id, ok := ByName("Hello")
	if !ok || id != IDHello {
		t.Fatalf("ByName(Hello) = (%v,%v)", id, ok)
	}
}

func TestDecodeUnregisteredID(t *testing.T) {
	if _, err := Decode(InternalID(-1), wire.NewReader(nil)); err == nil {
		t.Fatal("expected error decoding unregistered id")
	}
}
