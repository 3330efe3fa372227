package catalog

import "github.com/relaywire/realmproxy/internal/wire"

// WorldPos is a 2D float position, nested in many variants below.
type WorldPos struct {
	X, Y float32
}

func decodeWorldPos(r *wire.Reader) (WorldPos, error) {
	x, err := r.Float32()
	if err != nil {
		return WorldPos{}, err
	}
	y, err := r.Float32()
	if err != nil {
		return WorldPos{}, err
	}
	return WorldPos{X: x, Y: y}, nil
}

func (p WorldPos) encode(w *wire.Writer) error {
	if err := w.Float32(p.X); err != nil {
		return err
	}
	return w.Float32(p.Y)
}

// MoveSample is one timestamped position sample in a Move record.
type MoveSample struct {
	Time uint32
	Pos  WorldPos
}

func decodeMoveSample(r *wire.Reader) (MoveSample, error) {
	t, err := r.Uint32()
	if err != nil {
		return MoveSample{}, err
	}
	pos, err := decodeWorldPos(r)
	if err != nil {
		return MoveSample{}, err
	}
	return MoveSample{Time: t, Pos: pos}, nil
}

func (m MoveSample) encode(w *wire.Writer) error {
	if err := w.Uint32(m.Time); err != nil {
		return err
	}
	return m.Pos.encode(w)
}

// StatEntry is one stat update: a type tag and either a string or integer
// payload, mirroring the game's union-by-convention stat records. StrValue
// uses an 8-bit length prefix, unlike the catalog's 16-bit default.
type StatEntry struct {
	Type     uint8
	StrValue string
	IntValue uint32
}

func decodeStatEntry(r *wire.Reader) (StatEntry, error) {
	typ, err := r.Uint8()
	if err != nil {
		return StatEntry{}, err
	}
	str, err := r.String(wire.Prefix8)
	if err != nil {
		return StatEntry{}, err
	}
	iv, err := r.Uint32()
	if err != nil {
		return StatEntry{}, err
	}
	return StatEntry{Type: typ, StrValue: str, IntValue: iv}, nil
}

func (s StatEntry) encode(w *wire.Writer) error {
	if err := w.Uint8(s.Type); err != nil {
		return err
	}
	if err := w.String(wire.Prefix8, s.StrValue); err != nil {
		return err
	}
	return w.Uint32(s.IntValue)
}

// ObjectStatus carries one object's id, position, and stat list, nested
// inside NewTick's per-tick status batch.
type ObjectStatus struct {
	ObjectID uint32
	Pos      WorldPos
	Stats    []StatEntry
}

func decodeObjectStatus(r *wire.Reader) (ObjectStatus, error) {
	id, err := r.Uint32()
	if err != nil {
		return ObjectStatus{}, err
	}
	pos, err := decodeWorldPos(r)
	if err != nil {
		return ObjectStatus{}, err
	}
	stats, err := wire.ReadSeq(r, wire.Prefix16, decodeStatEntry)
	if err != nil {
		return ObjectStatus{}, err
	}
	return ObjectStatus{ObjectID: id, Pos: pos, Stats: stats}, nil
}

func (o ObjectStatus) encode(w *wire.Writer) error {
	if err := w.Uint32(o.ObjectID); err != nil {
		return err
	}
	if err := o.Pos.encode(w); err != nil {
		return err
	}
	return wire.WriteSeq(w, wire.Prefix16, o.Stats, func(w *wire.Writer, s StatEntry) error { return s.encode(w) })
}

// SlotObject identifies one inventory slot's contents.
type SlotObject struct {
	ObjectID   uint32
	SlotID     uint8
	ObjectType uint32
}

func decodeSlotObject(r *wire.Reader) (SlotObject, error) {
	id, err := r.Uint32()
	if err != nil {
		return SlotObject{}, err
	}
	slot, err := r.Uint8()
	if err != nil {
		return SlotObject{}, err
	}
	ot, err := r.Uint32()
	if err != nil {
		return SlotObject{}, err
	}
	return SlotObject{ObjectID: id, SlotID: slot, ObjectType: ot}, nil
}

func (s SlotObject) encode(w *wire.Writer) error {
	if err := w.Uint32(s.ObjectID); err != nil {
		return err
	}
	if err := w.Uint8(s.SlotID); err != nil {
		return err
	}
	return w.Uint32(s.ObjectType)
}

// TradeItem is one item offered in a trade.
type TradeItem struct {
	Item      uint32
	SlotType  uint32
	Tradeable bool
	Included  bool
}

func decodeTradeItem(r *wire.Reader) (TradeItem, error) {
	item, err := r.Uint32()
	if err != nil {
		return TradeItem{}, err
	}
	slotType, err := r.Uint32()
	if err != nil {
		return TradeItem{}, err
	}
	tradeable, err := r.Bool()
	if err != nil {
		return TradeItem{}, err
	}
	included, err := r.Bool()
	if err != nil {
		return TradeItem{}, err
	}
	return TradeItem{Item: item, SlotType: slotType, Tradeable: tradeable, Included: included}, nil
}

func (t TradeItem) encode(w *wire.Writer) error {
	if err := w.Uint32(t.Item); err != nil {
		return err
	}
	if err := w.Uint32(t.SlotType); err != nil {
		return err
	}
	if err := w.Bool(t.Tradeable); err != nil {
		return err
	}
	return w.Bool(t.Included)
}
