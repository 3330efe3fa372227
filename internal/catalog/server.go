package catalog

import "github.com/relaywire/realmproxy/internal/wire"

// NewTick opens a new server tick, carrying the status of every object the
// client needs an update for.
type NewTick struct {
	TickID           uint32
	Time             uint32
	ServerRealTimeMS uint32
	Statuses         []ObjectStatus
}

func (m NewTick) InternalID() InternalID { return IDNewTick }
func (m NewTick) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.TickID); err != nil {
		return err
	}
	if err := w.Uint32(m.Time); err != nil {
		return err
	}
	if err := w.Uint32(m.ServerRealTimeMS); err != nil {
		return err
	}
	return wire.WriteSeq(w, wire.Prefix16, m.Statuses, func(w *wire.Writer, s ObjectStatus) error { return s.encode(w) })
}
func decodeNewTick(r *wire.Reader) (Message, error) {
	var m NewTick
	var err error
	if m.TickID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Time, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.ServerRealTimeMS, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Statuses, err = wire.ReadSeq(r, wire.Prefix16, decodeObjectStatus); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDNewTick, "NewTick", SideServer, decodeNewTick) }

// Update adds and removes objects from the client's known world.
type Update struct {
	Pos            WorldPos
	NewObjects     []ObjectStatus
	RemovedObjects []uint32
}

func (m Update) InternalID() InternalID { return IDUpdate }
func (m Update) encodeFields(w *wire.Writer) error {
	if err := m.Pos.encode(w); err != nil {
		return err
	}
	if err := wire.WriteSeq(w, wire.Prefix16, m.NewObjects, func(w *wire.Writer, s ObjectStatus) error { return s.encode(w) }); err != nil {
		return err
	}
	return wire.WriteSeq(w, wire.Prefix16, m.RemovedObjects, func(w *wire.Writer, v uint32) error { return w.Uint32(v) })
}
func decodeUpdate(r *wire.Reader) (Message, error) {
	var m Update
	var err error
	if m.Pos, err = decodeWorldPos(r); err != nil {
		return nil, err
	}
	if m.NewObjects, err = wire.ReadSeq(r, wire.Prefix16, decodeObjectStatus); err != nil {
		return nil, err
	}
	if m.RemovedObjects, err = wire.ReadSeq(r, wire.Prefix16, func(r *wire.Reader) (uint32, error) { return r.Uint32() }); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDUpdate, "Update", SideServer, decodeUpdate) }

// Goto instructs the client to snap an object to a new position.
type Goto struct {
	ObjectID uint32
	Pos      WorldPos
}

func (m Goto) InternalID() InternalID { return IDGoto }
func (m Goto) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.ObjectID); err != nil {
		return err
	}
	return m.Pos.encode(w)
}
func decodeGoto(r *wire.Reader) (Message, error) {
	var m Goto
	var err error
	if m.ObjectID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Pos, err = decodeWorldPos(r); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDGoto, "Goto", SideServer, decodeGoto) }

// Failure terminates the connection with a numeric cause and description.
type Failure struct {
	ID          uint32
	Description string
}

func (m Failure) InternalID() InternalID { return IDFailure }
func (m Failure) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.ID); err != nil {
		return err
	}
	return w.String(wire.Prefix16, m.Description)
}
func decodeFailure(r *wire.Reader) (Message, error) {
	var m Failure
	var err error
	if m.ID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Description, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDFailure, "Failure", SideServer, decodeFailure) }

// Ping carries a serial the client must echo back in a Pong.
type Ping struct {
	Serial uint32
}

func (m Ping) InternalID() InternalID           { return IDPing }
func (m Ping) encodeFields(w *wire.Writer) error { return w.Uint32(m.Serial) }
func decodePing(r *wire.Reader) (Message, error) {
	s, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return Ping{Serial: s}, nil
}
func init() { register(IDPing, "Ping", SideServer, decodePing) }

// CreateSuccess reports the object and character ID assigned to a newly
// created character.
type CreateSuccess struct {
	ObjectID uint32
	CharID   uint32
}

func (m CreateSuccess) InternalID() InternalID { return IDCreateSuccess }
func (m CreateSuccess) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.ObjectID); err != nil {
		return err
	}
	return w.Uint32(m.CharID)
}
func decodeCreateSuccess(r *wire.Reader) (Message, error) {
	var m CreateSuccess
	var err error
	if m.ObjectID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.CharID, err = r.Uint32(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDCreateSuccess, "CreateSuccess", SideServer, decodeCreateSuccess) }

// Text is a chat line attributed to Name, optionally spoken by ObjectID.
type Text struct {
	Name     string
	ObjectID uint32
	Text     string
}

func (m Text) InternalID() InternalID { return IDText }
func (m Text) encodeFields(w *wire.Writer) error {
	if err := w.String(wire.Prefix16, m.Name); err != nil {
		return err
	}
	if err := w.Uint32(m.ObjectID); err != nil {
		return err
	}
	return w.String(wire.Prefix16, m.Text)
}
func decodeText(r *wire.Reader) (Message, error) {
	var m Text
	var err error
	if m.Name, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.ObjectID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Text, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDText, "Text", SideServer, decodeText) }

// Damage reports a hit on TargetID by one or more bullets, identified by an
// 8-bit-prefixed bitmap of bullet-effect flags.
type Damage struct {
	TargetID      uint32
	EffectsBitmap []byte
	Kill          bool
	DamageAmount  uint16
}

func (m Damage) InternalID() InternalID { return IDDamage }
func (m Damage) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.TargetID); err != nil {
		return err
	}
	if err := w.WriteBytes(wire.Prefix8, m.EffectsBitmap); err != nil {
		return err
	}
	if err := w.Bool(m.Kill); err != nil {
		return err
	}
	return w.Uint16(m.DamageAmount)
}
func decodeDamage(r *wire.Reader) (Message, error) {
	var m Damage
	var err error
	if m.TargetID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.EffectsBitmap, err = r.Bytes(wire.Prefix8); err != nil {
		return nil, err
	}
	if m.Kill, err = r.Bool(); err != nil {
		return nil, err
	}
	if m.DamageAmount, err = r.Uint16(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDDamage, "Damage", SideServer, decodeDamage) }

// Death announces a character's death and its killer.
type Death struct {
	AccountID string
	CharID    uint32
	KilledBy  string
}

func (m Death) InternalID() InternalID { return IDDeath }
func (m Death) encodeFields(w *wire.Writer) error {
	if err := w.String(wire.Prefix16, m.AccountID); err != nil {
		return err
	}
	if err := w.Uint32(m.CharID); err != nil {
		return err
	}
	return w.String(wire.Prefix16, m.KilledBy)
}
func decodeDeath(r *wire.Reader) (Message, error) {
	var m Death
	var err error
	if m.AccountID, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.CharID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.KilledBy, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDDeath, "Death", SideServer, decodeDeath) }

// TradeStart opens a trade window seeded with each side's current items.
type TradeStart struct {
	MyItems   []TradeItem
	YourItems []TradeItem
}

func (m TradeStart) InternalID() InternalID { return IDTradeStart }
func (m TradeStart) encodeFields(w *wire.Writer) error {
	encodeItem := func(w *wire.Writer, t TradeItem) error { return t.encode(w) }
	if err := wire.WriteSeq(w, wire.Prefix16, m.MyItems, encodeItem); err != nil {
		return err
	}
	return wire.WriteSeq(w, wire.Prefix16, m.YourItems, encodeItem)
}
func decodeTradeStart(r *wire.Reader) (Message, error) {
	mine, err := wire.ReadSeq(r, wire.Prefix16, decodeTradeItem)
	if err != nil {
		return nil, err
	}
	yours, err := wire.ReadSeq(r, wire.Prefix16, decodeTradeItem)
	if err != nil {
		return nil, err
	}
	return TradeStart{MyItems: mine, YourItems: yours}, nil
}
func init() { register(IDTradeStart, "TradeStart", SideServer, decodeTradeStart) }

// MapInfo describes the loaded map, including its client-side XML layers —
// a sequence of 32-bit-prefixed strings inside a 32-bit-prefixed outer
// sequence, the nested-length-prefix case called out in the field codec
// design.
type MapInfo struct {
	Width       uint32
	Height      uint32
	Name        string
	DisplayName string
	ClientXML   []string
	Background  uint32
}

func (m MapInfo) InternalID() InternalID { return IDMapInfo }
func (m MapInfo) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Width); err != nil {
		return err
	}
	if err := w.Uint32(m.Height); err != nil {
		return err
	}
	if err := w.String(wire.Prefix16, m.Name); err != nil {
		return err
	}
	if err := w.String(wire.Prefix16, m.DisplayName); err != nil {
		return err
	}
	if err := wire.WriteSeq(w, wire.Prefix32, m.ClientXML, func(w *wire.Writer, s string) error {
		return w.String(wire.Prefix32, s)
	}); err != nil {
		return err
	}
	return w.Uint32(m.Background)
}
func decodeMapInfo(r *wire.Reader) (Message, error) {
	var m MapInfo
	var err error
	if m.Width, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Height, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Name, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.DisplayName, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.ClientXML, err = wire.ReadSeq(r, wire.Prefix32, func(r *wire.Reader) (string, error) {
		return r.String(wire.Prefix32)
	}); err != nil {
		return nil, err
	}
	if m.Background, err = r.Uint32(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDMapInfo, "MapInfo", SideServer, decodeMapInfo) }

// AccountList is a nested sequence of 8-bit-prefixed strings inside a
// 16-bit-prefixed outer sequence — the other nested-length-prefix shape.
type AccountList struct {
	AccountIDs []string
}

func (m AccountList) InternalID() InternalID { return IDAccountList }
func (m AccountList) encodeFields(w *wire.Writer) error {
	return wire.WriteSeq(w, wire.Prefix16, m.AccountIDs, func(w *wire.Writer, s string) error {
		return w.String(wire.Prefix8, s)
	})
}
func decodeAccountList(r *wire.Reader) (Message, error) {
	ids, err := wire.ReadSeq(r, wire.Prefix16, func(r *wire.Reader) (string, error) {
		return r.String(wire.Prefix8)
	})
	if err != nil {
		return nil, err
	}
	return AccountList{AccountIDs: ids}, nil
}
func init() { register(IDAccountList, "AccountList", SideServer, decodeAccountList) }

// InvResult reports the outcome of a previous inventory operation.
type InvResult struct {
	Result uint32
}

func (m InvResult) InternalID() InternalID           { return IDInvResult }
func (m InvResult) encodeFields(w *wire.Writer) error { return w.Uint32(m.Result) }
func decodeInvResult(r *wire.Reader) (Message, error) {
	v, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return InvResult{Result: v}, nil
}
func init() { register(IDInvResult, "InvResult", SideServer, decodeInvResult) }

// EnemyShoot reports an enemy firing. NumShots and AngleInc are present only
// when the server declares more than one shot fired in a single volley — the
// real-world instance of the field codec's optional trailing field, and only
// meaningful because they are the variant's final fields.
type EnemyShoot struct {
	BulletID   uint8
	OwnerID    uint32
	BulletType uint8
	Pos        WorldPos
	Angle      float32
	Damage     uint16
	NumShots   wire.Option[uint8]
	AngleInc   wire.Option[float32]
}

func (m EnemyShoot) InternalID() InternalID { return IDEnemyShoot }
func (m EnemyShoot) encodeFields(w *wire.Writer) error {
	if err := w.Uint8(m.BulletID); err != nil {
		return err
	}
	if err := w.Uint32(m.OwnerID); err != nil {
		return err
	}
	if err := w.Uint8(m.BulletType); err != nil {
		return err
	}
	if err := m.Pos.encode(w); err != nil {
		return err
	}
	if err := w.Float32(m.Angle); err != nil {
		return err
	}
	if err := w.Uint16(m.Damage); err != nil {
		return err
	}
	if err := wire.WriteOption(w, m.NumShots, func(w *wire.Writer, v uint8) error { return w.Uint8(v) }); err != nil {
		return err
	}
	return wire.WriteOption(w, m.AngleInc, func(w *wire.Writer, v float32) error { return w.Float32(v) })
}
func decodeEnemyShoot(r *wire.Reader) (Message, error) {
	var m EnemyShoot
	var err error
	if m.BulletID, err = r.Uint8(); err != nil {
		return nil, err
	}
	if m.OwnerID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.BulletType, err = r.Uint8(); err != nil {
		return nil, err
	}
	if m.Pos, err = decodeWorldPos(r); err != nil {
		return nil, err
	}
	if m.Angle, err = r.Float32(); err != nil {
		return nil, err
	}
	if m.Damage, err = r.Uint16(); err != nil {
		return nil, err
	}
	if m.NumShots, err = wire.ReadOption(r, func(r *wire.Reader) (uint8, error) { return r.Uint8() }); err != nil {
		return nil, err
	}
	if m.AngleInc, err = wire.ReadOption(r, func(r *wire.Reader) (float32, error) { return r.Float32() }); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDEnemyShoot, "EnemyShoot", SideServer, decodeEnemyShoot) }
