package catalog

import "github.com/relaywire/realmproxy/internal/wire"

// Hello is the client's opening handshake message.
type Hello struct {
	BuildVersion string
	GameID       uint32
	GUID         string
	Password     string
	CharID       uint16
}

func (m Hello) InternalID() InternalID { return IDHello }

func (m Hello) encodeFields(w *wire.Writer) error {
	if err := w.String(wire.Prefix16, m.BuildVersion); err != nil {
		return err
	}
	if err := w.Uint32(m.GameID); err != nil {
		return err
	}
	if err := w.String(wire.Prefix16, m.GUID); err != nil {
		return err
	}
	if err := w.String(wire.Prefix16, m.Password); err != nil {
		return err
	}
	return w.Uint16(m.CharID)
}

func decodeHello(r *wire.Reader) (Message, error) {
	var m Hello
	var err error
	if m.BuildVersion, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.GameID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.GUID, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.Password, err = r.String(wire.Prefix16); err != nil {
		return nil, err
	}
	if m.CharID, err = r.Uint16(); err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(IDHello, "Hello", SideClient, decodeHello) }

// Load requests the server start loading a given character.
type Load struct {
	CharID     uint16
	IsFromArena bool
}

func (m Load) InternalID() InternalID { return IDLoad }
func (m Load) encodeFields(w *wire.Writer) error {
	if err := w.Uint16(m.CharID); err != nil {
		return err
	}
	return w.Bool(m.IsFromArena)
}
func decodeLoad(r *wire.Reader) (Message, error) {
	var m Load
	var err error
	if m.CharID, err = r.Uint16(); err != nil {
		return nil, err
	}
	if m.IsFromArena, err = r.Bool(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDLoad, "Load", SideClient, decodeLoad) }

// Move reports the client's movement since the last tick it acknowledged.
type Move struct {
	Time    uint32
	Pos     WorldPos
	Records []MoveSample
}

func (m Move) InternalID() InternalID { return IDMove }
func (m Move) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Time); err != nil {
		return err
	}
	if err := m.Pos.encode(w); err != nil {
		return err
	}
	return wire.WriteSeq(w, wire.Prefix16, m.Records, func(w *wire.Writer, s MoveSample) error { return s.encode(w) })
}
func decodeMove(r *wire.Reader) (Message, error) {
	var m Move
	var err error
	if m.Time, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Pos, err = decodeWorldPos(r); err != nil {
		return nil, err
	}
	if m.Records, err = wire.ReadSeq(r, wire.Prefix16, decodeMoveSample); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDMove, "Move", SideClient, decodeMove) }

// PlayerShoot reports the client firing a projectile.
type PlayerShoot struct {
	Time       uint32
	BulletID   uint8
	OwnerID    uint32
	ContainerType uint16
	Pos        WorldPos
	Angle      float32
}

func (m PlayerShoot) InternalID() InternalID { return IDPlayerShoot }
func (m PlayerShoot) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Time); err != nil {
		return err
	}
	if err := w.Uint8(m.BulletID); err != nil {
		return err
	}
	if err := w.Uint32(m.OwnerID); err != nil {
		return err
	}
	if err := w.Uint16(m.ContainerType); err != nil {
		return err
	}
	if err := m.Pos.encode(w); err != nil {
		return err
	}
	return w.Float32(m.Angle)
}
func decodePlayerShoot(r *wire.Reader) (Message, error) {
	var m PlayerShoot
	var err error
	if m.Time, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.BulletID, err = r.Uint8(); err != nil {
		return nil, err
	}
	if m.OwnerID, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.ContainerType, err = r.Uint16(); err != nil {
		return nil, err
	}
	if m.Pos, err = decodeWorldPos(r); err != nil {
		return nil, err
	}
	if m.Angle, err = r.Float32(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDPlayerShoot, "PlayerShoot", SideClient, decodePlayerShoot) }

// PlayerText is a chat message typed by the player.
type PlayerText struct {
	Text string
}

func (m PlayerText) InternalID() InternalID             { return IDPlayerText }
func (m PlayerText) encodeFields(w *wire.Writer) error   { return w.String(wire.Prefix16, m.Text) }
func decodePlayerText(r *wire.Reader) (Message, error) {
	s, err := r.String(wire.Prefix16)
	if err != nil {
		return nil, err
	}
	return PlayerText{Text: s}, nil
}
func init() { register(IDPlayerText, "PlayerText", SideClient, decodePlayerText) }

// UseItem requests using the item in one inventory slot, at a given world
// position, for a given use type (e.g. consume vs. equip).
type UseItem struct {
	Time    uint32
	Item    SlotObject
	Pos     WorldPos
	UseType uint32
}

func (m UseItem) InternalID() InternalID { return IDUseItem }
func (m UseItem) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Time); err != nil {
		return err
	}
	if err := m.Item.encode(w); err != nil {
		return err
	}
	if err := m.Pos.encode(w); err != nil {
		return err
	}
	return w.Uint32(m.UseType)
}
func decodeUseItem(r *wire.Reader) (Message, error) {
	var m UseItem
	var err error
	if m.Time, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Item, err = decodeSlotObject(r); err != nil {
		return nil, err
	}
	if m.Pos, err = decodeWorldPos(r); err != nil {
		return nil, err
	}
	if m.UseType, err = r.Uint32(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDUseItem, "UseItem", SideClient, decodeUseItem) }

// Pong answers a server Ping, echoing its serial and the client's clock.
type Pong struct {
	Serial uint32
	Time   uint32
}

func (m Pong) InternalID() InternalID { return IDPong }
func (m Pong) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Serial); err != nil {
		return err
	}
	return w.Uint32(m.Time)
}
func decodePong(r *wire.Reader) (Message, error) {
	var m Pong
	var err error
	if m.Serial, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Time, err = r.Uint32(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDPong, "Pong", SideClient, decodePong) }

// InvSwap moves an item between two inventory slots, possibly across
// containers (trade windows, vaults).
type InvSwap struct {
	Time uint32
	From SlotObject
	To   SlotObject
}

func (m InvSwap) InternalID() InternalID { return IDInvSwap }
func (m InvSwap) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Time); err != nil {
		return err
	}
	if err := m.From.encode(w); err != nil {
		return err
	}
	return m.To.encode(w)
}
func decodeInvSwap(r *wire.Reader) (Message, error) {
	var m InvSwap
	var err error
	if m.Time, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.From, err = decodeSlotObject(r); err != nil {
		return nil, err
	}
	if m.To, err = decodeSlotObject(r); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDInvSwap, "InvSwap", SideClient, decodeInvSwap) }

// InvDrop drops the item in one inventory slot onto the ground.
type InvDrop struct {
	Slot SlotObject
}

func (m InvDrop) InternalID() InternalID           { return IDInvDrop }
func (m InvDrop) encodeFields(w *wire.Writer) error { return m.Slot.encode(w) }
func decodeInvDrop(r *wire.Reader) (Message, error) {
	s, err := decodeSlotObject(r)
	if err != nil {
		return nil, err
	}
	return InvDrop{Slot: s}, nil
}
func init() { register(IDInvDrop, "InvDrop", SideClient, decodeInvDrop) }

// GotoAck acknowledges a server Goto, echoing its tick time.
type GotoAck struct {
	Time uint32
}

func (m GotoAck) InternalID() InternalID           { return IDGotoAck }
func (m GotoAck) encodeFields(w *wire.Writer) error { return w.Uint32(m.Time) }
func decodeGotoAck(r *wire.Reader) (Message, error) {
	t, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return GotoAck{Time: t}, nil
}
func init() { register(IDGotoAck, "GotoAck", SideClient, decodeGotoAck) }

// RequestTrade asks the server to open a trade with the named player.
type RequestTrade struct {
	Name string
}

func (m RequestTrade) InternalID() InternalID           { return IDRequestTrade }
func (m RequestTrade) encodeFields(w *wire.Writer) error { return w.String(wire.Prefix16, m.Name) }
func decodeRequestTrade(r *wire.Reader) (Message, error) {
	s, err := r.String(wire.Prefix16)
	if err != nil {
		return nil, err
	}
	return RequestTrade{Name: s}, nil
}
func init() { register(IDRequestTrade, "RequestTrade", SideClient, decodeRequestTrade) }

// TradeAccepted reports the client's accept/offer state for each trade slot.
type TradeAccepted struct {
	MyOffer   []bool
	YourOffer []bool
}

func (m TradeAccepted) InternalID() InternalID { return IDTradeAccepted }
func (m TradeAccepted) encodeFields(w *wire.Writer) error {
	encodeBool := func(w *wire.Writer, b bool) error { return w.Bool(b) }
	if err := wire.WriteSeq(w, wire.Prefix16, m.MyOffer, encodeBool); err != nil {
		return err
	}
	return wire.WriteSeq(w, wire.Prefix16, m.YourOffer, encodeBool)
}
func decodeTradeAccepted(r *wire.Reader) (Message, error) {
	decodeBool := func(r *wire.Reader) (bool, error) { return r.Bool() }
	mine, err := wire.ReadSeq(r, wire.Prefix16, decodeBool)
	if err != nil {
		return nil, err
	}
	yours, err := wire.ReadSeq(r, wire.Prefix16, decodeBool)
	if err != nil {
		return nil, err
	}
	return TradeAccepted{MyOffer: mine, YourOffer: yours}, nil
}
func init() { register(IDTradeAccepted, "TradeAccepted", SideClient, decodeTradeAccepted) }

// JoinGuild requests joining the named guild.
type JoinGuild struct {
	GuildName string
}

func (m JoinGuild) InternalID() InternalID           { return IDJoinGuild }
func (m JoinGuild) encodeFields(w *wire.Writer) error { return w.String(wire.Prefix16, m.GuildName) }
func decodeJoinGuild(r *wire.Reader) (Message, error) {
	s, err := r.String(wire.Prefix16)
	if err != nil {
		return nil, err
	}
	return JoinGuild{GuildName: s}, nil
}
func init() { register(IDJoinGuild, "JoinGuild", SideClient, decodeJoinGuild) }

// UsePortal requests entering the portal object identified by ObjectID.
type UsePortal struct {
	ObjectID uint32
}

func (m UsePortal) InternalID() InternalID           { return IDUsePortal }
func (m UsePortal) encodeFields(w *wire.Writer) error { return w.Uint32(m.ObjectID) }
func decodeUsePortal(r *wire.Reader) (Message, error) {
	id, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	return UsePortal{ObjectID: id}, nil
}
func init() { register(IDUsePortal, "UsePortal", SideClient, decodeUsePortal) }

// EscapeCheck has no fields; it is a client liveness probe against AFK kicks.
type EscapeCheck struct{}

func (m EscapeCheck) InternalID() InternalID             { return IDEscapeCheck }
func (m EscapeCheck) encodeFields(w *wire.Writer) error   { return nil }
func decodeEscapeCheck(r *wire.Reader) (Message, error) { return EscapeCheck{}, nil }
func init() { register(IDEscapeCheck, "EscapeCheck", SideClient, decodeEscapeCheck) }

// Create requests creating a new character of the given class and skin.
type Create struct {
	ClassType uint16
	SkinType  uint16
}

func (m Create) InternalID() InternalID { return IDCreate }
func (m Create) encodeFields(w *wire.Writer) error {
	if err := w.Uint16(m.ClassType); err != nil {
		return err
	}
	return w.Uint16(m.SkinType)
}
func decodeCreate(r *wire.Reader) (Message, error) {
	var m Create
	var err error
	if m.ClassType, err = r.Uint16(); err != nil {
		return nil, err
	}
	if m.SkinType, err = r.Uint16(); err != nil {
		return nil, err
	}
	return m, nil
}
func init() { register(IDCreate, "Create", SideClient, decodeCreate) }
