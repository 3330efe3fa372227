package catalog

import (
	"fmt"

	"github.com/relaywire/realmproxy/internal/wire"
)

// bytesPerPixel is the fixed pixel format Pic's bitmap is encoded in.
const bytesPerPixel = 4

// Pic is the catalog's one manual-adapter variant: its bitmap has no length
// prefix of its own, because its size is implicit in the two preceding
// dimension fields. Per the design's resolved open question, the dimensions
// stay explicit fields rather than being inferred from payload size.
type Pic struct {
	Width, Height uint32
	Bitmap        []byte
}

func (m Pic) InternalID() InternalID { return IDPic }

func (m Pic) encodeFields(w *wire.Writer) error {
	if err := w.Uint32(m.Width); err != nil {
		return err
	}
	if err := w.Uint32(m.Height); err != nil {
		return err
	}
	want := int(m.Width) * int(m.Height) * bytesPerPixel
	if len(m.Bitmap) != want {
		return &wire.InvalidDataError{Reason: fmt.Sprintf("pic bitmap length %d does not match %dx%d", len(m.Bitmap), m.Width, m.Height)}
	}
	w.WriteRaw(m.Bitmap)
	return nil
}

func decodePic(r *wire.Reader) (Message, error) {
	var m Pic
	var err error
	if m.Width, err = r.Uint32(); err != nil {
		return nil, err
	}
	if m.Height, err = r.Uint32(); err != nil {
		return nil, err
	}
	need := int(m.Width) * int(m.Height) * bytesPerPixel
	m.Bitmap, err = r.Raw(need)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func init() { register(IDPic, "Pic", SideServer, decodePic) }
