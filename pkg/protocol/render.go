package protocol

// Render is the payload of a FrameRender: the component's full HTML.
//
//	seq (uvarint) | html (string)
//
// Seq echoes the client event that caused the render. Renders caused by
// work dispatched from a goroutine carry zero.
type Render struct {
	Seq  uint64
	HTML string
}

func EncodeRender(r *Render) []byte {
	e := NewEncoder()
	e.PutUvarint(r.Seq)
	e.PutString(r.HTML)
	return e.Bytes()
}

func DecodeRender(data []byte) (*Render, error) {
	d := NewDecoder(data)
	var (
		r   Render
		err error
	)
	if r.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if r.HTML, err = d.ReadString(); err != nil {
		return nil, err
	}
	if err = d.finish(); err != nil {
		return nil, err
	}
	return &r, nil
}
