package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadPacket reads one tag, then exactly the body length that tag
// prescribes, then decodes. Unknown tags are rejected before any body read.
func ReadPacket(r io.Reader) (Packet, error) {
	var tag [TagSize]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, err
	}
	kind := Kind(binary.LittleEndian.Uint32(tag[:]))

	size, err := BodySize(kind)
	if err != nil {
		return nil, err
	}

	body := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("read %s body: %w", kind, err)
		}
	}
	return Decode(kind, body)
}

// WritePacket encodes p and writes the whole frame.
func WritePacket(w io.Writer, p Packet) error {
	frame, err := Encode(p)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write %s packet: %w", p.Kind(), err)
	}
	return nil
}
