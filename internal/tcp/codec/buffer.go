package codec

import (
	"encoding/binary"
	"fmt"
)

// reader walks a body slice, checking bounds before every access.
type reader struct {
	data   []byte
	offset int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// need checks that at least n bytes remain and returns the current offset.
func (r *reader) need(n int) (int, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return 0, ErrShortBuffer
	}
	off := r.offset
	r.offset += n
	return off, nil
}

func (r *reader) uint8() (uint8, error) {
	off, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return r.data[off], nil
}

func (r *reader) uint32() (uint32, error) {
	off, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[off:]), nil
}

// fixed copies exactly len(dst) bytes.
func (r *reader) fixed(dst []byte) error {
	off, err := r.need(len(dst))
	if err != nil {
		return err
	}
	copy(dst, r.data[off:off+len(dst)])
	return nil
}

func (r *reader) skip(n int) error {
	_, err := r.need(n)
	return err
}

// cstring reads a fixed-width zero-terminated field. The last byte of the
// field is treated as a terminator whatever it holds.
func (r *reader) cstring(width int) (string, error) {
	off, err := r.need(width)
	if err != nil {
		return "", err
	}
	field := r.data[off : off+width-1]
	for i, b := range field {
		if b == 0 {
			return string(field[:i]), nil
		}
	}
	return string(field), nil
}

func (r *reader) remaining() int {
	return len(r.data) - r.offset
}

// writer appends little-endian fields to a preallocated frame.
type writer struct {
	buf []byte
}

func newWriter(capacity int) *writer {
	return &writer{buf: make([]byte, 0, capacity)}
}

func (w *writer) uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *writer) zeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// cstring writes s into a zero-padded field of width bytes, always leaving
// room for the terminator.
func (w *writer) cstring(s string, width int) error {
	if len(s) > width-1 {
		return fmt.Errorf("%w: %d bytes, field holds %d", ErrFieldTooLong, len(s), width-1)
	}
	w.buf = append(w.buf, s...)
	w.zeros(width - len(s))
	return nil
}

func (w *writer) bytesOut() []byte {
	return w.buf
}
