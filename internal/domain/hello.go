package domain

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// AddressSize is the fixed width of the payout address field
	AddressSize = 34

	// EntropySize is the size of the random session block
	EntropySize = 256
)

// HelloPayload announces the client to the pool.
type HelloPayload struct {
	Version         uint32
	Build           uint32
	ProtocolVersion uint32
	Threads         uint8
	Vendor          uint32
	ProcInfo        uint32
	Address         [AddressSize]byte
	Entropy         [EntropySize]byte
}

// SetAddress zero-pads addr into the fixed address field.
func (h *HelloPayload) SetAddress(addr string) error {
	if len(addr) > AddressSize {
		return fmt.Errorf("address is %d bytes, maximum is %d", len(addr), AddressSize)
	}
	h.Address = [AddressSize]byte{}
	copy(h.Address[:], addr)
	return nil
}

// SafeAddress returns the address without its zero padding.
func (h *HelloPayload) SafeAddress() string {
	return string(bytes.TrimRight(h.Address[:], "\x00"))
}

// Randomize refills the entropy block from r.
func (h *HelloPayload) Randomize(r io.Reader) error {
	if _, err := io.ReadFull(r, h.Entropy[:]); err != nil {
		return fmt.Errorf("failed to read session entropy: %w", err)
	}
	return nil
}
