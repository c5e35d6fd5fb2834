package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
)

const (
	// HeaderSize is the serialized size of a block header
	HeaderSize = 80

	// MaxChainLength bounds the per-length chain statistics
	MaxChainLength = 12
)

// WorkAssignment is a server-issued block header template for one thread.
type WorkAssignment struct {
	Thread        uint32
	Version       int32
	PrevBlockHash [32]byte
	MerkleRoot    [32]byte
	Time          uint32
	Bits          uint32
}

// BlockHeader is the 80 byte header searched by a compute thread.
type BlockHeader struct {
	Version       int32
	PrevBlockHash [32]byte
	MerkleRoot    [32]byte
	Time          uint32
	Bits          uint32
	Nonce         uint32
}

// Bytes serializes the header in wire order, little-endian.
func (h *BlockHeader) Bytes() [HeaderSize]byte {
	var b [HeaderSize]byte
	binary.LittleEndian.PutUint32(b[0:4], uint32(h.Version))
	copy(b[4:36], h.PrevBlockHash[:])
	copy(b[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(b[68:72], h.Time)
	binary.LittleEndian.PutUint32(b[72:76], h.Bits)
	binary.LittleEndian.PutUint32(b[76:80], h.Nonce)
	return b
}

// Hash returns SHA-256(SHA-256(header)). Both passes are part of the
// pool protocol and must stay.
func (h *BlockHeader) Hash() [32]byte {
	b := h.Bytes()
	first := sha256.Sum256(b[:])
	return sha256.Sum256(first[:])
}

// HashInt interprets the header hash as a little-endian 256-bit integer.
func (h *BlockHeader) HashInt() *big.Int {
	return Uint256LE(h.Hash())
}

// Uint256LE converts a little-endian 32 byte value to a big.Int.
func Uint256LE(le [32]byte) *big.Int {
	var be [32]byte
	for i := range le {
		be[31-i] = le[i]
	}
	return new(big.Int).SetBytes(be[:])
}

// WorkStats are the counters reported by one search round.
type WorkStats struct {
	Tests       uint32
	PrimesHit   uint32
	ChainsFound [MaxChainLength]uint32
}

// Reset clears all counters.
func (s *WorkStats) Reset() {
	*s = WorkStats{}
}

// WorkState is a compute thread's private working copy of an assignment.
type WorkState struct {
	Thread uint32
	Header BlockHeader

	// NewBlock is set while the current header has not been searched yet.
	// The searcher clears it when it starts a header and sets it again once
	// the header's candidates are used up.
	NewBlock bool

	FixedMultiplier *big.Int
	HeaderHash      *big.Int

	// Multiplier holds the certificate of the last found chain.
	Multiplier  []byte
	ChainLength uint32

	Stats WorkStats

	// Time tracks the adjusted clock while the header is being worked.
	// It never feeds back into the header, the submission carries no time.
	Time uint32
}

// NewWorkState derives a fresh working copy from an assignment.
func NewWorkState(a WorkAssignment) *WorkState {
	return &WorkState{
		Thread: a.Thread,
		Header: BlockHeader{
			Version:       a.Version,
			PrevBlockHash: a.PrevBlockHash,
			MerkleRoot:    a.MerkleRoot,
			Time:          a.Time,
			Bits:          a.Bits,
			Nonce:         0,
		},
		NewBlock:        true,
		FixedMultiplier: big.NewInt(1),
		HeaderHash:      new(big.Int),
		Time:            a.Time,
	}
}

// TargetLength is the whole chain length encoded in bits.
func TargetLength(bits uint32) uint32 {
	return bits >> 24
}

// PrimeDifficulty is bits as a fractional chain length.
func PrimeDifficulty(bits uint32) float64 {
	return float64(bits) / float64(1<<24)
}
