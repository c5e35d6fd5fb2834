// Package cpuinfo derives the processor identification words sent in the
// pool greeting.
package cpuinfo

import (
	"encoding/binary"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Info identifies the host processor
type Info struct {
	// Vendor is the three vendor string words of CPUID leaf 0 XORed together
	Vendor uint32
	// ProcInfo is the EAX signature of CPUID leaf 1
	ProcInfo uint32
	Brand    string
	Threads  int
}

// Detect reads the processor detected at startup
func Detect() Info {
	return FromCPU(cpuid.CPU)
}

// FromCPU builds Info from a cpuid result
func FromCPU(c cpuid.CPUInfo) Info {
	threads := c.LogicalCores
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return Info{
		Vendor:   VendorWord(c.VendorString),
		ProcInfo: Signature(c.Family, c.Model, c.Stepping),
		Brand:    c.BrandName,
		Threads:  threads,
	}
}

// VendorWord folds a 12 byte vendor string ("GenuineIntel") into one word.
// Shorter strings are zero padded.
func VendorWord(vendor string) uint32 {
	var raw [12]byte
	copy(raw[:], vendor)
	return binary.LittleEndian.Uint32(raw[0:4]) ^
		binary.LittleEndian.Uint32(raw[4:8]) ^
		binary.LittleEndian.Uint32(raw[8:12])
}

// Signature re-encodes the display family, model and stepping in the leaf 1
// EAX layout. The processor type bits are not recoverable and are left zero.
func Signature(family, model, stepping int) uint32 {
	if family <= 0 {
		return 0
	}
	baseFamily, extFamily := family, 0
	if family >= 0xf {
		baseFamily, extFamily = 0xf, family-0xf
	}
	baseModel, extModel := model&0xf, 0
	if baseFamily == 0x6 || baseFamily == 0xf {
		extModel = (model >> 4) & 0xf
	}
	return uint32(stepping&0xf) |
		uint32(baseModel)<<4 |
		uint32(baseFamily)<<8 |
		uint32(extModel)<<16 |
		uint32(extFamily&0xff)<<20
}
