package bitboard

import (
	"fmt"
	"math/bits"

	"github.com/samber/lo"
)

// A Kernel supplies the three single-word bit-scanning primitives. The scan
// arguments must be nonzero; popCount accepts any word.
type Kernel struct {
	Name     string
	popCount func(uint64) int
	forward  func(uint64) int
	backward func(uint64) int
}

var hardware = &Kernel{
	Name:     "hardware",
	popCount: bits.OnesCount64,
	forward:  bits.TrailingZeros64,
	backward: func(x uint64) int { return 63 - bits.LeadingZeros64(x) },
}

// debruijn64 is the shared multiplier for both scan directions. Each scan
// first reduces its argument to a run of k+1 low ones (x^(x-1) for the
// lowest bit, a shift smear for the highest), so one index table serves
// both; the table is derived from the constant in init.
const debruijn64 = 0x03f79d71b4cb0a89

var deBruijnIndex [64]int

func init() {
	for k := 0; k < 64; k++ {
		ones := ^uint64(0) >> uint(63-k)
		deBruijnIndex[ones*debruijn64>>58] = k
	}
}

var deBruijn = &Kernel{
	Name:     "debruijn",
	popCount: popCountSWAR,
	forward: func(x uint64) int {
		return deBruijnIndex[(x^(x-1))*debruijn64>>58]
	},
	backward: func(x uint64) int {
		x |= x >> 1
		x |= x >> 2
		x |= x >> 4
		x |= x >> 8
		x |= x >> 16
		x |= x >> 32
		return deBruijnIndex[x*debruijn64>>58]
	},
}

func popCountSWAR(x uint64) int {
	x -= (x >> 1) & 0x5555555555555555
	x = x&0x3333333333333333 + x>>2&0x3333333333333333
	x = (x + x>>4) & 0x0f0f0f0f0f0f0f0f
	return int(x * 0x0101010101010101 >> 56)
}

var portable = &Kernel{
	Name: "portable",
	popCount: func(x uint64) int {
		n := 0
		for x != 0 {
			x &= x - 1
			n++
		}
		return n
	},
	forward: func(x uint64) int {
		i := 0
		for x&1 == 0 {
			x >>= 1
			i++
		}
		return i
	},
	backward: func(x uint64) int {
		i := 63
		for x>>63 == 0 {
			x <<= 1
			i--
		}
		return i
	},
}

var kernels = []*Kernel{hardware, deBruijn, portable}

// active is chosen once at process start. math/bits lowers to single
// instructions on every port this builds for, so hardware is the default;
// the other kernels serve as fallbacks and as cross-checks in tests.
var active = hardware

// ActiveKernel reports the name of the kernel in use.
func ActiveKernel() string { return active.Name }

// Kernels lists the available kernel names.
func Kernels() []string {
	return lo.Map(kernels, func(k *Kernel, _ int) string { return k.Name })
}

// SetKernel switches the scanning kernel by name. It is intended for
// startup configuration and tests and must not race with concurrent scans.
func SetKernel(name string) error {
	for _, k := range kernels {
		if k.Name == name {
			active = k
			return nil
		}
	}
	return fmt.Errorf("unknown scan kernel %q", name)
}
