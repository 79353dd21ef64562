package bitboard

import (
	"encoding/binary"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func TestKernelEquivalence(t *testing.T) {
	is := is.New(t)

	words := []uint64{1, 2, 3, 0x8000000000000000, ^uint64(0), hiMask, debruijn64}
	for i := 0; i < 5000; i++ {
		words = append(words, binary.LittleEndian.Uint64(frand.Bytes(8)))
	}

	for _, k := range kernels {
		is.Equal(k.popCount(0), 0)
	}
	for _, w := range words {
		if w == 0 {
			continue
		}
		for _, k := range kernels {
			is.Equal(k.popCount(w), hardware.popCount(w))
			is.Equal(k.forward(w), hardware.forward(w))
			is.Equal(k.backward(w), hardware.backward(w))
		}
	}
}

func TestSetKernel(t *testing.T) {
	is := is.New(t)
	defer SetKernel("hardware")

	is.Equal(len(Kernels()), 3)
	for _, name := range Kernels() {
		is.NoErr(SetKernel(name))
		is.Equal(ActiveKernel(), name)
	}
	err := SetKernel("simd512")
	is.True(err != nil)
}

func TestBoardScansUnderEachKernel(t *testing.T) {
	is := is.New(t)
	defer SetKernel("hardware")

	src := FromSquares(0, 40, 63, 64, 80)
	for _, name := range Kernels() {
		is.NoErr(SetKernel(name))

		is.Equal(src.Count(), 5)
		first, ok := src.First()
		is.True(ok)
		is.Equal(first, 0)
		last, ok := src.Last()
		is.True(ok)
		is.Equal(last, 80)

		b := src
		var drained []int
		for !b.IsEmpty() {
			drained = append(drained, b.Pop())
		}
		is.Equal(drained, []int{0, 40, 63, 64, 80})
	}
}
