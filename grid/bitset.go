package grid

import "math/bits"

// bitset packs one bit per cell into 64-bit words.
type bitset []uint64

func newBitset(size int) bitset {
	return make(bitset, (size+63)/64)
}

func (b bitset) get(i int) bool {
	return b[i/64]&(1<<(i%64)) != 0
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (i % 64)
}

func (b bitset) clear(i int) {
	b[i/64] &^= 1 << (i % 64)
}

func (b bitset) toggle(i int) {
	b[i/64] ^= 1 << (i % 64)
}

func (b bitset) reset() {
	for i := range b {
		b[i] = 0
	}
}

func (b bitset) count() int {
	total := 0
	for _, word := range b {
		total += bits.OnesCount64(word)
	}
	return total
}
