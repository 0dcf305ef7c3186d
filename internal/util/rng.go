package util

import (
	"hash/fnv"
	"math/rand"
)

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Derive returns an RNG seeded from seed and a subsystem label, so spawn
// placement and wandering draw from independent but reproducible streams.
func Derive(seed int64, label string) *rand.Rand {
	h := fnv.New64a()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(uint64(seed) >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte{0})
	h.Write([]byte(label))
	return New(int64(h.Sum64()))
}
