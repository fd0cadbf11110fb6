// Package seed constructs the pseudo-random generators used for frequency
// and phase selection.
package seed

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Entropy is the seed value that requests a non-deterministic generator.
const Entropy int64 = 0

// New returns a generator seeded with seed. Seed [Entropy] draws the seed
// from the operating system; any other value is fully reproducible.
func New(seed int64) *rand.Rand {
	if seed == Entropy {
		seed = draw()
	}
	return rand.New(rand.NewSource(seed))
}

// draw returns a nonzero seed from crypto/rand, or from the clock if the
// system source is unavailable.
func draw() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano() | 1
	}
	v := int64(binary.LittleEndian.Uint64(b[:]))
	if v == 0 {
		v = 1
	}
	return v
}
