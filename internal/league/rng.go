package league

import "math/rand"

// Source is the randomness consumed by every simulation step. *rand.Rand
// satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a root seed with an index (SplitMix64 finaliser) so that
// independent units of work get unrelated but reproducible streams.
func DeriveSeed(root int64, index int) int64 {
	z := uint64(root) + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z)
}
