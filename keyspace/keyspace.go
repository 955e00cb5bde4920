// Package keyspace generates the authentication strings used to release a
// dock (spec.md §3, §4.A): strings over {'5'..'9'} at the endpoints and
// {'5'..'9','.'} in interior positions, for lengths 1 through 10.
package keyspace

import "fmt"

const (
	// MinLength and MaxLength bound the authentication string lengths the
	// generator will serve.
	MinLength = 1
	MaxLength = 10
)

var (
	endAlphabet = []byte{'5', '6', '7', '8', '9'}
	midAlphabet = []byte{'5', '6', '7', '8', '9', '.'}
)

// Generator serves CountFor(L) and StringAt(L, i) for L in [MinLength,
// MaxLength]. Per the design note in spec.md §9, it precomputes only the
// per-length counts eagerly (cheap) and derives StringAt on demand via a
// mixed-radix decode, rather than materializing every string up front
// (which the spec itself flags as an up-to-~600MB allocation at L=10).
// The decode is a pure function of (L, i), so ordering is stable across
// calls and processes without needing to store anything beyond the counts.
type Generator struct {
	counts [MaxLength + 1]int
}

// New returns a ready-to-use Generator with every length bucket's count
// precomputed.
func New() *Generator {
	g := &Generator{}
	for l := MinLength; l <= MaxLength; l++ {
		g.counts[l] = countFor(l)
	}
	return g
}

func countFor(l int) int {
	if l == 1 {
		return len(endAlphabet)
	}
	return len(endAlphabet) * pow(len(midAlphabet), l-2) * len(endAlphabet)
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// CountFor returns the number of admissible strings of length l. It panics
// if l is outside [MinLength, MaxLength]; callers (auth.Coordinator) must
// check the range themselves per spec.md §4.G/§7 kind 6, since an
// out-of-range length is a silent-skip condition, not a programmer error.
func (g *Generator) CountFor(l int) int {
	if l < MinLength || l > MaxLength {
		panic(fmt.Sprintf("keyspace: length %d out of range [%d,%d]", l, MinLength, MaxLength))
	}
	return g.counts[l]
}

// StringAt returns the i-th admissible string of length l in the stable,
// deterministic ordering used for work partitioning (spec.md §4.A, §9).
// i must be in [0, CountFor(l)).
func (g *Generator) StringAt(l, i int) string {
	count := g.CountFor(l)
	if i < 0 || i >= count {
		panic(fmt.Sprintf("keyspace: index %d out of range [0,%d) for length %d", i, count, l))
	}

	buf := make([]byte, l)
	if l == 1 {
		buf[0] = endAlphabet[i]
		return string(buf)
	}

	// The ordering matches the C source's recursive generator: the first
	// character is the most significant digit (base 5, over endAlphabet),
	// each interior character is a digit base 6 over midAlphabet, and the
	// last character is the least significant digit (base 5, over
	// endAlphabet again). Decode i accordingly, most significant first.
	interior := l - 2
	last := i % len(endAlphabet)
	i /= len(endAlphabet)

	buf[l-1] = endAlphabet[last]
	for pos := interior; pos >= 1; pos-- {
		digit := i % len(midAlphabet)
		i /= len(midAlphabet)
		buf[pos] = midAlphabet[digit]
	}
	buf[0] = endAlphabet[i]

	return string(buf)
}
