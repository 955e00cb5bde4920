package keyspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountForBoundaries(t *testing.T) {
	g := New()

	assert.Equal(t, 5, g.CountFor(1))
	assert.Equal(t, 5*6*5, g.CountFor(3)) // spec.md §8 scenario 4
	assert.Equal(t, 5*pow(6, 8)*5, g.CountFor(10))
}

func TestStringAtLength1(t *testing.T) {
	g := New()
	want := []string{"5", "6", "7", "8", "9"}
	for i, w := range want {
		assert.Equal(t, w, g.StringAt(1, i))
	}
}

func TestStringAtLength2MatchesNestedLoopOrder(t *testing.T) {
	g := New()
	ends := []byte{'5', '6', '7', '8', '9'}

	idx := 0
	for _, first := range ends {
		for _, last := range ends {
			want := string([]byte{first, last})
			require.Equal(t, want, g.StringAt(2, idx), "index %d", idx)
			idx++
		}
	}
}

func TestStringAtVisitsEveryStringExactlyOnce(t *testing.T) {
	g := New()
	for l := MinLength; l <= 4; l++ {
		seen := make(map[string]bool)
		count := g.CountFor(l)
		for i := 0; i < count; i++ {
			s := g.StringAt(l, i)
			require.Len(t, s, l)
			require.False(t, seen[s], "duplicate string %q at index %d for length %d", s, i, l)
			seen[s] = true

			// Endpoints restricted to 5-9; interior (if any) may include '.'.
			assert.Contains(t, "56789", string(s[0]))
			assert.Contains(t, "56789", string(s[l-1]))
		}
		assert.Len(t, seen, count)
	}
}

func TestStringAtIsStableAcrossCalls(t *testing.T) {
	g := New()
	for i := 0; i < g.CountFor(5); i += 37 {
		first := g.StringAt(5, i)
		second := g.StringAt(5, i)
		assert.Equal(t, first, second)
	}
}

func TestStringAtLength10Boundary(t *testing.T) {
	g := New()
	count := g.CountFor(10)
	require.Equal(t, 5*pow(6, 8)*5, count)

	first := g.StringAt(10, 0)
	last := g.StringAt(10, count-1)
	assert.Len(t, first, 10)
	assert.Len(t, last, 10)
	assert.NotEqual(t, first, last)
}

func TestCountForPanicsOutOfRange(t *testing.T) {
	g := New()
	assert.Panics(t, func() { g.CountFor(0) })
	assert.Panics(t, func() { g.CountFor(11) })
}
