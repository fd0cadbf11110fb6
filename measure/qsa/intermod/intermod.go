package intermod

import (
	"math/rand"
	"sort"

	"github.com/cwbudde/algo-qsa/internal/seed"
)

// Intermodulation is an accepted generator set together with the quadratic
// products it produces. It is immutable once built.
type Intermodulation struct {
	generators []int
	products   []int
}

// Mix computes the quadratic mixing set of candidate k against the already
// accepted generators: {k, 2k} plus k+g and |k-g| for every g.
//
// It reports false when the set collides with itself, which includes k == 0
// and a candidate that is already a generator. The returned set is sorted.
func Mix(generators []int, k int) ([]int, bool) {
	mixing := make(map[int]struct{}, 2+2*len(generators))

	insert := func(v int) bool {
		if _, dup := mixing[v]; dup {
			return false
		}
		mixing[v] = struct{}{}
		return true
	}

	if !insert(k) || !insert(2*k) {
		return nil, false
	}
	for _, g := range generators {
		if !insert(k + g) {
			return nil, false
		}
		if !insert(abs(k - g)) {
			return nil, false
		}
	}

	out := make([]int, 0, len(mixing))
	for v := range mixing {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, true
}

// Make runs greedy selection over source in the given order.
func Make(source []int) Intermodulation {
	var generators []int
	products := make(map[int]struct{})

	for _, k := range source {
		mixing, ok := Mix(generators, k)
		if !ok || overlaps(products, mixing) {
			continue
		}
		generators = insertSorted(generators, k)
		for _, p := range mixing {
			products[p] = struct{}{}
		}
	}

	out := Intermodulation{
		generators: generators,
		products:   make([]int, 0, len(products)),
	}
	for p := range products {
		out.products = append(out.products, p)
	}
	sort.Ints(out.products)
	return out
}

// MakeRange runs greedy selection over a permutation of the inclusive range
// [a, b] drawn from rng. The result is empty when b < a.
func MakeRange(a, b int, rng *rand.Rand) Intermodulation {
	return Make(permutation(a, b, rng))
}

// MakeSeeded is [MakeRange] with a generator built from seed. Seed 0 draws
// system entropy; any other seed reproduces the same selection.
func MakeSeeded(a, b int, s int64) Intermodulation {
	return MakeRange(a, b, seed.New(s))
}

// Generators returns the accepted generator indices in ascending order.
func (im Intermodulation) Generators() []int {
	return append([]int(nil), im.generators...)
}

// Products returns every quadratic mixing index in ascending order.
func (im Intermodulation) Products() []int {
	return append([]int(nil), im.products...)
}

// Len returns the number of generators.
func (im Intermodulation) Len() int { return len(im.generators) }

// IsGenerator reports whether k is an accepted generator.
func (im Intermodulation) IsGenerator(k int) bool { return contains(im.generators, k) }

// IsProduct reports whether k is a quadratic mixing index.
func (im Intermodulation) IsProduct(k int) bool { return contains(im.products, k) }

func permutation(a, b int, rng *rand.Rand) []int {
	if b < a {
		return nil
	}
	source := make([]int, b-a+1)
	for i := range source {
		source[i] = a + i
	}
	rng.Shuffle(len(source), func(i, j int) {
		source[i], source[j] = source[j], source[i]
	})
	return source
}

func overlaps(products map[int]struct{}, mixing []int) bool {
	for _, p := range mixing {
		if _, ok := products[p]; ok {
			return true
		}
	}
	return false
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func contains(sorted []int, v int) bool {
	i := sort.SearchInts(sorted, v)
	return i < len(sorted) && sorted[i] == v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
