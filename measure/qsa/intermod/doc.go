// Package intermod selects integer frequency indices ("generators") whose
// quadratic intermodulation products never collide.
//
// Driving a nonlinear system with a sum of sinusoids produces second-order
// output components at every doubling 2k, sum k+g and difference |k-g| of
// the driving indices. When none of those products coincide, every output
// bin can be attributed to exactly one linear or quadratic source term.
//
// Selection is greedy and order dependent: candidates are visited in order
// and accepted when their personal mixing set is self-consistent and
// disjoint from every product already accepted. The result is maximal by
// greedy inclusion, not globally optimal.
//
//	im := intermod.Make([]int{1, 2, 3, 7})
//	im.Generators() // [1 7]
//	im.Products()   // [1 2 6 7 8 14]
//
// [MakeSeeded] visits a seeded random permutation of an index band instead,
// which yields a well-spread comb over that band.
package intermod
