// Package bisect implements recursive balanced graph bisection.
//
// A range of items is split into two halves of (almost) equal size by a
// local search that swaps pairs of items between the halves while doing so
// lowers the shared feature cost. Each half is then bisected again until the
// configured depth is reached. Items finally receive dense sequential buckets
// that follow the recursion tree from left to right.
//
// Independent subtrees may be processed on separate goroutines. Every node
// seeds its own random source from its bucket number, so the result does
// not depend on scheduling.
package bisect
