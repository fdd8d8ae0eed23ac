// Package signature maintains per-feature aggregate state for one bisection
// step: how many documents of each half reference a feature, and the cached
// cost of moving one of them to the other half.
//
// A Table lives in its own arena and is owned by exactly one split. It is
// built when the split's local search starts and released when it ends.
package signature
