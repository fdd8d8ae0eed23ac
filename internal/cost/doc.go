// Package cost implements the uniform log-gap cost model used by balanced
// partitioning.
//
// For a feature referenced by x documents in the left half and y documents in
// the right half, encoding the gaps between referencing documents costs
// approximately
//
//	U*log(U) - (x*log(x+1) + y*log(y+1))
//
// bits, where U is the size of the range. The first term is constant for a
// split, so only the second one (LogCost) matters when comparing partitions.
package cost
