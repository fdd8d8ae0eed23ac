// Package testutil provides testing utilities for bpart.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded document generators and measures for the quality of
// a document order.
//
// # Document Generation
//
//	rng := testutil.NewRNG(seed)
//	docs := rng.RandomDocs(1000, 256, 8)     // uniform features
//	docs = rng.ZipfDocs(1000, 256, 8, 1.2)   // skewed features
//	docs = testutil.ClusteredDocs(4, 6)      // interleaved groups
//
// # Order Quality
//
//	size, _ := testutil.PostingListSize(testutil.Features(docs))
//	cost := testutil.GapCost(testutil.Features(docs))
package testutil
