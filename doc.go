// Package bpart orders documents so that documents sharing features end up
// next to each other.
//
// A document is an opaque 64-bit identifier with a sparse set of 32-bit
// feature tokens. The ordering is computed by recursive balanced graph
// bisection: the documents are split into two halves of equal size that
// minimize a shared feature-encoding cost, each half is split again, and the
// final order follows the recursion tree from left to right. Typical uses are
// function layout for startup performance and compression, where the feature
// tokens are traced timestamps or hashed instruction sequences.
//
// # Quick Start
//
//	docs := []*bpart.Document{
//	    bpart.NewDocument(1, 1, 2),
//	    bpart.NewDocument(3, 3, 4),
//	    bpart.NewDocument(2, 1, 2),
//	    bpart.NewDocument(4, 3, 4),
//	    bpart.NewDocument(5, 4),
//	}
//
//	p, _ := bpart.New(bpart.DefaultConfig())
//	_ = p.Run(ctx, docs)
//	fmt.Println(bpart.IDs(docs)) // [1 2 3 4 5]
//
// # Determinism
//
// The result depends only on the documents, their input order and the
// configuration. Every split seeds its own random source from its position in
// the recursion tree, so the output is identical whether subtrees run in
// parallel or inline.
//
// # Concurrency
//
// Subtrees close to the root are processed on separate goroutines when a
// worker slot is free (see WithParallelism). A Partitioner may be shared by
// concurrent runs; a Document must not be part of two concurrent runs.
//
// # Configuration
//
// Config can be built in code, starting from DefaultConfig, or read from
// YAML with LoadConfig:
//
//	split_depth: 16
//	iterations_per_split: 40
//	skip_probability: 0.1
//	task_split_depth: 9
package bpart
