// Package cfg defines the canonical control-flow graph model: addresses,
// instructions, basic blocks, and the graph builder.
//
// # Addresses
//
// Backends report addresses as integers, decimal strings, bare hex digits,
// or 0x-prefixed strings. [Canonicalize] maps all of them to one [Address]
// so that equal integers become equal node IDs:
//
//	a, _ := cfg.Canonicalize(4660)                    // "0x1234"
//	b, _ := cfg.Canonicalize("0x1234")                // "0x1234"
//	c, _ := cfg.Canonicalize(cfg.HexString("1234"))   // "0x1234"
//
// Values that cannot be read as an integer and are not 0x-prefixed are kept
// as lower-cased opaque identifiers, so an unexpected backend format still
// produces a usable graph.
//
// # Building
//
// [Build] consumes normalized blocks (see package normalize) and returns a
// [Graph]. Duplicate addresses keep the first block, edges to unknown
// targets are dropped, self edges are kept. Build never fails.
package cfg
