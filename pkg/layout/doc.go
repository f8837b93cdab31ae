// Package layout computes layered 2-D layouts of control-flow graphs.
//
// # Overview
//
// The layout runs in three independent steps, each a pure function that can
// be used and tested on its own:
//
//  1. [AssignRanks]: longest path from a root, ignoring back edges so that
//     loops cannot prevent termination.
//  2. [OrderRanks]: barycenter ordering within each rank to reduce edge
//     crossings, refined by extra sweeps while the crossing count drops.
//  3. [AssignCoordinates]: ranks become rows, orders become columns, each
//     row centered against the widest.
//
// [Compute] chains the three and styles edges: taken edges carry the
// [StyleTrueBranch] hint and fallthrough edges [StyleFalseBranch]. Edges
// closing a loop are marked [Edge.Loop].
//
// # Determinism
//
// No step uses randomness or depends on map iteration order, so equal
// graphs always produce equal coordinates.
//
// # Serialization
//
// [Marshal], [Unmarshal], [WriteFile] and [ReadFile] convert a [Result] to
// and from JSON for the HTTP API, the CLI and the cache.
package layout
