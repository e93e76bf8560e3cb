// Package dag proves that a dependency graph over string node IDs is acyclic
// and orders it deterministically.
//
// The trace graph is acyclic by construction when built in-process; this
// package re-proves it for graphs that arrive from elsewhere (decoded JSON,
// stored results) before anything walks them.
package dag
