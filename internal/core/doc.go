// Package core provides the domain models for deterministic tax computation.
//
// # Design Principles
//
// All structures in this package adhere to the following constraints:
//
//  1. Money is always an integer number of cents (Cents); no floating point
//  2. A TaxReturn is an input snapshot and is never mutated by any engine
//  3. Rates are integer parts-per-million so every product rounds exactly once
//
// # Core Types
//
// TaxReturn: the complete, externally supplied return record for one tax year.
// Cents: an amount of money, rounded half away from zero at every line.
// FilingStatus: the closed set of federal filing statuses.
// Finding: a non-fatal validation observation attached to a result.
package core
