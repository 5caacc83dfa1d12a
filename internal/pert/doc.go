// Package pert implements three-point (beta-PERT) estimation arithmetic.
//
// Every function is pure and total over finite inputs: no errors, no
// panics, no state. Non-finite inputs propagate through the arithmetic as
// NaN or infinities, which callers treat as the invalid-input signal.
// Ordering and positivity checks belong to the caller, not to this
// package.
package pert
