// Package conformance derives fault-detecting test suites from deterministic,
// completely specified Mealy machines.
//
// The package computes the classic conformance-testing artifacts:
//
//   - a global distinguishing sequence, if one exists within the search bound
//   - the characterizing set W, separating every pair of states
//   - the identifying set Ws of every state
//   - the state cover C, reaching every state from the initial state
//
// and combines them into W-method and Wp-method suites. Every search is an
// exhaustive enumeration of input sequences up to a bound carried in Options,
// so results are deterministic and may be incomplete; incompleteness is
// reported in the returned values, never as an error.
package conformance
