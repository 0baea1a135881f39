// SPDX-License-Identifier: MIT

package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Solvers only ever read through this interface; Set exists so callers can
// fill containers of any implementation and so results can be written back.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	Rows() int
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	// Complexity: O(1).
	At(i, j int) (float64, error)

	// Set writes v at (i, j) with the same bounds rule as At.
	Set(i, j int, v float64) error

	// Clone returns a copy that shares no storage with the receiver.
	Clone() Matrix
}
