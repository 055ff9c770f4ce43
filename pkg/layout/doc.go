// Package layout packs generated copies into a grid of rows.
//
// # Overview
//
// Each copy occupies a [Block] in its row: a span [Left, Right) measured in
// abstract units U. Blocks in a row are packed left to right in the order they
// are placed, so the row's cumulative offset grows by the width of each block.
// Rows stack along Y. [Grid] holds the offsets for one run and starts empty.
//
// # Placement
//
// A block at row r with width w placed at offset o has its center at
//
//	x = (o + w/2) * U
//	y = r * U
//	z = 0
//
// in centimetres, where U is the grid's unit spacing (default
// [DefaultUnitCM]). The row's offset becomes o + w.
//
// # Modes
//
//   - [TwoPhase] (default): copies are created first and positioned afterwards
//     by [Assign], so offsets only account for copies that exist.
//   - [SinglePhase]: the position is computed before the copy is created and
//     the offset advances whether or not creation succeeds. A failed copy
//     leaves a hole in its row. Kept for parity with older runs.
//
// Both modes give identical positions when every copy succeeds.
package layout
