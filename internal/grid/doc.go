// Package grid provides the cell container every codec and transform
// operates on.
//
// The package defines the core types of the codec:
//
//   - [Cell]: a value and the color derived from it
//   - [Grid]: a rows × cols container with one canonical row-major order
//   - [IDCounter]: an explicitly owned generator of per-cell identifiers
//
// A cell's color is always exactly the grid's [palette.Model] applied to the
// cell's value and position. Values can only change through [Grid.Set] and
// [Grid.Map], both of which recompute the color before returning.
//
// # Example
//
//	g, err := grid.FromValues([][]int{{1, 2}, {3, 4}}, 10, palette.New(palette.HueRotation))
//	if err != nil {
//	    return err
//	}
//	g.Each(func(c grid.Cell) {
//	    fmt.Println(c.Row, c.Col, c.Color.Hex())
//	})
//
// # Thread Safety
//
// Grid instances are NOT thread-safe. A caller that shares one grid across
// goroutines must serialize every mutation against every read.
package grid
