// Package palette derives display colors from cell values.
//
// A [Model] is a pure function from (value, row, col) to an [RGB] triple.
// The derivation is selected once per grid through a [Strategy]:
//
//   - [HueRotation]: hue = value*36 mod 360, converted from HLS at
//     lightness 0.5 and saturation 1.0, channels truncated to [0,255]
//   - [Positional]: each channel mixes the value with the cell's row and
//     column, so equal values render differently across the grid
//   - [SchemaModified]: hue rotation plus a fixed offset for a recognized
//     (schema, tag) pair
//   - [Banded]: three coarse bands (blue, green, red)
//
// The same model produces the quantizer's reference palette, so image
// quantization error is measured against the colors the grid displays.
package palette
