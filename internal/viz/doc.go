// Package viz renders grids in the terminal.
//
//   - [RenderGrid]: one lipgloss-styled block per cell, painted with the
//     cell color and an optional value label in a contrasting color
//   - [Minimap]: Braille overview of large grids, one dot per cell
//   - [Histogram]: asciigraph plot of the value distribution
//   - Theme selection with 5 built-in color schemes for the chrome
package viz
