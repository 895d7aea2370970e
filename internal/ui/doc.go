// Package ui provides terminal UI components for the urlmap CLI.
//
// This package uses Lipgloss to render styled, run-once output (the
// namespace table and lookup result boxes) and Bubble Tea for the
// interactive namespace browser.
//
// # Components
//
//   - RenderTable: two-column namespace listing
//   - Result: success/failure boxes for lookups and reference resolution
//   - BrowseModel: filterable namespace browser (see Browse)
//
// Output width follows the terminal, clamped between MinTerminalWidth and
// MaxContentWidth. When stdout is not a terminal, callers should prefer the
// plain formats in package urlmap.
package ui
