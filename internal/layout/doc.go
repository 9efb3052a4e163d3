// Package layout computes item positions for the four view layout
// families.
//
//   - Masonry: cards go into the shortest of N columns, N derived from
//     width breakpoints and a maximum column width.
//   - Columnar (sections views): one column per section, wrapping after
//     MaxColumns; items flow on a 12-column sub-grid inside each section.
//   - Sidebar: a wide main column and a narrow sidebar at or above 760 px,
//     a single column below.
//   - Panel: the first card only, full width.
//
// All functions are pure: the same input always yields the same
// placements, and nothing here touches shared state.
package layout
