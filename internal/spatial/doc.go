// Package spatial answers nearest-site queries over a fixed set of points.
//
// Two Locator implementations are provided:
//   - Index: a median-split k-d tree with bucketed leaves. Build is
//     O(n log² n), queries are O(log n) on average.
//   - Linear: an exhaustive scan, used as a reference and for tiny inputs.
//
// # Result Contract
//
// Nearest returns the position, in the slice passed to the constructor, of
// the point with the smallest Euclidean distance to the query. When several
// points are equally near, the lowest position wins. Both implementations
// follow the same rule, so they are interchangeable bit for bit.
//
// # Thread Safety
//
// Locators are immutable once constructed. Nearest may be called from any
// number of goroutines without synchronization.
package spatial
