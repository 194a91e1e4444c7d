// Package bundle implements Bundle, a typed key/value container for
// passing small amounts of data between components.
//
// A Bundle stores values under string keys through a fixed family of
// typed accessors: eight scalar types and their slices, strings,
// character sequences, [Parcelable] values and their collections, and
// a generic serializable fallback. The accessor used to store a value
// decides how the value is flattened when the bundle is written to a
// parcel with [Marshal], and which accessor reads it back.
//
// Collections that carry an element type use the generic [List] and
// [SparseArray] types, whose element type is visible to reflection.
//
// A Bundle is not safe for concurrent mutation.
package bundle
