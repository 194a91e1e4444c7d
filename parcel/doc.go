// Package parcel provides low-level encoding and decoding helpers to
// flatten values into a byte parcel and read them back.
//
// The encoder and decoder know nothing about bundles or binding
// kinds. They only handle byte order, alignment and length framing.
// It is the caller's responsibility to write and read values in the
// same order.
//
// You should not need to use this package directly unless you are
// writing your own bundle.Parcelable implementations, in which case
// your code is handed a [parcel.Encoder]/[parcel.Decoder] and is
// expected to write and read its fields with it.
package parcel
