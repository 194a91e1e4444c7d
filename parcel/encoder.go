package parcel

import (
	"math"
)

// An Encoder writes values to a byte slice.
//
// Methods insert padding as needed so that multi-byte values start
// at a multiple of their size, except for [Encoder.Write] which
// outputs bytes verbatim.
type Encoder struct {
	// Order is the byte order to use when encoding multi-byte values.
	Order ByteOrder
	// Out is the encoded output.
	Out []byte
}

// Pad inserts padding bytes as needed to make the output a multiple
// of align bytes. If the output is already correctly aligned, no
// padding is inserted.
func (e *Encoder) Pad(align int) {
	extra := len(e.Out) % align
	if extra == 0 {
		return
	}
	var pad [8]byte
	e.Out = append(e.Out, pad[:align-extra]...)
}

// Write writes bs as-is to the output. It is the caller's
// responsibility to ensure correct padding and framing.
func (e *Encoder) Write(bs []byte) {
	e.Out = append(e.Out, bs...)
}

// Bytes writes a length-prefixed byte slice.
func (e *Encoder) Bytes(bs []byte) {
	e.Uint32(uint32(len(bs)))
	e.Out = append(e.Out, bs...)
}

// String writes a length-prefixed, NUL-terminated string.
func (e *Encoder) String(s string) {
	e.Uint32(uint32(len(s)))
	e.Out = append(e.Out, s...)
	e.Out = append(e.Out, 0)
}

// Uint8 writes a uint8.
func (e *Encoder) Uint8(u8 uint8) {
	e.Out = append(e.Out, u8)
}

// Uint16 writes a uint16.
func (e *Encoder) Uint16(u16 uint16) {
	e.Pad(2)
	e.Out = e.Order.AppendUint16(e.Out, u16)
}

// Uint32 writes a uint32.
func (e *Encoder) Uint32(u32 uint32) {
	e.Pad(4)
	e.Out = e.Order.AppendUint32(e.Out, u32)
}

// Uint64 writes a uint64.
func (e *Encoder) Uint64(u64 uint64) {
	e.Pad(8)
	e.Out = e.Order.AppendUint64(e.Out, u64)
}

// Bool writes a bool as a uint32 0 or 1.
func (e *Encoder) Bool(b bool) {
	val := uint32(0)
	if b {
		val = 1
	}
	e.Uint32(val)
}

// Int16 writes an int16.
func (e *Encoder) Int16(i16 int16) { e.Uint16(uint16(i16)) }

// Int32 writes an int32.
func (e *Encoder) Int32(i32 int32) { e.Uint32(uint32(i32)) }

// Int64 writes an int64.
func (e *Encoder) Int64(i64 int64) { e.Uint64(uint64(i64)) }

// Float32 writes a float32.
func (e *Encoder) Float32(f float32) { e.Uint32(math.Float32bits(f)) }

// Float64 writes a float64.
func (e *Encoder) Float64(f float64) { e.Uint64(math.Float64bits(f)) }

// Section writes a length-framed section of the output.
//
// The section's contents must be written within the provided body
// function. The section is prefixed with its length in bytes, so
// that a reader can skip it without understanding its contents.
func (e *Encoder) Section(body func() error) error {
	e.Pad(4)
	offset := len(e.Out)
	e.Uint32(0)
	// Sections always start 8-aligned, so that the alignment of the
	// contents doesn't depend on the length of the header.
	e.Pad(8)

	start := len(e.Out)
	err := body()
	end := len(e.Out)
	e.Order.PutUint32(e.Out[offset:], uint32(end-start))

	return err
}

// ByteOrderFlag writes the byte order flag byte ('l' or 'B') that
// matches [Encoder.Order].
func (e *Encoder) ByteOrderFlag() {
	e.Write([]byte{e.Order.flag()})
}
