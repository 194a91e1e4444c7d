package parcel

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// A Decoder reads values written by an [Encoder].
//
// Methods advance the read cursor as needed to account for the
// padding inserted by the encoder, except for [Decoder.Read] which
// reads bytes verbatim.
type Decoder struct {
	// Order is the byte order to use when reading multi-byte values.
	Order ByteOrder
	// In is the input stream to read.
	In io.Reader

	// offset is the number of bytes consumed off the front of In so
	// far, modulo 8. We have to keep track of this because alignment
	// depends on the global offset within the parcel, and cannot be
	// derived from local context partway through decoding.
	offset int
}

// Pad consumes padding bytes as needed to make the next read happen
// at a multiple of align bytes. If the decoder is already correctly
// aligned, no bytes are consumed.
func (d *Decoder) Pad(align int) error {
	extra := d.offset % align
	if extra == 0 {
		return nil
	}
	skip := align - extra
	if _, err := io.CopyN(io.Discard, d.In, int64(skip)); err != nil {
		return err
	}
	d.offset = (d.offset + skip) % 8
	return nil
}

// maxDirectRead is the largest read whose buffer is allocated up
// front. Longer reads grow their buffer as input arrives, so that a
// corrupt length prefix can't force a huge allocation.
const maxDirectRead = 64 << 10

// Read reads n bytes, with no framing or padding.
func (d *Decoder) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid read length %d", n)
	}
	if remaining(d.In) < int64(n) {
		return nil, io.ErrUnexpectedEOF
	}
	var bs []byte
	if n <= maxDirectRead {
		bs = make([]byte, n)
		if _, err := io.ReadFull(d.In, bs); err != nil {
			return nil, err
		}
	} else {
		var buf bytes.Buffer
		if _, err := io.CopyN(&buf, d.In, int64(n)); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		bs = buf.Bytes()
	}
	d.offset = (d.offset + n) % 8
	return bs, nil
}

// remaining returns an upper bound on the bytes left in r, or
// math.MaxInt64 if r doesn't say.
func remaining(r io.Reader) int64 {
	switch v := r.(type) {
	case *io.LimitedReader:
		return min(v.N, remaining(v.R))
	case interface{ Len() int }:
		return int64(v.Len())
	}
	return math.MaxInt64
}

// Bytes reads a length-prefixed byte slice.
func (d *Decoder) Bytes() ([]byte, error) {
	ln, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	return d.Read(int(ln))
}

// String reads a length-prefixed, NUL-terminated string.
func (d *Decoder) String() (string, error) {
	ln, err := d.Uint32()
	if err != nil {
		return "", err
	}
	ret, err := d.Read(int(ln) + 1)
	if err != nil {
		return "", err
	}
	if ret[len(ret)-1] != 0 {
		return "", fmt.Errorf("string of length %d is missing its terminator", ln)
	}
	return string(ret[:len(ret)-1]), nil
}

// Uint8 reads a uint8.
func (d *Decoder) Uint8() (uint8, error) {
	bs, err := d.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// Uint16 reads a uint16.
func (d *Decoder) Uint16() (uint16, error) {
	if err := d.Pad(2); err != nil {
		return 0, err
	}
	bs, err := d.Read(2)
	if err != nil {
		return 0, err
	}
	return d.Order.Uint16(bs), nil
}

// Uint32 reads a uint32.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.Pad(4); err != nil {
		return 0, err
	}
	bs, err := d.Read(4)
	if err != nil {
		return 0, err
	}
	return d.Order.Uint32(bs), nil
}

// Uint64 reads a uint64.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.Pad(8); err != nil {
		return 0, err
	}
	bs, err := d.Read(8)
	if err != nil {
		return 0, err
	}
	return d.Order.Uint64(bs), nil
}

// Bool reads a bool written by [Encoder.Bool].
func (d *Decoder) Bool() (bool, error) {
	u, err := d.Uint32()
	if err != nil {
		return false, err
	}
	switch u {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value %d", u)
	}
}

// Int16 reads an int16.
func (d *Decoder) Int16() (int16, error) {
	u, err := d.Uint16()
	return int16(u), err
}

// Int32 reads an int32.
func (d *Decoder) Int32() (int32, error) {
	u, err := d.Uint32()
	return int32(u), err
}

// Int64 reads an int64.
func (d *Decoder) Int64() (int64, error) {
	u, err := d.Uint64()
	return int64(u), err
}

// Float32 reads a float32.
func (d *Decoder) Float32() (float32, error) {
	u, err := d.Uint32()
	return math.Float32frombits(u), err
}

// Float64 reads a float64.
func (d *Decoder) Float64() (float64, error) {
	u, err := d.Uint64()
	return math.Float64frombits(u), err
}

// Section reads a section written by [Encoder.Section].
//
// body is called once with the decoder limited to the section's
// contents. Any bytes of the section that body leaves unread are
// skipped, so readers can ignore trailing data they don't
// understand.
func (d *Decoder) Section(body func() error) error {
	ln, err := d.Uint32()
	if err != nil {
		return err
	}
	if err := d.Pad(8); err != nil {
		return err
	}
	outerReader := d.In
	limit := &io.LimitedReader{
		R: outerReader,
		N: int64(ln),
	}
	d.In = limit
	defer func() {
		d.In = outerReader
	}()
	if err := body(); err != nil {
		return err
	}
	if limit.N > 0 {
		if _, err := d.Read(int(limit.N)); err != nil {
			return err
		}
	}
	return nil
}

// ByteOrderFlag reads a byte order flag byte, and sets
// [Decoder.Order] to match it.
func (d *Decoder) ByteOrderFlag() error {
	v, err := d.Uint8()
	if err != nil {
		return err
	}
	switch v {
	case flagBigEndian:
		d.Order = BigEndian
	case flagLittleEndian:
		d.Order = LittleEndian
	default:
		return fmt.Errorf("unknown byte order flag %q", v)
	}
	return nil
}
