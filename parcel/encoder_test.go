package parcel_test

import (
	"bytes"
	"testing"

	"github.com/xcheng/autobundle/parcel"
)

func TestEncoder(t *testing.T) {
	tests := []struct {
		name string
		in   func(*parcel.Encoder)
		want []byte
	}{
		{
			"raw bytes",
			func(e *parcel.Encoder) {
				e.Write([]byte{1, 2, 3})
			},
			[]byte{0x01, 0x02, 0x03},
		},

		{
			"byte slice",
			func(e *parcel.Encoder) {
				e.Bytes([]byte{1, 2, 3})
			},
			[]byte{
				0x00, 0x00, 0x00, 0x03, // length
				0x01, 0x02, 0x03, // val
			},
		},

		{
			"string",
			func(e *parcel.Encoder) {
				e.String("foo")
			},
			[]byte{
				0x00, 0x00, 0x00, 0x03, // length
				0x66, 0x6f, 0x6f, // val
				0x00, // terminator
			},
		},

		{
			"uints",
			func(e *parcel.Encoder) {
				e.Uint8(42)
				e.Uint16(66)
				e.Uint32(42)
				e.Uint64(66)
			},
			[]byte{
				0x2a,
				0x00, // pad
				0x00, 0x42,
				0x00, 0x00, 0x00, 0x2a,
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x42,
			},
		},

		{
			"uints padding",
			func(e *parcel.Encoder) {
				e.Uint64(66)
				e.Write([]byte{0})
				e.Uint32(42)
				e.Write([]byte{0})
				e.Uint16(66)
				e.Write([]byte{0})
				e.Uint8(42)
			},
			[]byte{
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x42,
				0x00,             // raw
				0x00, 0x00, 0x00, // pad
				0x00, 0x00, 0x00, 0x2a,
				0x00, // raw
				0x00, // pad
				0x00, 0x42,
				0x00, // raw
				0x2a,
			},
		},

		{
			"signed and floats",
			func(e *parcel.Encoder) {
				e.Bool(true)
				e.Int32(-1)
				e.Float32(1)
			},
			[]byte{
				0x00, 0x00, 0x00, 0x01,
				0xff, 0xff, 0xff, 0xff,
				0x3f, 0x80, 0x00, 0x00,
			},
		},

		{
			"section",
			func(e *parcel.Encoder) {
				e.Section(func() error {
					e.Uint16(1)
					e.Uint16(2)
					return nil
				})
			},
			[]byte{
				0x00, 0x00, 0x00, 0x04, // length
				0x00, 0x00, 0x00, 0x00, // pad
				0x00, 0x01,
				0x00, 0x02,
			},
		},

		{
			"empty section",
			func(e *parcel.Encoder) {
				e.Section(func() error { return nil })
			},
			[]byte{
				0x00, 0x00, 0x00, 0x00, // length
				0x00, 0x00, 0x00, 0x00, // pad
			},
		},

		{
			"byte order flag",
			func(e *parcel.Encoder) {
				e.ByteOrderFlag()
			},
			[]byte{'B'},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := parcel.Encoder{Order: parcel.BigEndian}
			tc.in(&e)
			if got := e.Out; !bytes.Equal(got, tc.want) {
				t.Errorf("wrong encoding:\n  got: % x\n want: % x", got, tc.want)
			}
		})
	}
}
