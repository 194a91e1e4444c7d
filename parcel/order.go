package parcel

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Byte order flags, written as the first byte of a parcel.
const (
	flagBigEndian    = 'B'
	flagLittleEndian = 'l'
)

// ByteOrder is the byte order of multi-byte values in a parcel. The
// only implementations are BigEndian, LittleEndian and NativeEndian.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
	flag() byte
}

type order struct {
	binary.ByteOrder
	binary.AppendByteOrder
	big bool
}

func (o order) flag() byte {
	if o.big {
		return flagBigEndian
	}
	return flagLittleEndian
}

func (o order) String() string { return o.ByteOrder.String() }

var (
	BigEndian    ByteOrder = order{binary.BigEndian, binary.BigEndian, true}
	LittleEndian ByteOrder = order{binary.LittleEndian, binary.LittleEndian, false}
	NativeEndian ByteOrder = order{binary.NativeEndian, binary.NativeEndian, cpu.IsBigEndian}
)
