package autobundle

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
	"github.com/xcheng/autobundle/bundle"
)

var (
	// scalarKinds maps the Go types of the primitive kinds to their
	// Kind.
	scalarKinds = map[reflect.Type]Kind{
		reflect.TypeFor[bool]():    Bool,
		reflect.TypeFor[uint8]():   Byte,
		reflect.TypeFor[uint16]():  Char,
		reflect.TypeFor[int16]():   Short,
		reflect.TypeFor[int32]():   Int,
		reflect.TypeFor[int64]():   Long,
		reflect.TypeFor[float32](): Float,
		reflect.TypeFor[float64](): Double,
	}

	// arrayKinds maps the element types of the primitive array kinds
	// to their Kind.
	arrayKinds = map[reflect.Type]Kind{
		reflect.TypeFor[bool]():    BoolArray,
		reflect.TypeFor[uint8]():   ByteArray,
		reflect.TypeFor[uint16]():  CharArray,
		reflect.TypeFor[int16]():   ShortArray,
		reflect.TypeFor[int32]():   IntArray,
		reflect.TypeFor[int64]():   LongArray,
		reflect.TypeFor[float32](): FloatArray,
		reflect.TypeFor[float64](): DoubleArray,
	}

	// primitiveKinds is the set of scalar kinds.
	primitiveKinds = mapset.New(Bool, Byte, Char, Short, Int, Long, Float, Double)

	// modulePackages are the packages of this module. Like the
	// standard library, they are never resolved as binding parents.
	modulePackages = mapset.New(
		"github.com/xcheng/autobundle",
		"github.com/xcheng/autobundle/bundle",
		"github.com/xcheng/autobundle/bundletest",
		"github.com/xcheng/autobundle/parcel",
	)

	stringType       = reflect.TypeFor[string]()
	stringPtrType    = reflect.TypeFor[*string]()
	int32Type        = reflect.TypeFor[int32]()
	charSequenceType = reflect.TypeFor[bundle.CharSequence]()
	parcelableType   = reflect.TypeFor[bundle.Parcelable]()
	bundlePtrType    = reflect.TypeFor[*bundle.Bundle]()
	errorType        = reflect.TypeFor[error]()
)
