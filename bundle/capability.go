package bundle

import (
	"encoding"
	"reflect"
	"unicode/utf8"

	"github.com/xcheng/autobundle/parcel"
)

// Parcelable is the interface implemented by structured values that
// can flatten themselves into a parcel.
//
// ReadFromParcel must have a pointer receiver, and must read fields
// in the order WriteToParcel wrote them. Parcelable types must be
// registered with [Register] to be read back from a parcel.
type Parcelable interface {
	WriteToParcel(e *parcel.Encoder) error
	ReadFromParcel(d *parcel.Decoder) error
}

// CharSequence is the interface implemented by text values, such as
// *strings.Builder or [Text].
//
// Parcelable types that also implement CharSequence are bound as
// Parcelables. [Bundle] has no Len method, so it is not a
// CharSequence.
type CharSequence interface {
	String() string
	Len() int
}

// Serializable is the interface implemented by values that travel
// through a bundle as opaque serialized bytes.
//
// Besides Serializable implementations, values of the basic Go kinds
// and maps of them are serializable, see [IsSerializable].
type Serializable interface {
	encoding.BinaryMarshaler
}

// Text is a plain CharSequence. CharSequence values read back from a
// parcel are Texts.
type Text string

func (t Text) String() string { return string(t) }

// Len returns the length of t in runes.
func (t Text) Len() int { return utf8.RuneCountInString(string(t)) }

var (
	parcelableType   = reflect.TypeFor[Parcelable]()
	charSequenceType = reflect.TypeFor[CharSequence]()
	serializableType = reflect.TypeFor[Serializable]()
)

// IsParcelable reports whether values of type t implement
// [Parcelable].
func IsParcelable(t reflect.Type) bool {
	return t.Implements(parcelableType)
}

// IsCharSequence reports whether values of type t implement
// [CharSequence].
func IsCharSequence(t reflect.Type) bool {
	return t.Implements(charSequenceType)
}

// IsSerializable reports whether values of type t can be stored with
// [Bundle.PutSerializable].
//
// Serializable types are [Serializable] implementations, the basic
// boolean, numeric and string kinds, pointers to those, and maps
// whose keys and values are serializable.
func IsSerializable(t reflect.Type) bool {
	if t.Implements(serializableType) {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return basicKinds.Has(t.Elem().Kind())
	case reflect.Map:
		return IsSerializable(t.Key()) && IsSerializable(t.Elem())
	}
	return basicKinds.Has(t.Kind())
}
