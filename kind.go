package autobundle

import "fmt"

// Kind is the binding kind of a binding site. It selects the Bundle
// accessor pair used to store and load the site's value.
type Kind uint8

const (
	Bool Kind = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double

	BoolArray
	ByteArray
	CharArray
	ShortArray
	IntArray
	LongArray
	FloatArray
	DoubleArray

	String
	StringArray
	StringList

	CharSequence
	CharSequenceArray
	CharSequenceList

	Parcelable
	ParcelableArray
	ParcelableList
	SparseParcelableArray

	IntegerList
	Serializable
	SerializableArray

	numKinds
)

// Kinds returns all binding kinds, in declaration order.
func Kinds() []Kind {
	ret := make([]Kind, 0, numKinds)
	for k := range numKinds {
		ret = append(ret, k)
	}
	return ret
}

type kindInfo struct {
	name     string
	accessor string
}

var kindInfos = [numKinds]kindInfo{
	Bool:                  {"Bool", "Bool"},
	Byte:                  {"Byte", "Byte"},
	Char:                  {"Char", "Char"},
	Short:                 {"Short", "Short"},
	Int:                   {"Int", "Int"},
	Long:                  {"Long", "Long"},
	Float:                 {"Float", "Float"},
	Double:                {"Double", "Double"},
	BoolArray:             {"BoolArray", "BoolArray"},
	ByteArray:             {"ByteArray", "ByteArray"},
	CharArray:             {"CharArray", "CharArray"},
	ShortArray:            {"ShortArray", "ShortArray"},
	IntArray:              {"IntArray", "IntArray"},
	LongArray:             {"LongArray", "LongArray"},
	FloatArray:            {"FloatArray", "FloatArray"},
	DoubleArray:           {"DoubleArray", "DoubleArray"},
	String:                {"String", "String"},
	StringArray:           {"StringArray", "StringArray"},
	StringList:            {"StringList", "StringArrayList"},
	CharSequence:          {"CharSequence", "CharSequence"},
	CharSequenceArray:     {"CharSequenceArray", "CharSequenceArray"},
	CharSequenceList:      {"CharSequenceList", "CharSequenceArrayList"},
	Parcelable:            {"Parcelable", "Parcelable"},
	ParcelableArray:       {"ParcelableArray", "ParcelableArray"},
	ParcelableList:        {"ParcelableList", "ParcelableArrayList"},
	SparseParcelableArray: {"SparseParcelableArray", "SparseParcelableArray"},
	IntegerList:           {"IntegerList", "IntegerArrayList"},
	Serializable:          {"Serializable", "Serializable"},
	SerializableArray:     {"SerializableArray", "Serializable"},
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindInfos[k].name
}

// IsPrimitive reports whether k is one of the scalar kinds. Primitive
// sites can't be absent, so required checks don't apply to them.
func (k Kind) IsPrimitive() bool {
	return primitiveKinds.Has(k)
}

// Accessor returns the suffix of the Bundle accessor pair for k. For
// example, the accessor of StringList is "StringArrayList", meaning
// values are stored with PutStringArrayList and loaded with
// GetStringArrayList.
func (k Kind) Accessor() string {
	if k >= numKinds {
		return ""
	}
	return kindInfos[k].accessor
}
