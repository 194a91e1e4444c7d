package autobundle

import (
	"reflect"

	"github.com/xcheng/autobundle/bundle"
)

// Classify returns the binding kind of values of type t.
//
// Checks run in a fixed order, and later checks only see types that
// earlier checks rejected:
//
//   - bool, uint8, uint16, int16, int32, int64, float32 and float64
//     are the primitive kinds. Only these exact types qualify, named
//     types based on them are serializable.
//   - bundle.List[E] is a ParcelableList if E implements Parcelable, a
//     StringList if E is string, an IntegerList if E is int32, and a
//     CharSequenceList if E is exactly bundle.CharSequence. Other
//     serializable E make the list Serializable.
//   - *bundle.SparseArray[E] is a SparseParcelableArray if E
//     implements Parcelable.
//   - Other slices are arrays, classified by element type: primitive
//     arrays, then StringArray for string elements, ParcelableArray,
//     CharSequenceArray, and finally SerializableArray if the element
//     (or the innermost element of nested slices) is serializable.
//   - Of the remaining types, string and *string are String, then
//     Parcelable, Serializable and CharSequence are tried in that
//     order.
//
// Types that match no rule produce a [ClassificationError].
func Classify(t reflect.Type) (Kind, error) {
	if t == nil {
		return 0, classErr(t, "nil type")
	}
	if k, ok := scalarKinds[t]; ok {
		return k, nil
	}
	if elem, ok := bundle.ListElem(t); ok {
		return classifyList(t, elem)
	}
	if elem, ok := bundle.SparseElem(t); ok {
		if !bundle.IsParcelable(elem) {
			return 0, classErr(t, "SparseArray element %s does not implement bundle.Parcelable", elem)
		}
		return SparseParcelableArray, nil
	}
	if t.Kind() == reflect.Slice {
		return classifyArray(t)
	}

	switch {
	case t == stringType, t == stringPtrType:
		return String, nil
	case bundle.IsParcelable(t):
		return Parcelable, nil
	case bundle.IsSerializable(t):
		return Serializable, nil
	case bundle.IsCharSequence(t):
		return CharSequence, nil
	}
	return 0, classErr(t, "type not supported")
}

func classifyArray(t reflect.Type) (Kind, error) {
	elem := t.Elem()
	if k, ok := arrayKinds[elem]; ok {
		return k, nil
	}
	// Parcelable wins over CharSequence, as it does for single values:
	// a CharSequence array keeps only the text of each element.
	switch {
	case elem == stringType:
		return StringArray, nil
	case bundle.IsParcelable(elem):
		return ParcelableArray, nil
	case bundle.IsCharSequence(elem):
		return CharSequenceArray, nil
	}
	inner := elem
	for inner.Kind() == reflect.Slice {
		inner = inner.Elem()
	}
	if bundle.IsSerializable(elem) || bundle.IsSerializable(inner) {
		return SerializableArray, nil
	}
	return 0, classErr(t, "unsupported array element type %s", elem)
}

func classifyList(t, elem reflect.Type) (Kind, error) {
	switch {
	case bundle.IsParcelable(elem):
		return ParcelableList, nil
	case elem == stringType:
		return StringList, nil
	case elem == int32Type:
		return IntegerList, nil
	case elem == charSequenceType:
		return CharSequenceList, nil
	case bundle.IsSerializable(elem):
		return Serializable, nil
	}
	return 0, classErr(t, "list element %s is not a Parcelable, string, int32, bundle.CharSequence or serializable type", elem)
}
