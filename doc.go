// Package autobundle stores function arguments in bundles, and loads
// bundle values into struct fields, driven by struct tags.
//
// A contract is a struct of func fields, each describing one way of
// building a bundle. [Library.Create] implements the funcs:
//
//	type Intents struct {
//	    Profile func(name *string, age int32) *bundle.Bundle `bundle:"name,required;age" flag:"1"`
//	    Search  func(terms bundle.List[string]) (*bundle.Bundle, error) `bundle:"terms"`
//	}
//
//	lib := autobundle.New(autobundle.Options{})
//	var intents Intents
//	if err := lib.Create(&intents); err != nil {
//	    ...
//	}
//	b := intents.Profile(&name, 30)
//
// Each parameter gets one "key[,required]" segment of the bundle tag,
// and the optional flag tag is passed to [Listener] callbacks so that
// listeners can tell contract methods apart.
//
// A target is a struct with tagged fields. [Library.Bind] loads them
// from a bundle:
//
//	type Profile struct {
//	    Name string `bundle:"name,required"`
//	    Age  int32  `bundle:"age"`
//	}
//
// The first embedded struct of a target acts as its base: its fields
// are bound before the target's own fields.
//
// # Binding kinds
//
// Every parameter and field type is classified into a [Kind], which
// selects the Bundle accessors used to store and load it. The types of
// each kind are:
//
// bool, uint8, uint16, int16, int32, int64, float32 and float64 are the
// primitive kinds Bool, Byte, Char, Short, Int, Long, Float and
// Double. Slices of these exact types are the matching array kinds.
// Primitive sites can't be absent: if a bundle has no value for a
// primitive field, Bind leaves the field unchanged.
//
// string and *string are String. []string is StringArray and
// bundle.List[string] is StringList.
//
// Types implementing [bundle.CharSequence] are CharSequence, unless an
// earlier rule matches them. Slices of them are CharSequenceArray. A
// type that is both Parcelable and a CharSequence is always treated as
// Parcelable, alone or in slices and lists.
// Only bundle.List[bundle.CharSequence] is a CharSequenceList,
// bundle.List[string] stays a StringList.
//
// Types implementing [bundle.Parcelable] are Parcelable. Slices of
// them are ParcelableArray, bundle.List of them ParcelableList, and
// pointers to bundle.SparseArray of them SparseParcelableArray.
//
// bundle.List[int32] is IntegerList.
//
// Other serializable types (see [bundle.IsSerializable]) are
// Serializable, and slices whose innermost element type is
// serializable are SerializableArray. A type that is both
// serializable and a CharSequence is Serializable.
//
// Everything else, for example bundle.List[any], is rejected with a
// [ClassificationError]. See [Classify] for the exact rules.
//
// # Required values
//
// Sites tagged required must not be nil. Building a bundle with a nil
// required argument, or binding a bundle that lacks a required
// non-primitive field, fails with a [RequiredValueAbsentError].
//
// # Errors and caching
//
// Bindings are resolved once per contract method and target type, and
// cached by the Library along with any configuration errors. By default
// resolution happens on first use. With Options.ValidateEagerly,
// [Library.Create] reports all of a contract's configuration errors up
// front.
package autobundle
