package bundle

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Bundle is a mapping from string keys to values of the types
// supported by its typed accessors.
//
// The zero Bundle is not usable, use [New].
type Bundle struct {
	m map[string]any
}

// New returns an empty Bundle.
func New() *Bundle {
	return &Bundle{m: map[string]any{}}
}

// Size returns the number of keys in b.
func (b *Bundle) Size() int {
	return len(b.m)
}

// IsEmpty reports whether b has no keys.
func (b *Bundle) IsEmpty() bool {
	return len(b.m) == 0
}

// Keys returns the keys of b in ascending order.
func (b *Bundle) Keys() []string {
	return slices.Sorted(maps.Keys(b.m))
}

// Contains reports whether b has a value for key. A key stored with
// a nil value is present.
func (b *Bundle) Contains(key string) bool {
	_, ok := b.m[key]
	return ok
}

// Get returns the value stored for key, or nil if key is absent.
func (b *Bundle) Get(key string) any {
	return b.m[key]
}

// Remove removes key from b.
func (b *Bundle) Remove(key string) {
	delete(b.m, key)
}

// Clear removes all keys from b.
func (b *Bundle) Clear() {
	clear(b.m)
}

// PutAll copies all of other's keys into b, replacing existing
// values. Values are not deep-copied.
func (b *Bundle) PutAll(other *Bundle) {
	maps.Copy(b.m, other.m)
}

func (b *Bundle) String() string {
	var ret strings.Builder
	ret.WriteString("Bundle[{")
	for i, k := range b.Keys() {
		if i > 0 {
			ret.WriteString(", ")
		}
		fmt.Fprintf(&ret, "%s=%v", k, b.m[k])
	}
	ret.WriteString("}]")
	return ret.String()
}

// putRef stores a reference value, normalizing typed nils to nil so
// that Contains and the typed getters agree on absence.
func (b *Bundle) putRef(key string, v any) {
	if isNil(v) {
		b.m[key] = nil
		return
	}
	b.m[key] = v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// getScalar returns the value for key if it has type T, or def.
func getScalar[T any](b *Bundle, key string, def T) T {
	if v, ok := b.m[key].(T); ok {
		return v
	}
	return def
}

// getRef returns the value for key if it is non-nil and has type T.
func getRef[T any](b *Bundle, key string) (T, bool) {
	v, ok := b.m[key].(T)
	return v, ok
}

// PutBool stores a bool.
func (b *Bundle) PutBool(key string, v bool) { b.m[key] = v }

// GetBool returns the bool for key, or def.
func (b *Bundle) GetBool(key string, def bool) bool { return getScalar(b, key, def) }

// PutByte stores a byte.
func (b *Bundle) PutByte(key string, v byte) { b.m[key] = v }

// GetByte returns the byte for key, or def.
func (b *Bundle) GetByte(key string, def byte) byte { return getScalar(b, key, def) }

// PutChar stores a UTF-16 code unit.
func (b *Bundle) PutChar(key string, v uint16) { b.m[key] = v }

// GetChar returns the UTF-16 code unit for key, or def.
func (b *Bundle) GetChar(key string, def uint16) uint16 { return getScalar(b, key, def) }

// PutShort stores an int16.
func (b *Bundle) PutShort(key string, v int16) { b.m[key] = v }

// GetShort returns the int16 for key, or def.
func (b *Bundle) GetShort(key string, def int16) int16 { return getScalar(b, key, def) }

// PutInt stores an int32.
func (b *Bundle) PutInt(key string, v int32) { b.m[key] = v }

// GetInt returns the int32 for key, or def.
func (b *Bundle) GetInt(key string, def int32) int32 { return getScalar(b, key, def) }

// PutLong stores an int64.
func (b *Bundle) PutLong(key string, v int64) { b.m[key] = v }

// GetLong returns the int64 for key, or def.
func (b *Bundle) GetLong(key string, def int64) int64 { return getScalar(b, key, def) }

// PutFloat stores a float32.
func (b *Bundle) PutFloat(key string, v float32) { b.m[key] = v }

// GetFloat returns the float32 for key, or def.
func (b *Bundle) GetFloat(key string, def float32) float32 { return getScalar(b, key, def) }

// PutDouble stores a float64.
func (b *Bundle) PutDouble(key string, v float64) { b.m[key] = v }

// GetDouble returns the float64 for key, or def.
func (b *Bundle) GetDouble(key string, def float64) float64 { return getScalar(b, key, def) }

// PutBoolArray stores a []bool.
func (b *Bundle) PutBoolArray(key string, v []bool) { b.putRef(key, v) }

// GetBoolArray returns the []bool for key.
func (b *Bundle) GetBoolArray(key string) ([]bool, bool) { return getRef[[]bool](b, key) }

// PutByteArray stores a []byte.
func (b *Bundle) PutByteArray(key string, v []byte) { b.putRef(key, v) }

// GetByteArray returns the []byte for key.
func (b *Bundle) GetByteArray(key string) ([]byte, bool) { return getRef[[]byte](b, key) }

// PutCharArray stores a []uint16 of UTF-16 code units.
func (b *Bundle) PutCharArray(key string, v []uint16) { b.putRef(key, v) }

// GetCharArray returns the []uint16 for key.
func (b *Bundle) GetCharArray(key string) ([]uint16, bool) { return getRef[[]uint16](b, key) }

// PutShortArray stores a []int16.
func (b *Bundle) PutShortArray(key string, v []int16) { b.putRef(key, v) }

// GetShortArray returns the []int16 for key.
func (b *Bundle) GetShortArray(key string) ([]int16, bool) { return getRef[[]int16](b, key) }

// PutIntArray stores a []int32.
func (b *Bundle) PutIntArray(key string, v []int32) { b.putRef(key, v) }

// GetIntArray returns the []int32 for key.
func (b *Bundle) GetIntArray(key string) ([]int32, bool) { return getRef[[]int32](b, key) }

// PutLongArray stores a []int64.
func (b *Bundle) PutLongArray(key string, v []int64) { b.putRef(key, v) }

// GetLongArray returns the []int64 for key.
func (b *Bundle) GetLongArray(key string) ([]int64, bool) { return getRef[[]int64](b, key) }

// PutFloatArray stores a []float32.
func (b *Bundle) PutFloatArray(key string, v []float32) { b.putRef(key, v) }

// GetFloatArray returns the []float32 for key.
func (b *Bundle) GetFloatArray(key string) ([]float32, bool) { return getRef[[]float32](b, key) }

// PutDoubleArray stores a []float64.
func (b *Bundle) PutDoubleArray(key string, v []float64) { b.putRef(key, v) }

// GetDoubleArray returns the []float64 for key.
func (b *Bundle) GetDoubleArray(key string) ([]float64, bool) { return getRef[[]float64](b, key) }

// PutString stores a string.
func (b *Bundle) PutString(key string, v string) { b.m[key] = v }

// PutNullString stores key with no string value.
func (b *Bundle) PutNullString(key string) { b.m[key] = nil }

// GetString returns the string for key.
func (b *Bundle) GetString(key string) (string, bool) { return getRef[string](b, key) }

// PutStringArray stores a []string.
func (b *Bundle) PutStringArray(key string, v []string) { b.putRef(key, v) }

// GetStringArray returns the []string for key.
func (b *Bundle) GetStringArray(key string) ([]string, bool) { return getRef[[]string](b, key) }

// PutStringArrayList stores a List[string].
func (b *Bundle) PutStringArrayList(key string, v List[string]) { b.putRef(key, v) }

// GetStringArrayList returns the List[string] for key.
func (b *Bundle) GetStringArrayList(key string) (List[string], bool) {
	return getRef[List[string]](b, key)
}

// PutCharSequence stores a CharSequence.
func (b *Bundle) PutCharSequence(key string, v CharSequence) { b.putRef(key, v) }

// GetCharSequence returns the CharSequence for key.
func (b *Bundle) GetCharSequence(key string) (CharSequence, bool) {
	return getRef[CharSequence](b, key)
}

// PutCharSequenceArray stores a []CharSequence.
func (b *Bundle) PutCharSequenceArray(key string, v []CharSequence) { b.putRef(key, v) }

// GetCharSequenceArray returns the []CharSequence for key.
func (b *Bundle) GetCharSequenceArray(key string) ([]CharSequence, bool) {
	return getRef[[]CharSequence](b, key)
}

// PutCharSequenceArrayList stores a List[CharSequence].
func (b *Bundle) PutCharSequenceArrayList(key string, v List[CharSequence]) { b.putRef(key, v) }

// GetCharSequenceArrayList returns the List[CharSequence] for key.
func (b *Bundle) GetCharSequenceArrayList(key string) (List[CharSequence], bool) {
	return getRef[List[CharSequence]](b, key)
}

// PutParcelable stores a Parcelable.
func (b *Bundle) PutParcelable(key string, v Parcelable) { b.putRef(key, v) }

// GetParcelable returns the Parcelable for key.
func (b *Bundle) GetParcelable(key string) (Parcelable, bool) {
	return getRef[Parcelable](b, key)
}

// PutParcelableArray stores a []Parcelable.
func (b *Bundle) PutParcelableArray(key string, v []Parcelable) { b.putRef(key, v) }

// GetParcelableArray returns the []Parcelable for key.
func (b *Bundle) GetParcelableArray(key string) ([]Parcelable, bool) {
	return getRef[[]Parcelable](b, key)
}

// PutParcelableArrayList stores a List[Parcelable].
func (b *Bundle) PutParcelableArrayList(key string, v List[Parcelable]) { b.putRef(key, v) }

// GetParcelableArrayList returns the List[Parcelable] for key.
func (b *Bundle) GetParcelableArrayList(key string) (List[Parcelable], bool) {
	return getRef[List[Parcelable]](b, key)
}

// PutSparseParcelableArray stores a *SparseArray[Parcelable].
func (b *Bundle) PutSparseParcelableArray(key string, v *SparseArray[Parcelable]) {
	b.putRef(key, v)
}

// GetSparseParcelableArray returns the *SparseArray[Parcelable] for
// key.
func (b *Bundle) GetSparseParcelableArray(key string) (*SparseArray[Parcelable], bool) {
	return getRef[*SparseArray[Parcelable]](b, key)
}

// PutIntegerArrayList stores a List[int32].
func (b *Bundle) PutIntegerArrayList(key string, v List[int32]) { b.putRef(key, v) }

// GetIntegerArrayList returns the List[int32] for key.
func (b *Bundle) GetIntegerArrayList(key string) (List[int32], bool) {
	return getRef[List[int32]](b, key)
}

// PutSerializable stores a serializable value, see [IsSerializable].
// Serializable values are stored as given, and only serialized when
// the bundle is written to a parcel.
func (b *Bundle) PutSerializable(key string, v any) { b.putRef(key, v) }

// GetSerializable returns the serializable value for key.
func (b *Bundle) GetSerializable(key string) (any, bool) {
	v := b.m[key]
	return v, v != nil
}

// PutBundle stores a nested Bundle. Bundles are Parcelable, this is
// shorthand for PutParcelable.
func (b *Bundle) PutBundle(key string, v *Bundle) { b.putRef(key, v) }

// GetBundle returns the nested Bundle for key.
func (b *Bundle) GetBundle(key string) (*Bundle, bool) { return getRef[*Bundle](b, key) }
