package autobundle

import (
	"reflect"

	"github.com/xcheng/autobundle/bundle"
)

// Handler stores and loads the values of one binding kind, through
// the matching Bundle accessors. There is one Handler per Kind, shared
// by all binding sites of that kind.
type Handler struct {
	Kind Kind

	// write stores v under key.
	write func(b *bundle.Bundle, key string, v reflect.Value) error
	// read loads key into dst, and reports whether a non-nil value
	// was present.
	read func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error)
}

// Write stores v under key in b. If required is set and v is nil, Write
// returns a [RequiredValueAbsentError] and leaves b unchanged.
func (h *Handler) Write(b *bundle.Bundle, key string, required bool, v reflect.Value) error {
	if required && !h.Kind.IsPrimitive() && isNilValue(v) {
		return &RequiredValueAbsentError{Key: key}
	}
	return h.write(b, key, v)
}

// Read loads the value for key from b into dst, which must be
// settable.
//
// If the key is absent, primitive destinations keep their current
// value and other destinations are set to their zero value. For
// required non-primitive sites, an absent or nil value is a
// [RequiredValueAbsentError]. A value of the wrong type is a
// [ValueTypeError].
func (h *Handler) Read(b *bundle.Bundle, key string, required bool, dst reflect.Value) error {
	present, err := h.read(b, key, dst)
	if err != nil {
		return err
	}
	if !present && required && !h.Kind.IsPrimitive() {
		return &RequiredValueAbsentError{Key: key}
	}
	return nil
}

func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Interface:
		// A typed nil inside an interface is still nil.
		return v.IsNil() || isNilValue(v.Elem())
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// handlers is the handler table, indexed by Kind.
var handlers = [numKinds]*Handler{
	Bool:   scalar(Bool, (*bundle.Bundle).PutBool, (*bundle.Bundle).GetBool),
	Byte:   scalar(Byte, (*bundle.Bundle).PutByte, (*bundle.Bundle).GetByte),
	Char:   scalar(Char, (*bundle.Bundle).PutChar, (*bundle.Bundle).GetChar),
	Short:  scalar(Short, (*bundle.Bundle).PutShort, (*bundle.Bundle).GetShort),
	Int:    scalar(Int, (*bundle.Bundle).PutInt, (*bundle.Bundle).GetInt),
	Long:   scalar(Long, (*bundle.Bundle).PutLong, (*bundle.Bundle).GetLong),
	Float:  scalar(Float, (*bundle.Bundle).PutFloat, (*bundle.Bundle).GetFloat),
	Double: scalar(Double, (*bundle.Bundle).PutDouble, (*bundle.Bundle).GetDouble),

	BoolArray:   ref(BoolArray, (*bundle.Bundle).PutBoolArray, (*bundle.Bundle).GetBoolArray),
	ByteArray:   ref(ByteArray, (*bundle.Bundle).PutByteArray, (*bundle.Bundle).GetByteArray),
	CharArray:   ref(CharArray, (*bundle.Bundle).PutCharArray, (*bundle.Bundle).GetCharArray),
	ShortArray:  ref(ShortArray, (*bundle.Bundle).PutShortArray, (*bundle.Bundle).GetShortArray),
	IntArray:    ref(IntArray, (*bundle.Bundle).PutIntArray, (*bundle.Bundle).GetIntArray),
	LongArray:   ref(LongArray, (*bundle.Bundle).PutLongArray, (*bundle.Bundle).GetLongArray),
	FloatArray:  ref(FloatArray, (*bundle.Bundle).PutFloatArray, (*bundle.Bundle).GetFloatArray),
	DoubleArray: ref(DoubleArray, (*bundle.Bundle).PutDoubleArray, (*bundle.Bundle).GetDoubleArray),

	String:      newStringHandler(),
	StringArray: ref(StringArray, (*bundle.Bundle).PutStringArray, (*bundle.Bundle).GetStringArray),
	StringList:  ref(StringList, (*bundle.Bundle).PutStringArrayList, (*bundle.Bundle).GetStringArrayList),

	CharSequence:      iface(CharSequence, (*bundle.Bundle).PutCharSequence, (*bundle.Bundle).GetCharSequence),
	CharSequenceArray: elems(CharSequenceArray, (*bundle.Bundle).PutCharSequenceArray, (*bundle.Bundle).GetCharSequenceArray),
	CharSequenceList:  ref(CharSequenceList, (*bundle.Bundle).PutCharSequenceArrayList, (*bundle.Bundle).GetCharSequenceArrayList),

	Parcelable:            iface(Parcelable, (*bundle.Bundle).PutParcelable, (*bundle.Bundle).GetParcelable),
	ParcelableArray:       elems(ParcelableArray, (*bundle.Bundle).PutParcelableArray, (*bundle.Bundle).GetParcelableArray),
	ParcelableList:        elems(ParcelableList, (*bundle.Bundle).PutParcelableArrayList, (*bundle.Bundle).GetParcelableArrayList),
	SparseParcelableArray: newSparseHandler(),

	IntegerList:       ref(IntegerList, (*bundle.Bundle).PutIntegerArrayList, (*bundle.Bundle).GetIntegerArrayList),
	Serializable:      iface(Serializable, (*bundle.Bundle).PutSerializable, (*bundle.Bundle).GetSerializable),
	SerializableArray: iface(SerializableArray, (*bundle.Bundle).PutSerializable, (*bundle.Bundle).GetSerializable),
}

// handlerFor returns the Handler for k.
func handlerFor(k Kind) *Handler {
	return handlers[k]
}

func typeErr(key string, k Kind, want reflect.Type, got any) error {
	return &ValueTypeError{
		Key:  key,
		Kind: k,
		Want: want,
		Got:  reflect.TypeOf(got),
	}
}

// scalar returns a Handler for a primitive kind with Go type T.
func scalar[T any](k Kind, put func(*bundle.Bundle, string, T), get func(*bundle.Bundle, string, T) T) *Handler {
	return &Handler{
		Kind: k,
		write: func(b *bundle.Bundle, key string, v reflect.Value) error {
			put(b, key, v.Interface().(T))
			return nil
		},
		read: func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error) {
			raw := b.Get(key)
			if raw == nil {
				return false, nil
			}
			if _, ok := raw.(T); !ok {
				return true, typeErr(key, k, dst.Type(), raw)
			}
			var zero T
			dst.Set(reflect.ValueOf(get(b, key, zero)))
			return true, nil
		},
	}
}

// ref returns a Handler for a kind whose accessors take exactly T.
// Site types only need to be convertible to T, which lets named slice
// types use the array accessors.
func ref[T any](k Kind, put func(*bundle.Bundle, string, T), get func(*bundle.Bundle, string) (T, bool)) *Handler {
	t := reflect.TypeFor[T]()
	return &Handler{
		Kind: k,
		write: func(b *bundle.Bundle, key string, v reflect.Value) error {
			put(b, key, v.Convert(t).Interface().(T))
			return nil
		},
		read: func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error) {
			raw := b.Get(key)
			if raw == nil {
				dst.SetZero()
				return false, nil
			}
			got, ok := get(b, key)
			if !ok {
				return true, typeErr(key, k, dst.Type(), raw)
			}
			dst.Set(reflect.ValueOf(got).Convert(dst.Type()))
			return true, nil
		},
	}
}

// iface returns a Handler for a kind whose accessors take an
// interface type T. Loaded values must be assignable to the site's
// type.
func iface[T any](k Kind, put func(*bundle.Bundle, string, T), get func(*bundle.Bundle, string) (T, bool)) *Handler {
	return &Handler{
		Kind: k,
		write: func(b *bundle.Bundle, key string, v reflect.Value) error {
			var val T
			if !isNilValue(v) {
				val = v.Interface().(T)
			}
			put(b, key, val)
			return nil
		},
		read: func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error) {
			raw := b.Get(key)
			if raw == nil {
				dst.SetZero()
				return false, nil
			}
			got, ok := get(b, key)
			if !ok {
				return true, typeErr(key, k, dst.Type(), raw)
			}
			gv := reflect.ValueOf(got)
			if !gv.Type().AssignableTo(dst.Type()) {
				return true, typeErr(key, k, dst.Type(), raw)
			}
			dst.Set(gv)
			return true, nil
		},
	}
}

// elems returns a Handler for a collection kind whose accessors take
// S, a slice of interface type E. Site values are slices of any type
// implementing E, converted element by element.
func elems[S ~[]E, E any](k Kind, put func(*bundle.Bundle, string, S), get func(*bundle.Bundle, string) (S, bool)) *Handler {
	return &Handler{
		Kind: k,
		write: func(b *bundle.Bundle, key string, v reflect.Value) error {
			if v.IsNil() {
				put(b, key, nil)
				return nil
			}
			out := make(S, v.Len())
			for i := range v.Len() {
				if ev := v.Index(i); !isNilValue(ev) {
					out[i] = ev.Interface().(E)
				}
			}
			put(b, key, out)
			return nil
		},
		read: func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error) {
			raw := b.Get(key)
			if raw == nil {
				dst.SetZero()
				return false, nil
			}
			got, ok := get(b, key)
			if !ok {
				return true, typeErr(key, k, dst.Type(), raw)
			}
			elemType := dst.Type().Elem()
			out := reflect.MakeSlice(dst.Type(), len(got), len(got))
			for i, e := range got {
				if isNilValue(reflect.ValueOf(e)) {
					continue
				}
				ev := reflect.ValueOf(e)
				if !ev.Type().AssignableTo(elemType) {
					return true, typeErr(key, k, dst.Type(), raw)
				}
				out.Index(i).Set(ev)
			}
			dst.Set(out)
			return true, nil
		},
	}
}

func newStringHandler() *Handler {
	return &Handler{
		Kind: String,
		write: func(b *bundle.Bundle, key string, v reflect.Value) error {
			switch {
			case v.Kind() == reflect.String:
				b.PutString(key, v.String())
			case v.IsNil():
				b.PutNullString(key)
			default:
				b.PutString(key, v.Elem().String())
			}
			return nil
		},
		read: func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error) {
			raw := b.Get(key)
			if raw == nil {
				dst.SetZero()
				return false, nil
			}
			s, ok := b.GetString(key)
			if !ok {
				return true, typeErr(key, String, dst.Type(), raw)
			}
			if dst.Kind() == reflect.Pointer {
				dst.Set(reflect.ValueOf(&s))
			} else {
				dst.SetString(s)
			}
			return true, nil
		},
	}
}

func newSparseHandler() *Handler {
	return &Handler{
		Kind: SparseParcelableArray,
		write: func(b *bundle.Bundle, key string, v reflect.Value) error {
			if v.IsNil() {
				b.PutSparseParcelableArray(key, nil)
				return nil
			}
			src := v.Interface().(bundle.UntypedSparseArray)
			out := bundle.NewSparseArray[bundle.Parcelable]()
			for i := range src.Len() {
				p, _ := src.AnyValueAt(i).(bundle.Parcelable)
				if isNilValue(reflect.ValueOf(p)) {
					p = nil
				}
				out.Put(src.KeyAt(i), p)
			}
			b.PutSparseParcelableArray(key, out)
			return nil
		},
		read: func(b *bundle.Bundle, key string, dst reflect.Value) (bool, error) {
			raw := b.Get(key)
			if raw == nil {
				dst.SetZero()
				return false, nil
			}
			got, ok := b.GetSparseParcelableArray(key)
			if !ok {
				return true, typeErr(key, SparseParcelableArray, dst.Type(), raw)
			}
			out := reflect.New(dst.Type().Elem())
			arr := out.Interface().(bundle.UntypedSparseArray)
			for k, p := range got.All() {
				if !arr.PutAny(k, p) {
					return true, typeErr(key, SparseParcelableArray, dst.Type(), raw)
				}
			}
			dst.Set(out)
			return true, nil
		},
	}
}
