package bundle

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"reflect"

	"github.com/xcheng/autobundle/parcel"
)

// bundleMagic starts every parceled bundle ("BNDL" in little endian).
const bundleMagic = 0x4C444E42

// maxPrealloc bounds the capacity preallocated for slices read from a
// parcel, so that a corrupt length can't force a huge allocation.
const maxPrealloc = 1024

// valueTag identifies the accessor family of a parceled value.
type valueTag uint32

const (
	tagNull valueTag = iota
	tagBool
	tagByte
	tagChar
	tagShort
	tagInt
	tagLong
	tagFloat
	tagDouble
	tagBoolArray
	tagByteArray
	tagCharArray
	tagShortArray
	tagIntArray
	tagLongArray
	tagFloatArray
	tagDoubleArray
	tagString
	tagStringArray
	tagStringList
	tagCharSequence
	tagCharSequenceArray
	tagCharSequenceList
	tagParcelable
	tagParcelableArray
	tagParcelableList
	tagSparseParcelableArray
	tagIntegerList
	tagSerializable
)

// Marshal returns the parcel encoding of b, using the given byte
// order. The encoding starts with a byte order flag, so [Unmarshal]
// doesn't need to be told the order.
//
// Parcelable values must have been registered with [Register].
// Serializable values are encoded with encoding/gob, and values held
// in an interface must also be registered.
func Marshal(b *Bundle, order parcel.ByteOrder) ([]byte, error) {
	e := parcel.Encoder{Order: order}
	e.ByteOrderFlag()
	if err := b.WriteToParcel(&e); err != nil {
		return nil, err
	}
	return e.Out, nil
}

// Unmarshal decodes a Bundle produced by [Marshal].
func Unmarshal(data []byte) (*Bundle, error) {
	d := parcel.Decoder{In: bytes.NewReader(data)}
	if err := d.ByteOrderFlag(); err != nil {
		return nil, err
	}
	ret := New()
	if err := ret.ReadFromParcel(&d); err != nil {
		return nil, err
	}
	return ret, nil
}

// WriteToParcel implements [Parcelable]. Keys are written in
// ascending order.
func (b *Bundle) WriteToParcel(e *parcel.Encoder) error {
	e.Uint32(bundleMagic)
	return e.Section(func() error {
		keys := b.Keys()
		e.Uint32(uint32(len(keys)))
		for _, k := range keys {
			e.String(k)
			if err := writeValue(e, b.m[k]); err != nil {
				return fmt.Errorf("writing bundle key %q: %w", k, err)
			}
		}
		return nil
	})
}

// ReadFromParcel implements [Parcelable]. Keys read from the parcel
// are added to b, replacing existing values.
func (b *Bundle) ReadFromParcel(d *parcel.Decoder) error {
	magic, err := d.Uint32()
	if err != nil {
		return err
	}
	if magic != bundleMagic {
		return fmt.Errorf("bad bundle magic %#x", magic)
	}
	if b.m == nil {
		b.m = map[string]any{}
	}
	return d.Section(func() error {
		n, err := d.Uint32()
		if err != nil {
			return err
		}
		for range n {
			k, err := d.String()
			if err != nil {
				return err
			}
			v, err := readValue(d)
			if err != nil {
				return fmt.Errorf("reading bundle key %q: %w", k, err)
			}
			b.m[k] = v
		}
		return nil
	})
}

func writeValue(e *parcel.Encoder, v any) error {
	tag := func(t valueTag) { e.Uint32(uint32(t)) }
	switch v := v.(type) {
	case nil:
		tag(tagNull)
	case bool:
		tag(tagBool)
		e.Bool(v)
	case uint8:
		tag(tagByte)
		e.Uint8(v)
	case uint16:
		tag(tagChar)
		e.Uint16(v)
	case int16:
		tag(tagShort)
		e.Int16(v)
	case int32:
		tag(tagInt)
		e.Int32(v)
	case int64:
		tag(tagLong)
		e.Int64(v)
	case float32:
		tag(tagFloat)
		e.Float32(v)
	case float64:
		tag(tagDouble)
		e.Float64(v)
	case []bool:
		tag(tagBoolArray)
		writeSlice(e, v, e.Bool)
	case []byte:
		tag(tagByteArray)
		e.Bytes(v)
	case []uint16:
		tag(tagCharArray)
		writeSlice(e, v, e.Uint16)
	case []int16:
		tag(tagShortArray)
		writeSlice(e, v, e.Int16)
	case []int32:
		tag(tagIntArray)
		writeSlice(e, v, e.Int32)
	case []int64:
		tag(tagLongArray)
		writeSlice(e, v, e.Int64)
	case []float32:
		tag(tagFloatArray)
		writeSlice(e, v, e.Float32)
	case []float64:
		tag(tagDoubleArray)
		writeSlice(e, v, e.Float64)
	case string:
		tag(tagString)
		e.String(v)
	case []string:
		tag(tagStringArray)
		writeSlice(e, v, e.String)
	case List[string]:
		tag(tagStringList)
		writeSlice(e, v, e.String)
	case []CharSequence:
		tag(tagCharSequenceArray)
		writeSlice(e, v, func(cs CharSequence) { writeCharSequence(e, cs) })
	case List[CharSequence]:
		tag(tagCharSequenceList)
		writeSlice(e, v, func(cs CharSequence) { writeCharSequence(e, cs) })
	case []Parcelable:
		tag(tagParcelableArray)
		return writeSliceErr(e, v, func(p Parcelable) error { return writeParcelable(e, p) })
	case List[Parcelable]:
		tag(tagParcelableList)
		return writeSliceErr(e, v, func(p Parcelable) error { return writeParcelable(e, p) })
	case *SparseArray[Parcelable]:
		tag(tagSparseParcelableArray)
		e.Uint32(uint32(v.Len()))
		for k, p := range v.All() {
			e.Int32(k)
			if err := writeParcelable(e, p); err != nil {
				return err
			}
		}
	case List[int32]:
		tag(tagIntegerList)
		writeSlice(e, v, e.Int32)
	case Parcelable:
		tag(tagParcelable)
		return writeParcelable(e, v)
	case Serializable:
		tag(tagSerializable)
		return writeSerializable(e, v)
	case CharSequence:
		tag(tagCharSequence)
		writeCharSequence(e, v)
	default:
		tag(tagSerializable)
		return writeSerializable(e, v)
	}
	return nil
}

func readValue(d *parcel.Decoder) (any, error) {
	t, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	switch valueTag(t) {
	case tagNull:
		return nil, nil
	case tagBool:
		return d.Bool()
	case tagByte:
		return d.Uint8()
	case tagChar:
		return d.Uint16()
	case tagShort:
		return d.Int16()
	case tagInt:
		return d.Int32()
	case tagLong:
		return d.Int64()
	case tagFloat:
		return d.Float32()
	case tagDouble:
		return d.Float64()
	case tagBoolArray:
		return readSlice(d, d.Bool)
	case tagByteArray:
		return d.Bytes()
	case tagCharArray:
		return readSlice(d, d.Uint16)
	case tagShortArray:
		return readSlice(d, d.Int16)
	case tagIntArray:
		return readSlice(d, d.Int32)
	case tagLongArray:
		return readSlice(d, d.Int64)
	case tagFloatArray:
		return readSlice(d, d.Float32)
	case tagDoubleArray:
		return readSlice(d, d.Float64)
	case tagString:
		return d.String()
	case tagStringArray:
		return readSlice(d, d.String)
	case tagStringList:
		ret, err := readSlice(d, d.String)
		return List[string](ret), err
	case tagCharSequence:
		return readCharSequence(d)
	case tagCharSequenceArray:
		return readSlice(d, func() (CharSequence, error) { return readCharSequence(d) })
	case tagCharSequenceList:
		ret, err := readSlice(d, func() (CharSequence, error) { return readCharSequence(d) })
		return List[CharSequence](ret), err
	case tagParcelable:
		return readParcelable(d)
	case tagParcelableArray:
		return readSlice(d, func() (Parcelable, error) { return readParcelable(d) })
	case tagParcelableList:
		ret, err := readSlice(d, func() (Parcelable, error) { return readParcelable(d) })
		return List[Parcelable](ret), err
	case tagSparseParcelableArray:
		n, err := d.Uint32()
		if err != nil {
			return nil, err
		}
		ret := NewSparseArray[Parcelable]()
		for range n {
			k, err := d.Int32()
			if err != nil {
				return nil, err
			}
			p, err := readParcelable(d)
			if err != nil {
				return nil, err
			}
			ret.Put(k, p)
		}
		return ret, nil
	case tagIntegerList:
		ret, err := readSlice(d, d.Int32)
		return List[int32](ret), err
	case tagSerializable:
		return readSerializable(d)
	default:
		return nil, fmt.Errorf("unknown value tag %d", t)
	}
}

func writeSlice[T any](e *parcel.Encoder, vs []T, write func(T)) {
	e.Uint32(uint32(len(vs)))
	for _, v := range vs {
		write(v)
	}
}

func writeSliceErr[T any](e *parcel.Encoder, vs []T, write func(T) error) error {
	e.Uint32(uint32(len(vs)))
	for _, v := range vs {
		if err := write(v); err != nil {
			return err
		}
	}
	return nil
}

func readSlice[T any](d *parcel.Decoder, read func() (T, error)) ([]T, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	ret := make([]T, 0, min(int(n), maxPrealloc))
	for range n {
		v, err := read()
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func writeCharSequence(e *parcel.Encoder, cs CharSequence) {
	if isNil(cs) {
		e.Bool(false)
		return
	}
	e.Bool(true)
	e.String(cs.String())
}

func readCharSequence(d *parcel.Decoder) (CharSequence, error) {
	present, err := d.Bool()
	if err != nil || !present {
		return nil, err
	}
	s, err := d.String()
	if err != nil {
		return nil, err
	}
	return Text(s), nil
}

// writeParcelable writes p's registered type name, followed by p's
// own encoding in a section. A nil p is written as an empty name.
func writeParcelable(e *parcel.Encoder, p Parcelable) error {
	if isNil(p) {
		e.String("")
		return nil
	}
	name, err := registeredName(reflect.TypeOf(p))
	if err != nil {
		return err
	}
	e.String(name)
	return e.Section(func() error {
		return p.WriteToParcel(e)
	})
}

func readParcelable(d *parcel.Decoder) (Parcelable, error) {
	name, err := d.String()
	if err != nil || name == "" {
		return nil, err
	}
	t, err := registeredType(name)
	if err != nil {
		return nil, err
	}
	ret := reflect.New(t.Elem()).Interface().(Parcelable)
	err = d.Section(func() error {
		return ret.ReadFromParcel(d)
	})
	if err != nil {
		return nil, fmt.Errorf("reading Parcelable %s: %w", name, err)
	}
	return ret, nil
}

// serialized is the gob envelope of a serializable value. Gob only
// records concrete type names for values held in interfaces, and
// flattens pointers, so pointers to basic values are stored as their
// target with Ptr set.
type serialized struct {
	V   any
	Ptr bool
}

func writeSerializable(e *parcel.Encoder, v any) error {
	env := serialized{V: v}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && basicKinds.Has(rv.Type().Elem().Kind()) {
		env = serialized{V: rv.Elem().Interface(), Ptr: true}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&env); err != nil {
		return fmt.Errorf("serializing %T: %w", v, err)
	}
	e.Bytes(buf.Bytes())
	return nil
}

func readSerializable(d *parcel.Decoder) (any, error) {
	bs, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	var ret serialized
	if err := gob.NewDecoder(bytes.NewReader(bs)).Decode(&ret); err != nil {
		return nil, fmt.Errorf("deserializing value: %w", err)
	}
	rv := reflect.ValueOf(ret.V)
	switch {
	case ret.Ptr && rv.IsValid():
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Interface(), nil
	case rv.Kind() == reflect.Slice && rv.IsNil():
		// gob decodes empty slices as nil. Nil values never get here,
		// they are written as tagNull.
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface(), nil
	}
	return ret.V, nil
}
