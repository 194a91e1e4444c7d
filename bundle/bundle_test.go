package bundle_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xcheng/autobundle/bundle"
	"github.com/xcheng/autobundle/parcel"
)

type point struct {
	X, Y int32
}

func (p *point) WriteToParcel(e *parcel.Encoder) error {
	e.Int32(p.X)
	e.Int32(p.Y)
	return nil
}

func (p *point) ReadFromParcel(d *parcel.Decoder) (err error) {
	if p.X, err = d.Int32(); err != nil {
		return err
	}
	p.Y, err = d.Int32()
	return err
}

type unregistered struct{}

func (*unregistered) WriteToParcel(*parcel.Encoder) error  { return nil }
func (*unregistered) ReadFromParcel(*parcel.Decoder) error { return nil }

func init() {
	bundle.MustRegister(&point{})
	bundle.MustRegister(time.Time{})
}

func TestScalarDefaults(t *testing.T) {
	b := bundle.New()
	if got := b.GetInt("missing", 42); got != 42 {
		t.Errorf("GetInt(missing) = %d, want default 42", got)
	}
	b.PutInt("n", 7)
	if got := b.GetInt("n", 42); got != 7 {
		t.Errorf("GetInt(n) = %d, want 7", got)
	}
	// Wrong type falls back to the default.
	if got := b.GetLong("n", -1); got != -1 {
		t.Errorf("GetLong(n) = %d, want default -1", got)
	}
	b.PutBool("b", true)
	if !b.GetBool("b", false) {
		t.Error("GetBool(b) = false, want true")
	}
}

func TestNullValues(t *testing.T) {
	b := bundle.New()
	b.PutNullString("s")
	b.PutIntArray("ints", nil)
	var p *point
	b.PutParcelable("p", p)

	for _, k := range []string{"s", "ints", "p"} {
		if !b.Contains(k) {
			t.Errorf("Contains(%q) = false, want true", k)
		}
		if v := b.Get(k); v != nil {
			t.Errorf("Get(%q) = %v, want nil", k, v)
		}
	}
	if s, ok := b.GetString("s"); ok {
		t.Errorf("GetString(s) = %q, want absent", s)
	}
	if _, ok := b.GetParcelable("p"); ok {
		t.Error("GetParcelable(p) reported a value for a nil pointer")
	}
}

func TestKeysAndString(t *testing.T) {
	b := bundle.New()
	b.PutString("b", "two")
	b.PutInt("a", 1)
	b.PutNullString("c")

	if diff := cmp.Diff([]string{"a", "b", "c"}, b.Keys()); diff != "" {
		t.Errorf("Keys() wrong (-want +got):\n%s", diff)
	}
	if got, want := b.String(), "Bundle[{a=1, b=two, c=<nil>}]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	o := bundle.New()
	o.PutInt("a", 2)
	o.PutLong("d", 4)
	b.PutAll(o)
	if got := b.GetInt("a", 0); got != 2 {
		t.Errorf("after PutAll, a = %d, want 2", got)
	}
	b.Remove("b")
	if b.Contains("b") || b.Size() != 3 {
		t.Errorf("after Remove, keys = %v", b.Keys())
	}
	b.Clear()
	if !b.IsEmpty() {
		t.Errorf("after Clear, keys = %v", b.Keys())
	}
}

func TestSparseArray(t *testing.T) {
	s := bundle.NewSparseArray[string]()
	s.Put(10, "ten")
	s.Put(-3, "minus three")
	s.Put(4, "four")
	s.Put(4, "FOUR")
	s.Delete(99)
	s.Delete(-3)

	var keys []int32
	var vals []string
	for k, v := range s.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if diff := cmp.Diff([]int32{4, 10}, keys); diff != "" {
		t.Errorf("keys wrong (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"FOUR", "ten"}, vals); diff != "" {
		t.Errorf("values wrong (-want +got):\n%s", diff)
	}
	if v, ok := s.Get(10); !ok || v != "ten" {
		t.Errorf("Get(10) = %q, %v, want ten, true", v, ok)
	}
	if _, ok := s.Get(-3); ok {
		t.Error("Get(-3) found a deleted key")
	}
	if s.KeyAt(0) != 4 || s.ValueAt(1) != "ten" {
		t.Errorf("KeyAt/ValueAt wrong: %d %q", s.KeyAt(0), s.ValueAt(1))
	}

	var u bundle.UntypedSparseArray = s
	if !u.PutAny(1, "one") || !u.PutAny(2, nil) {
		t.Error("PutAny rejected a valid value")
	}
	if u.PutAny(3, 3) {
		t.Error("PutAny accepted an int for a SparseArray[string]")
	}
	if got := u.AnyValueAt(0); got != "one" {
		t.Errorf("AnyValueAt(0) = %v, want one", got)
	}
	if v, ok := s.Get(2); !ok || v != "" {
		t.Errorf("Get(2) = %q, %v, want empty string, true", v, ok)
	}

	var nilArr *bundle.SparseArray[string]
	if nilArr.Len() != 0 {
		t.Error("nil SparseArray has non-zero Len")
	}
}

func TestCollectionElements(t *testing.T) {
	tests := []struct {
		in     reflect.Type
		list   reflect.Type
		sparse reflect.Type
	}{
		{reflect.TypeFor[bundle.List[string]](), reflect.TypeFor[string](), nil},
		{reflect.TypeFor[bundle.List[bundle.Parcelable]](), reflect.TypeFor[bundle.Parcelable](), nil},
		{reflect.TypeFor[[]string](), nil, nil},
		{reflect.TypeFor[*bundle.SparseArray[*point]](), nil, reflect.TypeFor[*point]()},
		{reflect.TypeFor[bundle.SparseArray[*point]](), nil, nil},
		{reflect.TypeFor[int](), nil, nil},
	}
	for _, tc := range tests {
		t.Run(tc.in.String(), func(t *testing.T) {
			if got, ok := bundle.ListElem(tc.in); got != tc.list || ok != (tc.list != nil) {
				t.Errorf("ListElem = %v, %v, want %v", got, ok, tc.list)
			}
			if got, ok := bundle.SparseElem(tc.in); got != tc.sparse || ok != (tc.sparse != nil) {
				t.Errorf("SparseElem = %v, %v, want %v", got, ok, tc.sparse)
			}
		})
	}
}

type binaryText string

func (b binaryText) String() string { return string(b) }
func (b binaryText) Len() int       { return len(b) }

func (b binaryText) MarshalBinary() ([]byte, error) { return []byte(b), nil }

func TestCapabilities(t *testing.T) {
	tests := []struct {
		v                      any
		parcelable, cs, serial bool
	}{
		{&point{}, true, false, false},
		{point{}, false, false, false},
		{bundle.New(), true, false, false},
		{bundle.Text("x"), false, true, true},
		{&strings.Builder{}, false, true, false},
		{binaryText("x"), false, true, true},
		{time.Time{}, false, false, true},
		{42, false, false, true},
		{new(int64), false, false, true},
		{map[string][]int{}, false, false, false},
		{map[string]int{}, false, false, true},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%T", tc.v), func(t *testing.T) {
			typ := reflect.TypeOf(tc.v)
			if got := bundle.IsParcelable(typ); got != tc.parcelable {
				t.Errorf("IsParcelable = %v, want %v", got, tc.parcelable)
			}
			if got := bundle.IsCharSequence(typ); got != tc.cs {
				t.Errorf("IsCharSequence = %v, want %v", got, tc.cs)
			}
			if got := bundle.IsSerializable(typ); got != tc.serial {
				t.Errorf("IsSerializable = %v, want %v", got, tc.serial)
			}
		})
	}
	if got := bundle.Text("héllo").Len(); got != 5 {
		t.Errorf("Text.Len() = %d, want 5", got)
	}
}

type otherPoint struct{ point }

func TestRegister(t *testing.T) {
	// Registering again under the same name is fine.
	if err := bundle.Register(&point{}); err != nil {
		t.Errorf("re-registering point: %v", err)
	}
	if err := bundle.RegisterName("other-name", &point{}); !errors.Is(err, bundle.ErrConflictingRegistration) {
		t.Errorf("registering point under a new name: got %v, want ErrConflictingRegistration", err)
	}
	if err := bundle.RegisterName(fmt.Sprintf("*%s.point", reflect.TypeFor[point]().PkgPath()), &otherPoint{}); !errors.Is(err, bundle.ErrConflictingRegistration) {
		t.Errorf("registering otherPoint under point's name: got %v, want ErrConflictingRegistration", err)
	}
	if err := bundle.Register(point{}); err == nil {
		t.Error("registering a non-pointer Parcelable succeeded")
	}
	if err := bundle.Register(func() {}); err == nil {
		t.Error("registering a func succeeded")
	}
	if err := bundle.Register(nil); err == nil {
		t.Error("registering nil succeeded")
	}
}

var bundleCmp = cmp.Options{
	cmp.AllowUnexported(bundle.Bundle{}, bundle.SparseArray[bundle.Parcelable]{}),
}

func fullBundle() *bundle.Bundle {
	inner := bundle.New()
	inner.PutString("inner", "value")

	sparse := bundle.NewSparseArray[bundle.Parcelable]()
	sparse.Put(3, &point{3, 3})
	sparse.Put(1, &point{1, 1})

	b := bundle.New()
	b.PutBool("bool", true)
	b.PutByte("byte", 0xfe)
	b.PutChar("char", 'Z')
	b.PutShort("short", -12)
	b.PutInt("int", 1<<20)
	b.PutLong("long", -1<<40)
	b.PutFloat("float", 1.5)
	b.PutDouble("double", -2.25)
	b.PutBoolArray("bools", []bool{true, false})
	b.PutByteArray("bytes", []byte{1, 2, 3})
	b.PutCharArray("chars", []uint16{'h', 'i'})
	b.PutShortArray("shorts", []int16{-1, 1})
	b.PutIntArray("ints", []int32{})
	b.PutLongArray("longs", []int64{1 << 50})
	b.PutFloatArray("floats", []float32{0.5})
	b.PutDoubleArray("doubles", []float64{0.25, 4})
	b.PutString("string", "hello")
	b.PutNullString("null")
	b.PutStringArray("strings", []string{"a", "", "c"})
	b.PutStringArrayList("stringList", bundle.List[string]{"x", "y"})
	b.PutCharSequence("cs", bundle.Text("text"))
	b.PutCharSequenceArray("csArray", []bundle.CharSequence{bundle.Text("a"), nil})
	b.PutCharSequenceArrayList("csList", bundle.List[bundle.CharSequence]{bundle.Text("b")})
	b.PutParcelable("point", &point{1, 2})
	b.PutParcelableArray("points", []bundle.Parcelable{&point{3, 4}, nil})
	b.PutParcelableArrayList("pointList", bundle.List[bundle.Parcelable]{&point{5, 6}})
	b.PutSparseParcelableArray("sparse", sparse)
	b.PutIntegerArrayList("intList", bundle.List[int32]{7, 8, 9})
	b.PutSerializable("time", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	b.PutSerializable("serialInt", 99)
	views := int32(5)
	b.PutSerializable("serialPtr", &views)
	b.PutBundle("bundle", inner)
	b.PutStringArrayList("emptyStringList", bundle.List[string]{})
	b.PutCharSequenceArray("emptyCSArray", []bundle.CharSequence{})
	b.PutCharSequenceArrayList("emptyCSList", bundle.List[bundle.CharSequence]{})
	b.PutParcelableArrayList("emptyPointList", bundle.List[bundle.Parcelable]{})
	b.PutSparseParcelableArray("emptySparse", bundle.NewSparseArray[bundle.Parcelable]())
	return b
}

func TestParcelRoundTrip(t *testing.T) {
	for _, order := range []parcel.ByteOrder{parcel.BigEndian, parcel.LittleEndian, parcel.NativeEndian} {
		t.Run(fmt.Sprint(order), func(t *testing.T) {
			want := fullBundle()
			bs, err := bundle.Marshal(want, order)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			got, err := bundle.Unmarshal(bs)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if diff := cmp.Diff(want, got, bundleCmp); diff != "" {
				t.Errorf("round trip changed bundle (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParcelCharSequenceBecomesText(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("built")
	b := bundle.New()
	b.PutCharSequence("cs", &sb)

	bs, err := bundle.Marshal(b, parcel.LittleEndian)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := bundle.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	cs, ok := got.GetCharSequence("cs")
	if !ok {
		t.Fatal("cs missing after round trip")
	}
	if cs != bundle.Text("built") {
		t.Errorf("cs = %#v, want Text(built)", cs)
	}
}

func TestParcelErrors(t *testing.T) {
	b := bundle.New()
	b.PutParcelable("p", &unregistered{})
	if _, err := bundle.Marshal(b, parcel.BigEndian); !errors.Is(err, bundle.ErrNotRegistered) {
		t.Errorf("Marshal with unregistered Parcelable: got %v, want ErrNotRegistered", err)
	}

	b = bundle.New()
	b.PutSerializable("m", map[string]int{"a": 1})
	if _, err := bundle.Marshal(b, parcel.BigEndian); err == nil {
		t.Error("Marshal with unregistered serializable map succeeded")
	}

	if _, err := bundle.Unmarshal([]byte{'l', 1, 2, 3, 4}); err == nil {
		t.Error("Unmarshal of bad magic succeeded")
	}
	if _, err := bundle.Unmarshal(nil); err == nil {
		t.Error("Unmarshal of empty input succeeded")
	}

	b = bundle.New()
	b.PutByteArray("bytes", []byte{0xAA, 0xBB, 0xCC})
	bs, err := bundle.Marshal(b, parcel.BigEndian)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	i := bytes.Index(bs, []byte{0xAA, 0xBB, 0xCC})
	if i < 4 {
		t.Fatalf("byte array payload not found in %x", bs)
	}
	copy(bs[i-4:], []byte{0xC0, 0, 0, 0})
	if _, err := bundle.Unmarshal(bs); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Unmarshal with oversized length prefix: got %v, want ErrUnexpectedEOF", err)
	}

	good, err := bundle.Marshal(fullBundle(), parcel.BigEndian)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if _, err := bundle.Unmarshal(good[:len(good)-3]); err == nil {
		t.Error("Unmarshal of truncated input succeeded")
	}
}
