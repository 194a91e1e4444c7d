package autobundle

import (
	"reflect"
	"time"

	"github.com/xcheng/autobundle/bundle"
	"github.com/xcheng/autobundle/parcel"
)

// point is a Parcelable.
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

// label is both a CharSequence and a Serializable.
type label string

func (l label) String() string { return string(l) }
func (l label) Len() int       { return len(l) }

func (l label) MarshalBinary() ([]byte, error) { return []byte(l), nil }

func (l *label) UnmarshalBinary(bs []byte) error {
	*l = label(bs)
	return nil
}

// titled is both a Parcelable and a CharSequence.
type titled struct {
	Title string
}

func (t *titled) WriteToParcel(e *parcel.Encoder) error {
	e.String(t.Title)
	return nil
}

func (t *titled) ReadFromParcel(d *parcel.Decoder) (err error) {
	t.Title, err = d.String()
	return err
}

func (t *titled) String() string { return t.Title }
func (t *titled) Len() int       { return len(t.Title) }

// age is a named primitive type.
type age int32

// scores is a named primitive slice type.
type scores []int32

func init() {
	bundle.MustRegister(&point{})
	bundle.MustRegister(&titled{})
	bundle.MustRegister(label(""))
	bundle.MustRegister(age(0))
	bundle.MustRegister(time.Time{})
	bundle.MustRegister(map[string]int{})
	bundle.MustRegister([][]int32{})
}

func ptr[T any](v T) *T { return &v }

// val returns a reflect.Value of static type T holding v.
func val[T any](v T) reflect.Value {
	return reflect.ValueOf(&v).Elem()
}
