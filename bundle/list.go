package bundle

import (
	"iter"
	"reflect"
	"slices"
)

// List is a list of values of type T.
//
// List is an ordinary slice, with the difference that reflection can
// recover its element type through ElementType, which lets binding
// code tell List[string] apart from List[CharSequence].
type List[T any] []T

// ElementType returns the reflect.Type of T.
func (List[T]) ElementType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (List[T]) isList() {}

type list interface {
	ElementType() reflect.Type
	isList()
}

var listType = reflect.TypeFor[list]()

// ListElem reports whether t is an instantiation of [List], and if so
// returns its element type.
func ListElem(t reflect.Type) (elem reflect.Type, ok bool) {
	if t.Kind() != reflect.Slice || !t.Implements(listType) {
		return nil, false
	}
	return t.Elem(), true
}

// SparseArray maps int32 keys to values of type T. Keys are kept in
// ascending order.
//
// The zero value is an empty SparseArray ready to use.
type SparseArray[T any] struct {
	keys   []int32
	values []T
}

// NewSparseArray returns an empty SparseArray.
func NewSparseArray[T any]() *SparseArray[T] {
	return &SparseArray[T]{}
}

// ElementType returns the reflect.Type of T.
func (*SparseArray[T]) ElementType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (*SparseArray[T]) isSparseArray() {}

// UntypedSparseArray is implemented by every *SparseArray[T]. It
// gives access to sparse arrays whose T is only known at run time.
type UntypedSparseArray interface {
	ElementType() reflect.Type
	Len() int
	KeyAt(i int) int32
	AnyValueAt(i int) any
	// PutAny stores val for key, and reports false without storing
	// anything if val isn't a T. A nil val stores T's zero value.
	PutAny(key int32, val any) bool
	isSparseArray()
}

var untypedSparseArrayType = reflect.TypeFor[UntypedSparseArray]()

// SparseElem reports whether t is a pointer to an instantiation of
// [SparseArray], and if so returns its element type.
func SparseElem(t reflect.Type) (elem reflect.Type, ok bool) {
	if t.Kind() != reflect.Pointer || !t.Implements(untypedSparseArrayType) {
		return nil, false
	}
	return reflect.Zero(t).Interface().(UntypedSparseArray).ElementType(), true
}

// Len returns the number of entries in s.
func (s *SparseArray[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Put sets the value for key, replacing any previous value.
func (s *SparseArray[T]) Put(key int32, val T) {
	i, found := slices.BinarySearch(s.keys, key)
	if found {
		s.values[i] = val
		return
	}
	s.keys = slices.Insert(s.keys, i, key)
	s.values = slices.Insert(s.values, i, val)
}

// Get returns the value for key, if present.
func (s *SparseArray[T]) Get(key int32) (val T, ok bool) {
	if s == nil {
		return val, false
	}
	i, found := slices.BinarySearch(s.keys, key)
	if !found {
		return val, false
	}
	return s.values[i], true
}

// Delete removes key from s.
func (s *SparseArray[T]) Delete(key int32) {
	i, found := slices.BinarySearch(s.keys, key)
	if !found {
		return
	}
	s.keys = slices.Delete(s.keys, i, i+1)
	s.values = slices.Delete(s.values, i, i+1)
}

// KeyAt returns the i-th smallest key of s.
func (s *SparseArray[T]) KeyAt(i int) int32 {
	return s.keys[i]
}

// ValueAt returns the value for the i-th smallest key of s.
func (s *SparseArray[T]) ValueAt(i int) T {
	return s.values[i]
}

// AnyValueAt is like ValueAt, but returns the value as an any.
func (s *SparseArray[T]) AnyValueAt(i int) any {
	return s.values[i]
}

// PutAny implements [UntypedSparseArray].
func (s *SparseArray[T]) PutAny(key int32, val any) bool {
	if val == nil {
		var zero T
		s.Put(key, zero)
		return true
	}
	v, ok := val.(T)
	if !ok {
		return false
	}
	s.Put(key, v)
	return true
}

// All iterates over the entries of s in ascending key order.
func (s *SparseArray[T]) All() iter.Seq2[int32, T] {
	return func(yield func(int32, T) bool) {
		for i := range s.Len() {
			if !yield(s.keys[i], s.values[i]) {
				return
			}
		}
	}
}
