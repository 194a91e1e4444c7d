package bundle

import (
	"encoding/gob"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrConflictingRegistration is returned when a type is
	// registered under two names, or a name is used for two types.
	ErrConflictingRegistration = errors.New("conflicting type registration")
	// ErrNotRegistered is returned when flattening or rebuilding a
	// value whose type was never registered.
	ErrNotRegistered = errors.New("type not registered")
)

// registry maps type names to types, for values that must be rebuilt
// from a parcel.
type registry struct {
	// mu serializes registrations, lookups go through the sync.Maps
	// without locking.
	mu     sync.Mutex
	byName sync.Map // map[string]reflect.Type
	byType sync.Map // map[reflect.Type]string
}

var types registry

func init() {
	MustRegister(New())
	MustRegister(Text(""))
}

// Register records the type of v so that values of that type can be
// rebuilt when a bundle is read from a parcel. It is idempotent.
//
// Parcelable values are rebuilt by allocating a new value and calling
// its ReadFromParcel method, so v must be a pointer. Other values are
// serializable values, or slices of them, and are additionally
// registered with encoding/gob.
func Register(v any) error {
	if v == nil {
		return errors.New("cannot register nil")
	}
	t := reflect.TypeOf(v)
	return RegisterName(typeName(t), v)
}

// RegisterName is like [Register], but uses the provided name rather
// than the type's default name.
func RegisterName(name string, v any) error {
	if v == nil {
		return errors.New("cannot register nil")
	}
	if name == "" {
		return errors.New("cannot register a type with an empty name")
	}
	t := reflect.TypeOf(v)
	isParcelable := IsParcelable(t)
	if isParcelable && t.Kind() != reflect.Pointer {
		return fmt.Errorf("Parcelable %s must be registered as a pointer", t)
	}
	if !isParcelable && !isSerializableSlice(t) {
		return fmt.Errorf("cannot register %s: type is neither Parcelable nor serializable", t)
	}

	types.mu.Lock()
	defer types.mu.Unlock()

	if old, ok := types.byType.Load(t); ok {
		if old.(string) == name {
			return nil
		}
		return fmt.Errorf("%w: %s already registered as %q", ErrConflictingRegistration, t, old)
	}
	if old, ok := types.byName.Load(name); ok {
		return fmt.Errorf("%w: name %q already used by %s", ErrConflictingRegistration, name, old)
	}

	if !isParcelable {
		gob.RegisterName(name, v)
	}
	types.byName.Store(name, t)
	types.byType.Store(t, name)
	return nil
}

// isSerializableSlice reports whether t is serializable, or a slice
// (of slices) of serializable values.
func isSerializableSlice(t reflect.Type) bool {
	for t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return IsSerializable(t)
}

// MustRegister is like [Register], but panics on error.
func MustRegister(v any) {
	if err := Register(v); err != nil {
		panic(err)
	}
}

func registeredName(t reflect.Type) (string, error) {
	if name, ok := types.byType.Load(t); ok {
		return name.(string), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotRegistered, t)
}

func registeredType(name string) (reflect.Type, error) {
	if t, ok := types.byName.Load(name); ok {
		return t.(reflect.Type), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
}

// typeName returns the default registration name of t, which is its
// package-qualified name.
func typeName(t reflect.Type) string {
	star := ""
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		star = "*"
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return star + t.String()
	}
	return star + t.PkgPath() + "." + t.Name()
}
