package autobundle

import (
	"errors"
	"fmt"
	"reflect"
)

// ConfigError is the error returned when a contract method or a
// target struct declares a binding that can't be resolved.
type ConfigError struct {
	// Owner is the contract method ("Type.Method") or target type that
	// declares the binding.
	Owner string
	// Site names the offending parameter or field, if the error is
	// about a single binding site.
	Site string
	// Index is the parameter or field index of Site, or -1.
	Index int
	// Type is the declared type of Site, if known.
	Type reflect.Type
	// Reason is an explanation of what is wrong with the binding.
	Reason error
}

func (e *ConfigError) Error() string {
	if e.Site == "" {
		return fmt.Sprintf("autobundle: invalid binding in %s: %s", e.Owner, e.Reason)
	}
	if e.Type == nil {
		return fmt.Sprintf("autobundle: invalid binding %s #%d of %s: %s", e.Site, e.Index, e.Owner, e.Reason)
	}
	return fmt.Sprintf("autobundle: invalid binding %s #%d (%s) of %s: %s", e.Site, e.Index, e.Type, e.Owner, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Reason
}

// ClassificationError is the error returned when a declared type has
// no binding kind. When it occurs while resolving a binding, it is
// the Reason of a [ConfigError].
type ClassificationError struct {
	// Type is the type that could not be classified.
	Type reflect.Type
	// Reason explains why.
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot bind %s: %s", e.Type, e.Reason)
}

func classErr(t reflect.Type, reason string, args ...any) error {
	return &ClassificationError{t, fmt.Sprintf(reason, args...)}
}

// ArgumentCountError is the error returned when a contract method is
// invoked with the wrong number of arguments.
type ArgumentCountError struct {
	Method string
	Want   int
	Got    int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("autobundle: argument count (%d) doesn't match expected count (%d) for %s", e.Got, e.Want, e.Method)
}

// RequiredValueAbsentError is the error returned when a required
// binding site resolves to nil, either when building a bundle or when
// binding a bundle to a target.
type RequiredValueAbsentError struct {
	// Owner is the contract method or target type of the site.
	Owner string
	// Site is the parameter ("parameter 0") or field name.
	Site string
	// Index is the parameter or field index of the site.
	Index int
	// Key is the bundle key of the site.
	Key string
}

func (e *RequiredValueAbsentError) Error() string {
	return fmt.Sprintf("autobundle: required value for key %q is absent (%s of %s)", e.Key, e.Site, e.Owner)
}

// ValueTypeError is the error returned when a bundle value, or a
// value passed to [Library.NewBundle], has the wrong type for its
// binding site.
type ValueTypeError struct {
	Key  string
	Kind Kind
	// Want is the type of the binding site.
	Want reflect.Type
	// Got is the type of the value found, nil for an untyped nil.
	Got reflect.Type
}

func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("autobundle: value for key %q is %v, want %s (%s)", e.Key, e.Got, e.Want, e.Kind)
}

// siteError attaches the owner and site of a binding to errors
// returned by handlers.
func siteError(owner string, s *Site, err error) error {
	var absent *RequiredValueAbsentError
	if errors.As(err, &absent) {
		absent.Owner = owner
		absent.Site = s.Name
		absent.Index = s.Index
		return absent
	}
	return fmt.Errorf("%s of %s: %w", s.Name, owner, err)
}
