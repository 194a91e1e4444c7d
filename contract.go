package autobundle

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"
)

// Create implements the methods of a contract. contract must be a
// pointer to a struct. Every exported func field of the struct is a
// contract method, and is set to a func that builds a bundle from its
// arguments.
//
// Contract methods return either *bundle.Bundle, or
// (*bundle.Bundle, error). Parameter keys are given by the field's
// bundle tag, one "key[,required]" segment per parameter separated by
// ';', and the optional flag tag sets the flag passed to listeners:
//
//	type Intents struct {
//		Profile func(name *string, age int32) *bundle.Bundle `bundle:"name,required;age" flag:"1"`
//	}
//
// Methods are resolved on first call, unless the library validates
// eagerly. Methods with a single result panic with the errors that
// the two-result form would return.
func (l *Library) Create(contract any) error {
	v, err := structPointer(contract)
	if err != nil {
		return err
	}
	if l.eager {
		if err := l.Validate(contract); err != nil {
			return err
		}
	}
	t := v.Elem().Type()
	n := 0
	for i := range t.NumField() {
		f := t.Field(i)
		if !isContractMethod(f) {
			continue
		}
		v.Elem().Field(i).Set(reflect.MakeFunc(f.Type, l.contractFunc(t, i, f.Type)))
		n++
	}
	if l.debug {
		l.log.WithField("contract", t.String()).WithField("methods", n).Debug("created contract")
	}
	return nil
}

func (l *Library) contractFunc(t reflect.Type, i int, ft reflect.Type) func([]reflect.Value) []reflect.Value {
	returnsErr := ft.NumOut() == 2 && ft.Out(1) == errorType
	return func(args []reflect.Value) []reflect.Value {
		b, err := l.invoke(t, i, args)
		switch {
		case err == nil && returnsErr:
			return []reflect.Value{reflect.ValueOf(b), reflect.Zero(errorType)}
		case err == nil:
			return []reflect.Value{reflect.ValueOf(b)}
		case returnsErr:
			return []reflect.Value{reflect.Zero(ft.Out(0)), reflect.ValueOf(&err).Elem()}
		}
		panic(err)
	}
}

// Validate resolves every binding declared by v, which is a contract
// or target struct or a pointer to one, and returns all the
// configuration errors found.
func (l *Library) Validate(v any) error {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("autobundle: cannot validate %T, want a struct or pointer to struct", v)
	}

	var errs *multierror.Error
	if _, err := l.classDescriptor(t); err != nil {
		errs = multierror.Append(errs, err)
	}
	for i := range t.NumField() {
		if !isContractMethod(t.Field(i)) {
			continue
		}
		if _, err := l.methodDescriptor(t, i); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func isContractMethod(f reflect.StructField) bool {
	return f.IsExported() && f.Type.Kind() == reflect.Func
}

// structPointer returns the reflect.Value of v, if v is a non-nil
// pointer to a struct.
func structPointer(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("autobundle: got %T, want a non-nil pointer to struct", v)
	}
	return rv, nil
}
