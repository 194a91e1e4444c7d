package autobundle

import (
	"fmt"
	"math"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/xcheng/autobundle/bundle"
)

// NewBundle builds a bundle through the contract method named method,
// as if the method had been called with args. contract is a contract
// struct or a pointer to one, and need not have been passed to
// [Library.Create].
//
// A nil arg is the nil value of its parameter's type. Args of type T
// are accepted for *T parameters, and numeric args are converted to
// the parameter's numeric type if the conversion is exact. Float args
// may also be rounded to a narrower float parameter, as long as they
// stay finite.
func (l *Library) NewBundle(contract any, method string, args ...any) (*bundle.Bundle, error) {
	t := reflect.TypeOf(contract)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("autobundle: got contract %T, want a struct or pointer to struct", contract)
	}
	f, ok := t.FieldByName(method)
	if !ok || len(f.Index) != 1 || !isContractMethod(f) {
		return nil, fmt.Errorf("autobundle: %s has no contract method %q", t, method)
	}
	d, err := l.methodDescriptor(t, f.Index[0])
	if err != nil {
		return nil, err
	}
	if len(args) != len(d.Sites) {
		return nil, &ArgumentCountError{d.Name(), len(d.Sites), len(args)}
	}

	vals := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := argValue(d.Sites[i], arg)
		if err != nil {
			return nil, siteError(d.Name(), d.Sites[i], err)
		}
		vals[i] = v
	}
	return l.build(d, vals)
}

func argValue(s *Site, arg any) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(s.Type), nil
	}
	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(s.Type):
		return v, nil
	case s.Type.Kind() == reflect.Pointer && v.Type().AssignableTo(s.Type.Elem()):
		ret := reflect.New(s.Type.Elem())
		ret.Elem().Set(v)
		return ret, nil
	case isNumber(v.Kind()) && isNumber(s.Type.Kind()):
		ret := v.Convert(s.Type)
		if ret.Convert(v.Type()).Equal(v) || floatRounded(v, ret) {
			return ret, nil
		}
	}
	return reflect.Value{}, &ValueTypeError{
		Key:  s.Key,
		Kind: s.Kind,
		Want: s.Type,
		Got:  v.Type(),
	}
}

// floatRounded reports whether ret is the float conversion of the
// float v, rounded to ret's precision but not overflowed to infinity.
func floatRounded(v, ret reflect.Value) bool {
	if !v.CanFloat() || !ret.CanFloat() {
		return false
	}
	f := v.Float()
	return math.IsNaN(f) || math.IsInf(f, 0) == math.IsInf(ret.Float(), 0)
}

func isNumber(k reflect.Kind) bool {
	return reflect.Int <= k && k <= reflect.Float64
}

// invoke builds a bundle through the contract method at field index i
// of contract type t.
func (l *Library) invoke(t reflect.Type, i int, args []reflect.Value) (*bundle.Bundle, error) {
	d, err := l.methodDescriptor(t, i)
	if err != nil {
		return nil, err
	}
	return l.build(d, args)
}

// build stores args in a new bundle according to d, notifying
// listeners as it goes.
func (l *Library) build(d *MethodDescriptor, args []reflect.Value) (*bundle.Bundle, error) {
	if len(args) != len(d.Sites) {
		return nil, &ArgumentCountError{d.Name(), len(d.Sites), len(args)}
	}
	ret := bundle.New()
	for i, s := range d.Sites {
		arg := args[i]
		if err := s.handler.Write(ret, s.Key, s.Required, arg); err != nil {
			return nil, siteError(d.Name(), s, err)
		}
		val := arg.Interface()
		for _, ln := range l.listeners {
			ln.OnBundling(d.Flag, s.Key, val, s.Required)
		}
		if l.debug {
			l.log.WithFields(logrus.Fields{
				"method":   d.Name(),
				"site":     s.Name,
				"key":      s.Key,
				"value":    val,
				"required": s.Required,
			}).Debug("bundling")
		}
	}
	for _, ln := range l.listeners {
		ln.OnCompleted(d.Flag, ret)
	}
	return ret, nil
}
