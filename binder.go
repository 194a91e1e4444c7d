package autobundle

import (
	"errors"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/xcheng/autobundle/bundle"
)

// Bind loads the tagged fields of target from b. target must be a
// pointer to a struct.
//
// Fields are tagged with `bundle:"key[,required][,desc=text]"`. The
// first embedded struct is bound before the struct's own fields, unless
// it is declared by the standard library, this module or one of
// Options.FrameworkPackages. Binding a struct with no tagged fields is
// a no-op.
func (l *Library) Bind(target any, b *bundle.Bundle) error {
	v, err := structPointer(target)
	if err != nil {
		return err
	}
	if b == nil {
		return errors.New("autobundle: cannot bind a nil bundle")
	}
	t := v.Elem().Type()
	d, err := l.classDescriptor(t)
	if err != nil {
		return err
	}
	if d == nil {
		if l.debug {
			l.log.WithField("type", t.String()).Debug("nothing to bind")
		}
		return nil
	}
	return l.bind(d, v.Elem(), b)
}

func (l *Library) bind(d *ClassDescriptor, v reflect.Value, b *bundle.Bundle) error {
	if d.Parent != nil {
		if err := l.bind(d.Parent, v.FieldByIndex(d.parentField), b); err != nil {
			return err
		}
	}
	for _, s := range d.Sites {
		dst := v.FieldByIndex(s.field)
		if err := s.handler.Read(b, s.Key, s.Required, dst); err != nil {
			return siteError(d.Type.String(), s, err)
		}
		val := dst.Interface()
		for _, ln := range l.listeners {
			if ul, ok := ln.(UnbundleListener); ok {
				ul.OnUnbundling(d.Type, s.Key, val, s.Required)
			}
		}
		if l.debug {
			l.log.WithFields(logrus.Fields{
				"type":  d.Type.String(),
				"field": s.Name,
				"key":   s.Key,
				"value": val,
			}).Debug("unbundling")
		}
	}
	return nil
}
