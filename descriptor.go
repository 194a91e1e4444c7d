package autobundle

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Site is a resolved binding site: one contract method parameter, or
// one target struct field.
type Site struct {
	// Name is "parameter N" for method parameters, or the field name.
	Name string
	// Index is the parameter index, or the field's index within its
	// struct.
	Index int
	Key   string
	// Required is whether the site's value must not be nil.
	Required bool
	// Desc is the free-form description from the desc= tag option.
	Desc string
	Type reflect.Type
	Kind Kind

	handler *Handler
	// field is the index path of a target field, relative to the
	// struct that declares it.
	field []int
}

func (s *Site) String() string {
	req := ""
	if s.Required {
		req = ", required"
	}
	return fmt.Sprintf("%s %q: %s (%s%s)", s.Name, s.Key, s.Type, s.Kind, req)
}

// MethodDescriptor is the resolved binding of a contract method.
type MethodDescriptor struct {
	// Contract is the contract struct type.
	Contract reflect.Type
	// Method is the name of the contract's func field.
	Method string
	// Flag is the method's flag, or FlagUnset.
	Flag int
	// Sites are the method's parameters, in order.
	Sites []*Site

	// returnsErr is whether the func returns (*bundle.Bundle, error)
	// rather than just *bundle.Bundle.
	returnsErr bool
}

// Name returns the method's name, qualified with its contract type.
func (d *MethodDescriptor) Name() string {
	return d.Contract.Name() + "." + d.Method
}

func (d *MethodDescriptor) String() string {
	var ret strings.Builder
	fmt.Fprintf(&ret, "%s (flag %d):", d.Name(), d.Flag)
	for _, s := range d.Sites {
		ret.WriteString("\n  ")
		ret.WriteString(s.String())
	}
	return ret.String()
}

// ClassDescriptor is the resolved binding of a target struct type.
type ClassDescriptor struct {
	Type reflect.Type
	// Parent is the descriptor of the struct's first embedded struct,
	// if that struct has bindings. Parent sites are bound first.
	Parent *ClassDescriptor
	// Sites are the struct's own tagged fields, in declaration order.
	Sites []*Site

	// parentField is the index of the embedded parent field.
	parentField []int
}

func (d *ClassDescriptor) String() string {
	var ret strings.Builder
	ret.WriteString(d.Type.String())
	if d.Parent != nil {
		fmt.Fprintf(&ret, " (parent %s)", d.Parent.Type)
	}
	ret.WriteByte(':')
	for _, s := range d.Sites {
		ret.WriteString("\n  ")
		ret.WriteString(s.String())
	}
	return ret.String()
}

type methodKey struct {
	contract reflect.Type
	field    int
}

// methodDescriptor returns the descriptor for the func field at index
// i of contract struct type t.
func (l *Library) methodDescriptor(t reflect.Type, i int) (*MethodDescriptor, error) {
	return l.methods.Get(methodKey{t, i}, l.newMethodDescriptor)
}

func (l *Library) newMethodDescriptor(k methodKey) (*MethodDescriptor, error) {
	f := k.contract.Field(k.field)
	ret := &MethodDescriptor{
		Contract: k.contract,
		Method:   f.Name,
	}
	cfgErr := func(reason error) error {
		return &ConfigError{Owner: ret.Name(), Index: -1, Reason: reason}
	}

	ft := f.Type
	if ft.Kind() != reflect.Func {
		return nil, cfgErr(fmt.Errorf("%s is not a func", ft))
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0) == bundlePtrType:
	case ft.NumOut() == 2 && ft.Out(0) == bundlePtrType && ft.Out(1) == errorType:
		ret.returnsErr = true
	default:
		return nil, cfgErr(errors.New("contract methods must return *bundle.Bundle or (*bundle.Bundle, error)"))
	}

	flag, err := methodFlag(f)
	if err != nil {
		return nil, cfgErr(err)
	}
	ret.Flag = flag

	keys, err := methodKeys(f, ft.NumIn())
	if err != nil {
		return nil, cfgErr(err)
	}

	var errs *multierror.Error
	for i, raw := range keys {
		s := &Site{
			Name:  fmt.Sprintf("parameter %d", i),
			Index: i,
			Type:  ft.In(i),
		}
		siteErr := func(reason error) {
			errs = multierror.Append(errs, &ConfigError{ret.Name(), s.Name, i, s.Type, reason})
		}
		if raw == "" {
			siteErr(errors.New("no key"))
			continue
		}
		tag, err := parseSiteTag(raw)
		if err != nil {
			siteErr(err)
			continue
		}
		if err := resolveSite(s, tag); err != nil {
			siteErr(err)
			continue
		}
		ret.Sites = append(ret.Sites, s)
	}
	if err := checkDuplicateKeys(ret.Sites); err != nil {
		errs = multierror.Append(errs, cfgErr(err))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if l.debug {
		l.log.WithFields(logrus.Fields{
			"method": ret.Name(),
			"flag":   ret.Flag,
			"sites":  len(ret.Sites),
		}).Debug("resolved method descriptor")
	}
	return ret, nil
}

// classDescriptor returns the descriptor for target struct type t. It
// returns nil if t has no bindings.
func (l *Library) classDescriptor(t reflect.Type) (*ClassDescriptor, error) {
	return l.classes.Get(t, l.newClassDescriptor)
}

func (l *Library) newClassDescriptor(t reflect.Type) (*ClassDescriptor, error) {
	if t.Kind() != reflect.Struct {
		return nil, &ConfigError{Owner: t.String(), Index: -1, Reason: fmt.Errorf("%s is not a struct", t)}
	}
	ret := &ClassDescriptor{Type: t}

	var errs *multierror.Error
	for i := range t.NumField() {
		f := t.Field(i)
		tag, isSite, err := fieldTag(f)
		cfgErr := func(reason error) {
			errs = multierror.Append(errs, &ConfigError{t.String(), f.Name, i, f.Type, reason})
		}

		if !isSite {
			if f.Anonymous && f.Type.Kind() == reflect.Struct && !l.isFramework(f.Type) {
				parent, err := l.classDescriptor(f.Type)
				switch {
				case err != nil:
					errs = multierror.Append(errs, err)
				case parent == nil:
				case ret.Parent != nil:
					cfgErr(fmt.Errorf("second embedded struct with bindings, %s is already the parent", ret.Parent.Type))
				default:
					ret.Parent = parent
					ret.parentField = f.Index
				}
			}
			continue
		}
		if f.Type.Kind() == reflect.Func {
			// Contract methods, resolved separately.
			continue
		}
		if err != nil {
			cfgErr(err)
			continue
		}
		if !f.IsExported() {
			cfgErr(errors.New("tagged field is not exported"))
			continue
		}

		s := &Site{
			Name:  f.Name,
			Index: i,
			Type:  f.Type,
			field: f.Index,
		}
		if err := resolveSite(s, tag); err != nil {
			cfgErr(err)
			continue
		}
		ret.Sites = append(ret.Sites, s)
	}
	if err := checkDuplicateKeys(ret.Sites); err != nil {
		errs = multierror.Append(errs, &ConfigError{Owner: t.String(), Index: -1, Reason: err})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if len(ret.Sites) == 0 && ret.Parent == nil {
		if l.debug {
			l.log.WithField("type", t.String()).Debug("no bindings")
		}
		return nil, nil
	}
	if l.debug {
		fields := logrus.Fields{
			"type":  t.String(),
			"sites": len(ret.Sites),
		}
		if ret.Parent != nil {
			fields["parent"] = ret.Parent.Type.String()
		}
		l.log.WithFields(fields).Debug("resolved class descriptor")
	}
	return ret, nil
}

// resolveSite classifies s and attaches its handler.
func resolveSite(s *Site, tag siteTag) error {
	k, err := Classify(s.Type)
	if err != nil {
		return err
	}
	s.Key = tag.Key
	s.Required = tag.Required
	s.Desc = tag.Desc
	s.Kind = k
	s.handler = handlerFor(k)
	return nil
}

func checkDuplicateKeys(sites []*Site) error {
	seen := map[string]*Site{}
	for _, s := range sites {
		if prev, ok := seen[s.Key]; ok {
			return fmt.Errorf("key %q is used by both %s and %s", s.Key, prev.Name, s.Name)
		}
		seen[s.Key] = s
	}
	return nil
}

// isFramework reports whether t is declared by a package whose types
// are never resolved as binding parents: the standard library, this
// module, and Options.FrameworkPackages.
func (l *Library) isFramework(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return false
	}
	if modulePackages.Has(pkg) {
		return true
	}
	for _, p := range l.framework {
		if underPath(pkg, p) {
			return true
		}
	}
	return isStdlib(pkg, l.modules)
}

// isStdlib reports whether pkg is a standard library package, given
// the module paths of the running binary. Packages of a module, or
// external test packages of one, are never standard library, even if
// the module path has no dot. Outside any known module, standard
// library paths are those whose first element has no dot.
func isStdlib(pkg string, modules []string) bool {
	if pkg == "main" {
		return false
	}
	base := strings.TrimSuffix(pkg, "_test")
	for _, m := range modules {
		if underPath(pkg, m) || underPath(base, m) {
			return false
		}
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}

// underPath reports whether pkg is path or a package below it.
func underPath(pkg, path string) bool {
	return pkg == path || strings.HasPrefix(pkg, path+"/")
}

// buildModules returns the paths of the main module and all
// dependencies of the running binary.
var buildModules = sync.OnceValue(func() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	var ret []string
	add := func(m *debug.Module) {
		if m != nil && m.Path != "" {
			ret = append(ret, m.Path)
		}
	}
	add(&bi.Main)
	for _, dep := range bi.Deps {
		add(dep)
		add(dep.Replace)
	}
	return ret
})
