package autobundle

import (
	"io"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Options configures a Library.
type Options struct {
	// Listeners are notified of every bundle built through the
	// library's contracts, in order.
	Listeners []Listener
	// ValidateEagerly makes Create resolve every method of a contract
	// up front, so that configuration errors are reported by Create
	// rather than by the first call of a broken method.
	ValidateEagerly bool
	// Debug enables debug logging of descriptor resolution, bundling
	// and binding.
	Debug bool
	// Logger receives debug logs. If nil, logs are discarded.
	Logger logrus.FieldLogger
	// FrameworkPackages are import path prefixes of packages whose
	// embedded structs are never resolved as binding parents, in
	// addition to the standard library and this module.
	FrameworkPackages []string
}

// Library builds bundles from contracts, and binds bundles to target
// structs. It caches the resolved binding of every contract method and
// target type it sees.
//
// A Library is safe for concurrent use. Its configuration is fixed at
// construction.
type Library struct {
	listeners []Listener
	eager     bool
	debug     bool
	log       logrus.FieldLogger
	framework []string
	// modules are the module paths of the running binary, whose
	// packages are never mistaken for the standard library.
	modules []string

	methods cache[methodKey, *MethodDescriptor]
	classes cache[reflect.Type, *ClassDescriptor]
}

// New returns a Library configured by opts.
func New(opts Options) *Library {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		if opts.Debug {
			l.SetLevel(logrus.DebugLevel)
		}
		log = l
	}
	return &Library{
		listeners: append([]Listener(nil), opts.Listeners...),
		eager:     opts.ValidateEagerly,
		debug:     opts.Debug,
		log:       log,
		framework: append([]string(nil), opts.FrameworkPackages...),
		modules:   buildModules(),
	}
}
