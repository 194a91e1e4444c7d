package autobundle

import (
	"reflect"

	"github.com/xcheng/autobundle/bundle"
)

// Listener observes the bundles built by contract methods. Listeners
// are called synchronously, on the goroutine that called the contract
// method.
type Listener interface {
	// OnBundling is called after each parameter has been stored in
	// the bundle under construction. flag is the contract method's
	// flag, or FlagUnset.
	OnBundling(flag int, key string, value any, required bool)
	// OnCompleted is called once all parameters have been stored. It
	// may modify b before b is returned to the caller.
	OnCompleted(flag int, b *bundle.Bundle)
}

// UnbundleListener is an optional interface for listeners that also
// observe [Library.Bind]. OnUnbundling is called after each field of
// target has been loaded from a bundle, base structs first.
type UnbundleListener interface {
	OnUnbundling(target reflect.Type, key string, value any, required bool)
}

// ListenerFuncs is a Listener and UnbundleListener built from
// functions. Nil functions are skipped.
type ListenerFuncs struct {
	Bundling   func(flag int, key string, value any, required bool)
	Completed  func(flag int, b *bundle.Bundle)
	Unbundling func(target reflect.Type, key string, value any, required bool)
}

func (f ListenerFuncs) OnBundling(flag int, key string, value any, required bool) {
	if f.Bundling != nil {
		f.Bundling(flag, key, value, required)
	}
}

func (f ListenerFuncs) OnCompleted(flag int, b *bundle.Bundle) {
	if f.Completed != nil {
		f.Completed(flag, b)
	}
}

func (f ListenerFuncs) OnUnbundling(target reflect.Type, key string, value any, required bool) {
	if f.Unbundling != nil {
		f.Unbundling(target, key, value, required)
	}
}
