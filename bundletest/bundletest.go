// Package bundletest provides helpers for testing code that uses
// autobundle.
package bundletest

import (
	"bytes"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/xcheng/autobundle"
	"github.com/xcheng/autobundle/bundle"
	"github.com/xcheng/autobundle/parcel"
)

// New returns a Library for the calling test. The library logs debug
// output with t.Log, in addition to any configuration in opts.
func New(t testing.TB, opts autobundle.Options) *autobundle.Library {
	t.Helper()
	w := &logWriter{t: t}
	t.Cleanup(w.Flush)

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	opts.Logger = log
	opts.Debug = true
	return autobundle.New(opts)
}

// RoundTrip flattens b into a parcel and reads it back, failing the
// test on error.
func RoundTrip(t testing.TB, b *bundle.Bundle) *bundle.Bundle {
	t.Helper()
	bs, err := bundle.Marshal(b, parcel.NativeEndian)
	if err != nil {
		t.Fatalf("marshaling bundle: %v", err)
	}
	ret, err := bundle.Unmarshal(bs)
	if err != nil {
		t.Fatalf("unmarshaling bundle: %v", err)
	}
	return ret
}

// EventType is the type of a recorded listener callback.
type EventType int

const (
	Bundling EventType = iota
	Completed
	Unbundling
)

func (e EventType) String() string {
	switch e {
	case Bundling:
		return "bundling"
	case Completed:
		return "completed"
	case Unbundling:
		return "unbundling"
	default:
		return "unknown"
	}
}

// Event is one recorded listener callback. Fields that the callback
// doesn't provide are left zero.
type Event struct {
	Type     EventType
	Flag     int
	Target   reflect.Type
	Key      string
	Value    any
	Required bool
	Bundle   *bundle.Bundle
}

// Recorder is an autobundle.Listener and autobundle.UnbundleListener
// that records all callbacks. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) OnBundling(flag int, key string, value any, required bool) {
	r.record(Event{Type: Bundling, Flag: flag, Key: key, Value: value, Required: required})
}

func (r *Recorder) OnCompleted(flag int, b *bundle.Bundle) {
	r.record(Event{Type: Completed, Flag: flag, Bundle: b})
}

func (r *Recorder) OnUnbundling(target reflect.Type, key string, value any, required bool) {
	r.record(Event{Type: Unbundling, Target: target, Key: key, Value: value, Required: required})
}

// Events returns the events recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Keys returns the keys of the recorded events of type typ, in
// order.
func (r *Recorder) Keys(typ EventType) []string {
	var ret []string
	for _, ev := range r.Events() {
		if ev.Type == typ {
			ret = append(ret, ev.Key)
		}
	}
	return ret
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// logWriter writes complete lines to a test log.
type logWriter struct {
	mu  sync.Mutex
	t   testing.TB
	buf bytes.Buffer
}

func (l *logWriter) Write(bs []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(bs)
	for {
		i := bytes.IndexByte(l.buf.Bytes(), '\n')
		if i == -1 {
			break
		}
		line := l.buf.Next(i + 1)
		l.t.Log(string(line[:i]))
	}
	return len(bs), nil
}

// Flush logs any incomplete final line.
func (l *logWriter) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() > 0 {
		l.t.Log(l.buf.String())
		l.buf.Reset()
	}
}
