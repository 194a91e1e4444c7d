package autobundle

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/xcheng/autobundle/bundle"
)

type profile struct {
	Name    *string             `bundle:"name,required,desc=display name"`
	Age     int32               `bundle:"age"`
	Tags    bundle.List[string] `bundle:"key=tags"`
	Friends []*point            `bundle:"friends"`
	Skip    int32               `bundle:"-"`
	Plain   int32
	Open    func(int32) *bundle.Bundle `bundle:"id"`
}

type intents struct {
	Show   func(name *string, age int32) *bundle.Bundle            `bundle:"name,required;age" flag:"7"`
	Search func(terms bundle.List[string]) (*bundle.Bundle, error) `bundle:"terms"`
	Empty  func() *bundle.Bundle
}

func TestClassDescriptor(t *testing.T) {
	l := New(Options{})
	d, err := l.classDescriptor(reflect.TypeFor[profile]())
	if err != nil {
		t.Fatalf("classDescriptor failed: %v", err)
	}

	want := []*Site{
		{Name: "Name", Index: 0, Key: "name", Required: true, Desc: "display name", Type: reflect.TypeFor[*string](), Kind: String, field: []int{0}},
		{Name: "Age", Index: 1, Key: "age", Type: reflect.TypeFor[int32](), Kind: Int, field: []int{1}},
		{Name: "Tags", Index: 2, Key: "tags", Type: reflect.TypeFor[bundle.List[string]](), Kind: StringList, field: []int{2}},
		{Name: "Friends", Index: 3, Key: "friends", Type: reflect.TypeFor[[]*point](), Kind: ParcelableArray, field: []int{3}},
	}
	opts := cmp.Options{
		cmp.AllowUnexported(Site{}),
		cmpopts.IgnoreFields(Site{}, "handler"),
		cmp.Comparer(func(a, b reflect.Type) bool { return a == b }),
	}
	if diff := cmp.Diff(want, d.Sites, opts); diff != "" {
		t.Errorf("sites wrong (-want +got):\n%s", diff)
	}
	for _, s := range d.Sites {
		if s.handler != handlerFor(s.Kind) {
			t.Errorf("site %s has handler for %s, want the shared %s handler", s.Name, s.handler.Kind, s.Kind)
		}
	}
	if d.Parent != nil {
		t.Errorf("profile has parent %s, want none", d.Parent.Type)
	}

	again, err := l.classDescriptor(reflect.TypeFor[profile]())
	if err != nil {
		t.Fatalf("second classDescriptor failed: %v", err)
	}
	if again != d {
		t.Error("second resolution returned a different descriptor")
	}

	none, err := l.classDescriptor(reflect.TypeFor[point]())
	if err != nil || none != nil {
		t.Errorf("classDescriptor(point) = %v, %v, want nil, nil", none, err)
	}
}

func TestMethodDescriptor(t *testing.T) {
	l := New(Options{})
	typ := reflect.TypeFor[intents]()

	tests := []struct {
		field      int
		name       string
		flag       int
		keys       []string
		kinds      []Kind
		required   []bool
		returnsErr bool
	}{
		{0, "intents.Show", 7, []string{"name", "age"}, []Kind{String, Int}, []bool{true, false}, false},
		{1, "intents.Search", FlagUnset, []string{"terms"}, []Kind{StringList}, []bool{false}, true},
		{2, "intents.Empty", FlagUnset, nil, nil, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := l.methodDescriptor(typ, tc.field)
			if err != nil {
				t.Fatalf("methodDescriptor failed: %v", err)
			}
			if d.Name() != tc.name || d.Flag != tc.flag || d.returnsErr != tc.returnsErr {
				t.Errorf("got %s flag %d returnsErr %v, want %s flag %d returnsErr %v", d.Name(), d.Flag, d.returnsErr, tc.name, tc.flag, tc.returnsErr)
			}
			var (
				keys     []string
				kinds    []Kind
				required []bool
			)
			for i, s := range d.Sites {
				if s.Index != i {
					t.Errorf("site %d has index %d", i, s.Index)
				}
				keys = append(keys, s.Key)
				kinds = append(kinds, s.Kind)
				required = append(required, s.Required)
			}
			if diff := cmp.Diff(tc.keys, keys); diff != "" {
				t.Errorf("keys wrong (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.kinds, kinds); diff != "" {
				t.Errorf("kinds wrong (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.required, required); diff != "" {
				t.Errorf("required wrong (-want +got):\n%s", diff)
			}

			again, _ := l.methodDescriptor(typ, tc.field)
			if again != d {
				t.Error("second resolution returned a different descriptor")
			}
		})
	}
}

func TestConcurrentResolution(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	l := New(Options{Logger: log, Debug: true})

	const n = 32
	var (
		wg      sync.WaitGroup
		classes = make([]*ClassDescriptor, n)
		methods = make([]*MethodDescriptor, n)
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if classes[i], err = l.classDescriptor(reflect.TypeFor[profile]()); err != nil {
				t.Errorf("classDescriptor failed: %v", err)
			}
			if methods[i], err = l.methodDescriptor(reflect.TypeFor[intents](), 0); err != nil {
				t.Errorf("methodDescriptor failed: %v", err)
			}
		}()
	}
	wg.Wait()

	for i := range n {
		if classes[i] != classes[0] || methods[i] != methods[0] {
			t.Fatalf("goroutine %d got a different descriptor", i)
		}
	}

	counts := map[string]int{}
	for _, e := range hook.AllEntries() {
		counts[e.Message]++
	}
	want := map[string]int{
		"resolved class descriptor":  1,
		"resolved method descriptor": 1,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("debug log counts wrong (-want +got):\n%s", diff)
	}
}

func TestDebugLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	quiet := New(Options{Logger: log})
	if _, err := quiet.classDescriptor(reflect.TypeFor[profile]()); err != nil {
		t.Fatal(err)
	}
	if n := len(hook.AllEntries()); n != 0 {
		t.Errorf("library without Debug logged %d entries", n)
	}

	loud := New(Options{Logger: log, Debug: true})
	b, err := loud.NewBundle(&intents{}, "Show", "Ada", 30)
	if err != nil {
		t.Fatalf("NewBundle failed: %v", err)
	}
	var p profile
	if err := loud.Bind(&p, b); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	var bundling, unbundling []string
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "bundling":
			bundling = append(bundling, e.Data["key"].(string))
		case "unbundling":
			unbundling = append(unbundling, e.Data["key"].(string))
		}
	}
	if diff := cmp.Diff([]string{"name", "age"}, bundling); diff != "" {
		t.Errorf("bundling logs wrong (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "age", "tags", "friends"}, unbundling); diff != "" {
		t.Errorf("unbundling logs wrong (-want +got):\n%s", diff)
	}
}

func TestIsFramework(t *testing.T) {
	l := New(Options{FrameworkPackages: []string{"example.com/ui"}})
	tests := []struct {
		pkg  string
		typ  reflect.Type
		want bool
	}{
		{"stdlib", reflect.TypeFor[sync.Mutex](), true},
		{"bundle", reflect.TypeFor[bundle.Bundle](), true},
		{"this package", reflect.TypeFor[profile](), true},
		{"third party", reflect.TypeFor[logrus.Entry](), false},
		{"unnamed", reflect.TypeFor[struct{ A int }](), false},
	}
	for _, tc := range tests {
		if got := l.isFramework(tc.typ); got != tc.want {
			t.Errorf("isFramework(%s) = %v, want %v", tc.pkg, got, tc.want)
		}
	}
}

func TestIsStdlib(t *testing.T) {
	modules := []string{"myapp", "example.com/tool"}
	tests := []struct {
		pkg  string
		want bool
	}{
		{"sync", true},
		{"net/http", true},
		{"main", false},
		{"myapp", false},
		{"myapp/screens", false},
		{"myapp_test", false},
		{"myappx", true},
		{"example.com/tool/ui", false},
		{"example.org/other", false},
	}
	for _, tc := range tests {
		if got := isStdlib(tc.pkg, modules); got != tc.want {
			t.Errorf("isStdlib(%q) = %v, want %v", tc.pkg, got, tc.want)
		}
	}
}
