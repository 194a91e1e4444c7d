package bundle

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
)

// basicKinds is the set of reflect.Kinds that are serializable
// without implementing Serializable.
var basicKinds = mapset.New(
	reflect.Bool,
	reflect.Int,
	reflect.Int8,
	reflect.Int16,
	reflect.Int32,
	reflect.Int64,
	reflect.Uint,
	reflect.Uint8,
	reflect.Uint16,
	reflect.Uint32,
	reflect.Uint64,
	reflect.Float32,
	reflect.Float64,
	reflect.String,
)
