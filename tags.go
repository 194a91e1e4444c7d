package autobundle

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// FlagUnset is the flag of contract methods without a flag tag.
const FlagUnset = math.MinInt32

// siteTag is the binding metadata of one site.
type siteTag struct {
	Key      string
	Required bool
	Desc     string
}

// parseSiteTag parses one site's metadata, in the form
// "key[,required][,desc=text]". The key can also be given as
// "key=name" for keys containing characters that would otherwise be
// ambiguous, but not both ways at once.
func parseSiteTag(tag string) (siteTag, error) {
	var ret siteTag
	items := strings.Split(tag, ",")
	positional := ""
	if !strings.Contains(items[0], "=") {
		positional = items[0]
		items = items[1:]
	}
	ret.Key = positional

	for _, item := range items {
		name, val, hasVal := strings.Cut(item, "=")
		switch {
		case name == "required" && !hasVal:
			ret.Required = true
		case name == "key" && hasVal:
			if ret.Key != "" {
				return siteTag{}, fmt.Errorf("conflicting keys %q and %q", ret.Key, val)
			}
			ret.Key = val
		case name == "desc" && hasVal:
			ret.Desc = val
		default:
			return siteTag{}, fmt.Errorf("unknown tag option %q", item)
		}
	}

	if ret.Key == "" {
		return siteTag{}, errors.New("no key")
	}
	return ret, nil
}

// fieldTag returns the binding metadata of a struct field, and
// whether the field is a binding site at all.
func fieldTag(f reflect.StructField) (tag siteTag, ok bool, err error) {
	raw, ok := f.Tag.Lookup("bundle")
	if !ok || raw == "-" {
		return siteTag{}, false, nil
	}
	tag, err = parseSiteTag(raw)
	if err != nil {
		return siteTag{}, true, err
	}
	return tag, true, nil
}

// methodKeys splits the binding metadata of a contract func field
// with n parameters into one segment per parameter. Segments are
// separated by ';'. Missing trailing segments are returned as empty
// strings.
func methodKeys(f reflect.StructField, n int) ([]string, error) {
	raw := f.Tag.Get("bundle")
	var segs []string
	if raw != "" {
		segs = strings.Split(raw, ";")
	}
	if len(segs) > n {
		return nil, fmt.Errorf("tag has %d keys for %d parameters", len(segs), n)
	}
	ret := make([]string, n)
	copy(ret, segs)
	return ret, nil
}

// methodFlag returns the flag of a contract func field.
func methodFlag(f reflect.StructField) (int, error) {
	raw, ok := f.Tag.Lookup("flag")
	if !ok {
		return FlagUnset, nil
	}
	flag, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid flag %q: %w", raw, err)
	}
	return int(flag), nil
}
