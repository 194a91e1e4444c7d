package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xcheng/autobundle/bundle"
	"github.com/xcheng/autobundle/parcel"
)

// indenter writes lines to w, each prefixed by two spaces per level
// of depth.
type indenter struct {
	w     io.Writer
	depth int
	mid   bool // in the middle of a line
}

func newIndenter(w io.Writer) *indenter { return &indenter{w: w} }

func (i *indenter) v(v any) { fmt.Fprintln(i, v) }

func (i *indenter) s(msg string) { io.WriteString(i, msg+"\n") }

func (i *indenter) f(msg string, args ...any) { fmt.Fprintf(i, msg+"\n", args...) }

func (i *indenter) indent(depth int) { i.depth = depth }

func (i *indenter) Write(bs []byte) (int, error) {
	total := 0
	for len(bs) > 0 {
		line := bs
		if idx := bytes.IndexByte(bs, '\n'); idx >= 0 {
			line = bs[:idx+1]
		}
		bs = bs[len(line):]
		if !i.mid {
			if _, err := io.WriteString(i.w, strings.Repeat("  ", i.depth)); err != nil {
				return total, err
			}
		}
		n, err := i.w.Write(line)
		total += n
		if err != nil {
			return total, err
		}
		i.mid = line[len(line)-1] != '\n'
	}
	return total, nil
}

// place is the Parcelable used by the demo contract.
type place struct {
	Name     string
	Lat, Lon float64
}

func (p *place) WriteToParcel(e *parcel.Encoder) error {
	e.String(p.Name)
	e.Float64(p.Lat)
	e.Float64(p.Lon)
	return nil
}

func (p *place) ReadFromParcel(d *parcel.Decoder) (err error) {
	if p.Name, err = d.String(); err != nil {
		return err
	}
	if p.Lat, err = d.Float64(); err != nil {
		return err
	}
	p.Lon, err = d.Float64()
	return err
}

func init() {
	bundle.MustRegister(&place{})
}

type trips struct {
	Open func(
		title string,
		start *place,
		stops []*place,
		ratings []int32,
		tags bundle.List[string],
		note bundle.CharSequence,
	) (*bundle.Bundle, error) `bundle:"title,required;start,required;stops;ratings;tags;note" flag:"1"`
}

type screen struct {
	Title string `bundle:"title,required"`
}

type trip struct {
	screen
	Start   *place              `bundle:"start,required"`
	Stops   []*place            `bundle:"stops"`
	Ratings []int32             `bundle:"ratings"`
	Tags    bundle.List[string] `bundle:"tags"`
	Note    bundle.CharSequence `bundle:"note"`
	Created int64               `bundle:"created"`
}
