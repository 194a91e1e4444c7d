package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/xcheng/autobundle"
	"github.com/xcheng/autobundle/bundle"
	"github.com/xcheng/autobundle/parcel"
)

var globalArgs struct {
	Debug bool `flag:"debug,Log descriptor resolution and bindings to stderr"`
}

var demoArgs struct {
	Out       string `flag:"out,Write the parceled demo bundle to this file"`
	BigEndian bool   `flag:"big-endian,Parcel in big-endian order instead of little-endian"`
}

func main() {
	root := &command.C{
		Name:     "autobundle",
		Usage:    "command args...",
		Help:     "Inspect and exercise bundle bindings.",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "kinds",
				Usage: "kinds",
				Help:  "List the binding kinds and the bundle accessors they use.",
				Run:   command.Adapt(runKinds),
			},
			{
				Name:  "demo",
				Usage: "demo [--out file] [--big-endian]",
				Help: `Build a bundle through a sample contract.

Each bundling callback is printed as it happens, followed by the
finished bundle and the target struct bound from it. With --out, the
bundle is also written to a file in parcel form, which "dump" can
read back.`,
				SetFlags: command.Flags(flax.MustBind, &demoArgs),
				Run:      command.Adapt(runDemo),
			},
			{
				Name:  "dump",
				Usage: "dump file",
				Help:  "Read a parceled bundle and print its contents.",
				Run:   command.Adapt(runDump),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

func library(listeners ...autobundle.Listener) *autobundle.Library {
	opts := autobundle.Options{
		Listeners: listeners,
		Debug:     globalArgs.Debug,
	}
	if globalArgs.Debug {
		log := logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.DebugLevel)
		opts.Logger = log
	}
	return autobundle.New(opts)
}

func runKinds(env *command.Env) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tPUT\tGET\tPRIMITIVE")
	for _, k := range autobundle.Kinds() {
		acc := k.Accessor()
		fmt.Fprintf(tw, "%s\tPut%s\tGet%s\t%v\n", k, acc, acc, k.IsPrimitive())
	}
	return tw.Flush()
}

func runDemo(env *command.Env) error {
	out := newIndenter(os.Stdout)
	lib := library(autobundle.ListenerFuncs{
		Bundling: func(flag int, key string, value any, required bool) {
			out.indent(1)
			req := ""
			if required {
				req = " (required)"
			}
			out.f("bundling %s%s: %# v", key, req, pretty.Formatter(value))
		},
		Completed: func(flag int, b *bundle.Bundle) {
			out.indent(0)
			out.f("completed flag %d", flag)
			// Listeners may decorate the finished bundle.
			b.PutLong("created", time.Now().Unix())
		},
		Unbundling: func(target reflect.Type, key string, value any, required bool) {
			out.indent(1)
			out.f("unbundling %s.%s", target.Name(), key)
		},
	})

	var nav trips
	if err := lib.Create(&nav); err != nil {
		return err
	}
	out.s("calling trips.Open")
	b, err := nav.Open(
		"Lisbon weekend",
		&place{Name: "Belém", Lat: 38.6916, Lon: -9.2160},
		[]*place{
			{Name: "Alfama", Lat: 38.7118, Lon: -9.1300},
			{Name: "Sintra", Lat: 38.8029, Lon: -9.3817},
		},
		[]int32{4, 5, 3},
		bundle.List[string]{"food", "history"},
		nil,
	)
	if err != nil {
		return err
	}
	out.indent(0)
	out.v(b)

	var t trip
	if err := lib.Bind(&t, b); err != nil {
		return err
	}
	out.indent(0)
	out.f("%# v", pretty.Formatter(t))

	if demoArgs.Out == "" {
		return nil
	}
	order := parcel.ByteOrder(parcel.LittleEndian)
	if demoArgs.BigEndian {
		order = parcel.BigEndian
	}
	bs, err := bundle.Marshal(b, order)
	if err != nil {
		return fmt.Errorf("parceling bundle: %w", err)
	}
	if err := os.WriteFile(demoArgs.Out, bs, 0o644); err != nil {
		return err
	}
	out.f("wrote %d bytes to %s", len(bs), demoArgs.Out)
	return nil
}

func runDump(env *command.Env, file string) error {
	bs, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	b, err := bundle.Unmarshal(bs)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	out := newIndenter(os.Stdout)
	out.f("%s: %d keys", file, b.Size())
	out.indent(1)
	for _, k := range b.Keys() {
		out.f("%s: %# v", k, pretty.Formatter(b.Get(k)))
	}
	return nil
}
