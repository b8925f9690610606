// Package resolver turns option lines into driver arguments.
package resolver

import (
	"io"

	"github.com/spf13/pflag"
)

// Kind is the value shape of an option.
type Kind uint8

const (
	// KindBool is a flag that is either present or absent.
	KindBool Kind = iota
	// KindString is a flag with a single value; the last occurrence wins.
	KindString
	// KindList is a repeatable flag whose values accumulate.
	KindList
	// KindCount is a flag counted by repetition.
	KindCount
)

// Option describes one accepted option.
type Option struct {
	Name      string
	Shorthand string
	Kind      Kind
	Usage     string
}

// Schema is an ordered set of options. Translation follows schema order.
type Schema []Option

// Option names with special handling.
const (
	OptVerbosity  = "verbosity"
	OptF77Flags   = "f77flags"
	OptF90Flags   = "f90flags"
	OptLink       = "link"
	OptExtra      = "extra"
	OptAddHash    = "add-hash"
	OptDefaults   = "defaults"
	OptCleanCache = "clean-cache"
	OptResources  = "resources"
)

// BuildSchema is the option vocabulary of a build request.
var BuildSchema = Schema{
	{Name: OptVerbosity, Shorthand: "v", Kind: KindCount, Usage: "increase output verbosity"},
	{Name: "fcompiler", Kind: KindString, Usage: "specify Fortran compiler type by vendor"},
	{Name: "compiler", Kind: KindString, Usage: "specify C compiler type"},
	{Name: "f90exec", Kind: KindString, Usage: "specify the path to F90 compiler"},
	{Name: "f77exec", Kind: KindString, Usage: "specify the path to F77 compiler"},
	{Name: "opt", Kind: KindString, Usage: "specify optimization flags"},
	{Name: "arch", Kind: KindString, Usage: "specify architecture specific optimization flags"},
	{Name: OptF90Flags, Kind: KindString, Usage: "specify F90 compiler flags"},
	{Name: OptF77Flags, Kind: KindString, Usage: "specify F77 compiler flags"},
	{Name: "noopt", Kind: KindBool, Usage: "compile without optimization"},
	{Name: "noarch", Kind: KindBool, Usage: "compile without arch-dependent optimization"},
	{Name: "debug", Kind: KindBool, Usage: "compile with debugging information"},
	{Name: OptLink, Kind: KindList, Usage: "link extension module with a dependency, e.g. --link lapack"},
	{Name: OptExtra, Kind: KindList, Usage: "pass any other argument to the driver, e.g. --extra '-DNDEBUG'"},
	{Name: OptAddHash, Kind: KindList, Usage: "additional string mixed into the module identity"},
}

// ConfigSchema is the option vocabulary of the config command.
var ConfigSchema = BuildSchema.With(
	Option{Name: OptDefaults, Kind: KindBool, Usage: "delete custom configuration and go back to defaults"},
	Option{Name: OptCleanCache, Kind: KindBool, Usage: "clean the extension build cache"},
)

// HelpSchema is the option vocabulary of the driver help command.
var HelpSchema = Schema{
	{Name: OptResources, Kind: KindBool, Usage: "list system resources found by the driver"},
	{Name: OptLink, Kind: KindString, Usage: "given a resource name, show what the driver found for it"},
}

// With returns a copy of the schema with extra options appended.
func (s Schema) With(opts ...Option) Schema {
	out := make(Schema, 0, len(s)+len(opts))
	out = append(out, s...)
	return append(out, opts...)
}

// Lookup returns the option with the given long name.
func (s Schema) Lookup(name string) (Option, bool) {
	for _, o := range s {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// FlagSet builds a fresh flag set for the schema.
func (s Schema) FlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	for _, o := range s {
		switch o.Kind {
		case KindBool:
			fs.BoolP(o.Name, o.Shorthand, false, o.Usage)
		case KindString:
			fs.StringP(o.Name, o.Shorthand, "", o.Usage)
		case KindList:
			fs.StringArrayP(o.Name, o.Shorthand, nil, o.Usage)
		case KindCount:
			fs.CountP(o.Name, o.Shorthand, o.Usage)
		}
	}
	return fs
}

// Usage renders the option help text.
func (s Schema) Usage() string {
	return s.FlagSet("").FlagUsages()
}
