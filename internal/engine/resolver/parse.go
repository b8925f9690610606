package resolver

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parse tokenises an option line with shell quoting rules and parses it
// against the schema.
func (s Schema) Parse(line string) (*domain.OptionSet, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOptions, err.Error()), "line", line)
	}
	return s.ParseArgs(tokens)
}

// ParseArgs parses already tokenised arguments against the schema.
func (s Schema) ParseArgs(args []string) (*domain.OptionSet, error) {
	fs := s.FlagSet("options")
	if err := fs.Parse(args); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOptions, err.Error()), "args", strings.Join(args, " "))
	}
	if fs.NArg() > 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidOptions, "unexpected arguments"), "args", strings.Join(fs.Args(), " "))
	}

	opts := domain.NewOptionSet()
	var visitErr error
	fs.Visit(func(f *pflag.Flag) {
		o, ok := s.Lookup(f.Name)
		if !ok {
			return
		}
		switch o.Kind {
		case KindBool:
			v, err := fs.GetBool(f.Name)
			if err != nil {
				visitErr = err
				return
			}
			if v {
				opts.Bools[f.Name] = true
			}
		case KindString:
			opts.Strings[f.Name] = f.Value.String()
		case KindCount:
			v, err := fs.GetCount(f.Name)
			if err != nil {
				visitErr = err
				return
			}
			opts.Verbosity = v
		case KindList:
			v, err := fs.GetStringArray(f.Name)
			if err != nil {
				visitErr = err
				return
			}
			switch f.Name {
			case OptLink:
				opts.Links = dedupe(v)
			case OptExtra:
				opts.Extras = v
			case OptAddHash:
				opts.AddHash = v
			}
		}
	})
	if visitErr != nil {
		return nil, zerr.Wrap(domain.ErrInvalidOptions, visitErr.Error())
	}
	return opts, nil
}

// Merge combines the persisted default line with the invocation line.
//
// The persisted line is parsed in front of the invocation line so later
// values win. Verbosity counts accumulate across both lines unless the
// invocation gives its own, in which case the invocation count stands alone.
func (s Schema) Merge(persisted, invocation string) (*domain.OptionSet, error) {
	opts, err := s.Parse(invocation)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(persisted) == "" {
		return opts, nil
	}

	explicit := opts.Verbosity
	merged, err := s.Parse(persisted + " " + invocation)
	if err != nil {
		return nil, err
	}
	if explicit > 0 {
		merged.Verbosity = explicit
	}
	return merged, nil
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
