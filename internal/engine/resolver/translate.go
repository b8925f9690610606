package resolver

import (
	"strings"

	"go.trai.ch/fmagic/internal/core/domain"
)

const (
	fixedFormFlag = "-ffixed-form"
	freeFormFlag  = "-ffree-form"

	ambiguityWarning = "ambiguity, both f77flags and f90flags are set, assume the f77 module"
)

// linkConventions maps each backend to its dependency declaration arguments.
var linkConventions = map[domain.Backend]func(name string) []string{
	domain.BackendMeson: func(name string) []string {
		return []string{"--dep", name}
	},
	domain.BackendDistutils: func(name string) []string {
		return []string{"--link-" + name}
	},
}

// Translate converts merged options into driver arguments for the backend.
// It never fails; bad combinations are left for the driver to reject.
func Translate(opts *domain.OptionSet, backend domain.Backend) domain.Translation {
	tr := domain.Translation{Suffix: domain.FreeFormSuffix}

	for _, o := range BuildSchema {
		if o.Kind == KindBool && opts.Bools[o.Name] {
			tr.Args = append(tr.Args, "--"+o.Name)
		}
	}

	for _, o := range BuildSchema {
		if o.Kind != KindString || o.Name == OptF77Flags || o.Name == OptF90Flags {
			continue
		}
		if v, ok := opts.String(o.Name); ok {
			tr.Args = append(tr.Args, "--"+o.Name+"="+v)
		}
	}

	applyFlags(&tr, opts)

	link, ok := linkConventions[backend]
	if !ok {
		link = linkConventions[domain.BackendMeson]
	}
	for _, name := range opts.Links {
		tr.Args = append(tr.Args, link(name)...)
	}

	if len(opts.Extras) > 0 {
		unquoted := make([]string, len(opts.Extras))
		for i, e := range opts.Extras {
			unquoted[i] = Unquote(e)
		}
		tr.Args = append(tr.Args, strings.Fields(strings.Join(unquoted, " "))...)
	}

	return tr
}

// applyFlags consumes the f77flags or f90flags family into a suffix choice
// and an environment flags string.
func applyFlags(tr *domain.Translation, opts *domain.OptionSet) {
	f77, has77 := opts.String(OptF77Flags)
	f90, has90 := opts.String(OptF90Flags)

	var value string
	switch {
	case has77 && has90:
		tr.Warnings = append(tr.Warnings, ambiguityWarning)
		value = f77
	case has77:
		value = f77
	case has90:
		value = f90
	default:
		return
	}

	tr.HasFFlags = true
	var rest []string
	for _, flag := range strings.Fields(Unquote(value)) {
		switch flag {
		case fixedFormFlag:
			tr.Suffix = domain.FixedFormSuffix
		case freeFormFlag:
			tr.Suffix = domain.FreeFormSuffix
		default:
			rest = append(rest, flag)
		}
	}
	tr.FFlags = strings.Join(rest, " ")
}

// Unquote strips one pair of matching surrounding single or double quotes.
func Unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
