// Package script parses session scripts made of magic directives.
//
// A script is a sequence of directive lines starting with '%':
//
//	%fortran_config --opt=-O3
//	%%fortran -v
//	subroutine one(x)
//	...
//	%f2py_help --link lapack
//
// A %%fortran cell body runs until the next directive line or the end of input.
// Outside cells, blank lines and lines starting with '#' are ignored.
package script

import (
	"bufio"
	"io"
	"strings"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

// Kind identifies a directive.
type Kind uint8

const (
	// KindCell builds and imports the cell body.
	KindCell Kind = iota
	// KindConfig shows or changes the saved defaults and the cache.
	KindConfig
	// KindHelp queries the driver for resource help.
	KindHelp
)

// Directive names.
const (
	CellDirective   = "%%fortran"
	ConfigDirective = "%fortran_config"
	HelpDirective   = "%f2py_help"
)

var directives = map[string]Kind{
	CellDirective:   KindCell,
	ConfigDirective: KindConfig,
	HelpDirective:   KindHelp,
}

// String returns the directive spelling of k.
func (k Kind) String() string {
	for name, kind := range directives {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// Directive is one parsed script entry.
type Directive struct {
	Kind Kind
	// Line is the option line following the directive name.
	Line string
	// Body is the cell source. It is empty for non-cell directives.
	Body string
	// Pos is the 1-based line number of the directive.
	Pos int
}

// Parse reads all directives from r.
func Parse(r io.Reader) ([]Directive, error) {
	var (
		out     []Directive
		current *Directive
		body    []string
		lineNo  int
	)

	flush := func() {
		if current == nil {
			return
		}
		if current.Kind == KindCell {
			current.Body = strings.Join(trimTrailingBlank(body), "\n")
		}
		out = append(out, *current)
		current, body = nil, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(text, "%") {
			name, rest, _ := strings.Cut(text, " ")
			kind, ok := directives[name]
			if !ok {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrScriptParseFailed, "unknown directive"),
					"directive", name), "line", lineNo)
			}
			flush()
			current = &Directive{Kind: kind, Line: strings.TrimSpace(rest), Pos: lineNo}
			continue
		}

		if current != nil && current.Kind == KindCell {
			body = append(body, text)
			continue
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrScriptParseFailed, "text outside of a %%fortran cell"), "line", lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(domain.ErrScriptParseFailed, err.Error())
	}
	flush()

	return out, nil
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
