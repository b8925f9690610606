// Package toolchain queries the host interpreter for the facts that identify a build toolchain.
package toolchain

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	interpreterScript = "import json, sys; " +
		`print(json.dumps({"version": ".".join(str(p) for p in sys.version_info), "executable": sys.executable}))`
	toolchainScript = "from numpy.f2py import f2py2e; print(f2py2e.f2py_version)"
	suffixScript    = "import importlib.machinery as m; print(m.EXTENSION_SUFFIXES[0])"
)

// Facts is everything the inspector learns about the host.
type Facts struct {
	Markers         domain.EnvironmentMarkers
	ExtensionSuffix string
}

// Inspector implements ports.Toolchain by running the interpreter through a ToolInvoker.
// Results are computed once per Inspector.
type Inspector struct {
	python  string
	backend domain.Backend
	invoker ports.ToolInvoker
	logger  ports.Logger

	requestGroup singleflight.Group
	mu           sync.Mutex
	facts        *Facts
}

// New creates an Inspector for the given settings.
func New(settings *domain.Settings, invoker ports.ToolInvoker, logger ports.Logger) *Inspector {
	return &Inspector{
		python:  settings.Python,
		backend: settings.Backend,
		invoker: invoker,
		logger:  logger,
	}
}

// Markers returns the toolchain facts that take part in unit identity.
func (p *Inspector) Markers(ctx context.Context) domain.EnvironmentMarkers {
	return p.Facts(ctx).Markers
}

// ExtensionSuffix returns the file suffix of native extension modules.
func (p *Inspector) ExtensionSuffix(ctx context.Context) string {
	return p.Facts(ctx).ExtensionSuffix
}

// Facts returns the memoised results, querying on first use.
func (p *Inspector) Facts(ctx context.Context) Facts {
	p.mu.Lock()
	if p.facts != nil {
		defer p.mu.Unlock()
		return *p.facts
	}
	p.mu.Unlock()

	v, _, _ := p.requestGroup.Do("facts", func() (any, error) {
		p.mu.Lock()
		done := p.facts
		p.mu.Unlock()
		if done != nil {
			return *done, nil
		}

		facts := p.query(ctx)

		p.mu.Lock()
		p.facts = &facts
		p.mu.Unlock()

		return facts, nil
	})
	return v.(Facts)
}

func (p *Inspector) query(ctx context.Context) Facts {
	facts := Facts{
		Markers: domain.EnvironmentMarkers{
			InterpreterPath: p.python,
			Backend:         p.backend,
		},
		ExtensionSuffix: defaultSuffix(),
	}

	var g errgroup.Group

	g.Go(func() error {
		out, err := p.run(ctx, interpreterScript)
		if err != nil {
			return err
		}
		var info struct {
			Version    string `json:"version"`
			Executable string `json:"executable"`
		}
		if err := json.Unmarshal([]byte(out), &info); err != nil {
			return zerr.Wrap(domain.ErrToolchainQuery, err.Error())
		}
		facts.Markers.InterpreterVersion = info.Version
		if info.Executable != "" {
			facts.Markers.InterpreterPath = info.Executable
		}
		return nil
	})

	g.Go(func() error {
		out, err := p.run(ctx, toolchainScript)
		if err != nil {
			return err
		}
		facts.Markers.ToolchainVersion = out
		return nil
	})

	g.Go(func() error {
		out, err := p.run(ctx, suffixScript)
		if err != nil {
			return err
		}
		if out != "" {
			facts.ExtensionSuffix = out
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		p.logger.Warn(err.Error())
	}
	return facts
}

// run executes script with the interpreter and returns its trimmed stdout.
func (p *Inspector) run(ctx context.Context, script string) (string, error) {
	var stdout bytes.Buffer
	exit, err := p.invoker.Run(ctx, domain.Invocation{
		Command: []string{p.python, "-c", script},
		Policy:  domain.DisplayPolicy{AlwaysShow: true},
		Stdout:  &stdout,
		Stderr:  io.Discard,
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrToolchainQuery, err.Error()), "python", p.python)
	}
	if exit != 0 {
		err := zerr.With(zerr.Wrap(domain.ErrToolchainQuery, "interpreter exited with nonzero status"), "python", p.python)
		return "", zerr.With(err, "exit", exit)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func defaultSuffix() string {
	if runtime.GOOS == "windows" {
		return ".pyd"
	}
	return ".so"
}
