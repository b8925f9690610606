// Package loader binds built extension modules by importing them in the host interpreter.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/zerr"
)

// importScript loads the extension at argv[2] as module argv[3] with argv[1]
// on sys.path and prints its public members as JSON.
const importScript = `import importlib.util, json, sys
d, path, name = sys.argv[1:4]
sys.path.insert(0, d)
spec = importlib.util.spec_from_file_location(name, path)
mod = importlib.util.module_from_spec(spec)
spec.loader.exec_module(mod)
out = {}
for key in dir(mod):
    if key.startswith("__"):
        continue
    v = getattr(mod, key)
    out[key] = {"kind": type(v).__name__, "doc": getattr(v, "__doc__", None) or "", "callable": callable(v)}
print(json.dumps(out))
`

// Loader implements ports.NativeLoader.
type Loader struct {
	python  string
	invoker ports.ToolInvoker
}

// New creates a Loader that imports modules with the given interpreter.
func New(python string, invoker ports.ToolInvoker) *Loader {
	return &Loader{python: python, invoker: invoker}
}

// Load imports the binary at path as module name.
func (l *Loader) Load(ctx context.Context, dir, path, name string) (*domain.ModuleHandle, error) {
	var stdout, stderr bytes.Buffer
	exit, err := l.invoker.Run(ctx, domain.Invocation{
		Command: []string{l.python, "-c", importScript, dir, path, name},
		Dir:     dir,
		Policy:  domain.DisplayPolicy{AlwaysShow: true},
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrLoadFailed, err.Error()), "path", path)
	}
	if exit != 0 {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "interpreter exited with nonzero status"
		}
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrLoadFailed, msg), "path", path), "exit", exit)
	}

	var exports map[string]domain.Export
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &exports); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrLoadFailed, err.Error()), "path", path)
	}
	for key, export := range exports {
		export.Name = key
		export.Module = name
		exports[key] = export
	}

	return &domain.ModuleHandle{Name: name, Path: path, Exports: exports}, nil
}

// Exports returns the members of a loaded module.
func (l *Loader) Exports(m *domain.ModuleHandle) map[string]domain.Export {
	if m == nil {
		return nil
	}
	return m.Exports
}
