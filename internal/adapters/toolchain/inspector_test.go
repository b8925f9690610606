package toolchain_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/fmagic/internal/adapters/toolchain"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func settings() *domain.Settings {
	return &domain.Settings{Python: "python3", Backend: domain.BackendMeson}
}

// fakeInterpreter answers each query script like a real interpreter would.
func fakeInterpreter(_ context.Context, inv domain.Invocation) (int, error) {
	script := inv.Command[2]
	var out string
	switch {
	case strings.Contains(script, "sys.version_info"):
		out = `{"version": "3.12.1.final.0", "executable": "/usr/bin/python3.12"}` + "\n"
	case strings.Contains(script, "f2py_version"):
		out = "2.1.0\n"
	case strings.Contains(script, "EXTENSION_SUFFIXES"):
		out = ".cpython-312-x86_64-linux-gnu.so\n"
	}
	_, _ = io.WriteString(inv.Stdout, out)
	return 0, nil
}

func TestInspector_Facts(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := mocks.NewMockToolInvoker(ctrl)
	log := mocks.NewMockLogger(ctrl)

	invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(fakeInterpreter).Times(3)

	p := toolchain.New(settings(), invoker, log)

	want := domain.EnvironmentMarkers{
		InterpreterVersion: "3.12.1.final.0",
		InterpreterPath:    "/usr/bin/python3.12",
		ToolchainVersion:   "2.1.0",
		Backend:            domain.BackendMeson,
	}
	assert.Equal(t, want, p.Markers(t.Context()))
	assert.Equal(t, ".cpython-312-x86_64-linux-gnu.so", p.ExtensionSuffix(t.Context()))
	// Memoised: no further invocations.
	assert.Equal(t, want, p.Markers(t.Context()))
}

func TestInspector_InvocationShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := mocks.NewMockToolInvoker(ctrl)
	log := mocks.NewMockLogger(ctrl)

	invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, inv domain.Invocation) (int, error) {
			assert.Equal(t, "python3", inv.Command[0])
			assert.Equal(t, "-c", inv.Command[1])
			assert.True(t, inv.Policy.AlwaysShow)
			return fakeInterpreter(ctx, inv)
		}).Times(3)

	toolchain.New(settings(), invoker, log).Facts(t.Context())
}

func TestInspector_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := mocks.NewMockToolInvoker(ctrl)
	log := mocks.NewMockLogger(ctrl)

	invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(fakeInterpreter).Times(3)

	p := toolchain.New(settings(), invoker, log)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			assert.Equal(t, "2.1.0", p.Markers(t.Context()).ToolchainVersion)
		})
	}
	wg.Wait()
}

func TestInspector_FallbackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := mocks.NewMockToolInvoker(ctrl)
	log := mocks.NewMockLogger(ctrl)

	invoker.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.Invocation) (int, error) {
			_, _ = io.WriteString(inv.Stderr, "Couldn't find program: 'python3'\n")
			return domain.LaunchFailed, nil
		}).Times(3)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	p := toolchain.New(settings(), invoker, log)

	want := domain.EnvironmentMarkers{InterpreterPath: "python3", Backend: domain.BackendMeson}
	assert.Equal(t, want, p.Markers(t.Context()))
	assert.NotEmpty(t, p.ExtensionSuffix(t.Context()))
}

func TestInspector_FallbackOnStartError(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := mocks.NewMockToolInvoker(ctrl)
	log := mocks.NewMockLogger(ctrl)

	invoker.EXPECT().Run(gomock.Any(), gomock.Any()).Return(domain.LaunchFailed, errors.New("exec format error")).Times(3)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	markers := toolchain.New(settings(), invoker, log).Markers(t.Context())
	assert.Equal(t, "python3", markers.InterpreterPath)
	assert.Empty(t, markers.InterpreterVersion)
}
