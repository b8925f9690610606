// Package config provides the configuration loader for fmagic.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers fmagic.yaml from cwd upwards and returns the resolved settings.
// Defaults are returned when no file is found.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	settings := domain.DefaultSettings()

	configPath, ok := findConfiguration(cwd)
	if !ok {
		return settings, nil
	}

	var file Configfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if err := l.apply(settings, &file, filepath.Dir(configPath)); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return settings, nil
}

func (l *Loader) apply(s *domain.Settings, file *Configfile, baseDir string) error {
	if file.Python != "" {
		s.Python = resolveProgram(baseDir, file.Python)
		s.Driver = []string{s.Python, "-m", "numpy.f2py"}
	}
	if len(file.Driver) > 0 {
		if file.Python != "" {
			l.Logger.Warn(fmt.Sprintf("'driver' in %s overrides 'python' for builds", domain.ConfigFileName))
		}
		s.Driver = append([]string{resolveProgram(baseDir, file.Driver[0])}, file.Driver[1:]...)
	}
	if file.Backend != "" {
		backend := domain.Backend(file.Backend)
		if !backend.Valid() {
			return zerr.With(zerr.Wrap(domain.ErrInvalidBackend, "backend"), "backend", file.Backend)
		}
		s.Backend = backend
	}
	if file.CacheRoot != "" {
		s.CacheRoot = resolvePath(baseDir, file.CacheRoot)
	}
	if file.StorePath != "" {
		s.StorePath = resolvePath(baseDir, file.StorePath)
	}
	s.Trace = file.Trace
	return nil
}

// findConfiguration walks up from cwd looking for the configuration file.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

// resolvePath makes a configured path absolute relative to the config file.
func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// resolveProgram anchors a relative program path at the config file.
// Bare names are left for PATH lookup.
func resolveProgram(baseDir, program string) string {
	if !strings.ContainsRune(program, filepath.Separator) {
		return program
	}
	return resolvePath(baseDir, program)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by findConfiguration
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error())
	}

	return nil
}
