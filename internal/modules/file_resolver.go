package modules

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileResolver finds `<name>.eva` under the root path, then under each search path
// (relative to root unless absolute), then under `$EVA_HOME/lib`.
type FileResolver struct {
	RootPath    string
	SearchPaths []string
	EvaHome     string
}

func (r *FileResolver) Load(name string) (Source, error) {
	if err := ValidateName(name); err != nil {
		return Source{}, err
	}

	candidates := r.candidates(name)
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			slog.Debug("resolved module",
				slog.String("module", name),
				slog.String("path", path))
			return Source{Name: name, Path: path, Text: string(data)}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Source{}, fmt.Errorf("error reading module '%s' (%s): %w", name, path, err)
		}
	}

	if r.EvaHome == "" {
		slog.Debug("EVA_HOME is not set, library path skipped",
			slog.String("module", name))
	}
	return Source{}, fmt.Errorf("module '%s' (searched %v): %w", name, candidates, ErrNotFound)
}

func (r *FileResolver) candidates(name string) []string {
	root := r.RootPath
	if root == "" {
		root = "."
	}
	file := name + SourceExt

	paths := []string{filepath.Join(root, file)}
	for _, p := range r.SearchPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, filepath.Join(p, file))
	}
	if r.EvaHome != "" {
		paths = append(paths, filepath.Join(r.EvaHome, "lib", file))
	}
	return paths
}
