package modules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeModule(t *testing.T, dir, name, text string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name+SourceExt)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestFileResolverSearchOrder(t *testing.T) {
	root := t.TempDir()
	home := t.TempDir()

	writeModule(t, root, "Local", "(var x 1)")
	writeModule(t, filepath.Join(root, "modules"), "Math", "(var MAX_VALUE 1000)")
	writeModule(t, filepath.Join(home, "lib"), "Math", "(var MAX_VALUE 1)")
	libPath := writeModule(t, filepath.Join(home, "lib"), "Lib", "(var y 2)")

	r := &FileResolver{RootPath: root, SearchPaths: []string{"modules"}, EvaHome: home}

	tests := []struct {
		name     string
		expected string
	}{
		{"Local", "(var x 1)"},
		{"Math", "(var MAX_VALUE 1000)"},
		{"Lib", "(var y 2)"},
	}

	for _, tt := range tests {
		src, err := r.Load(tt.name)
		if err != nil {
			t.Fatalf("load %s: %v", tt.name, err)
		}
		if src.Text != tt.expected {
			t.Errorf("load %s: expected %q, got %q", tt.name, tt.expected, src.Text)
		}
		if src.Name != tt.name {
			t.Errorf("load %s: wrong name %q", tt.name, src.Name)
		}
	}

	src, _ := r.Load("Lib")
	if src.Path != libPath {
		t.Errorf("expected path %s, got %s", libPath, src.Path)
	}
}

func TestFileResolverNotFound(t *testing.T) {
	r := &FileResolver{RootPath: t.TempDir()}

	_, err := r.Load("Missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileResolverRejectsPaths(t *testing.T) {
	r := &FileResolver{RootPath: t.TempDir()}

	for _, name := range []string{"", "../etc/passwd", "a/b", "a.b"} {
		_, err := r.Load(name)
		if err == nil {
			t.Errorf("%q: expected error", name)
			continue
		}
		if errors.Is(err, ErrNotFound) {
			t.Errorf("%q: expected validation error, got not found", name)
		}
	}
}

func TestChain(t *testing.T) {
	first := NewMemoryStore(map[string]string{"A": "first"})
	second := NewMemoryStore(map[string]string{"A": "second", "B": "second"})
	chain := Chain{first, second}

	src, err := chain.Load("A")
	if err != nil || src.Text != "first" {
		t.Errorf("expected first loader to win, got %q, %v", src.Text, err)
	}
	src, err = chain.Load("B")
	if err != nil || src.Text != "second" {
		t.Errorf("expected fallback to second loader, got %q, %v", src.Text, err)
	}
	if _, err := chain.Load("C"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

type failingLoader struct{ err error }

func (f failingLoader) Load(string) (Source, error) { return Source{}, f.err }

func TestChainStopsOnHardError(t *testing.T) {
	boom := errors.New("disk on fire")
	chain := Chain{failingLoader{err: boom}, NewMemoryStore(map[string]string{"A": "x"})}

	if _, err := chain.Load("A"); !errors.Is(err, boom) {
		t.Errorf("expected hard error to stop the chain, got %v", err)
	}
}

func TestCountingLoader(t *testing.T) {
	counter := NewCountingLoader(NewMemoryStore(map[string]string{"A": "x"}))

	counter.Load("A")
	counter.Load("A")
	counter.Load("B")

	if counter.Count("A") != 2 {
		t.Errorf("expected 2 loads of A, got %d", counter.Count("A"))
	}
	if counter.Count("B") != 1 {
		t.Errorf("expected 1 load of B, got %d", counter.Count("B"))
	}
	if counter.Count("C") != 0 {
		t.Errorf("expected 0 loads of C, got %d", counter.Count("C"))
	}
}

func TestSQLStoreSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "modules.db")
	store, err := OpenSQLStore("sqlite3", dsn, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	// idempotent
	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("schema twice: %v", err)
	}

	if _, err := store.Load("Math"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	if err := store.Save("Math", "(var MAX_VALUE 10)"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save("Math", "(var MAX_VALUE 1000)"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	src, err := store.Load("Math")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Text != "(var MAX_VALUE 1000)" {
		t.Errorf("expected overwritten source, got %q", src.Text)
	}
	if src.Path != "sqlite3:eva_modules/Math" {
		t.Errorf("unexpected path %q", src.Path)
	}
}

func TestOpenSQLStoreValidation(t *testing.T) {
	if _, err := OpenSQLStore("oracle", "x", ""); err == nil {
		t.Errorf("expected unsupported driver error")
	}
	if _, err := OpenSQLStore("sqlite3", filepath.Join(t.TempDir(), "x.db"), "bad; DROP"); err == nil {
		t.Errorf("expected invalid table error")
	}
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		driver   string
		expected string
	}{
		{"sqlite3", "?"},
		{"mysql", "?"},
		{"postgres", "$2"},
	}

	for _, tt := range tests {
		s := &SQLStore{Driver: tt.driver}
		if got := s.placeholder(2); got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.driver, tt.expected, got)
		}
	}
}
