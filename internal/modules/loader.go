package modules

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"eva/internal/ast"
)

// ErrNotFound is returned (wrapped) by a Loader that has no source for the requested module.
var ErrNotFound = errors.New("module not found")

const SourceExt = ".eva"

// Source is the raw program text of one module.
type Source struct {
	Name string
	Path string // where the text came from, for diagnostics
	Text string
}

// Loader is the resource-loading collaborator used by import.
type Loader interface {
	Load(name string) (Source, error)
}

// ValidateName rejects module names that are not plain symbols.
func ValidateName(name string) error {
	if !ast.ValidSymbol(name) || strings.Contains(name, "/") || strings.HasPrefix(name, "-") {
		return fmt.Errorf("invalid module name %q", name)
	}
	return nil
}

// Chain tries each loader in order and returns the first hit. ErrNotFound from one loader
// moves on to the next; any other error stops the search.
type Chain []Loader

func (c Chain) Load(name string) (Source, error) {
	for _, l := range c {
		src, err := l.Load(name)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Source{}, err
		}
		slog.Debug("module not found in loader, trying next",
			slog.String("module", name),
			slog.String("loader", fmt.Sprintf("%T", l)))
	}
	return Source{}, fmt.Errorf("module '%s': %w", name, ErrNotFound)
}

// MemoryStore serves module sources from a map.
type MemoryStore struct {
	mu      sync.RWMutex
	sources map[string]string
}

func NewMemoryStore(sources map[string]string) *MemoryStore {
	m := &MemoryStore{sources: make(map[string]string, len(sources))}
	for name, text := range sources {
		m.sources[name] = text
	}
	return m
}

func (m *MemoryStore) Save(name, text string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	m.sources[name] = text
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(name string) (Source, error) {
	m.mu.RLock()
	text, ok := m.sources[name]
	m.mu.RUnlock()
	if !ok {
		return Source{}, fmt.Errorf("module '%s' in memory: %w", name, ErrNotFound)
	}
	return Source{Name: name, Path: "memory:" + name, Text: text}, nil
}

// CountingLoader records how many times each module was requested from the wrapped loader.
type CountingLoader struct {
	Loader Loader

	mu     sync.Mutex
	counts map[string]int
}

func NewCountingLoader(l Loader) *CountingLoader {
	return &CountingLoader{Loader: l, counts: map[string]int{}}
}

func (c *CountingLoader) Load(name string) (Source, error) {
	c.mu.Lock()
	c.counts[name]++
	n := c.counts[name]
	c.mu.Unlock()

	slog.Debug("loading module source",
		slog.String("module", name),
		slog.Int("request", n))
	return c.Loader.Load(name)
}

// Count returns the number of Load calls seen for name.
func (c *CountingLoader) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}
