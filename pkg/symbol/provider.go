package symbol

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Provider knows how to load a component library by name.
type Provider interface {
	LoadLibrary(name string) (*Library, error)
}

// MemoryProvider is a simple in-memory implementation useful during tests or
// when the caller preloads a fixed set of libraries.
type MemoryProvider struct {
	mu        sync.RWMutex
	libraries map[string]*Library
}

// NewMemoryProvider creates a provider holding the given libraries.
func NewMemoryProvider(libs ...*Library) *MemoryProvider {
	p := &MemoryProvider{libraries: make(map[string]*Library)}
	for _, lib := range libs {
		p.Add(lib)
	}
	return p
}

// Add registers a library under its name, replacing any previous one.
func (p *MemoryProvider) Add(lib *Library) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.libraries[lib.Name] = lib
}

// LoadLibrary implements the Provider interface.
func (p *MemoryProvider) LoadLibrary(name string) (*Library, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if lib, ok := p.libraries[name]; ok {
		return lib, nil
	}
	return nil, &LibraryNotFoundError{Name: name}
}

// FileProvider loads libraries from disk, locating them through a Resolver
// and decoding them by file extension. Loaded libraries are cached.
type FileProvider struct {
	resolver Resolver

	mu    sync.Mutex
	cache map[string]*Library
}

// NewFileProvider creates a provider backed by the given resolver.
func NewFileProvider(resolver Resolver) *FileProvider {
	return &FileProvider{resolver: resolver, cache: make(map[string]*Library)}
}

// LoadLibrary implements the Provider interface.
func (p *FileProvider) LoadLibrary(name string) (*Library, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if lib, ok := p.cache[name]; ok {
		return lib, nil
	}

	path, err := p.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	lib, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	lib.Name = name
	p.cache[name] = lib
	return lib, nil
}

// LoadFile decodes a single library file. The format is chosen by extension:
// .lbr for EAGLE and .kicad_sym for KiCad.
func LoadFile(path string) (*Library, error) {
	decode := decoderFor(path)
	if decode == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("symbol: open %s: %w", path, err)
	}
	defer f.Close()

	lib, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("symbol: load %s: %w", path, err)
	}
	lib.Path = path
	lib.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return lib, nil
}

func decoderFor(path string) func(io.Reader) (*Library, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lbr":
		return DecodeEagle
	case ".kicad_sym":
		return DecodeKiCad
	default:
		return nil
	}
}

func isLibraryFile(path string) bool {
	return decoderFor(path) != nil
}

// Chain returns a provider that asks each provider in turn. A provider
// reporting ErrLibraryNotFound passes the request on; any other error stops
// the search.
func Chain(providers ...Provider) Provider {
	return chain(providers)
}

type chain []Provider

func (c chain) LoadLibrary(name string) (*Library, error) {
	for _, p := range c {
		lib, err := p.LoadLibrary(name)
		if err == nil {
			return lib, nil
		}
		if !errors.Is(err, ErrLibraryNotFound) {
			return nil, err
		}
	}
	return nil, &LibraryNotFoundError{Name: name}
}
