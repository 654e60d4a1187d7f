package symbol

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Resolver maps a library name to a file path.
type Resolver interface {
	Resolve(name string) (string, error)
}

// MapResolver is a fixed name to path table.
type MapResolver map[string]string

// Resolve implements the Resolver interface.
func (m MapResolver) Resolve(name string) (string, error) {
	if path, ok := m[name]; ok {
		return path, nil
	}
	return "", &LibraryNotFoundError{Name: name}
}

var rcLine = regexp.MustCompile(`^Lbr\.Managed\.(\d+)\.path\s*=\s*"(.+)"`)

// RCResolver resolves names against the managed library list of an EAGLE
// libraries.rc file. The first path containing the name, compared without
// regard to case, wins.
type RCResolver struct {
	Paths []string
}

// DefaultRCPath returns the location EAGLE keeps its libraries.rc in.
func DefaultRCPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", "Eagle", "lbr", "libraries.rc"), nil
}

// LoadRC reads a libraries.rc file.
func LoadRC(path string) (*RCResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("symbol: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseRC(f)
}

// ParseRC reads libraries.rc content. Lines other than managed library
// paths are ignored.
func ParseRC(r io.Reader) (*RCResolver, error) {
	res := &RCResolver{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if m := rcLine.FindStringSubmatch(scanner.Text()); m != nil {
			res.Paths = append(res.Paths, m[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("symbol: read libraries.rc: %w", err)
	}
	return res, nil
}

// Resolve implements the Resolver interface.
func (r *RCResolver) Resolve(name string) (string, error) {
	needle := strings.ToLower(name)
	for _, path := range r.Paths {
		if strings.Contains(strings.ToLower(path), needle) {
			return path, nil
		}
	}
	return "", &LibraryNotFoundError{Name: name}
}

// DirResolver finds library files by base name under a directory tree.
type DirResolver struct {
	Root string
}

// Resolve implements the Resolver interface.
func (d DirResolver) Resolve(name string) (string, error) {
	var found string
	err := filepath.WalkDir(d.Root, func(path string, e fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if e.IsDir() || !isLibraryFile(path) {
			return nil
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if strings.EqualFold(base, name) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("symbol: search %s: %w", d.Root, err)
	}
	if found == "" {
		return "", &LibraryNotFoundError{Name: name}
	}
	return found, nil
}
