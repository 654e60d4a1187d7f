package symbol

import (
	"errors"
	"fmt"
)

var (
	// ErrLibraryNotFound indicates a library name could not be located.
	ErrLibraryNotFound = errors.New("symbol: library not found")
	// ErrSymbolNotFound indicates a library has no symbol of the requested name.
	ErrSymbolNotFound = errors.New("symbol: symbol not found")
	// ErrUnknownFormat indicates a library file with an unsupported extension.
	ErrUnknownFormat = errors.New("symbol: unknown library format")
)

// LibraryNotFoundError names the library that could not be located.
type LibraryNotFoundError struct {
	Name string
}

func (e *LibraryNotFoundError) Error() string {
	return fmt.Sprintf("symbol: library %q not found", e.Name)
}

func (e *LibraryNotFoundError) Unwrap() error { return ErrLibraryNotFound }

// SymbolNotFoundError names the missing symbol and its library.
type SymbolNotFoundError struct {
	Library string
	Name    string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol: library %q has no symbol %q", e.Library, e.Name)
}

func (e *SymbolNotFoundError) Unwrap() error { return ErrSymbolNotFound }
