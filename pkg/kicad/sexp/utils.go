// Package sexp provides navigation helpers over parsed KiCad S-expressions.
package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp/kicadsexp"
)

// Items returns the elements of a list, or nil for a leaf.
func Items(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Elements()
	}
	return nil
}

// FindNode searches for a child list whose first atom is key.
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range Items(s) {
		if name, err := GetNodeName(item); err == nil && !item.IsLeaf() && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists whose first atom is key.
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range Items(s) {
		if item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetString extracts the atom at the given index in a list, quoted or not.
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := Items(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	v, ok := kicadsexp.Atom(items[index])
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return v, nil
}

// GetQuotedString is GetString restricted to quoted atoms.
func GetQuotedString(s kicadsexp.Sexp, index int) (string, error) {
	items := Items(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	q, ok := items[index].(kicadsexp.Quoted)
	if !ok {
		return "", fmt.Errorf("expected quoted string at index %d", index)
	}
	return string(q), nil
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// GetXY extracts the two coordinates of (key X Y ...) nodes such as
// (at X Y angle), (start X Y), (xy X Y).
func GetXY(s kicadsexp.Sexp) (x, y float64, err error) {
	if x, err = GetFloat(s, 1); err != nil {
		return 0, 0, fmt.Errorf("failed to parse X: %w", err)
	}
	if y, err = GetFloat(s, 2); err != nil {
		return 0, 0, fmt.Errorf("failed to parse Y: %w", err)
	}
	return x, y, nil
}

// HasSymbol checks if a list contains a specific bare atom
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range Items(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the first atom of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}
	if s.IsLeaf() {
		if v, ok := kicadsexp.Atom(s); ok {
			return v, nil
		}
		return "", fmt.Errorf("expected atom leaf")
	}

	head := s.Head()
	if sym, ok := head.(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}
