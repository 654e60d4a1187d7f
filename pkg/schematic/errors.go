package schematic

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedPin indicates a connection names a pin its symbol lacks.
	ErrUnresolvedPin = errors.New("schematic: unresolved pin")
	// ErrUnknownDeviceTemplate indicates an unknown device set or device.
	ErrUnknownDeviceTemplate = errors.New("schematic: unknown device template")
	// ErrUnsupportedPrefix indicates a prefix without a symbol binding.
	ErrUnsupportedPrefix = errors.New("schematic: unsupported prefix")
	// ErrLibraryNotInitialized indicates a binding refers to a library that
	// InitLibraries has not loaded.
	ErrLibraryNotInitialized = errors.New("schematic: library not initialized")
	// ErrUnknownPackage indicates a device package the library does not declare.
	ErrUnknownPackage = errors.New("schematic: unknown package")
	// ErrDuplicate indicates a device set or device declared twice.
	ErrDuplicate = errors.New("schematic: duplicate declaration")
	// ErrForeignInstance indicates a connection to an instance of another schematic.
	ErrForeignInstance = errors.New("schematic: instance belongs to another schematic")
	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = errors.New("schematic: invalid config")
)

// UnresolvedPinError identifies the instance and pin a connection could not
// resolve.
type UnresolvedPinError struct {
	Ref string
	Pin string
}

func (e *UnresolvedPinError) Error() string {
	return fmt.Sprintf("schematic: pin %s not found on part %s", e.Pin, e.Ref)
}

func (e *UnresolvedPinError) Unwrap() error { return ErrUnresolvedPin }

// UnsupportedPrefixError names a prefix with no device binding.
type UnsupportedPrefixError struct {
	Prefix string
}

func (e *UnsupportedPrefixError) Error() string {
	return fmt.Sprintf("schematic: unsupported prefix %q", e.Prefix)
}

func (e *UnsupportedPrefixError) Unwrap() error { return ErrUnsupportedPrefix }

// UnknownDeviceTemplateError names the device set and device that were not
// declared.
type UnknownDeviceTemplateError struct {
	DeviceSet string
	Device    string
}

func (e *UnknownDeviceTemplateError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("schematic: unknown device set %q", e.DeviceSet)
	}
	return fmt.Sprintf("schematic: device set %q has no device %q", e.DeviceSet, e.Device)
}

func (e *UnknownDeviceTemplateError) Unwrap() error { return ErrUnknownDeviceTemplate }
