// Package rustdocerr defines the six-kind error taxonomy of
// SPEC_FULL.md §7 as errors.Is-compatible sentinel values, the way the
// teacher distinguishes a cache-miss from a hard failure by shape
// (docs/cache.go returns (nil, false), never an error, on a corrupt
// cache file) rather than by a bespoke error-code type.
package rustdocerr

import (
	"errors"
	"fmt"
)

var (
	// NotFound: no provider produced a CrateInfo for the requested
	// (name, constraint), or a path walk failed within a loaded crate.
	NotFound = errors.New("not found")
	// UnsupportedFormat: JSON schema-version outside the supported set.
	UnsupportedFormat = errors.New("unsupported rustdoc format version")
	// Transport: remote fetch failed; retryable.
	Transport = errors.New("transport error")
	// Build: local toolchain invocation failed.
	Build = errors.New("build error")
	// Corruption: a cached file could not be parsed.
	Corruption = errors.New("cache corruption")
	// IO: filesystem read/write failed for a non-cache path.
	IO = errors.New("io error")
)

// Wrap annotates a sentinel with context while remaining errors.Is-
// comparable to it.
func Wrap(sentinel error, format string, args ...any) error {
	return &wrapped{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

type wrapped struct {
	sentinel error
	msg      string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.sentinel }
