// Package cratename canonicalizes crate name spellings, grounded on
// original_source/project.rs: rustdoc's placeholder names, the "crate"
// alias, and internal-compiler-crate exclusions.
package cratename

import "strings"

// Name is a canonicalized crate identifier: lowercase, hyphens
// normalized to underscores. Equality between two Names is always
// canonical string equality.
type Name string

// Std lists the standard-library crates StdSource can ever serve,
// grounded on original_source/project.rs's RUST_CRATES constant.
var Std = []Name{"std", "alloc", "core", "proc_macro", "test"}

// rustdocPlaceholders maps rustdoc's internal crate-dump names to the
// real Cargo package name (original_source/project.rs's
// normalize_crate_name).
var rustdocPlaceholders = map[string]string{
	"alloc_crate": "alloc",
	"core_crate":  "core",
}

// internalExact names compiler-internal crates that never resolve
// through Local or Remote sources; IsInternal also treats any name
// with a rustc_ prefix as internal.
var internalExact = map[string]bool{
	"std_detect":             true,
	"rustc_literal_escaper":  true,
}

// Canonicalize normalizes a raw user- or registry-supplied crate name.
// defaultCrate is the name to substitute for the literal alias "crate",
// valid only within a single-package workspace (pass "" outside one).
func Canonicalize(raw string, defaultCrate string) Name {
	raw = strings.TrimSpace(raw)
	if raw == "crate" && defaultCrate != "" {
		raw = defaultCrate
	}
	if real, ok := rustdocPlaceholders[raw]; ok {
		raw = real
	}
	lower := strings.ToLower(raw)
	normalized := strings.ReplaceAll(lower, "-", "_")
	return Name(normalized)
}

// IsStd reports whether n names one of the fixed standard-library
// crates StdSource can serve.
func IsStd(n Name) bool {
	for _, s := range Std {
		if s == n {
			return true
		}
	}
	return false
}

// IsInternal reports whether n is a compiler-internal crate that Local
// and Remote sources must refuse to resolve.
func IsInternal(n Name) bool {
	s := string(n)
	if internalExact[s] {
		return true
	}
	return strings.HasPrefix(s, "rustc_")
}

// Equal compares two raw spellings for canonical equality without
// requiring either side to already be canonicalized (project.rs's
// eq_ignoring_dash_underscore).
func Equal(a, b string) bool {
	return Canonicalize(a, "") == Canonicalize(b, "")
}

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }
