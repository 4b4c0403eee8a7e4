// Package source implements the three SourceProviders of SPEC_FULL.md
// §4.1: StdSource (rustup-managed sysroot), LocalSource (workspace
// build-on-demand), and RemoteSource (docs.rs + crates.io). Grounded on
// original_source/sources.rs and original_source/docsrs_client.rs, with
// disk-cache and decompression plumbing from the teacher's
// internal/docs/fetch.go and internal/docs/cache.go.
package source

import (
	"context"

	"github.com/jcdickinson/rustnav/internal/cratename"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/semver"
)

// Provenance tags where a CrateInfo was resolved from.
type Provenance string

const (
	ProvenanceStdLib           Provenance = "std"
	ProvenanceWorkspace        Provenance = "workspace"
	ProvenanceLocalDependency  Provenance = "local_dependency"
	ProvenanceRemote           Provenance = "remote"
)

// CrateInfo is a resolved-metadata record produced by Phase 1 (lookup)
// and consumed by Phase 2 (load). Two CrateInfos are equal iff Name and
// Version are equal; Provenance is informational (SPEC_FULL.md §3).
type CrateInfo struct {
	Name        cratename.Name
	Version     semver.Version
	Provenance  Provenance
	Description string

	// Supplemented fields (SPEC_FULL.md §3), additive only.
	DefaultCrate bool
	UsedBy       []string
}

// Equal compares by (Name, Version) only, per SPEC_FULL.md §3.
func (a CrateInfo) Equal(b CrateInfo) bool {
	return a.Name == b.Name && a.Version.Compare(b.Version) == 0
}

// Provider is the interface every SourceProvider implements
// (SPEC_FULL.md §4.1).
type Provider interface {
	// Canonicalize applies pure name normalization.
	Canonicalize(raw string) cratename.Name

	// Lookup is Phase 1: a cheap probe, never a large-JSON parse.
	// found=false means this provider cannot satisfy the constraint.
	Lookup(ctx context.Context, name cratename.Name, constraint semver.Constraint) (info CrateInfo, found bool, err error)

	// Load is Phase 2: produces a fully parsed CrateData for a CrateInfo
	// this provider's Lookup already committed to.
	Load(ctx context.Context, info CrateInfo) (*rustdoc.CrateData, error)

	// ListKnown enumerates crates this provider can currently enumerate.
	// Remote providers may return an empty slice (SPEC_FULL.md §4.4:
	// "docs.rs has unbounded crates").
	ListKnown(ctx context.Context) ([]CrateInfo, error)
}
