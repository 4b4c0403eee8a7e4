// Package navigator implements the Navigator (SPEC_FULL.md §4.4): the
// central orchestrator owning the working set, two-phase crate
// resolution, path/link resolution, and cross-crate re-export
// traversal. Grounded on original_source/navigator.rs, with the
// concurrency story (per-key load dedup) grounded on the teacher's
// internal/daemon/server.go addCrateGroup singleflight.Group.
package navigator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jcdickinson/rustnav/internal/cratename"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/rustdocerr"
	"github.com/jcdickinson/rustnav/internal/semver"
	"github.com/jcdickinson/rustnav/internal/source"
	"golang.org/x/sync/singleflight"
)

// workingSetEntry holds either a loaded CrateData or a negative cache
// marker (data == nil, failed == true) recording "we tried and failed
// to load this" per SPEC_FULL.md §3.
type workingSetEntry struct {
	data   *rustdoc.CrateData
	failed bool
}

// Navigator owns the loaded-crate working set and orchestrates
// SourceProviders in fixed priority order: Std, Local, Remote.
type Navigator struct {
	std    source.Provider // nil if unavailable
	local  source.Provider // nil if unavailable
	remote source.Provider // nil if unavailable

	mu         sync.Mutex
	workingSet map[cratename.Name]*workingSetEntry
	group      singleflight.Group

	// externalNames caches canonical crate name -> (name,version)
	// resolutions discovered while indexing a crate's external_crates
	// table, so a
	// second crate that references the same external dependency doesn't
	// need to re-derive it. Append-only, same insert-once contract as
	// workingSet (SPEC_FULL.md §5).
	externalNames map[string]source.CrateInfo
}

// New constructs a Navigator. Any of std/local/remote may be nil if
// that provider isn't available in the current environment.
func New(std, local, remote source.Provider) *Navigator {
	return &Navigator{
		std:           std,
		local:         local,
		remote:        remote,
		workingSet:    make(map[cratename.Name]*workingSetEntry),
		externalNames: make(map[string]source.CrateInfo),
	}
}

func (n *Navigator) providers() []source.Provider {
	var ps []source.Provider
	if n.std != nil {
		ps = append(ps, n.std)
	}
	if n.local != nil {
		ps = append(ps, n.local)
	}
	if n.remote != nil {
		ps = append(ps, n.remote)
	}
	return ps
}

// canonicalize defers to LocalSource when present, since it is the only
// provider that knows the single-package "crate" alias; Std and Remote
// apply the same plain normalization as the fallback below.
func (n *Navigator) canonicalize(raw string) cratename.Name {
	if n.local != nil {
		return n.local.Canonicalize(raw)
	}
	return cratename.Canonicalize(raw, "")
}

// LoadCrate is load_crate (SPEC_FULL.md §4.4): two-phase resolution
// with Std > Local > Remote priority, working-set memoization, and
// single-flight dedup of concurrent loads of the same crate name.
// found=false means no provider produced a match; this outcome is
// memoized as a negative cache entry.
func (n *Navigator) LoadCrate(ctx context.Context, rawName string, constraint semver.Constraint) (cd *rustdoc.CrateData, found bool, err error) {
	name := n.canonicalize(rawName)

	n.mu.Lock()
	if e, ok := n.workingSet[name]; ok {
		n.mu.Unlock()
		return e.data, !e.failed, nil
	}
	n.mu.Unlock()

	result, err, _ := n.group.Do(string(name), func() (any, error) {
		cd, found, err := n.loadCrateUncached(ctx, name, constraint)
		if err != nil {
			return nil, err
		}

		n.mu.Lock()
		defer n.mu.Unlock()
		if existing, ok := n.workingSet[name]; ok {
			// Another caller raced us and inserted first (insert-once);
			// defer to it, matching the append-only working-set contract.
			return existing.data, nil
		}
		n.workingSet[name] = &workingSetEntry{data: cd, failed: !found}
		return cd, nil
	})
	if err != nil {
		return nil, false, err
	}
	loaded, _ := result.(*rustdoc.CrateData)
	if loaded == nil {
		return nil, false, nil
	}
	return loaded, true, nil
}

func (n *Navigator) loadCrateUncached(ctx context.Context, name cratename.Name, constraint semver.Constraint) (*rustdoc.CrateData, bool, error) {
	// A crate already discovered as another loaded crate's external
	// dependency skips straight to Load with its known version,
	// bypassing Lookup entirely, grounded on
	// original_source/navigator.rs::load_crate ("First checks external
	// crate names from loaded crates").
	if info, ok := n.lookupExternalName(name); ok {
		for _, p := range n.providers() {
			cd, err := p.Load(ctx, info)
			if err != nil {
				continue // this provider can't load it; try the next
			}
			n.indexExternalCrates(cd)
			return cd, true, nil
		}
		// Known (name, version) but no provider could load it: fall
		// through to the ordinary ordered Lookup below rather than
		// giving up, since a version mismatch here shouldn't be fatal.
	}

	// Std -> Local -> Remote, strictly ordered, short-circuit on first
	// Lookup hit (SPEC_FULL.md §5 "Ordering").
	for _, p := range n.providers() {
		info, ok, err := p.Lookup(ctx, name, constraint)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		cd, err := p.Load(ctx, info)
		if err != nil {
			return nil, false, err
		}
		n.indexExternalCrates(cd)
		return cd, true, nil
	}
	return nil, false, nil
}

func (n *Navigator) lookupExternalName(name cratename.Name) (source.CrateInfo, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	info, ok := n.externalNames[string(name)]
	return info, ok
}

// indexExternalCrates populates externalNames from a newly loaded
// crate's external-crates table, grounded on
// original_source/navigator.rs::load_crate's call to
// index_external_crates. Only entries with a recoverable version are
// cached, matching the original's `Version::parse(version)` gate — an
// unversioned reference carries nothing load_crate can skip Lookup
// with.
func (n *Navigator) indexExternalCrates(cd *rustdoc.CrateData) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for idStr := range cd.Raw.ExternalCrates {
		ref, ok := cd.ExternalCrate(parseIntOrZero(idStr))
		if !ok || ref.Version == "" {
			continue
		}
		v, err := semver.Parse(ref.Version)
		if err != nil {
			continue
		}
		canonical := cratename.Canonicalize(ref.Name, "")
		if _, exists := n.externalNames[string(canonical)]; exists {
			continue
		}
		n.externalNames[string(canonical)] = source.CrateInfo{Name: canonical, Version: v}
	}
}

func parseIntOrZero(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}

// CrossCrateLoad loads the crate that owns a non-zero defining
// crate-id found on an item or ItemSummary within owner, completing a
// cross-crate re-export lookup (SPEC_FULL.md §4.4 "Cross-crate
// traversal").
func (n *Navigator) CrossCrateLoad(ctx context.Context, owner *rustdoc.CrateData, crateID int) (*rustdoc.CrateData, error) {
	ref, ok := owner.ExternalCrate(crateID)
	if !ok {
		return nil, rustdocerr.Wrap(rustdocerr.NotFound, "crate-id %d not in %s's external_crates table", crateID, owner.Name)
	}
	constraintStr := ref.Version
	if constraintStr == "" {
		constraintStr = "latest"
	}
	constraint, err := semver.ParseConstraint(constraintStr)
	if err != nil {
		return nil, fmt.Errorf("parsing version for external crate %s: %w", ref.Name, err)
	}
	cd, found, err := n.LoadCrate(ctx, ref.Name, constraint)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, rustdocerr.Wrap(rustdocerr.NotFound, "could not load external crate %s", ref.Name)
	}
	return cd, nil
}

// ListAvailableCrates is list_available_crates (SPEC_FULL.md §4.4):
// union of ListKnown across providers, Std > Local dedup on
// CrateName. Remote is never consulted (unbounded).
func (n *Navigator) ListAvailableCrates(ctx context.Context) ([]source.CrateInfo, error) {
	seen := make(map[cratename.Name]bool)
	var out []source.CrateInfo
	for _, p := range []source.Provider{n.std, n.local} {
		if p == nil {
			continue
		}
		infos, err := p.ListKnown(ctx)
		if err != nil {
			log.Printf("listing crates: skipping a provider: %v", err)
			continue // per-provider listing failures degrade gracefully
		}
		for _, info := range infos {
			if seen[info.Name] {
				continue
			}
			seen[info.Name] = true
			out = append(out, info)
		}
	}
	return out, nil
}
