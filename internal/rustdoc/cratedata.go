package rustdoc

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExternalCrateRef is a (name, version) pair recovered from an
// ExternalCrate's HTML root URL, used by Navigator to load the crate
// that actually owns a cross-crate item.
type ExternalCrateRef struct {
	Name    string
	Version string // empty if no version could be recovered (falls back to "latest")
}

// CrateData owns the parsed JSON for exactly one (name, version) pair.
// It is immutable after construction: the path index and external-crate
// index are both built once in New and never mutated afterward, which is
// what lets Navigator hand out *CrateData to many readers without a lock
// (see SPEC_FULL.md §9, "Zero-copy borrowing under shared ownership").
type CrateData struct {
	Name    string
	Version string
	Raw     *Crate

	pathIndex     map[string]ID // "a::b::c" -> item id, built from Paths
	externalCache map[int]ExternalCrateRef
}

// New builds a CrateData from an already-normalized Crate.
func New(name, version string, raw *Crate) *CrateData {
	cd := &CrateData{
		Name:    name,
		Version: version,
		Raw:     raw,
	}
	cd.buildPathIndex()
	cd.buildExternalCache()
	return cd
}

func (cd *CrateData) buildPathIndex() {
	cd.pathIndex = make(map[string]ID, len(cd.Raw.Paths))
	for id, summary := range cd.Raw.Paths {
		if summary.CrateID != 0 {
			continue // only index items this crate itself defines
		}
		key := strings.Join(summary.Path, "::")
		cd.pathIndex[key] = id
	}
}

var docsRsRootURL = regexp.MustCompile(`^https?://docs\.rs/([^/]+)/([^/]+)/`)

func (cd *CrateData) buildExternalCache() {
	cd.externalCache = make(map[int]ExternalCrateRef, len(cd.Raw.ExternalCrates))
	for idStr, ext := range cd.Raw.ExternalCrates {
		id := parseCrateIDKey(idStr)
		ref := ExternalCrateRef{Name: ext.Name}
		if m := docsRsRootURL.FindStringSubmatch(ext.HTMLRootURL); m != nil {
			// docs.rs path segments use the Cargo (hyphenated) name, which
			// can diverge from the Rust lib identifier in ext.Name.
			ref.Name = m[1]
			if m[2] != "latest" {
				ref.Version = m[2]
			}
		}
		cd.externalCache[id] = ref
	}
}

func parseCrateIDKey(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}

// Item looks up an item by id within this crate only.
func (cd *CrateData) Item(id ID) (*Item, bool) {
	it, ok := cd.Raw.Index[id]
	if !ok {
		return nil, false
	}
	return &it, true
}

// Summary looks up the ItemSummary for an id, whether or not the item
// itself is present in Index (external items only ever appear here).
func (cd *CrateData) Summary(id ID) (*ItemSummary, bool) {
	s, ok := cd.Raw.Paths[id]
	if !ok {
		return nil, false
	}
	return &s, true
}

// RootItem returns the crate-root module item.
func (cd *CrateData) RootItem() (*Item, bool) {
	return cd.Item(cd.Raw.Root)
}

// ResolveLocalPath looks up an item id by its fully qualified path
// within this crate, e.g. "vec::Vec".
func (cd *CrateData) ResolveLocalPath(path string) (ID, bool) {
	id, ok := cd.pathIndex[path]
	return id, ok
}

// AllPaths returns every locally-defined path this crate indexes, used
// for edit-distance "did you mean" suggestions.
func (cd *CrateData) AllPaths() []string {
	paths := make([]string, 0, len(cd.pathIndex))
	for p := range cd.pathIndex {
		paths = append(paths, p)
	}
	return paths
}

// ExternalCrate resolves a non-zero defining crate-id (as found on an
// Item or ItemSummary) to the (name, version) pair Navigator should
// load to complete a cross-crate lookup.
func (cd *CrateData) ExternalCrate(crateID int) (ExternalCrateRef, bool) {
	ref, ok := cd.externalCache[crateID]
	return ref, ok
}

// IsUse reports whether an item is a re-export (`use` statement).
func (it *Item) IsUse() bool {
	return it.Kind() == KindUse
}

// UseInner is the subset of a `use` item's Inner relevant to re-export
// following: its target id (absent for an unresolved external glob),
// whether it's a glob import, and the name it's imported as.
type UseInner struct {
	Name     string  `json:"name"`
	ID       *ID     `json:"id"`
	IsGlob   bool    `json:"is_glob"`
	Source   *string `json:"source"`
}

// ParseUse decodes the `use` variant of Inner.
func (it *Item) ParseUse() (*UseInner, bool) {
	if it.Kind() != KindUse {
		return nil, false
	}
	var wrapper struct {
		Use UseInner `json:"use"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	return &wrapper.Use, true
}
