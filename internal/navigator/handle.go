package navigator

import "github.com/jcdickinson/rustnav/internal/rustdoc"

// ItemHandle is the four-tuple context-carrying handle of SPEC_FULL.md
// §3/§4.5: a crate reference, an item reference, the originating
// Navigator, and an optional display-name override (carried when the
// handle was reached through a renaming re-export). Grounded on
// original_source/doc_ref.rs::DocRef.
type ItemHandle struct {
	Crate       *rustdoc.CrateData
	Item        *rustdoc.Item
	Nav         *Navigator
	DisplayName *string
}

// Equal compares by item and crate identity, mirroring doc_ref.rs's
// pointer-based PartialEq (the same Item and CrateData pointers, not
// deep value equality).
func (h ItemHandle) Equal(o ItemHandle) bool {
	return h.Item == o.Item && h.Crate == o.Crate
}

// Name resolves the handle's display name: the override if present,
// else the item's own name, else (for items only reachable via
// ItemSummary, like external re-export targets) the last path segment.
func (h ItemHandle) Name() string {
	if h.DisplayName != nil {
		return *h.DisplayName
	}
	if h.Item.Name != nil {
		return *h.Item.Name
	}
	if summary, ok := h.Crate.Summary(h.Item.ID); ok && len(summary.Path) > 0 {
		return summary.Path[len(summary.Path)-1]
	}
	return ""
}

// Kind reports the item's normalized kind tag.
func (h ItemHandle) Kind() rustdoc.ItemKind {
	return h.Item.Kind()
}

// WithDisplayName returns a copy of h carrying a new display-name
// override, used when following a named (non-glob) re-export.
func (h ItemHandle) WithDisplayName(name string) ItemHandle {
	h.DisplayName = &name
	return h
}

// Path returns the canonical "::"-joined path for this handle within
// its owning crate, or ok=false if the item has no ItemSummary entry.
func (h ItemHandle) Path() (string, bool) {
	summary, ok := h.Crate.Summary(h.Item.ID)
	if !ok {
		return "", false
	}
	return joinPath(summary.Path), true
}

func joinPath(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "::"
		}
		out += s
	}
	return out
}

// Fragments generates the item's sub-document fragments (SPEC_FULL.md
// §12).
func (h ItemHandle) Fragments() []rustdoc.Fragment {
	return h.Crate.GenerateFragments(h.Item)
}
