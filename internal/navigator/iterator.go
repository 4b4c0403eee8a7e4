package navigator

import (
	"context"

	"github.com/jcdickinson/rustnav/internal/rustdoc"
)

// maxUseDepth bounds Use-chain following; visited guards glob expansion
// and re-export cycles (SPEC_FULL.md §4.5 "Cycle safety").
const maxUseDepth = 32

// Children is the ChildIterator of SPEC_FULL.md §4.5: the direct
// children of h by kind, with re-exports and glob imports followed
// transparently. includeUseThemselves additionally surfaces `use`
// items verbatim alongside their expansion (used by SearchIndex
// corpus construction so `pub use` statements are themselves
// discoverable).
func (n *Navigator) Children(ctx context.Context, h ItemHandle, includeUseThemselves bool) ([]ItemHandle, error) {
	visited := make(map[string]bool)
	return n.children(ctx, h, includeUseThemselves, visited, 0)
}

func itemKey(crateName string, id rustdoc.ID) string {
	return crateName + "#" + string(id)
}

func (n *Navigator) children(ctx context.Context, h ItemHandle, includeUseThemselves bool, visited map[string]bool, depth int) ([]ItemHandle, error) {
	switch h.Kind() {
	case rustdoc.KindModule:
		ids, _ := h.Item.ModuleChildren()
		return n.idIterator(ctx, h.Crate, ids, includeUseThemselves, visited, depth)

	case rustdoc.KindEnum:
		variantIDs, _ := h.Item.EnumVariants()
		out, err := n.idIterator(ctx, h.Crate, variantIDs, includeUseThemselves, visited, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, n.methodsOf(h)...)
		return out, nil

	case rustdoc.KindStruct:
		var out []ItemHandle
		if fieldIDs, ok := h.Item.StructFields(); ok {
			fields, err := n.idIterator(ctx, h.Crate, fieldIDs, includeUseThemselves, visited, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, fields...)
		}
		out = append(out, n.methodsOf(h)...)
		return out, nil

	case rustdoc.KindUnion:
		return n.methodsOf(h), nil

	case rustdoc.KindTrait:
		ids, _ := h.Item.TraitItems()
		return n.idIterator(ctx, h.Crate, ids, includeUseThemselves, visited, depth)

	case rustdoc.KindUse:
		key := itemKey(h.Crate.Name, h.Item.ID)
		if visited[key] || depth >= maxUseDepth {
			return nil, nil
		}
		visited[key] = true
		useInfo, ok := h.Item.ParseUse()
		if !ok {
			return nil, nil
		}
		target, err := n.resolveUseTarget(ctx, h.Crate, useInfo)
		if err != nil || target == nil {
			return nil, nil
		}
		return n.children(ctx, *target, includeUseThemselves, visited, depth+1)

	default:
		return nil, nil
	}
}

// idIterator is the IdIterator of SPEC_FULL.md §4.5: for each id, a
// plain item yields itself; a Use item expands transparently — a glob
// import recursively yields the source module's children with
// preserved display names, a named import yields one handle to the
// source item carrying the import's name as a display-name override.
func (n *Navigator) idIterator(ctx context.Context, cd *rustdoc.CrateData, ids []rustdoc.ID, includeUseThemselves bool, visited map[string]bool, depth int) ([]ItemHandle, error) {
	var out []ItemHandle
	for _, id := range ids {
		it, ok := cd.Item(id)
		if !ok {
			continue
		}
		if it.Kind() != rustdoc.KindUse {
			out = append(out, ItemHandle{Crate: cd, Item: it, Nav: n})
			continue
		}

		if includeUseThemselves {
			out = append(out, ItemHandle{Crate: cd, Item: it, Nav: n})
		}
		if depth >= maxUseDepth {
			continue
		}
		key := itemKey(cd.Name, id)
		if visited[key] {
			continue
		}
		visited[key] = true

		useInfo, ok := it.ParseUse()
		if !ok {
			continue
		}
		target, err := n.resolveUseTarget(ctx, cd, useInfo)
		if err != nil || target == nil {
			continue
		}

		if useInfo.IsGlob {
			children, err := n.children(ctx, *target, includeUseThemselves, visited, depth+1)
			if err == nil {
				out = append(out, children...)
			}
		} else {
			out = append(out, target.WithDisplayName(useInfo.Name))
		}
	}
	return out, nil
}

// resolveUseTarget finds the item a `use` statement points to, loading
// the external crate if necessary (SPEC_FULL.md §4.4 "Cross-crate
// traversal").
func (n *Navigator) resolveUseTarget(ctx context.Context, cd *rustdoc.CrateData, useInfo *rustdoc.UseInner) (*ItemHandle, error) {
	if useInfo.ID == nil {
		if useInfo.Source != nil {
			h, _, err := n.resolvePathFrom(ctx, *useInfo.Source, nil)
			if err != nil {
				return nil, nil //nolint:nilerr // unresolved glob sources are silently skipped, not hard errors
			}
			return h, nil
		}
		return nil, nil
	}

	id := *useInfo.ID
	if it, ok := cd.Item(id); ok {
		return &ItemHandle{Crate: cd, Item: it, Nav: n}, nil
	}

	summary, ok := cd.Summary(id)
	if !ok || summary.CrateID == 0 {
		return nil, nil
	}
	extCD, err := n.CrossCrateLoad(ctx, cd, summary.CrateID)
	if err != nil {
		return nil, nil //nolint:nilerr // a missing external crate degrades the re-export to "not found", not a hard error
	}
	extID, ok := extCD.ResolveLocalPath(joinPath(summary.Path))
	if !ok {
		return nil, nil
	}
	it, ok := extCD.Item(extID)
	if !ok {
		return nil, nil
	}
	return &ItemHandle{Crate: extCD, Item: it, Nav: n}, nil
}

// methodsOf implements impl scanning (§4.5.1, MethodIterator +
// TraitIterator combined): the impl blocks listed in h's own `impls`
// field (rustdoc records these directly on the type, per
// docs/fragments.go's implsFragment) contribute their items, inherent
// impls first.
func (n *Navigator) methodsOf(h ItemHandle) []ItemHandle {
	implIDs, ok := h.Item.TypeImpls()
	if !ok {
		return nil
	}
	var inherent, traitImpls []ItemHandle
	for _, implID := range implIDs {
		it, ok := h.Crate.Item(implID)
		if !ok || it.Kind() != rustdoc.KindImpl {
			continue
		}
		info, ok := it.ImplInfo()
		if !ok {
			continue
		}
		for _, id := range info.Items {
			child, ok := h.Crate.Item(id)
			if !ok {
				continue
			}
			handle := ItemHandle{Crate: h.Crate, Item: child, Nav: n}
			if info.TraitName == "" {
				inherent = append(inherent, handle)
			} else {
				traitImpls = append(traitImpls, handle)
			}
		}
	}
	return append(inherent, traitImpls...)
}

// FindChild looks up a single named direct child, used by path
// resolution's segment walk (§4.4).
func (n *Navigator) FindChild(ctx context.Context, h ItemHandle, name string) (ItemHandle, bool, error) {
	children, err := n.Children(ctx, h, false)
	if err != nil {
		return ItemHandle{}, false, err
	}
	for _, c := range children {
		if c.Name() == name {
			return c, true, nil
		}
	}
	return ItemHandle{}, false, nil
}
