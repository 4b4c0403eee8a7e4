package navigator

import (
	"context"
	"strings"

	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/rustdocerr"
	"github.com/jcdickinson/rustnav/internal/semver"
)

// ResolvePath is resolve_path (SPEC_FULL.md §4.4): "crate[@constraint]
// [::segment]*" resolved by loading the named crate then walking its
// ChildIterator one segment at a time; "/" separators are accepted and
// normalized to "::" first. A bare identifier with no "::"
// is treated as a crate name naming its root item — this Navigator
// does not track a "current crate" context, so the single-ident
// relative-to-caller form described in
// original_source/ferretin-common/src/intra_doc_links.rs is not
// reproduced (documented Open Question resolution, see DESIGN.md).
func (n *Navigator) ResolvePath(ctx context.Context, raw string) (ItemHandle, error) {
	raw = strings.ReplaceAll(raw, "/", "::")
	h, cd, err := n.resolvePathFrom(ctx, raw, nil)
	if err != nil {
		return ItemHandle{}, err
	}
	if h != nil {
		return *h, nil
	}

	msg := "no item at path " + quote(raw)
	if cd != nil {
		if suggestions := n.Suggest(cd, lastSegment(raw), 5); len(suggestions) > 0 {
			msg += "; did you mean: " + strings.Join(suggestions, ", ") + "?"
		}
	}
	return ItemHandle{}, rustdocerr.Wrap(rustdocerr.NotFound, "%s", msg)
}

// resolvePathFrom walks raw from a crate root. It returns (handle, cd,
// nil) on success; (nil, cd, nil) when the crate resolved but the
// remaining segments didn't (cd is kept so callers can offer
// suggestions); (nil, nil, nil) when the crate itself couldn't be
// resolved; and a non-nil error only for hard failures (transport,
// corruption, malformed constraint).
func (n *Navigator) resolvePathFrom(ctx context.Context, raw string, constraintOverride *semver.Constraint) (*ItemHandle, *rustdoc.CrateData, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "::")
	if raw == "" {
		return nil, nil, rustdocerr.Wrap(rustdocerr.NotFound, "empty path")
	}

	segments := strings.Split(raw, "::")
	head := segments[0]
	rest := segments[1:]

	crateName := head
	constraint, err := semver.ParseConstraint("latest")
	if err != nil {
		return nil, nil, err
	}
	if idx := strings.IndexByte(head, '@'); idx >= 0 {
		crateName = head[:idx]
		constraint, err = semver.ParseConstraint(head[idx+1:])
		if err != nil {
			return nil, nil, err
		}
	}
	if constraintOverride != nil {
		constraint = *constraintOverride
	}

	cd, found, err := n.LoadCrate(ctx, crateName, constraint)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, nil
	}

	root, ok := cd.RootItem()
	if !ok {
		return nil, cd, nil
	}
	handle := ItemHandle{Crate: cd, Item: root, Nav: n}
	for _, seg := range rest {
		if seg == "" {
			continue
		}
		child, ok, err := n.FindChild(ctx, handle, seg)
		if err != nil {
			return nil, cd, err
		}
		if !ok {
			return nil, handle.Crate, nil
		}
		handle = child
	}
	return &handle, cd, nil
}

// GetItemByIDPath resolves a crate-relative item by its ItemSummary
// path segments directly, bypassing name-based child walking. It takes
// path names, not item ids: it looks the joined path up in cd's path
// index only, does not walk a sequence of item ids, and does not
// follow Use items or re-exports.
func (n *Navigator) GetItemByIDPath(cd *rustdoc.CrateData, segments []string) (ItemHandle, bool) {
	id, ok := cd.ResolveLocalPath(joinPath(segments))
	if !ok {
		return ItemHandle{}, false
	}
	it, ok := cd.Item(id)
	if !ok {
		return ItemHandle{}, false
	}
	return ItemHandle{Crate: cd, Item: it, Nav: n}, true
}

func lastSegment(raw string) string {
	parts := strings.Split(raw, "::")
	return parts[len(parts)-1]
}

func quote(s string) string {
	return "\"" + s + "\""
}
