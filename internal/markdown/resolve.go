package markdown

import (
	"context"
	"fmt"

	"github.com/jcdickinson/rustnav/internal/navigator"
)

// RenderDocs resolves every intra-doc link in an item's raw docs
// string against Navigator and rewrites link destinations to a
// "crate::path::to::item" URI, leaving fragment anchors, external
// URLs, and unresolved links untouched. This is the thin front-end
// demonstration named in SPEC_FULL.md §1/§6 — translating markdown
// prose into a richer IR is explicitly out of scope, so this only
// rewrites link destinations, it doesn't reinterpret the markdown
// itself. If origin has fragments (§12), their rustdoc:// URIs are
// listed in a front-matter block ahead of the rewritten prose.
func RenderDocs(ctx context.Context, nav *navigator.Navigator, origin navigator.ItemHandle, docs string) string {
	linkMap := make(map[string]string)
	for dest := range collectLinkDestinations(docs) {
		resolved := nav.ResolveLink(ctx, origin, dest)
		switch resolved.Kind {
		case navigator.LinkItem:
			if path, ok := resolved.Item.Path(); ok {
				linkMap[dest] = fmt.Sprintf("%s::%s", resolved.Item.Crate.Name, path)
			}
		case navigator.LinkExternal, navigator.LinkFragment, navigator.LinkUnresolved:
			// left as-is: external URLs and fragments need no rewriting,
			// and an unresolved link is better left pointing at its
			// original (possibly still-meaningful) text than silently
			// replaced with nothing.
		}
	}
	rewritten := RewriteLinks(docs, linkMap)

	fragments := origin.Fragments()
	if len(fragments) == 0 {
		return rewritten
	}
	itemPath, _ := origin.Path()
	fragmentURIs := make(map[string]string, len(fragments))
	for _, frag := range fragments {
		fragmentURIs[frag.Name] = fmt.Sprintf("rustdoc://%s/%s#%s", origin.Crate.Name, itemPath, frag.Name)
	}
	return AddFrontMatter(rewritten, fragmentURIs)
}
