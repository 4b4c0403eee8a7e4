package navigator

import (
	"context"
	"strings"
)

// LinkKind discriminates the outcome of ResolveLink, mirroring
// original_source/ferretin-common/src/intra_doc_links.rs's
// ResolvedLink enum.
type LinkKind int

const (
	LinkItem LinkKind = iota
	LinkFragment
	LinkExternal
	LinkUnresolved
)

// ResolvedLink is the result of resolving a single intra-doc link
// string (SPEC_FULL.md §4.4 "resolve_link").
type ResolvedLink struct {
	Kind     LinkKind
	Item     *ItemHandle
	Fragment string
	URL      string
}

// Disambiguator is rustdoc's `kind@path` link prefix
// (https://doc.rust-lang.org/rustdoc/write-documentation/linking-to-items-by-name.html).
// It is parsed and stripped but, matching intra_doc_links.rs's
// resolve_path (which accepts but ignores it, `_disambiguator`),
// does not otherwise influence resolution: rustdoc's own pre-resolved
// links map already disambiguates at compile time.
type Disambiguator string

const (
	DisambiguatorType     Disambiguator = "type"
	DisambiguatorFunction Disambiguator = "function"
	DisambiguatorStruct   Disambiguator = "struct"
	DisambiguatorEnum     Disambiguator = "enum"
	DisambiguatorTrait    Disambiguator = "trait"
	DisambiguatorModule   Disambiguator = "module"
	DisambiguatorConstant Disambiguator = "constant"
	DisambiguatorStatic   Disambiguator = "static"
	DisambiguatorMacro    Disambiguator = "macro"
	DisambiguatorUnion    Disambiguator = "union"
	DisambiguatorPrimitive Disambiguator = "primitive"
	DisambiguatorMethod   Disambiguator = "method"
	DisambiguatorField    Disambiguator = "field"
	DisambiguatorVariant  Disambiguator = "variant"
)

var disambiguatorPrefixes = map[string]Disambiguator{
	"type":     DisambiguatorType,
	"fn":       DisambiguatorFunction,
	"function": DisambiguatorFunction,
	"struct":   DisambiguatorStruct,
	"enum":     DisambiguatorEnum,
	"trait":    DisambiguatorTrait,
	"mod":      DisambiguatorModule,
	"module":   DisambiguatorModule,
	"const":    DisambiguatorConstant,
	"constant": DisambiguatorConstant,
	"static":   DisambiguatorStatic,
	"macro":    DisambiguatorMacro,
	"union":    DisambiguatorUnion,
	"primitive": DisambiguatorPrimitive,
	"method":   DisambiguatorMethod,
	"field":    DisambiguatorField,
	"variant":  DisambiguatorVariant,
}

// ParseDisambiguator parses a link's "kind@" prefix.
func ParseDisambiguator(s string) (Disambiguator, bool) {
	d, ok := disambiguatorPrefixes[s]
	return d, ok
}

// ResolveLink resolves a single intra-doc link found in origin's docs,
// grounded on intra_doc_links.rs::resolve_link. Fragment-only links
// (`#heading`) and absolute URLs pass through untouched; everything
// else is looked up first in origin's rustdoc-pre-resolved links
// table, then via direct path qualification as a fallback.
func (n *Navigator) ResolveLink(ctx context.Context, origin ItemHandle, link string) ResolvedLink {
	if strings.HasPrefix(link, "#") {
		return ResolvedLink{Kind: LinkFragment, Fragment: link}
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return ResolvedLink{Kind: LinkExternal, URL: link}
	}

	path := link
	if idx := strings.IndexByte(link, '#'); idx >= 0 {
		path = link[:idx]
	}
	if idx := strings.IndexByte(path, '@'); idx >= 0 {
		if _, ok := ParseDisambiguator(path[:idx]); ok {
			path = path[idx+1:]
		}
	}

	item, ok := n.resolveLinkPath(ctx, origin, path)
	if !ok {
		return ResolvedLink{Kind: LinkUnresolved}
	}
	return ResolvedLink{Kind: LinkItem, Item: &item}
}

func (n *Navigator) resolveLinkPath(ctx context.Context, origin ItemHandle, path string) (ItemHandle, bool) {
	// Rustdoc stores pre-resolved links with backticks around the text,
	// e.g. links["`Vec`"] = id; try both forms.
	for _, key := range []string{"`" + path + "`", path} {
		id, ok := origin.Item.Links[key]
		if !ok {
			continue
		}
		if it, ok := origin.Crate.Item(id); ok {
			return ItemHandle{Crate: origin.Crate, Item: it, Nav: n}, true
		}
		if summary, ok := origin.Crate.Summary(id); ok {
			if h, _, err := n.resolvePathFrom(ctx, joinPath(summary.Path), nil); err == nil && h != nil {
				return *h, true
			}
		}
	}

	var qualified string
	switch {
	case strings.HasPrefix(path, "crate::"):
		qualified = origin.Crate.Name + "::" + strings.TrimPrefix(path, "crate::")
	case strings.HasPrefix(path, "self::"):
		// Should be relative to origin's enclosing module, but Navigator
		// doesn't track module context on ItemHandle; qualifying against
		// the crate root is the same simplification intra_doc_links.rs
		// itself falls back to (see its "self::" comment).
		qualified = origin.Crate.Name + "::" + strings.TrimPrefix(path, "self::")
	case strings.Contains(path, "::"):
		qualified = path
	default:
		qualified = origin.Crate.Name + "::" + path
	}

	h, _, err := n.resolvePathFrom(ctx, qualified, nil)
	if err != nil || h == nil {
		return ItemHandle{}, false
	}
	return *h, true
}
