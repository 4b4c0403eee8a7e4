package rustdoc

import (
	"fmt"
	"strings"
)

// Fragment section names, matching docs.rs's own section anchors.
const (
	FragFields          = "fields"
	FragVariants        = "variants"
	FragImplementations = "implementations"
	FragRequiredMethods = "required-methods"
	FragProvidedMethods = "provided-methods"
)

// GenerateFragments builds the sub-document fragments for an item,
// grounded on the teacher's internal/docs/fragments.go. Supplements
// SPEC_FULL.md §12: a fragment is addressed the same way a plain
// id-path is, by appending "#name" to it.
func (cd *CrateData) GenerateFragments(it *Item) []Fragment {
	switch it.Kind() {
	case KindStruct:
		return cd.structFragments(it)
	case KindEnum:
		return cd.enumFragments(it)
	case KindTrait:
		return cd.traitFragments(it)
	default:
		return nil
	}
}

func (cd *CrateData) structFragments(it *Item) []Fragment {
	var frags []Fragment
	if fields, ok := it.StructFields(); ok && len(fields) > 0 {
		if f := cd.listFragment(FragFields, "Fields", fields); f != nil {
			frags = append(frags, *f)
		}
	}
	if f := cd.implsFragment(it); f != nil {
		frags = append(frags, *f)
	}
	return frags
}

func (cd *CrateData) enumFragments(it *Item) []Fragment {
	var frags []Fragment
	if variants, ok := it.EnumVariants(); ok && len(variants) > 0 {
		if f := cd.listFragment(FragVariants, "Variants", variants); f != nil {
			frags = append(frags, *f)
		}
	}
	if f := cd.implsFragment(it); f != nil {
		frags = append(frags, *f)
	}
	return frags
}

func (cd *CrateData) traitFragments(it *Item) []Fragment {
	var frags []Fragment
	items, ok := it.TraitItems()
	if !ok {
		return nil
	}
	var required, provided []ID
	for _, id := range items {
		child, ok := cd.Item(id)
		if !ok || child.Kind() != KindFunction {
			continue
		}
		if child.HasDefaultBody() {
			provided = append(provided, id)
		} else {
			required = append(required, id)
		}
	}
	if f := cd.listFragment(FragRequiredMethods, "Required Methods", required); f != nil {
		frags = append(frags, *f)
	}
	if f := cd.listFragment(FragProvidedMethods, "Provided Methods", provided); f != nil {
		frags = append(frags, *f)
	}
	return frags
}

// implsFragment generates the #implementations fragment for a
// Struct/Enum/Union: one "## impl Trait" (or "## impl" for inherent
// impls) group per impl block, each listing its methods, ported from
// the teacher's docs/fragments.go::implsFragment. URI synthesis is
// dropped since this repo addresses items via rustdoc:// Navigator
// paths (internal/mcp/server.go), not the teacher's docs-root URLs.
func (cd *CrateData) implsFragment(it *Item) *Fragment {
	implIDs, ok := it.TypeImpls()
	if !ok || len(implIDs) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Implementations\n\n")
	count := 0
	for _, implID := range implIDs {
		impl, ok := cd.Item(implID)
		if !ok || impl.Kind() != KindImpl {
			continue
		}
		info, ok := impl.ImplInfo()
		if !ok {
			continue
		}

		header := "impl"
		if info.TraitName != "" {
			header = "impl " + info.TraitName
		}

		wrote := false
		for _, methodID := range info.Items {
			method, ok := cd.Item(methodID)
			if !ok || method.Name == nil {
				continue
			}
			if !wrote {
				fmt.Fprintf(&b, "## %s\n\n", header)
				wrote = true
			}
			fmt.Fprintf(&b, "- **%s**", *method.Name)
			if method.Docs != nil && *method.Docs != "" {
				first := strings.SplitN(*method.Docs, "\n", 2)[0]
				b.WriteString(": " + first)
			}
			b.WriteString("\n")
		}
		if wrote {
			b.WriteString("\n")
			count++
		}
	}

	if count == 0 {
		return nil
	}
	return &Fragment{Name: FragImplementations, Content: b.String()}
}

func (cd *CrateData) listFragment(section, heading string, ids []ID) *Fragment {
	if len(ids) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	wrote := false
	for _, id := range ids {
		child, ok := cd.Item(id)
		if !ok {
			continue
		}
		name := "<unnamed>"
		if child.Name != nil {
			name = *child.Name
		}
		fmt.Fprintf(&b, "- **%s**", name)
		if child.Docs != nil && *child.Docs != "" {
			first := strings.SplitN(*child.Docs, "\n", 2)[0]
			b.WriteString(": " + first)
		}
		b.WriteString("\n")
		wrote = true
	}
	if !wrote {
		return nil
	}
	return &Fragment{Name: section, Content: b.String()}
}
