// Package rustdoc holds the in-memory representation of a single parsed
// rustdoc JSON crate dump: the raw item graph, the path index built at
// load time, and the external-crate-id resolution table.
package rustdoc

import "encoding/json"

// ID identifies an item within one crate dump. Rustdoc ids are opaque
// strings (e.g. "0:1:234"); they are never comparable across crates.
type ID string

// Item is a single entry in a crate's index: a kind-discriminated body
// behind Inner, an optional declared name, optional doc prose, and a map
// of intra-doc links (rustdoc's pre-resolved display-text -> target id).
type Item struct {
	ID      ID              `json:"id"`
	CrateID int             `json:"crate_id"`
	Name    *string         `json:"name"`
	Docs    *string         `json:"docs"`
	Links   map[string]ID   `json:"links"`
	Inner   json.RawMessage `json:"inner"`
}

// ItemSummary is the per-id metadata stored in a crate's Paths table:
// fully qualified path segments, the kind tag, and the id of the crate
// that actually defines the item (0 for the current crate).
type ItemSummary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// ExternalCrate identifies a dependency by local crate-id: its Cargo
// name and an optional docs-root URL, from which a precise (name,
// version) pair can usually be recovered.
type ExternalCrate struct {
	Name        string `json:"name"`
	HTMLRootURL string `json:"html_root_url"`
}

// Crate is the raw decoded form of one rustdoc JSON dump, current
// schema version.
type Crate struct {
	Root           ID                       `json:"root"`
	CrateVersion   *string                  `json:"crate_version"`
	Index          map[ID]Item              `json:"index"`
	Paths          map[ID]ItemSummary       `json:"paths"`
	ExternalCrates map[string]ExternalCrate `json:"external_crates"`
	FormatVersion  int                      `json:"format_version"`
}

// ItemKind is the normalized kind tag used by Navigator and SearchIndex,
// derived from an Item's Inner discriminant the way
// doc_ref.rs::DocRef<Item>::kind() derives ItemKind from ItemEnum.
type ItemKind string

const (
	KindModule        ItemKind = "module"
	KindExternCrate   ItemKind = "extern_crate"
	KindUse           ItemKind = "use"
	KindUnion         ItemKind = "union"
	KindStruct        ItemKind = "struct"
	KindStructField   ItemKind = "struct_field"
	KindEnum          ItemKind = "enum"
	KindVariant       ItemKind = "variant"
	KindFunction      ItemKind = "function"
	KindTrait         ItemKind = "trait"
	KindTraitAlias    ItemKind = "trait_alias"
	KindImpl          ItemKind = "impl"
	KindTypeAlias     ItemKind = "type_alias"
	KindConstant      ItemKind = "constant"
	KindStatic        ItemKind = "static"
	KindExternType    ItemKind = "extern_type"
	KindMacro         ItemKind = "macro"
	KindProcAttribute ItemKind = "proc_attribute"
	KindProcDerive    ItemKind = "proc_derive"
	KindPrimitive     ItemKind = "primitive"
	KindAssocConst    ItemKind = "assoc_const"
	KindAssocType     ItemKind = "assoc_type"
	KindUnknown       ItemKind = "unknown"
)

// Kind reads the single discriminant key out of Inner, mirroring
// docs/parse.go's innerKind helper.
func (it *Item) Kind() ItemKind {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(it.Inner, &m); err != nil || len(m) == 0 {
		return KindUnknown
	}
	for k := range m {
		return normalizeKindTag(k, it.Inner)
	}
	return KindUnknown
}

func normalizeKindTag(tag string, inner json.RawMessage) ItemKind {
	switch tag {
	case "module":
		return KindModule
	case "extern_crate":
		return KindExternCrate
	case "use":
		return KindUse
	case "union":
		return KindUnion
	case "struct":
		return KindStruct
	case "struct_field":
		return KindStructField
	case "enum":
		return KindEnum
	case "variant":
		return KindVariant
	case "function":
		return KindFunction
	case "trait":
		return KindTrait
	case "trait_alias":
		return KindTraitAlias
	case "impl":
		return KindImpl
	case "type_alias":
		return KindTypeAlias
	case "constant":
		return KindConstant
	case "static":
		return KindStatic
	case "extern_type":
		return KindExternType
	case "macro":
		return KindMacro
	case "primitive":
		return KindPrimitive
	case "assoc_const":
		return KindAssocConst
	case "assoc_type":
		return KindAssocType
	case "proc_macro":
		var pm struct {
			ProcMacro struct {
				Kind string `json:"kind"`
			} `json:"proc_macro"`
		}
		if err := json.Unmarshal(inner, &pm); err == nil {
			switch pm.ProcMacro.Kind {
			case "attr":
				return KindProcAttribute
			case "derive":
				return KindProcDerive
			}
		}
		return KindMacro
	default:
		return KindUnknown
	}
}

// Fragment is a named sub-document generated for a struct/enum/trait,
// matching docs.rs section anchors (#fields, #variants, ...). See
// §12 of SPEC_FULL.md.
type Fragment struct {
	Name    string
	Content string
}
