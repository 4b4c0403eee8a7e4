package rustdoc

import "encoding/json"

// ModuleChildren returns the child item ids of a Module item, in
// declaration order.
func (it *Item) ModuleChildren() ([]ID, bool) {
	if it.Kind() != KindModule {
		return nil, false
	}
	var wrapper struct {
		Module struct {
			Items []ID `json:"items"`
		} `json:"module"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	return wrapper.Module.Items, true
}

// EnumVariants returns the variant ids of an Enum item.
func (it *Item) EnumVariants() ([]ID, bool) {
	if it.Kind() != KindEnum {
		return nil, false
	}
	var wrapper struct {
		Enum struct {
			Variants []ID `json:"variants"`
		} `json:"enum"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	return wrapper.Enum.Variants, true
}

// StructFields returns the named-field ids of a Struct item whose kind
// is the "plain" struct variant (tuple and unit structs have no named
// fields worth listing, matching docs/fragments.go's fieldsFragment).
func (it *Item) StructFields() ([]ID, bool) {
	if it.Kind() != KindStruct {
		return nil, false
	}
	var wrapper struct {
		Struct struct {
			Kind map[string]json.RawMessage `json:"kind"`
		} `json:"struct"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	plainData, ok := wrapper.Struct.Kind["plain"]
	if !ok {
		return nil, false
	}
	var plain struct {
		Fields []ID `json:"fields"`
	}
	if err := json.Unmarshal(plainData, &plain); err != nil {
		return nil, false
	}
	return plain.Fields, true
}

// TraitItems returns the associated-item ids of a Trait item.
func (it *Item) TraitItems() ([]ID, bool) {
	if it.Kind() != KindTrait {
		return nil, false
	}
	var wrapper struct {
		Trait struct {
			Items []ID `json:"items"`
		} `json:"trait"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	return wrapper.Trait.Items, true
}

// ImplInfo is the subset of an Impl item's Inner needed for impl
// scanning (§4.5.1): the resolved target type's own id and display
// name, the trait side's id/name (if any), and the impl's associated
// item ids.
type ImplInfo struct {
	ForID     ID
	ForName   string
	TraitID   ID
	TraitName string // empty if this is an inherent impl
	Items     []ID
}

// ImplInfo extracts impl metadata, or ok=false if this item isn't an
// Impl or its `for` side isn't a simple resolved path (e.g. blanket
// impls over a generic, which impl scanning skips). The rustdoc JSON
// shape is `{"impl":{"for":{"resolved_path":{"name":...,"id":...}},
// "trait":{"name":...,"id":...},"items":[...]}}` — note the resolved
// path's own field is `name`, not `path` (docs/fragments.go:218,
// docs/fragments_types.go:64).
func (it *Item) ImplInfo() (*ImplInfo, bool) {
	if it.Kind() != KindImpl {
		return nil, false
	}
	var wrapper struct {
		Impl struct {
			For struct {
				ResolvedPath *struct {
					Name string `json:"name"`
					ID   ID     `json:"id"`
				} `json:"resolved_path"`
			} `json:"for"`
			Trait *struct {
				Name string `json:"name"`
				ID   ID     `json:"id"`
			} `json:"trait"`
			Items []ID `json:"items"`
		} `json:"impl"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	if wrapper.Impl.For.ResolvedPath == nil {
		return nil, false
	}
	info := &ImplInfo{
		ForID:   wrapper.Impl.For.ResolvedPath.ID,
		ForName: wrapper.Impl.For.ResolvedPath.Name,
		Items:   wrapper.Impl.Items,
	}
	if wrapper.Impl.Trait != nil {
		info.TraitID = wrapper.Impl.Trait.ID
		info.TraitName = wrapper.Impl.Trait.Name
	}
	return info, true
}

// TypeImpls returns the impl-block ids attached directly to a
// Struct/Enum/Union's own inner data (rustdoc's `impls: [Id]` field),
// the same list the teacher's docs/fragments.go::implsFragment reads
// to avoid a full-crate impl scan.
func (it *Item) TypeImpls() ([]ID, bool) {
	var tag string
	switch it.Kind() {
	case KindStruct:
		tag = "struct"
	case KindEnum:
		tag = "enum"
	case KindUnion:
		tag = "union"
	default:
		return nil, false
	}
	var wrapper map[string]struct {
		Impls []ID `json:"impls"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return nil, false
	}
	body, ok := wrapper[tag]
	if !ok {
		return nil, false
	}
	return body.Impls, true
}

// HasDefaultBody reports whether a trait-item Function has a body
// (provided method) rather than just a signature (required method).
func (it *Item) HasDefaultBody() bool {
	if it.Kind() != KindFunction {
		return false
	}
	var wrapper struct {
		Function struct {
			HasBody bool `json:"has_body"`
		} `json:"function"`
	}
	if err := json.Unmarshal(it.Inner, &wrapper); err != nil {
		return false
	}
	return wrapper.Function.HasBody
}
