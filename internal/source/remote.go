package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/jcdickinson/rustnav/internal/cache"
	"github.com/jcdickinson/rustnav/internal/cratename"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/rustdocerr"
	"github.com/jcdickinson/rustnav/internal/semver"
	"github.com/klauspost/compress/zstd"
)

// RemoteSource fetches rustdoc JSON from a docs.rs-shaped host, caching
// results on disk. Grounded on original_source/docsrs_client.rs (cache-
// first lookup across descending schema versions, crates.io-based
// "latest" resolution, ~major fallback) and the teacher's
// internal/docs/fetch.go (zstd-compressed HTTP fetch).
type RemoteSource struct {
	HTTPClient   *http.Client
	Cache        *cache.DiskCache
	RegistryBase string // default: https://crates.io/api/v1/crates
	DocsBase     string // default: https://docs.rs/crate
	UserAgent    string
}

// NewRemoteSource builds a RemoteSource with the teacher's production
// endpoints and a 60s client timeout (matching internal/docs/fetch.go).
func NewRemoteSource(c *cache.DiskCache) *RemoteSource {
	return &RemoteSource{
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
		Cache:        c,
		RegistryBase: "https://crates.io/api/v1/crates",
		DocsBase:     "https://docs.rs/crate",
		UserAgent:    "rustnav/0.1.0",
	}
}

func (r *RemoteSource) Canonicalize(raw string) cratename.Name {
	return cratename.Canonicalize(raw, "")
}

type crateMetadataResponse struct {
	Crate struct {
		NewestVersion string `json:"newest_version"`
	} `json:"crate"`
	Versions []struct {
		Num  string `json:"num"`
		Yanked bool `json:"yanked"`
	} `json:"versions"`
}

func (r *RemoteSource) Lookup(ctx context.Context, name cratename.Name, constraint semver.Constraint) (CrateInfo, bool, error) {
	if cratename.IsInternal(name) {
		return CrateInfo{}, false, nil
	}
	meta, err := r.fetchMetadata(ctx, string(name))
	if err != nil {
		return CrateInfo{}, false, err
	}
	if meta == nil {
		return CrateInfo{}, false, nil // 404: crate unknown to the registry
	}

	if constraint.IsLatest() {
		v, err := semver.Parse(meta.Crate.NewestVersion)
		if err != nil {
			return CrateInfo{}, false, rustdocerr.Wrap(rustdocerr.NotFound, "bad newest_version for %s: %v", name, err)
		}
		return CrateInfo{Name: name, Version: v, Provenance: ProvenanceRemote}, true, nil
	}

	var versions []semver.Version
	for _, v := range meta.Versions {
		if v.Yanked {
			continue
		}
		parsed, err := semver.Parse(v.Num)
		if err != nil {
			continue
		}
		versions = append(versions, parsed)
	}
	best, ok := semver.Max(versions, constraint)
	if !ok {
		return CrateInfo{}, false, nil
	}
	return CrateInfo{Name: name, Version: best, Provenance: ProvenanceRemote}, true, nil
}

func (r *RemoteSource) fetchMetadata(ctx context.Context, name string) (*crateMetadataResponse, error) {
	url := fmt.Sprintf("%s/%s", r.RegistryBase, name)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.IO, "building registry request: %v", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "registry lookup for %s: %v", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "registry returned %d for %s: %s", resp.StatusCode, name, body)
	}

	var meta crateMetadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "decoding registry response for %s: %v", name, err)
	}
	return &meta, nil
}

// Load fetches (cache-first) the rustdoc JSON for info, trying each
// supported schema version in descending order before falling back to
// the newest registry version matching a loosened ~major constraint,
// grounded on
// original_source/docsrs_client.rs::get_crate.
func (r *RemoteSource) Load(ctx context.Context, info CrateInfo) (*rustdoc.CrateData, error) {
	name, version := string(info.Name), info.Version.String()

	for sv := rustdoc.CurrentFormatVersion; sv >= rustdoc.MinFormatVersion; sv-- {
		if data, ok := r.Cache.GetJSON(sv, name, version); ok {
			crate, err := rustdoc.Normalize(data)
			if err == nil {
				return rustdoc.New(name, version, crate), nil
			}
			// Corruption at this schema version: keep trying older ones
			// cached alongside it before falling through to network.
		}
	}

	data, sv, err := r.fetchAnySchemaVersion(ctx, name, version)
	if err != nil {
		// One retry with a loosened ~major constraint, per
		// docsrs_client.rs's fallback-to-semver-range behavior.
		loosened, cerr := semver.ParseConstraint(fmt.Sprintf("~%d", info.Version.Major))
		if cerr == nil {
			if alt, ok, lerr := r.Lookup(ctx, info.Name, loosened); lerr == nil && ok && alt.Version != info.Version {
				data, sv, err = r.fetchAnySchemaVersion(ctx, name, alt.Version.String())
				if err == nil {
					version = alt.Version.String()
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := r.Cache.PutJSON(sv, name, version, data); err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.IO, "caching fetched JSON for %s %s: %v", name, version, err)
	}

	crate, err := rustdoc.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("normalizing remote crate %s %s: %w", name, version, err)
	}
	return rustdoc.New(name, version, crate), nil
}

func (r *RemoteSource) fetchAnySchemaVersion(ctx context.Context, name, version string) (data []byte, schemaVersion int, err error) {
	var lastErr error
	for sv := rustdoc.CurrentFormatVersion; sv >= rustdoc.MinFormatVersion; sv-- {
		data, err := r.fetchOne(ctx, name, version, sv)
		if err == nil {
			return data, sv, nil
		}
		lastErr = err
	}
	return nil, 0, lastErr
}

func (r *RemoteSource) fetchOne(ctx context.Context, name, version string, schemaVersion int) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/json/%d", r.DocsBase, name, version, schemaVersion)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.IO, "building fetch request: %v", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, rustdocerr.Wrap(rustdocerr.NotFound, "no schema version %d for %s %s", schemaVersion, name, version)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "docs host returned %d for %s %s: %s", resp.StatusCode, name, version, body)
	}

	decoder, err := zstd.NewReader(resp.Body)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Corruption, "creating zstd decoder: %v", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Corruption, "decompressing rustdoc JSON: %v", err)
	}
	return data, nil
}

// ListKnown always returns empty: docs.rs has unbounded crates
// (original_source/navigator.rs's list_available_crates comment).
func (r *RemoteSource) ListKnown(ctx context.Context) ([]CrateInfo, error) {
	return nil, nil
}

// RegistryResult is one crates.io match from SearchRegistry.
type RegistryResult struct {
	Name        string
	Description string
	MaxVersion  string
	Downloads   int
}

type registrySearchResponse struct {
	Crates []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		MaxVersion  string `json:"max_version"`
		Downloads   int    `json:"downloads"`
	} `json:"crates"`
}

// SearchRegistry searches the crates registry by name/description, a
// "which crate should I even load" helper distinct from the in-crate
// search (which searches inside named crates, loading them as needed),
// grounded on
// the teacher's internal/docs/search.go (SearchCratesIO).
func (r *RemoteSource) SearchRegistry(ctx context.Context, query string, limit int) ([]RegistryResult, error) {
	if limit <= 0 {
		limit = 20
	}

	url := fmt.Sprintf("%s?q=%s&per_page=%d", r.RegistryBase, neturl.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.IO, "building registry search request: %v", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "searching registry: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "registry search returned %d: %s", resp.StatusCode, body)
	}

	var payload registrySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Transport, "decoding registry search response: %v", err)
	}

	results := make([]RegistryResult, len(payload.Crates))
	for i, c := range payload.Crates {
		results[i] = RegistryResult{
			Name:        c.Name,
			Description: c.Description,
			MaxVersion:  c.MaxVersion,
			Downloads:   c.Downloads,
		}
	}
	return results, nil
}
