package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jcdickinson/rustnav/internal/cache"
	"github.com/jcdickinson/rustnav/internal/navigator"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
	"github.com/jcdickinson/rustnav/internal/rustdocerr"
)

// indexSchemaVersion guards the on-disk persisted shape, independent
// of the rustdoc JSON format version.
const indexSchemaVersion = 1

type persistedDocument struct {
	IDPath    []rustdoc.ID `json:"id_path"`
	Length    int          `json:"length"`
	Authority int          `json:"authority"`
}

type persistedPosting struct {
	Doc   int `json:"doc"`
	Count int `json:"count"`
}

type persistedIndex struct {
	SchemaVersion  int                           `json:"schema_version"`
	SourceModTime  int64                         `json:"source_mod_time"`
	Terms          map[string][]persistedPosting `json:"terms"`
	Documents      []persistedDocument           `json:"documents"`
	TotalDocLength int                           `json:"total_doc_length"`
}

func (idx *SearchIndex) marshal() ([]byte, error) {
	p := persistedIndex{
		SchemaVersion:  indexSchemaVersion,
		SourceModTime:  idx.SourceModTime,
		Terms:          make(map[string][]persistedPosting, len(idx.terms)),
		TotalDocLength: idx.totalDocLength,
	}
	for term, postings := range idx.terms {
		pp := make([]persistedPosting, len(postings))
		for i, post := range postings {
			pp[i] = persistedPosting{Doc: post.doc, Count: post.count}
		}
		p.Terms[term] = pp
	}
	for _, d := range idx.documents {
		p.Documents = append(p.Documents, persistedDocument{IDPath: d.idPath, Length: d.length, Authority: d.authority})
	}
	return json.Marshal(p)
}

func unmarshalIndex(data []byte, crateName, crateVersion string) (*SearchIndex, error) {
	var p persistedIndex
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.SchemaVersion != indexSchemaVersion {
		return nil, fmt.Errorf("unsupported search index schema version %d", p.SchemaVersion)
	}

	idx := &SearchIndex{
		CrateName:      crateName,
		CrateVersion:   crateVersion,
		SourceModTime:  p.SourceModTime,
		terms:          make(map[string][]posting, len(p.Terms)),
		totalDocLength: p.TotalDocLength,
	}
	for term, postings := range p.Terms {
		ps := make([]posting, len(postings))
		for i, post := range postings {
			ps[i] = posting{doc: post.Doc, count: post.Count}
		}
		idx.terms[term] = ps
	}
	for _, d := range p.Documents {
		idx.documents = append(idx.documents, document{idPath: d.IDPath, length: d.Length, authority: d.Authority})
	}
	return idx, nil
}

// LoadOrBuild is load_or_build (SPEC_FULL.md §4.6): reuse a cached
// index whose recorded source timestamp still matches the crate
// JSON's on-disk mtime; otherwise build fresh and persist atomically.
// A stale or corrupt cached index is invalidated rather than left to
// shadow a future rebuild, matching indexer.rs's SearchIndex::load.
func LoadOrBuild(ctx context.Context, nav *navigator.Navigator, c *cache.DiskCache, cd *rustdoc.CrateData) (*SearchIndex, error) {
	mtime, haveMtime := c.SourceModTime(rustdoc.CurrentFormatVersion, cd.Name, cd.Version)

	if haveMtime {
		if data, ok := c.GetIndex(rustdoc.CurrentFormatVersion, cd.Name, cd.Version); ok {
			if idx, err := unmarshalIndex(data, cd.Name, cd.Version); err == nil && idx.SourceModTime == mtime {
				return idx, nil
			}
			c.InvalidateIndex(rustdoc.CurrentFormatVersion, cd.Name, cd.Version)
		}
	}

	idx, err := Build(ctx, nav, cd)
	if err != nil {
		return nil, rustdocerr.Wrap(rustdocerr.Build, "building search index for %s: %v", cd.Name, err)
	}
	idx.SourceModTime = mtime

	if data, err := idx.marshal(); err == nil {
		_ = c.PutIndex(rustdoc.CurrentFormatVersion, cd.Name, cd.Version, data)
	}
	return idx, nil
}
