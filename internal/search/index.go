package search

import (
	"context"

	"github.com/jcdickinson/rustnav/internal/navigator"
	"github.com/jcdickinson/rustnav/internal/rustdoc"
)

// nameWeight is the terminal-name term-frequency multiplier
// (SPEC_FULL.md §4.6: "the item's terminal name (weighted 2x)").
const nameWeight = 2

// document is one indexed item: its id-path from the crate root (its
// last element identifies the item; see ScoredResult.Path) plus its
// token length and inbound link count.
type document struct {
	idPath    []rustdoc.ID
	length    int
	authority int
}

// posting is one (document, term-frequency) pair in a term's postings
// list.
type posting struct {
	doc   int
	count int
}

// SearchIndex is a single crate's BM25 corpus: per-term postings lists
// plus per-document length/authority, built by traversing the crate
// with Navigator.Children in include-use-themselves mode (SPEC_FULL.md
// §4.6 "Corpus construction").
type SearchIndex struct {
	CrateName      string
	CrateVersion   string
	SourceModTime  int64
	terms          map[string][]posting
	documents      []document
	totalDocLength int
}

// Build constructs a fresh index for cd by recursively walking its
// ChildIterator from the crate root, grounded on
// search/indexer.rs::Terms::recurse (here delegated to Navigator's
// generic Children rather than indexer.rs's hand-rolled kind-specific
// recursion, per SPEC_FULL.md §4.5's ChildIterator abstraction).
func Build(ctx context.Context, nav *navigator.Navigator, cd *rustdoc.CrateData) (*SearchIndex, error) {
	root, ok := cd.RootItem()
	if !ok {
		return &SearchIndex{CrateName: cd.Name, CrateVersion: cd.Version, terms: map[string][]posting{}}, nil
	}

	b := &builder{
		nav:         nav,
		visited:     make(map[rustdoc.ID]bool),
		linkCounts:  make(map[rustdoc.ID]int),
		termCounts:  make(map[string]map[rustdoc.ID]int),
	}
	rootHandle := navigator.ItemHandle{Crate: cd, Item: root, Nav: nav}
	if err := b.recurse(ctx, rootHandle, nil); err != nil {
		return nil, err
	}

	idx := &SearchIndex{
		CrateName:    cd.Name,
		CrateVersion: cd.Version,
		terms:        make(map[string][]posting),
	}
	for _, d := range b.docs {
		d.authority = b.linkCounts[d.idPath[len(d.idPath)-1]]
		idx.documents = append(idx.documents, d)
		idx.totalDocLength += d.length
	}
	for term, byDoc := range b.termCounts {
		postings := make([]posting, 0, len(byDoc))
		for docID, count := range byDoc {
			postings = append(postings, posting{doc: b.docIndex[docID], count: count})
		}
		idx.terms[term] = postings
	}
	return idx, nil
}

type builder struct {
	nav        *navigator.Navigator
	visited    map[rustdoc.ID]bool
	linkCounts map[rustdoc.ID]int
	termCounts map[string]map[rustdoc.ID]int // term -> item id -> weighted count
	docs       []document
	docIndex   map[rustdoc.ID]int
}

func (b *builder) recurse(ctx context.Context, h navigator.ItemHandle, idPath []rustdoc.ID) error {
	if b.visited[h.Item.ID] {
		return nil
	}
	b.visited[h.Item.ID] = true

	fullPath := make([]rustdoc.ID, len(idPath)+1)
	copy(fullPath, idPath)
	fullPath[len(idPath)] = h.Item.ID

	if b.docIndex == nil {
		b.docIndex = make(map[rustdoc.ID]int)
	}
	b.docIndex[h.Item.ID] = len(b.docs)

	length := b.addTerms(h.Item.ID, h.Name(), nameWeight)
	if h.Item.Docs != nil {
		length += b.addTerms(h.Item.ID, stripFencedCode(*h.Item.Docs), 1)
	}
	b.docs = append(b.docs, document{idPath: fullPath, length: length})

	for _, targetID := range h.Item.Links {
		b.linkCounts[targetID]++
	}

	children, err := b.nav.Children(ctx, h, true)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := b.recurse(ctx, c, fullPath); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addTerms(id rustdoc.ID, text string, weight int) int {
	tokens := Tokenize(text)
	counts := make(map[string]int)
	for _, t := range tokens {
		counts[t]++
	}
	for term, count := range counts {
		if b.termCounts[term] == nil {
			b.termCounts[term] = make(map[rustdoc.ID]int)
		}
		b.termCounts[term][id] += count * weight
	}
	return len(tokens)
}

func (idx *SearchIndex) Len() int     { return len(idx.documents) }
func (idx *SearchIndex) IsEmpty() bool { return len(idx.documents) == 0 }

// ResultMatch is one crate-local match: which document, how long it
// is, which query terms it contains and at what weighted frequency,
// and its inbound-link authority count.
type ResultMatch struct {
	IDPath     []rustdoc.ID
	DocLength  int
	TermCounts map[string]int
	Authority  int
}

// QueryResults is everything a single crate's index contributes toward
// a multi-crate BM25 merge: its own corpus statistics plus the
// matching documents (SPEC_FULL.md §4.6 "Multi-crate search").
type QueryResults struct {
	TotalDocs      int
	TotalDocLength int
	TermDocFreqs   map[string]int
	Results        []ResultMatch
}

// Query runs a tokenized search against this index, returning the raw
// ingredients score.go's global BM25 merge needs (document frequencies
// aren't resolved to a final score here, since IDF must be computed
// across every crate being searched together).
func (idx *SearchIndex) Query(query string) QueryResults {
	tokens := Tokenize(query)
	seen := make(map[string]bool)
	var uniqueTerms []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			uniqueTerms = append(uniqueTerms, t)
		}
	}

	termDocFreqs := make(map[string]int)
	docTermCounts := make(map[int]map[string]int)
	for _, term := range uniqueTerms {
		postings, ok := idx.terms[term]
		if !ok {
			continue
		}
		termDocFreqs[term] = len(postings)
		for _, p := range postings {
			if docTermCounts[p.doc] == nil {
				docTermCounts[p.doc] = make(map[string]int)
			}
			docTermCounts[p.doc][term] = p.count
		}
	}

	results := make([]ResultMatch, 0, len(docTermCounts))
	for docID, counts := range docTermCounts {
		d := idx.documents[docID]
		results = append(results, ResultMatch{
			IDPath:     d.idPath,
			DocLength:  d.length,
			TermCounts: counts,
			Authority:  d.authority,
		})
	}

	return QueryResults{
		TotalDocs:      len(idx.documents),
		TotalDocLength: idx.totalDocLength,
		TermDocFreqs:   termDocFreqs,
		Results:        results,
	}
}
