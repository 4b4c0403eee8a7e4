package search

import (
	"testing"

	"github.com/jcdickinson/rustnav/internal/rustdoc"
)

func TestScore_RanksHigherTermFrequencyAbove(t *testing.T) {
	byCrate := map[string]QueryResults{
		"demo": {
			TotalDocs:      2,
			TotalDocLength: 20,
			TermDocFreqs:   map[string]int{"serialize": 2},
			Results: []ResultMatch{
				{IDPath: []rustdoc.ID{"1"}, DocLength: 10, TermCounts: map[string]int{"serialize": 5}, Authority: 0},
				{IDPath: []rustdoc.ID{"2"}, DocLength: 10, TermCounts: map[string]int{"serialize": 1}, Authority: 0},
			},
		},
	}
	got := Score(byCrate, DefaultBM25Params)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].IDPath[0] != "1" {
		t.Errorf("expected doc 1 (higher term frequency) to rank first, got %v", got[0].IDPath)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("expected doc 1's score (%v) > doc 2's (%v)", got[0].Score, got[1].Score)
	}
}

func TestScore_AuthorityBoostsRank(t *testing.T) {
	byCrate := map[string]QueryResults{
		"demo": {
			TotalDocs:      2,
			TotalDocLength: 20,
			TermDocFreqs:   map[string]int{"serialize": 2},
			Results: []ResultMatch{
				{IDPath: []rustdoc.ID{"1"}, DocLength: 10, TermCounts: map[string]int{"serialize": 3}, Authority: 0},
				{IDPath: []rustdoc.ID{"2"}, DocLength: 10, TermCounts: map[string]int{"serialize": 3}, Authority: 50},
			},
		},
	}
	got := Score(byCrate, DefaultBM25Params)
	if got[0].IDPath[0] != "2" {
		t.Errorf("expected the higher-authority doc to rank first, got %v", got[0].IDPath)
	}
}

func TestScore_EmptyInput(t *testing.T) {
	if got := Score(map[string]QueryResults{}, DefaultBM25Params); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestDropOff_StopsAtGap(t *testing.T) {
	results := []ScoredResult{
		{IDPath: []rustdoc.ID{"1"}, Score: 10},
		{IDPath: []rustdoc.ID{"2"}, Score: 9},
		{IDPath: []rustdoc.ID{"3"}, Score: 1}, // gap of 8 > 0.3*10
		{IDPath: []rustdoc.ID{"4"}, Score: 0.9},
	}
	got := DropOff(results, 0, 0.3)
	if len(got) != 2 {
		t.Fatalf("expected 2 results before the drop-off, got %d", len(got))
	}
}

func TestDropOff_RespectsMax(t *testing.T) {
	results := []ScoredResult{
		{IDPath: []rustdoc.ID{"1"}, Score: 10},
		{IDPath: []rustdoc.ID{"2"}, Score: 9.9},
		{IDPath: []rustdoc.ID{"3"}, Score: 9.8},
	}
	got := DropOff(results, 1, 0.3)
	if len(got) != 1 {
		t.Fatalf("expected max=1 result, got %d", len(got))
	}
}
