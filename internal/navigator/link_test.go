package navigator

import (
	"context"
	"testing"
)

func TestParseDisambiguator(t *testing.T) {
	cases := []struct {
		in   string
		want Disambiguator
		ok   bool
	}{
		{"struct", DisambiguatorStruct, true},
		{"fn", DisambiguatorFunction, true},
		{"function", DisambiguatorFunction, true},
		{"nonsense", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseDisambiguator(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseDisambiguator(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestResolveLink_Fragment(t *testing.T) {
	n := New(nil, nil, nil)
	got := n.ResolveLink(context.Background(), ItemHandle{}, "#examples")
	if got.Kind != LinkFragment || got.Fragment != "#examples" {
		t.Errorf("got %+v, want fragment link", got)
	}
}

func TestResolveLink_External(t *testing.T) {
	n := New(nil, nil, nil)
	for _, url := range []string{"https://example.com/x", "http://example.com/x"} {
		got := n.ResolveLink(context.Background(), ItemHandle{}, url)
		if got.Kind != LinkExternal || got.URL != url {
			t.Errorf("ResolveLink(%q) = %+v, want external link", url, got)
		}
	}
}
