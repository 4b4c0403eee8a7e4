package semver

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Version
	}{
		{"1.2.3", Version{1, 2, 3}},
		{"v1.2.3", Version{1, 2, 3}},
		{"1", Version{1, 0, 0}},
		{"1.2", Version{1, 2, 0}},
		{"1.2.3-beta.1", Version{1, 2, 3}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"x.y.z", "1.a.0"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", in)
		}
	}
}

func TestCompare(t *testing.T) {
	a := Version{1, 2, 3}
	b := Version{1, 3, 0}
	if a.Compare(b) >= 0 {
		t.Errorf("expected %v < %v", a, b)
	}
	if b.Compare(a) <= 0 {
		t.Errorf("expected %v > %v", b, a)
	}
	if a.Compare(a) != 0 {
		t.Errorf("expected %v == %v", a, a)
	}
}

func TestParseConstraint_Latest(t *testing.T) {
	for _, s := range []string{"", "latest"} {
		c, err := ParseConstraint(s)
		if err != nil {
			t.Fatalf("ParseConstraint(%q) error: %v", s, err)
		}
		if !c.IsLatest() {
			t.Errorf("ParseConstraint(%q).IsLatest() = false, want true", s)
		}
		if !c.Matches(Version{0, 0, 1}) {
			t.Errorf("ParseConstraint(%q) should match anything", s)
		}
	}
}

func TestParseConstraint_Exact(t *testing.T) {
	c, err := ParseConstraint("1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Matches(Version{1, 2, 3}) {
		t.Error("expected exact match")
	}
	if c.Matches(Version{1, 2, 4}) {
		t.Error("expected no match for different patch")
	}
}

func TestParseConstraint_Tilde(t *testing.T) {
	c, err := ParseConstraint("~1.2")
	if err != nil {
		t.Fatal(err)
	}
	matches := []Version{{1, 2, 0}, {1, 2, 99}}
	for _, v := range matches {
		if !c.Matches(v) {
			t.Errorf("~1.2 should match %v", v)
		}
	}
	rejects := []Version{{1, 3, 0}, {1, 1, 9}}
	for _, v := range rejects {
		if c.Matches(v) {
			t.Errorf("~1.2 should not match %v", v)
		}
	}
}

func TestParseConstraint_Range(t *testing.T) {
	c, err := ParseConstraint(">=1.40,<1.41")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Matches(Version{1, 40, 0}) {
		t.Error("expected 1.40.0 to match")
	}
	if !c.Matches(Version{1, 40, 99}) {
		t.Error("expected 1.40.99 to match")
	}
	if c.Matches(Version{1, 41, 0}) {
		t.Error("expected 1.41.0 to be excluded (exclusive upper bound)")
	}
	if c.Matches(Version{1, 39, 0}) {
		t.Error("expected 1.39.0 to be excluded")
	}
}

func TestMax(t *testing.T) {
	versions := []Version{{1, 0, 0}, {1, 5, 0}, {2, 0, 0}, {1, 9, 9}}
	c, _ := ParseConstraint("~1")
	got, ok := Max(versions, c)
	if !ok {
		t.Fatal("expected a match")
	}
	want := Version{1, 9, 9}
	if got != want {
		t.Errorf("Max = %v, want %v", got, want)
	}
}

func TestMax_NoMatch(t *testing.T) {
	c, _ := ParseConstraint("=9.9.9")
	if _, ok := Max([]Version{{1, 0, 0}}, c); ok {
		t.Error("expected no match")
	}
}
