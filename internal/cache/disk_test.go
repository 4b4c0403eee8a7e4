package cache

import (
	"bytes"
	"testing"
)

func TestPutGetJSON_RoundTrip(t *testing.T) {
	c := New(t.TempDir())
	data := []byte(`{"hello":"world"}`)

	if err := c.PutJSON(57, "serde", "1.0.0", data); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}

	got, ok := c.GetJSON(57, "serde", "1.0.0")
	if !ok {
		t.Fatal("GetJSON returned ok=false for an entry just written")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("GetJSON = %q, want %q", got, data)
	}
}

func TestGetJSON_Miss(t *testing.T) {
	c := New(t.TempDir())
	if _, ok := c.GetJSON(57, "nonexistent", "1.0.0"); ok {
		t.Error("expected ok=false for a missing entry")
	}
}

func TestHasJSON(t *testing.T) {
	c := New(t.TempDir())
	if c.HasJSON(57, "serde", "1.0.0") {
		t.Error("expected HasJSON=false before write")
	}
	if err := c.PutJSON(57, "serde", "1.0.0", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if !c.HasJSON(57, "serde", "1.0.0") {
		t.Error("expected HasJSON=true after write")
	}
}

func TestSourceModTime(t *testing.T) {
	c := New(t.TempDir())
	if _, ok := c.SourceModTime(57, "serde", "1.0.0"); ok {
		t.Error("expected ok=false before write")
	}
	if err := c.PutJSON(57, "serde", "1.0.0", []byte("x")); err != nil {
		t.Fatal(err)
	}
	mtime, ok := c.SourceModTime(57, "serde", "1.0.0")
	if !ok || mtime == 0 {
		t.Errorf("expected a nonzero mtime, got %d, ok=%v", mtime, ok)
	}
}

func TestPutGetIndex_RoundTrip(t *testing.T) {
	c := New(t.TempDir())
	data := []byte("serialized index bytes")
	if err := c.PutIndex(1, "tokio", "1.40.0", data); err != nil {
		t.Fatalf("PutIndex failed: %v", err)
	}
	got, ok := c.GetIndex(1, "tokio", "1.40.0")
	if !ok || !bytes.Equal(got, data) {
		t.Errorf("GetIndex = %q, ok=%v, want %q, ok=true", got, ok, data)
	}
}

func TestInvalidateIndex(t *testing.T) {
	c := New(t.TempDir())
	if err := c.PutIndex(1, "tokio", "1.40.0", []byte("x")); err != nil {
		t.Fatal(err)
	}
	c.InvalidateIndex(1, "tokio", "1.40.0")
	if _, ok := c.GetIndex(1, "tokio", "1.40.0"); ok {
		t.Error("expected GetIndex to miss after InvalidateIndex")
	}
}

func TestInvalidateIndex_Missing(t *testing.T) {
	c := New(t.TempDir())
	c.InvalidateIndex(1, "never-existed", "1.0.0") // must not panic
}
