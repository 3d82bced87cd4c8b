package rulecache

import (
	"testing"
	"time"

	"github.com/patternforge/patternforge/internal/compiler"
	"github.com/patternforge/patternforge/internal/rules"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return c
}

func TestKeyStableForSameBytes(t *testing.T) {
	a := Key([]byte("rule source v1"))
	b := Key([]byte("rule source v1"))
	if a != b {
		t.Errorf("Key() not stable: %q != %q", a, b)
	}

	c := Key([]byte("rule source v2"))
	if a == c {
		t.Error("Key() collided for different source bytes")
	}
}

func TestCacheMissThenHit(t *testing.T) {
	c := openTestCache(t)
	key := Key([]byte("rule source"))

	if _, _, ok := c.Get(key, 0); ok {
		t.Fatal("Get() on empty cache returned ok=true")
	}

	r := &rules.Rule{ID: "R1"}
	cr, _ := compiler.Compile(r)
	clauses := []*compiler.ConvertedRule{cr}

	if err := c.Put(key, clauses, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, violations, ok := c.Get(key, 0)
	if !ok {
		t.Fatal("Get() after Put() returned ok=false")
	}
	if len(violations) != 0 {
		t.Errorf("violations = %v, want none", violations)
	}
	if len(got) != 1 || got[0].RuleID != "R1" {
		t.Errorf("got = %v, want one ConvertedRule for R1", got)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := openTestCache(t)
	key := Key([]byte("rule source"))

	if err := c.Put(key, nil, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, _, ok := c.Get(key, time.Nanosecond); ok {
		t.Error("Get() with an elapsed ttl returned ok=true")
	}

	if _, _, ok := c.Get(key, time.Hour); !ok {
		t.Error("Get() with an unexpired ttl returned ok=false")
	}
}

func TestCachePutOverwrites(t *testing.T) {
	c := openTestCache(t)
	key := Key([]byte("rule source"))

	r1 := &rules.Rule{ID: "R1"}
	cr1, _ := compiler.Compile(r1)
	if err := c.Put(key, []*compiler.ConvertedRule{cr1}, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	r2 := &rules.Rule{ID: "R2"}
	cr2, _ := compiler.Compile(r2)
	if err := c.Put(key, []*compiler.ConvertedRule{cr2}, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, _, ok := c.Get(key, 0)
	if !ok || len(got) != 1 || got[0].RuleID != "R2" {
		t.Errorf("got = %v, want one ConvertedRule for R2 (overwritten)", got)
	}
}
