package versions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

const cacheDir = "/home/user/.casperkit"

func TestLoadCache_Missing(t *testing.T) {
	cache, err := LoadCache(afero.NewMemMapFs(), cacheDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache != nil {
		t.Error("expected nil cache for missing file")
	}
}

func TestLoadCache_Corrupt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, filepath.Join(cacheDir, cacheFileName), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCache(fsys, cacheDir); err == nil {
		t.Error("expected error for corrupt cache")
	}
}

func TestCachedStoresAndServes(t *testing.T) {
	fsys := afero.NewMemMapFs()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	inner := &stubResolver{pins: map[string]string{"casper-types": "3.0.5"}}
	c := Cached{Inner: inner, Fs: fsys, Dir: cacheDir, Now: func() time.Time { return now }}

	pin, err := c.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}
	if pin.Source != SourceRegistry || pin.Version != "3.0.5" {
		t.Errorf("first pin = %+v", pin)
	}

	cache, err := LoadCache(fsys, cacheDir)
	if err != nil || cache == nil {
		t.Fatalf("LoadCache() = %v, %v", cache, err)
	}
	if cache.Entries["casper-types"].Version != "3.0.5" {
		t.Errorf("cached entry = %+v", cache.Entries["casper-types"])
	}

	now = now.Add(time.Hour)
	pin, err = c.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if pin.Source != SourceCache || pin.Version != "3.0.5" {
		t.Errorf("second pin = %+v, want served from cache", pin)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
}

func TestCachedStaleEntryRefreshes(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	inner := &stubResolver{pins: map[string]string{"casper-types": "3.0.5"}}
	c := Cached{Inner: inner, Fs: afero.NewMemMapFs(), Dir: cacheDir, MaxAge: time.Hour, Now: func() time.Time { return now }}

	if _, err := c.Resolve(context.Background(), CasperTypes); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Hour)
	inner.pins["casper-types"] = "3.0.6"

	pin, err := c.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatal(err)
	}
	if pin.Version != "3.0.6" || inner.calls != 2 {
		t.Errorf("pin = %+v after %d calls, want refreshed 3.0.6", pin, inner.calls)
	}
}

func TestCachedIgnoresEntryForOtherLine(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := SaveCache(fsys, cacheDir, &RegistryCache{Entries: map[string]CacheEntry{
		"casper-types": {Version: "2.0.1", Constraint: "~2.0.0", CheckedAt: time.Now()},
	}}); err != nil {
		t.Fatal(err)
	}
	inner := &stubResolver{pins: map[string]string{"casper-types": "3.0.2"}}
	pin, err := Cached{Inner: inner, Fs: fsys, Dir: cacheDir}.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatal(err)
	}
	if pin.Version != "3.0.2" {
		t.Errorf("Version = %q, want fresh lookup for the new line", pin.Version)
	}
}

func TestCachedInnerError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	inner := &stubResolver{err: errors.New("boom")}
	if _, err := (Cached{Inner: inner, Fs: fsys, Dir: cacheDir}).Resolve(context.Background(), CasperTypes); err == nil {
		t.Fatal("expected inner error")
	}
	if cache, _ := LoadCache(fsys, cacheDir); cache != nil {
		t.Error("failed lookups must not be cached")
	}
}

func TestIsEntryStale(t *testing.T) {
	now := time.Now()
	if IsEntryStale(CacheEntry{CheckedAt: now.Add(-time.Minute)}, now, time.Hour) {
		t.Error("fresh entry reported stale")
	}
	if !IsEntryStale(CacheEntry{CheckedAt: now.Add(-2 * time.Hour)}, now, time.Hour) {
		t.Error("old entry reported fresh")
	}
}

func TestCachedOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".casperkit")
	inner := &stubResolver{pins: map[string]string{"casper-types": "3.0.5"}}
	if _, err := (Cached{Inner: inner, Dir: dir}).Resolve(context.Background(), CasperTypes); err != nil {
		t.Fatal(err)
	}
	cache, err := LoadCache(afero.NewOsFs(), dir)
	if err != nil || cache == nil {
		t.Fatalf("LoadCache() = %v, %v", cache, err)
	}
}

func TestCachedReadOnlyFsStillResolves(t *testing.T) {
	inner := &stubResolver{pins: map[string]string{"casper-types": "3.0.5"}}
	c := Cached{Inner: inner, Fs: afero.NewReadOnlyFs(afero.NewMemMapFs()), Dir: cacheDir}
	pin, err := c.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if pin.Version != "3.0.5" {
		t.Errorf("Version = %q, want 3.0.5", pin.Version)
	}
}
