package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/Gaurav-Gosain/tuidash/internal/config"
)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := NewRedis(context.Background(), RedisOptions{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	r, _ := newRedis(t)
	return map[string]Storage{
		"memory": NewMemory(),
		"file":   f,
		"redis":  r,
	}
}

func TestBackendContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(ctx, "layout"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load of missing key: err = %v, want ErrNotFound", err)
			}

			if err := s.Save(ctx, "layout", []byte(`{"version":2}`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := s.Save(ctx, "layout", []byte(`{"version":3}`)); err != nil {
				t.Fatalf("second Save: %v", err)
			}

			got, err := s.Load(ctx, "layout")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if string(got) != `{"version":3}` {
				t.Errorf("Load = %s, want last write", got)
			}

			if err := s.Delete(ctx, "layout"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Load(ctx, "layout"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load after Delete: err = %v", err)
			}
			if err := s.Delete(ctx, "layout"); err != nil {
				t.Errorf("Delete of missing key should succeed, got %v", err)
			}
		})
	}
}

func TestMemoryCopiesData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	if err := m.Save(ctx, "k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'x'

	got, _ := m.Load(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %s", got)
	}
}

func TestFilePermissionsAndCleanup(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Save(context.Background(), "dashboard-settings", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "dashboard-settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perms = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if err := f.Save(context.Background(), key, []byte("{}")); err == nil {
			t.Errorf("Save(%q) should fail", key)
		}
	}
}

func TestRedisPrefix(t *testing.T) {
	r, mr := newRedis(t)
	if err := r.Save(context.Background(), "layout", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := mr.Get("tuidash:layout")
	if err != nil {
		t.Fatalf("key not stored under prefix: %v", err)
	}
	if got != "v" {
		t.Errorf("stored %q", got)
	}
}

func TestRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedis(context.Background(), RedisOptions{Addr: addr}); err == nil {
		t.Error("expected connection error")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("memory backend = %T", s)
	}

	s, err = Open(ctx, config.StorageConfig{Backend: config.BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*File); !ok {
		t.Errorf("file backend = %T", s)
	}

	mr := miniredis.RunT(t)
	s, err = Open(ctx, config.StorageConfig{Backend: config.BackendRedis, RedisAddr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	if _, err := Open(ctx, config.StorageConfig{Backend: "etcd"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
