package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_PlainRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStore(Options{Dir: dir})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, found, err := s.Get(ctx, "token"); err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}
	if err := s.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, found, err := s.Get(ctx, "token")
	if err != nil || !found || v != "abc" {
		t.Fatalf("unexpected Get result %q %v %v", v, found, err)
	}

	info, err := os.Stat(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	if err := s.Delete(ctx, "token", "usuario"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "token"); found {
		t.Fatal("expected key to be deleted")
	}
}

func TestStore_SealedValuesAreUnreadableOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStore(Options{Dir: dir, Passphrase: "correct horse"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Set(ctx, "usuario", `{"id":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "usuario"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if bytes.Contains(raw, []byte(`"id"`)) {
		t.Fatal("value stored in clear text")
	}

	reopened, err := NewStore(Options{Dir: dir, Passphrase: "correct horse"})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, found, err := reopened.Get(ctx, "usuario")
	if err != nil || !found || v != `{"id":1}` {
		t.Fatalf("unexpected Get result %q %v %v", v, found, err)
	}

	wrong, err := NewStore(Options{Dir: dir, Passphrase: "battery staple"})
	if err != nil {
		t.Fatalf("reopen wrong: %v", err)
	}
	if _, _, err := wrong.Get(ctx, "usuario"); !errors.Is(err, ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
}

func TestStore_RejectsPathKeys(t *testing.T) {
	s, err := NewStore(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, k := range []string{"", "../token", "a/b", ".salt"} {
		if err := s.Set(context.Background(), k, "x"); err == nil {
			t.Errorf("expected error for key %q", k)
		}
	}
}
