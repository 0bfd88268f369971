package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/infrastructure/storage/file"
)

type memKV struct {
	data   map[string]string
	getErr error
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewStore(kv, zerolog.Nop())

	if _, ok := s.Load(ctx); ok {
		t.Fatal("expected no session on empty storage")
	}

	want := domain.Session{Token: "12|abc", User: domain.User{ID: 3, Name: "Nora", Email: "n@x.com", Role: domain.RoleNutritionist}}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(kv.data) != 2 || kv.data[KeyToken] != "12|abc" {
		t.Fatalf("expected exactly token and usuario entries, got %v", kv.data)
	}

	got, ok := s.Load(ctx)
	if !ok || got != want {
		t.Fatalf("expected %+v, got %+v (ok=%v)", want, got, ok)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(kv.data) != 0 {
		t.Fatalf("expected empty storage, got %v", kv.data)
	}
}

func TestStore_LoadFailuresMeanNoSession(t *testing.T) {
	ctx := context.Background()

	broken := newMemKV()
	broken.getErr = errors.New("disk on fire")
	if _, ok := NewStore(broken, zerolog.Nop()).Load(ctx); ok {
		t.Fatal("read failure must read as no session")
	}

	corrupt := newMemKV()
	corrupt.data[KeyToken] = "tok"
	corrupt.data[KeyUser] = "{not json"
	if _, ok := NewStore(corrupt, zerolog.Nop()).Load(ctx); ok {
		t.Fatal("corrupt user blob must read as no session")
	}

	tokenOnly := newMemKV()
	tokenOnly.data[KeyToken] = "tok"
	if _, ok := NewStore(tokenOnly, zerolog.Nop()).Load(ctx); ok {
		t.Fatal("missing user blob must read as no session")
	}
}

func TestStore_ExpiredTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewStore(kv, zerolog.Nop())
	now := time.Date(2025, 7, 25, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": now.Add(-time.Second).Unix()}).
		SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := s.Save(ctx, domain.Session{Token: tok, User: domain.User{ID: 1, Role: domain.RolePatient}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := s.Load(ctx); ok {
		t.Fatal("expired session must not load")
	}
	if len(kv.data) != 0 {
		t.Fatalf("expired session must be removed, got %v", kv.data)
	}
}

func TestStore_OverFileBackend(t *testing.T) {
	ctx := context.Background()
	kv, err := file.NewStore(file.Options{Dir: t.TempDir(), Passphrase: "pw"})
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	s := NewStore(kv, zerolog.Nop())
	want := domain.Session{Token: "t", User: domain.User{ID: 9, Name: "Pia", Email: "p@x.com", Role: domain.RolePatient}}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := s.Load(ctx)
	if !ok || got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	if err := NewStore(newMemKV(), zerolog.Nop()).Save(context.Background(), domain.Session{}); err == nil {
		t.Fatal("expected error")
	}
}
