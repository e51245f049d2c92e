package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRepositoryGetPut(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "db", "ledger.db")

	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	defer repo.Close()

	if _, ok, err := repo.Get(ctx, "money-manager-data"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := repo.Put(ctx, "money-manager-data", []byte(`{"transactions":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "money-manager-data", []byte(`{"transactions":[],"balance":0}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := repo.Get(ctx, "money-manager-data")
	if err != nil || !ok || string(got) != `{"transactions":[],"balance":0}` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", got, ok, err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	for i := 0; i < 2; i++ {
		repo, err := NewRepository(dbPath)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		repo.Close()
	}
}
