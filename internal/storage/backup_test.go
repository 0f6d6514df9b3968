package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tally/internal/core"
)

func TestBackupMissingShardReturnsEmpty(t *testing.T) {
	r := newTestRegistry(t)
	name, err := r.Backup("ghost", 2024)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if name != "" {
		t.Fatalf("got %q, want empty name", name)
	}
}

func TestBackupCopiesStoreFile(t *testing.T) {
	dataDir := t.TempDir()
	r := NewRegistry(dataDir)
	defer r.CloseAll()
	ctx := context.Background()

	store, err := r.Get(ctx, "42", 2024)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	mustCreateTransaction(t, store, 12345,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), core.Expense, 9)

	original, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read original: %v", err)
	}

	name, err := r.Backup("42", 2024)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if !strings.HasPrefix(name, "tenant_42_2024_backup_") || !strings.HasSuffix(name, ".db") {
		t.Fatalf("backup name = %q", name)
	}

	copied, err := os.ReadFile(filepath.Join(dataDir, name))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !bytes.Equal(original, copied) {
		t.Fatal("backup content differs from original")
	}

	// The live store file is untouched.
	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("re-read original: %v", err)
	}
	if !bytes.Equal(original, after) {
		t.Fatal("original store changed during backup")
	}
}

func TestBackupNamesAreDistinct(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	if _, err := r.Get(ctx, "42", 2024); err != nil {
		t.Fatalf("get: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		name, err := r.Backup("42", 2024)
		if err != nil {
			t.Fatalf("backup %d: %v", i, err)
		}
		if seen[name] {
			t.Fatalf("duplicate backup name %q", name)
		}
		seen[name] = true
	}
}
