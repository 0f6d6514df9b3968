package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/shard"
)

// backupTimestampLayout differentiates successive backups of the same
// shard down to the nanosecond.
const backupTimestampLayout = "20060102T150405.000000000"

// Backup writes a point-in-time copy of a shard's store file next to the
// original and returns the backup file name. When the shard has no store
// on disk it returns "" without error and touches nothing. The copy is a
// whole-file snapshot and is not coordinated with concurrent writers.
func (r *Registry) Backup(tenant string, year int) (string, error) {
	key := shard.Resolve(tenant, year)
	srcPath := filepath.Join(r.dataDir, key.Filename())

	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("stat shard %s: %w", key, err)
	}

	stamp := timeNow().UTC().Format(backupTimestampLayout)
	backupName := strings.TrimSuffix(key.Filename(), ".db") + "_backup_" + stamp + ".db"
	dstPath := filepath.Join(r.dataDir, backupName)

	if err := copyFile(srcPath, dstPath); err != nil {
		return "", fmt.Errorf("backup shard %s: %w", key, err)
	}

	slog.Info("Shard backup created", "shard", key.String(), "file", backupName)
	return backupName, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("sync backup file: %w", err)
	}
	return out.Close()
}
