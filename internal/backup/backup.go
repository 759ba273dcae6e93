// Package backup writes verified copies of the catalogue database file.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// TimeLayout is the timestamp embedded in backup file names.
const TimeLayout = "20060102_150405"

// ErrChecksumMismatch is returned when a copy does not match its source.
var ErrChecksumMismatch = errors.New("backup checksum mismatch")

// Backup describes one backup file.
type Backup struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FileName returns the backup file name for dbPath taken at now, e.g.
// "hembygdsmuseum_backup_20240131_142501.sqlite3".
func FileName(dbPath string, now time.Time) string {
	base := filepath.Base(dbPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_backup_%s%s", stem, now.Format(TimeLayout), ext)
}

// Create checkpoints the write-ahead log and copies the database file at
// dbPath into dir. The copy is verified against the source before Create
// returns; a failed copy is removed.
func Create(ctx context.Context, db *sql.DB, dbPath, dir string, now time.Time) (*Backup, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	// Holding the connection keeps writers out until the copy is done.
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return nil, fmt.Errorf("checkpointing database: %w", err)
	}

	dst := filepath.Join(dir, FileName(dbPath, now))
	size, sum, err := copyFile(dbPath, dst)
	if err != nil {
		return nil, err
	}

	srcSum, err := fileChecksum(dbPath)
	if err != nil {
		os.Remove(dst)
		return nil, err
	}
	if !bytes.Equal(sum, srcSum) {
		os.Remove(dst)
		return nil, fmt.Errorf("verifying %s: %w", dst, ErrChecksumMismatch)
	}

	return &Backup{
		Path:      dst,
		Name:      filepath.Base(dst),
		Size:      size,
		Checksum:  hex.EncodeToString(sum),
		CreatedAt: now,
	}, nil
}

// copyFile copies src to a new file dst and returns the size and the
// BLAKE2b-256 digest of the bytes written, as re-read from dst.
func copyFile(src, dst string) (int64, []byte, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, nil, fmt.Errorf("opening database file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, nil, fmt.Errorf("creating backup file: %w", err)
	}

	size, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, nil, fmt.Errorf("writing backup file: %w", err)
	}

	sum, err := fileChecksum(dst)
	if err != nil {
		os.Remove(dst)
		return 0, nil, err
	}
	return size, sum, nil
}

func fileChecksum(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("creating hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

// List returns the backups of dbPath found in dir, newest first. A missing
// directory yields an empty list.
func List(dir, dbPath string) ([]Backup, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Backup{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	base := filepath.Base(dbPath)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "_backup_"

	backups := []Backup{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		created, err := time.ParseInLocation(TimeLayout, stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		backups = append(backups, Backup{
			Path:      filepath.Join(dir, name),
			Name:      name,
			Size:      info.Size(),
			CreatedAt: created,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Verify recomputes the checksum of a backup file.
func Verify(path string) (string, error) {
	sum, err := fileChecksum(path)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
