package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/threadline/internal/data/db"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsUniqueViolation returns true if the error is a UNIQUE or PRIMARY KEY
// constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	default:
		return false
	}
}

// IsCorruptionError returns true if the error indicates database corruption.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		return code == sqlite3.SQLITE_CORRUPT ||
			code == sqlite3.SQLITE_NOTADB ||
			code == sqlite3.SQLITE_CANTOPEN
	}

	// Also check for common corruption error messages
	errStr := err.Error()
	return strings.Contains(errStr, "database disk image is malformed") ||
		strings.Contains(errStr, "file is not a database")
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// RecoverFromCorruption moves a corrupted database aside, together with its
// WAL and SHM files, so the next Open starts from an empty database. It
// returns the backup path, or "" when there was nothing to move.
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backupPath := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	moved := true
	if err := os.Rename(dbPath, backupPath); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to backup corrupted database: %w", err)
		}
		moved = false
	}

	// WAL and SHM files must go too, or SQLite replays them into the new file.
	for _, suffix := range []string{"-wal", "-shm"} {
		path := dbPath + suffix
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Rename(path, backupPath+suffix); err != nil {
			if delErr := os.Remove(path); delErr != nil {
				return "", fmt.Errorf("failed to backup or remove %s file: %w", suffix, err)
			}
		}
	}

	if !moved {
		return "", nil
	}
	return backupPath, nil
}
