package stores

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/threadline/internal/data/db"
)

func TestRecoverFromCorruption_Success(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, db.FileName)

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm data"), 0o644))

	backup, err := RecoverFromCorruption(tempDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(backup), db.FileName+".corrupt."))

	for _, path := range []string{backup, backup + "-wal", backup + "-shm"} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "%s should exist", filepath.Base(path))
	}
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should be moved", filepath.Base(path))
	}
}

func TestRecoverFromCorruption_MissingFile(t *testing.T) {
	tempDir := t.TempDir()

	backup, err := RecoverFromCorruption(tempDir)
	require.NoError(t, err)
	assert.Empty(t, backup)

	files, _ := filepath.Glob(filepath.Join(tempDir, "*.corrupt.*"))
	assert.Empty(t, files)
}

func TestRecoverFromCorruption_WALWithoutDatabase(t *testing.T) {
	tempDir := t.TempDir()
	walPath := filepath.Join(tempDir, db.FileName) + "-wal"
	require.NoError(t, os.WriteFile(walPath, []byte("wal data"), 0o644))

	_, err := RecoverFromCorruption(tempDir)
	require.NoError(t, err)

	walBackups, _ := filepath.Glob(filepath.Join(tempDir, "*.corrupt.*-wal"))
	assert.Len(t, walBackups, 1)
	_, err = os.Stat(walPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRecoverFromCorruption_ReopenAfterCorruption(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, db.FileName), []byte("this is not sqlite, just plain text padding"), 0o644))

	_, err := db.Open(tempDir, db.DefaultOpenOptions())
	require.Error(t, err)
	assert.True(t, IsCorruptionError(err), "got %v", err)

	_, err = RecoverFromCorruption(tempDir)
	require.NoError(t, err)

	database, err := db.Open(tempDir, db.DefaultOpenOptions())
	require.NoError(t, err)
	_ = database.Close()
}

func TestErrorClassifiers_NonSQLiteErrors(t *testing.T) {
	plain := errors.New("boom")

	assert.False(t, IsBusyError(plain))
	assert.False(t, IsUniqueViolation(plain))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsCorruptionError(nil))
	assert.False(t, IsCorruptionError(plain))
	assert.True(t, IsCorruptionError(errors.New("open: file is not a database")))
}
