package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colony/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add houses table", "add_houses_table"},
		{"Add-Office-Bearers", "add_office_bearers"},
		{"add__audit__index", "add_audit_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create houses", "Houses and portion split", created)
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Sequence)
	assert.Equal(t, filepath.Join(dir, "000001_create_houses.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_create_houses.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: create_houses")
	assert.Contains(t, string(up), "-- Houses and portion split")
	assert.Contains(t, string(up), "2026-01-05T10:00:00Z")

	second, err := CreateMigration(dir, "Add tenant index", "", created)
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Sequence)
	assert.FileExists(t, second.DownPath)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "", created)
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	_, err := CreateMigration(dir, "init", "", created)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000010_later.up.sql", "000010_later.down.sql",
		"000002_second.up.sql", "000002_second.down.sql",
		"README.md", "notes.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	list, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].Sequence)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, uint(10), list[1].Sequence)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	list, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		m := migrationFileName.FindStringSubmatch(e.Name())
		require.NotNil(t, m, "unexpected file %s", e.Name())
		if m[3] == "up" {
			ups[m[1]+"_"+m[2]] = true
		} else {
			downs[m[1]+"_"+m[2]] = true
		}
	}
	assert.Equal(t, ups, downs)
	assert.Len(t, ups, 5)
}
