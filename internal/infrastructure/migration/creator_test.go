package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add rating index", "add_rating_index"},
		{"Add-Rating-Index", "add_rating_index"},
		{"ADD_RATING_INDEX", "add_rating_index"},
		{"add__rating__index", "add_rating_index"},
		{"Add Looks 123", "add_looks_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add rating index", "Index looks by rating")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, filepath.Join(tmpDir, "000001_add_rating_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(tmpDir, "000001_add_rating_index.down.sql"), mf.DownPath)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add rating index")
	assert.Contains(t, string(upContent), "Index looks by rating")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback: add rating index")
}

func TestCreateMigration_Sequential(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"000001_init.up.sql", "000001_init.down.sql", "000007_later.up.sql", "000007_later.down.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0o644))
	}

	mf, err := CreateMigration(tmpDir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, "000008", mf.Version)
	assert.True(t, strings.HasSuffix(mf.UpPath, "000008_next.up.sql"))
}

func TestCreateMigration_InvalidName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nestedPath, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		"000003_create_recommendation_tracking.up.sql",
		"000003_create_recommendation_tracking.down.sql",
		"000001_create_wardrobe_tables.up.sql",
		"000001_create_wardrobe_tables.down.sql",
		"000002_create_outfit_analyses.up.sql",
		"000002_create_outfit_analyses.down.sql",
		"README.md",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "subdir.up.sql"), 0o755))

	list, err := ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_wardrobe_tables",
		"000002_create_outfit_analyses",
		"000003_create_recommendation_tracking",
	}, list)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	list, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNextVersion_IgnoresUnnumberedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_a.up.sql":  {Data: []byte("")},
		"draft_b.up.sql":   {Data: []byte("")},
		"nounderscore.sql": {Data: []byte("")},
	}
	next, err := NextVersion(fsys)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestMissingRollbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_a.up.sql":   {Data: []byte("")},
		"000001_a.down.sql": {Data: []byte("")},
		"000002_b.up.sql":   {Data: []byte("")},
	}
	missing, err := MissingRollbacks(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_b"}, missing)
}

func TestEmbeddedMigrations(t *testing.T) {
	list, err := ListMigrationsFS(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	missing, err := MissingRollbacks(migrations.FS)
	require.NoError(t, err)
	assert.Empty(t, missing)

	tables := []string{
		"clothing_items", "outfit_looks", "look_items",
		"outfit_analyses", "outfit_pieces", "recommendation_tracking",
	}
	var schema strings.Builder
	for _, name := range list {
		data, err := migrations.FS.ReadFile(name + upSuffix)
		require.NoError(t, err)
		schema.Write(data)
	}
	for _, table := range tables {
		assert.Contains(t, schema.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, schema.String(), "processing_status")
	assert.Contains(t, schema.String(), "idx_tracking_user_time")
}
