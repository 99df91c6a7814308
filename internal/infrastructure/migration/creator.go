package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
	versionDigits = 6
)

// MigrationFile represents a migration file pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration creates the next sequential migration file pair,
// e.g. 000004_add_rating_index.up.sql / .down.sql
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	safeName := sanitizeName(name)
	if safeName == "" {
		return nil, fmt.Errorf("invalid migration name %q", name)
	}

	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	next, err := NextVersion(os.DirFS(migrationsDir))
	if err != nil {
		return nil, err
	}
	version := fmt.Sprintf("%0*d", versionDigits, next)
	baseName := version + "_" + safeName

	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
		UpPath:      filepath.Join(migrationsDir, baseName+upSuffix),
		DownPath:    filepath.Join(migrationsDir, baseName+downSuffix),
	}

	up := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n-- Description: %s\n\n", mf.Name, mf.Timestamp, mf.Description)
	if err := writeNew(mf.UpPath, up); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	down := fmt.Sprintf("-- Rollback: %s\n-- Created: %s\n\n", mf.Name, mf.Timestamp)
	if err := writeNew(mf.DownPath, down); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

// writeNew refuses to overwrite an existing migration
func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sanitizeName lowercases name, drops anything that is not a letter or digit
// and joins the words with underscores
func sanitizeName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	kept := words[:0]
	for _, word := range words {
		word = strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				return r
			case r >= 'A' && r <= 'Z':
				return r + 'a' - 'A'
			}
			return -1
		}, word)
		if word != "" {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, "_")
}

// NextVersion returns the version number following the highest one found
func NextVersion(fsys fs.FS) (int, error) {
	names, err := listMigrations(fsys)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, n := range names {
		if v, ok := versionOf(n); ok && v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

func versionOf(baseName string) (int, bool) {
	prefix, _, found := strings.Cut(baseName, "_")
	if !found {
		return 0, false
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ListMigrations returns the base names of the migrations in a directory, sorted
func ListMigrations(migrationsDir string) ([]string, error) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		return []string{}, nil
	}
	return listMigrations(os.DirFS(migrationsDir))
}

// ListMigrationsFS is ListMigrations for an fs.FS such as the embedded set
func ListMigrationsFS(fsys fs.FS) ([]string, error) {
	return listMigrations(fsys)
}

func listMigrations(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), upSuffix); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}

// MissingRollbacks returns the migrations of fsys that have no .down.sql file
func MissingRollbacks(fsys fs.FS) ([]string, error) {
	names, err := listMigrations(fsys)
	if err != nil {
		return nil, err
	}
	missing := make([]string, 0)
	for _, n := range names {
		if _, err := fs.Stat(fsys, n+downSuffix); err != nil {
			missing = append(missing, n)
		}
	}
	return missing, nil
}
