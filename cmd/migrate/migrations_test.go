package main

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

// this file lives in cmd/migrate/, so the repo root is ../..
func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	return filepath.Join(root, "db", "migrations")
}

func TestCollectMigrations_CoversTheLibrarySchema(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}

	tables := []string{"categories", "authors", "books", "employees", "loans", "users"}
	if len(migrations) < len(tables) {
		t.Fatalf("expected at least %d migrations, got %d", len(tables), len(migrations))
	}

	for _, table := range tables {
		found := false
		for _, m := range migrations {
			if strings.Contains(filepath.Base(m.Source), table) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no migration creates %s", table)
		}
	}
}

func TestCollectMigrations_VersionsAreStrictlyIncreasing(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("CollectMigrations: %v", err)
	}

	var prev int64
	for _, m := range migrations {
		if m.Version <= prev {
			t.Fatalf("migration versions not strictly increasing at %s", filepath.Base(m.Source))
		}
		prev = m.Version
	}
}
