package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDSNFromEnv(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		os.Setenv("DB_DSN", "postgres://app@db:5432/corplibrary_ci")
		t.Cleanup(func() { _ = os.Unsetenv("DB_DSN") })

		if got := dsnFromEnv(); got != "postgres://app@db:5432/corplibrary_ci" {
			t.Fatalf("expected DB_DSN override, got %q", got)
		}
	})

	t.Run("default targets the corplibrary database", func(t *testing.T) {
		_ = os.Unsetenv("DB_DSN")

		if got := dsnFromEnv(); !strings.HasSuffix(got, "/corplibrary") {
			t.Fatalf("expected default dsn to name corplibrary, got %q", got)
		}
	})
}

func TestMigrationsDir(t *testing.T) {
	cases := []struct {
		name string
		env  string
		want string
	}{
		{name: "default", env: "", want: "db/migrations"},
		{name: "override", env: "/srv/corplibrary/migrations", want: "/srv/corplibrary/migrations"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.env == "" {
				_ = os.Unsetenv("MIGRATIONS_DIR")
			} else {
				os.Setenv("MIGRATIONS_DIR", tc.env)
				t.Cleanup(func() { _ = os.Unsetenv("MIGRATIONS_DIR") })
			}

			if got := migrationsDir(); got != tc.want {
				t.Fatalf("migrationsDir() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadEnvFiles_RuntimeEnvWins(t *testing.T) {
	tmp := t.TempDir()
	envFile := filepath.Join(tmp, ".env")

	contents := "DB_DSN=postgres://file@localhost:5432/corplibrary_file\n"
	if err := os.WriteFile(envFile, []byte(contents), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	os.Setenv("DB_DSN", "postgres://runtime@localhost:5432/corplibrary")
	t.Cleanup(func() { _ = os.Unsetenv("DB_DSN") })

	cwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	loadEnvFiles()

	if got := os.Getenv("DB_DSN"); got != "postgres://runtime@localhost:5432/corplibrary" {
		t.Fatalf("expected runtime env to win over .env, got %q", got)
	}
}
