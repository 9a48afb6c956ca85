package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// clock stamps new migration versions.
var clock = time.Now

const sqlTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s: forward statements
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- %[1]s: reverse statements
-- +goose StatementEnd
`

// migrationSlug turns a free-form description into the filename part of a
// migration, e.g. "Add Product Tags!" becomes "add_product_tags".
func migrationSlug(name string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(slug, "_")
}

// CreateSQLMigration writes an empty up/down migration named
// <UTC timestamp>_<slug>.sql into dir and returns its path. A migration with
// the same slug already in dir is refused so reruns do not pile up copies.
func CreateSQLMigration(dir, name string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("migrations dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migrations dir: %w", err)
	}

	existing, err := filepath.Glob(filepath.Join(dir, "*_"+slug+".sql"))
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return "", fmt.Errorf("migration %q already exists as %s", slug, filepath.Base(existing[0]))
	}

	path := filepath.Join(dir, clock().UTC().Format(versionLayout)+"_"+slug+".sql")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration: %w", err)
	}
	if _, err := fmt.Fprintf(f, sqlTemplate, slug); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write migration: %w", err)
	}
	return path, f.Close()
}
