package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var migrationFile = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir before goose sees it: the name
// carries a unique 14-digit version, and the body has an Up section
// followed by a Down section. All problems are reported together.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("migrations dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var problems error
	versions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		match := migrationFile.FindStringSubmatch(name)
		if match == nil {
			problems = multierr.Append(problems, fmt.Errorf("%s: name must look like YYYYMMDDHHMMSS_slug.sql", name))
			continue
		}
		if first, dup := versions[match[1]]; dup {
			problems = multierr.Append(problems, fmt.Errorf("%s: version %s already used by %s", name, match[1], first))
		}
		versions[match[1]] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			problems = multierr.Append(problems, err)
			continue
		}
		problems = multierr.Append(problems, checkSections(name, string(body)))
	}
	return problems
}

func checkSections(name, body string) error {
	up := strings.Index(body, "-- +goose Up")
	down := strings.Index(body, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("%s: no -- +goose Up section", name)
	case down < 0:
		return fmt.Errorf("%s: no -- +goose Down section", name)
	case down < up:
		return fmt.Errorf("%s: Down section comes before Up", name)
	}
	return nil
}
