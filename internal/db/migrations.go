package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicateMigration = errors.New("duplicate migration version")
	ErrEmptyMigration     = errors.New("migration has no SQL statements")
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[^/]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

// baselineVersion is the schema bloom shipped before migrations were
// tracked. A database that already has users but no schema_migrations table
// is assumed to be at this version.
const baselineVersion = 1

type migration struct {
	Version    string
	Number     int
	File       string
	Statements []string
}

// migrate brings database up to the newest migration in files.
func migrate(database *gorm.DB, files fs.FS) error {
	pending, err := readMigrations(files)
	if err != nil {
		return err
	}

	tracked := database.Migrator().HasTable("schema_migrations")
	if err := database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	if !tracked && database.Migrator().HasTable("users") {
		if err := adoptLegacySchema(database, pending); err != nil {
			return err
		}
	}

	applied, err := appliedVersions(database)
	if err != nil {
		return err
	}
	for _, next := range pending {
		if applied[next.Version] {
			continue
		}
		if err := runMigration(database, next); err != nil {
			return err
		}
	}
	return nil
}

// readMigrations returns the numbered .sql files in files ordered by number.
func readMigrations(files fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byNumber := make(map[int]string, len(entries))
	result := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := path.Base(entry.Name())
		matches := migrationNamePattern.FindStringSubmatch(name)
		if matches == nil {
			continue
		}

		number, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		if previous, ok := byNumber[number]; ok {
			return nil, fmt.Errorf("%w %d: %s and %s", ErrDuplicateMigration, number, previous, name)
		}
		byNumber[number] = name

		raw, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitSQLStatements(string(raw))
		if len(statements) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyMigration, name)
		}

		result = append(result, migration{
			Version:    matches[1],
			Number:     number,
			File:       name,
			Statements: statements,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Number < result[j].Number
	})
	return result, nil
}

func adoptLegacySchema(database *gorm.DB, pending []migration) error {
	for _, candidate := range pending {
		if candidate.Number != baselineVersion {
			continue
		}
		if err := recordMigration(database, candidate); err != nil {
			return fmt.Errorf("adopt legacy schema: %w", err)
		}
		return nil
	}
	return nil
}

func appliedVersions(database *gorm.DB) (map[string]bool, error) {
	versions := make([]string, 0)
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

func runMigration(database *gorm.DB, next migration) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range next.Statements {
			added, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("migration %s: %w", next.File, err)
			}
			if added {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s: %q: %w", next.File, statement, err)
			}
		}
		return recordMigration(tx, next)
	})
}

func recordMigration(database *gorm.DB, applied migration) error {
	if err := database.Exec(
		`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
		applied.Version,
		applied.File,
	).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", applied.File, err)
	}
	return nil
}

func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded reports whether statement is an ADD COLUMN for a column
// the table already has. SQLite has no ADD COLUMN IF NOT EXISTS.
func columnAlreadyAdded(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}

	table := unquoteIdentifier(matches[1])
	column := unquoteIdentifier(matches[2])
	columns, err := columnNames(database, table)
	if err != nil {
		return false, err
	}
	return columns[strings.ToLower(column)], nil
}

func columnNames(database *gorm.DB, table string) (map[string]bool, error) {
	names := make([]string, 0)
	query := fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, strings.ReplaceAll(table, `'`, `''`))
	if err := database.Raw(query).Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("inspect %s columns: %w", table, err)
	}

	columns := make(map[string]bool, len(names))
	for _, name := range names {
		columns[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return columns, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
