package legacydb

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func(context.Context) error
}

// runMigrations executes database schema migrations.
func (s *Store) runMigrations(ctx context.Context) error {
	if err := s.createMigrationsTable(ctx); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion(ctx)
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "tool_schema", up: s.migration001ToolSchema},
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		s.logger.Debug("running migration", zap.Int("version", m.version), zap.String("name", m.name))
		if err := m.up(ctx); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if err := s.setMigrationVersion(ctx, m); err != nil {
			return err
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations table.
func (s *Store) createMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *Store) getCurrentMigrationVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *Store) setMigrationVersion(ctx context.Context, m migration) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name)
	return err
}

// migration001ToolSchema creates the tool tables. IF NOT EXISTS keeps
// databases created by the scraper of earlier releases intact.
func (s *Store) migration001ToolSchema(ctx context.Context) error {
	statements := []struct {
		what  string
		query string
	}{
		{"tools table", `
			CREATE TABLE IF NOT EXISTS tools (
				tool_name TEXT PRIMARY KEY NOT NULL,
				version TEXT NOT NULL,
				primary_category TEXT NOT NULL,
				short_description TEXT,
				long_description TEXT,
				upstream_url TEXT,
				help_command TEXT,
				last_updated INTEGER NOT NULL
			)`},
		{"dependencies table", `
			CREATE TABLE IF NOT EXISTS dependencies (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				tool_name TEXT NOT NULL,
				dependency_name TEXT NOT NULL,
				is_optional INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (tool_name) REFERENCES tools(tool_name)
			)`},
		{"tool_categories table", `
			CREATE TABLE IF NOT EXISTS tool_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				tool_name TEXT NOT NULL,
				category_name TEXT NOT NULL,
				FOREIGN KEY (tool_name) REFERENCES tools(tool_name)
			)`},
		{"primary category index", `CREATE INDEX IF NOT EXISTS idx_tools_primary_category ON tools(primary_category)`},
		{"dependencies index", `CREATE INDEX IF NOT EXISTS idx_dependencies_tool_name ON dependencies(tool_name)`},
		{"tool_categories tool index", `CREATE INDEX IF NOT EXISTS idx_tool_categories_tool_name ON tool_categories(tool_name)`},
		{"tool_categories category index", `CREATE INDEX IF NOT EXISTS idx_tool_categories_category_name ON tool_categories(category_name)`},
	}

	for _, st := range statements {
		if _, err := s.db.ExecContext(ctx, st.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", st.what, err)
		}
	}
	return nil
}
