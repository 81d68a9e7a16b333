package legacydb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bapanel/bapanel/internal/catalog"
)

// ReadTools returns every tool in insertion order. The first category row
// matching primary_category is the record's Category; any others become
// Groups. Optional dependencies are kept apart from required ones.
func (s *Store) ReadTools(ctx context.Context) ([]catalog.ToolRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tool_name, version, primary_category, short_description,
		       long_description, upstream_url, help_command
		FROM tools
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools: %w", err)
	}

	var tools []catalog.ToolRecord
	for rows.Next() {
		var (
			t                      catalog.ToolRecord
			short, long, url, help sql.NullString
		)
		if err := rows.Scan(&t.Name, &t.Version, &t.Category, &short, &long, &url, &help); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		t.Description = short.String
		t.LongDescription = long.String
		t.URL = url.String
		t.HelpCommand = help.String
		tools = append(tools, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tools: %w", err)
	}

	for i := range tools {
		if err := s.loadDependencies(ctx, &tools[i]); err != nil {
			return nil, err
		}
		if err := s.loadGroups(ctx, &tools[i]); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("read legacy tools", zap.String("path", s.path), zap.Int("count", len(tools)))
	return tools, nil
}

// ReadCorpus is ReadTools validated into a corpus.
func (s *Store) ReadCorpus(ctx context.Context) (*catalog.Corpus, error) {
	tools, err := s.ReadTools(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(tools)
}

func (s *Store) loadDependencies(ctx context.Context, t *catalog.ToolRecord) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT dependency_name, is_optional FROM dependencies WHERE tool_name = ? ORDER BY id", t.Name)
	if err != nil {
		return fmt.Errorf("failed to query dependencies of %s: %w", t.Name, err)
	}
	defer rows.Close()

	t.Dependencies = []string{}
	for rows.Next() {
		var (
			name     string
			optional bool
		)
		if err := rows.Scan(&name, &optional); err != nil {
			return fmt.Errorf("failed to scan dependency of %s: %w", t.Name, err)
		}
		if optional {
			t.OptionalDependencies = append(t.OptionalDependencies, name)
		} else {
			t.Dependencies = append(t.Dependencies, name)
		}
	}
	return rows.Err()
}

func (s *Store) loadGroups(ctx context.Context, t *catalog.ToolRecord) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category_name FROM tool_categories WHERE tool_name = ? ORDER BY id", t.Name)
	if err != nil {
		return fmt.Errorf("failed to query categories of %s: %w", t.Name, err)
	}
	defer rows.Close()

	primarySeen := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan category of %s: %w", t.Name, err)
		}
		if !primarySeen && strings.EqualFold(name, t.Category) {
			primarySeen = true
			continue
		}
		t.Groups = append(t.Groups, name)
	}
	return rows.Err()
}

// WriteCorpus replaces the database contents with c in one transaction.
// Wrapper paths have no column and are not stored.
func (s *Store) WriteCorpus(ctx context.Context, c *catalog.Corpus, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"dependencies", "tool_categories", "tools"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	updated := now.Unix()
	for _, t := range c.All() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tools (tool_name, version, primary_category, short_description,
			                   long_description, upstream_url, help_command, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.Name, t.Version, t.Category, t.Description,
			nullable(t.LongDescription), nullable(t.URL), nullable(t.HelpCommand), updated,
		); err != nil {
			return fmt.Errorf("failed to insert tool %s: %w", t.Name, err)
		}

		for _, dep := range t.Dependencies {
			if err := insertDependency(ctx, tx, t.Name, dep, false); err != nil {
				return err
			}
		}
		for _, dep := range t.OptionalDependencies {
			if err := insertDependency(ctx, tx, t.Name, dep, true); err != nil {
				return err
			}
		}

		for _, category := range append([]string{t.Category}, t.Groups...) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO tool_categories (tool_name, category_name) VALUES (?, ?)", t.Name, category,
			); err != nil {
				return fmt.Errorf("failed to insert category of %s: %w", t.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logger.Debug("wrote legacy tools", zap.String("path", s.path), zap.Int("count", c.Len()))
	return nil
}

func insertDependency(ctx context.Context, tx *sql.Tx, tool, dep string, optional bool) error {
	flag := 0
	if optional {
		flag = 1
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO dependencies (tool_name, dependency_name, is_optional) VALUES (?, ?, ?)",
		tool, dep, flag,
	); err != nil {
		return fmt.Errorf("failed to insert dependency of %s: %w", tool, err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
