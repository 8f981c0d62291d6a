package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// RunMigrations brings the schema up to date. SQLite databases are migrated
// from the gorm models; everything else runs the SQL files in migrationsDir.
func RunMigrations(ctx context.Context, db *gorm.DB, migrationsDir string, log *logger.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info("using gorm auto-migration for sqlite")
		return AutoMigrate(db)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	_, err = NewMigrator(sqlDB, migrationsDir, log).Up(ctx)
	return err
}

// AutoMigrate creates or updates every table from the models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Recipe{}, "Tags", &model.RecipeTag{}); err != nil {
		return fmt.Errorf("failed to set up recipe_tags: %w", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

// Migrator applies "<name>.up.sql" files in lexical order and records each in
// schema_migrations. Rollback runs the matching "<name>.down.sql" of the most
// recent one.
type Migrator struct {
	db  *sql.DB
	dir string
	log *logger.Logger
}

func NewMigrator(db *sql.DB, dir string, log *logger.Logger) *Migrator {
	return &Migrator{db: db, dir: dir, log: log}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// Pending lists migration names not yet applied.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	names, err := m.available()
	if err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, name := range names {
		if !applied[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the names applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var done []string
	for _, name := range pending {
		content, err := os.ReadFile(filepath.Join(m.dir, name+upSuffix))
		if err != nil {
			return done, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		err = m.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return done, err
		}
		m.log.Info("applied migration", "name", name)
		done = append(done, name)
	}
	return done, nil
}

// Rollback reverts the most recently applied migration. It returns "" when
// nothing is applied.
func (m *Migrator) Rollback(ctx context.Context) (string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return "", err
	}
	var name string
	err := m.db.QueryRowContext(ctx, "SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1").Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find last migration: %w", err)
	}
	content, err := os.ReadFile(filepath.Join(m.dir, name+downSuffix))
	if err != nil {
		return "", fmt.Errorf("failed to read rollback for %s: %w", name, err)
	}
	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to roll back %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
			return fmt.Errorf("failed to unrecord migration %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	m.log.Info("rolled back migration", "name", name)
	return name, nil
}

func (m *Migrator) available() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), upSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), upSuffix))
	}
	sort.Strings(names)
	return names, nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (m *Migrator) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
