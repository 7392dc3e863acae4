package itemstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/lumo-app/lumo/internal/fileutil"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const itemColumns = "id, name, description, createdAt, updatedAt"

// versionTable is the goose provider's default bookkeeping table.
const versionTable = "goose_db_version"

// Store is an item store over one SQLite database file. It is safe for
// concurrent use; SQLite serializes writers, so the pool holds a single
// connection.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens or creates the database at path and applies pending
// migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	s := &Store{db: db, path: path, log: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", path)
	return s, nil
}

// pragmas are applied by the driver to every new connection.
const pragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// dsn builds a file: URI for path. The path is percent-encoded because
// SQLite decodes URI filenames and would otherwise cut the name at '#' or
// '?' and misread '%'.
func dsn(path string) string {
	p := filepath.ToSlash(path)
	if filepath.VolumeName(path) != "" {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: pragmas}
	return u.String()
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	pending, err := provider.HasPending(ctx)
	if err != nil {
		return fmt.Errorf("check pending migrations: %w", err)
	}
	if !pending {
		return nil
	}
	if err := s.backup(ctx); err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		s.log.Debug("migration applied", "source", r.Source.Path, "duration", r.Duration)
	}
	return nil
}

// BackupPath returns where Open keeps the copy of the database taken before
// the last schema migration.
func BackupPath(dbPath string) string {
	return dbPath + ".bak"
}

// backup copies the database aside before a migration changes it. A fresh
// database with no tables besides bookkeeping has nothing worth keeping.
func (s *Store) backup(ctx context.Context) error {
	var tables int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master
		 WHERE type = 'table' AND name <> ? AND name NOT LIKE 'sqlite\_%' ESCAPE '\'`,
		versionTable).Scan(&tables); err != nil {
		return fmt.Errorf("inspect database: %w", err)
	}
	if tables == 0 {
		return nil
	}

	// Fold the WAL into the main file so the copy is complete.
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint database: %w", err)
	}
	dst := BackupPath(s.path)
	if err := fileutil.AtomicCopy(s.path, dst); err != nil {
		return fmt.Errorf("back up database before migration: %w", err)
	}
	s.log.Info("database backed up before migration", "backup", dst)
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		it   Item
		desc sql.NullString
	)
	if err := row.Scan(&it.ID, &it.Name, &desc, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return Item{}, err
	}
	if desc.Valid {
		it.Description = &desc.String
	}
	return it, nil
}

// List returns all items, newest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM Item ORDER BY createdAt DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get returns the item with id, or ErrItemNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM Item WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("get item %d: %w", id, ErrItemNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

// Create validates and inserts a new item and returns it as stored.
func (s *Store) Create(ctx context.Context, in CreateInput) (Item, error) {
	if err := in.Validate(); err != nil {
		return Item{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO Item (name, description) VALUES (?, ?)",
		in.Name, orEmpty(in.Description))
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return s.Get(ctx, id)
}

// Update changes the fields set in in, bumps updatedAt and returns the
// stored item. Returns ErrItemNotFound when in.ID does not exist.
func (s *Store) Update(ctx context.Context, in UpdateInput) (Item, error) {
	if err := in.Validate(); err != nil {
		return Item{}, err
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	sets = append(sets, "updatedAt = CURRENT_TIMESTAMP")
	args = append(args, in.ID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE Item SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return Item{}, fmt.Errorf("update item %d: %w", in.ID, err)
	}
	if err := requireRow(res); err != nil {
		return Item{}, fmt.Errorf("update item %d: %w", in.ID, err)
	}
	return s.Get(ctx, in.ID)
}

// Delete removes the item with id. Returns ErrItemNotFound when it does not
// exist.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM Item WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}
