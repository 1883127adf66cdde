package datastores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// contactsSchemaVersion is the latest schema version, bump it when adding migrations.
const contactsSchemaVersion = 1

// ContactsSQLite implements [ContactsStore] on top of a SQLite database.
type ContactsSQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ ContactsStore = (*ContactsSQLite)(nil)

// OpenContactsSQLite opens (or creates) the database at path and migrates its schema.
// Use ":memory:" for a throwaway database.
func OpenContactsSQLite(path string) (*ContactsSQLite, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single connection: serializes writers and keeps ":memory:" databases alive
	db.SetMaxOpenConns(1)

	err = migrateContacts(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &ContactsSQLite{db: db, now: time.Now}, nil
}

func migrateContacts(db *sql.DB) error {
	var version int
	err := db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version < 1 {
		_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
		  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		  id         TEXT NOT NULL UNIQUE,
		  first      TEXT NOT NULL DEFAULT '',
		  last       TEXT NOT NULL DEFAULT '',
		  avatar     TEXT NOT NULL DEFAULT '',
		  twitter    TEXT NOT NULL DEFAULT '',
		  notes      TEXT NOT NULL DEFAULT '',
		  favorite   INTEGER NOT NULL DEFAULT 0,
		  created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_contacts_created ON contacts(created_at DESC, seq DESC);
		`)
		if err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if version < contactsSchemaVersion {
		_, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", contactsSchemaVersion))
		if err != nil {
			return fmt.Errorf("write user_version: %w", err)
		}
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *ContactsSQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *ContactsSQLite) Close() error { return s.db.Close() }

const contactColumns = `id, first, last, avatar, twitter, notes, favorite, created_at`

type rowScanner interface{ Scan(dest ...any) error }

func scanContact(row rowScanner) (*Contact, error) {
	var (
		c       Contact
		id      string
		created int64
	)
	err := row.Scan(&id, &c.First, &c.Last, &c.Avatar, &c.Twitter, &c.Notes, &c.Favorite, &created)
	if err != nil {
		return nil, err
	}
	err = c.ID.UnmarshalText([]byte(id))
	if err != nil {
		return nil, fmt.Errorf("corrupted id %q: %w", id, err)
	}
	c.CreatedAt = time.Unix(0, created)
	return &c, nil
}

// List filters the scanned rows with [Contact.Matches], SQLite LIKE only folds ASCII letters.
func (s *ContactsSQLite) List(ctx context.Context, query string) ([]*Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if c.Matches(query) {
			contacts = append(contacts, c)
		}
	}
	return contacts, rows.Err()
}

// Count returns the number of stored contacts.
func (s *ContactsSQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func (s *ContactsSQLite) Get(ctx context.Context, id ContactID) (*Contact, error) {
	return getContact(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getContact(ctx context.Context, db queryRower, id ContactID) (*Contact, error) {
	row := db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())
	c, err := scanContact(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrObjectNotFound
	case err != nil:
		return nil, fmt.Errorf("get contact: %w", err)
	default:
		return c, nil
	}
}

func (s *ContactsSQLite) Create(ctx context.Context) (*Contact, error) {
	c := &Contact{ID: newUUID(), CreatedAt: time.Unix(0, s.now().UnixNano())}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, created_at) VALUES (?, ?)`,
		c.ID.String(), c.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

func (s *ContactsSQLite) Update(ctx context.Context, id ContactID, patch *ContactPatch) (*Contact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // no-op after commit

	c, err := getContact(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)

	_, err = tx.ExecContext(ctx,
		`UPDATE contacts SET first = ?, last = ?, avatar = ?, twitter = ?, notes = ?, favorite = ? WHERE id = ?`,
		c.First, c.Last, c.Avatar, c.Twitter, c.Notes, c.Favorite, id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return c, nil
}

func (s *ContactsSQLite) Delete(ctx context.Context, id ContactID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}
	return n > 0, nil
}
