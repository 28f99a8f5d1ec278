package storage

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pable/go-passnet/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the pass-log store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases shared across queries.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// MatchKey is everything that decides which passes and names an import
// stores. Two imports with equal keys produce the same pass log.
type MatchKey struct {
	SourceHash  string
	Format      model.Format
	Team        string
	CutAtSub    bool
	Surnames    bool
	PlayersHash string // Wyscout players file, "" when not used
	TeamsHash   string // Wyscout teams file, "" when not used
}

// MatchID derives the stored id of a pass log from its key.
func MatchID(k MatchKey) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%t|%t|%s|%s",
		k.SourceHash, k.Format, k.Team, k.CutAtSub, k.Surnames, k.PlayersHash, k.TeamsHash)
	return fmt.Sprintf("%x", h.Sum(nil))
}
