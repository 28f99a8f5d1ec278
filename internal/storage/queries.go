package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pable/go-passnet/internal/model"
)

// MatchExists returns true if a pass log with the given id is already stored.
func (db *DB) MatchExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores a match and its passes in one transaction, replacing any
// previous log with the same id.
func (db *DB) InsertMatch(m model.Match, passes []model.PassEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM passes WHERE match_id = ?", m.ID); err != nil {
		return fmt.Errorf("clear passes: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(id, source_hash, format, match_id, team, opponent, label, cutoff_index, pass_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SourceHash, string(m.Format), m.MatchID, m.Team, m.Opponent, m.Label,
		m.CutoffIndex, len(passes), m.ImportedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO passes(match_id, seq, event_index, minute, passer, recipient, origin_x, origin_y, dest_x, dest_y)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range passes {
		_, err = stmt.Exec(m.ID, i, p.Index, p.Minute, p.Passer, p.Recipient,
			p.Origin.X, p.Origin.Y, p.Destination.X, p.Destination.Y)
		if err != nil {
			return fmt.Errorf("insert pass %d: %w", p.Index, err)
		}
	}
	return tx.Commit()
}

const matchColumns = `id, source_hash, format, match_id, team, opponent, label, cutoff_index, pass_count, imported_at`

func scanMatch(row interface{ Scan(...any) error }) (model.Match, error) {
	var m model.Match
	var format, importedAt string
	if err := row.Scan(&m.ID, &m.SourceHash, &format, &m.MatchID, &m.Team, &m.Opponent,
		&m.Label, &m.CutoffIndex, &m.PassCount, &importedAt); err != nil {
		return m, err
	}
	m.Format = model.Format(format)
	m.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return m, nil
}

// ListMatches returns all stored pass logs, newest import first.
func (db *DB) ListMatches() ([]model.Match, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY imported_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
// The prefix is compared literally, ignoring case. It returns nil, nil when
// nothing matches.
func (db *DB) GetMatchByPrefix(prefix string) (*model.Match, error) {
	prefix = strings.ToLower(prefix)
	m, err := scanMatch(db.conn.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 1`,
		len(prefix), prefix))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetPasses returns the stored passes of a match in import order.
func (db *DB) GetPasses(matchID string) ([]model.PassEvent, error) {
	rows, err := db.conn.Query(`
		SELECT event_index, minute, passer, recipient, origin_x, origin_y, dest_x, dest_y
		FROM passes WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PassEvent
	for rows.Next() {
		var p model.PassEvent
		if err := rows.Scan(&p.Index, &p.Minute, &p.Passer, &p.Recipient,
			&p.Origin.X, &p.Origin.Y, &p.Destination.X, &p.Destination.Y); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteMatch removes a match and its passes. It reports whether anything was deleted.
func (db *DB) DeleteMatch(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM passes WHERE match_id = ?", id); err != nil {
		return false, err
	}
	res, err := tx.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// GetOverview returns store-wide counts.
func (db *DB) GetOverview() (model.Overview, error) {
	var ov model.Overview
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM matches),
			(SELECT COUNT(1) FROM passes),
			(SELECT COUNT(DISTINCT team) FROM matches),
			(SELECT COUNT(DISTINCT name) FROM (
				SELECT passer AS name FROM passes UNION SELECT recipient FROM passes))`).
		Scan(&ov.TotalMatches, &ov.TotalPasses, &ov.UniqueTeams, &ov.Players)
	return ov, err
}

// TeamPassCount is one row of the per-team breakdown.
type TeamPassCount struct {
	Team    string
	Matches int
	Passes  int
}

// GetTeamPassCounts returns stored matches and passes per team, busiest first.
func (db *DB) GetTeamPassCounts() ([]TeamPassCount, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(1), COALESCE(SUM(pass_count), 0)
		FROM matches GROUP BY team ORDER BY SUM(pass_count) DESC, team`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamPassCount
	for rows.Next() {
		var t TeamPassCount
		if err := rows.Scan(&t.Team, &t.Matches, &t.Passes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			case float64:
				row[i] = fmt.Sprintf("%.4g", x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
