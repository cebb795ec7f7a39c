package importer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnknownAdapter is returned for an adapter ID that was never seeded.
var ErrUnknownAdapter = errors.New("adapter not in ledger")

// Check is the outcome of one availability check of a source URL.
type Check struct {
	At     time.Time `json:"at"`
	Status int       `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// Summary describes what one import wrote.
type Summary struct {
	At         time.Time `json:"at"`
	Version    string    `json:"version"`
	Rows       int       `json:"rows"`
	Indicators []string  `json:"indicators,omitempty"`
}

// Entry is one adapter's ledger row.
type Entry struct {
	Adapter     string   `json:"adapter"`
	Dataset     string   `json:"dataset"`
	Description string   `json:"description"`
	License     string   `json:"license"`
	URL         string   `json:"url"`
	Overridden  bool     `json:"overridden"`
	Check       *Check   `json:"check,omitempty"`
	Import      *Summary `json:"import,omitempty"`
}

// Ledger records, per adapter, the URL it downloads from, the last
// availability check and the last successful import. It lives in
// <data-dir>/sources.db.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

const ledgerSchema = `CREATE TABLE IF NOT EXISTS sources (
	adapter      TEXT PRIMARY KEY,
	dataset      TEXT NOT NULL,
	description  TEXT NOT NULL,
	license      TEXT NOT NULL,
	default_url  TEXT NOT NULL,
	override_url TEXT,
	checked_at   INTEGER,
	http_status  INTEGER,
	check_error  TEXT,
	imported_at  INTEGER,
	version      TEXT,
	row_count    INTEGER,
	indicators   TEXT
)`

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Ledger{db: db, now: time.Now}, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

// Seed upserts the static description of each adapter. A changed default
// URL is picked up; an operator override is kept.
func (l *Ledger) Seed(adapters []Adapter) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO sources (adapter, dataset, description, license, default_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(adapter) DO UPDATE SET
			dataset = excluded.dataset,
			description = excluded.description,
			license = excluded.license,
			default_url = excluded.default_url`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range adapters {
		if _, err := stmt.Exec(a.ID(), a.DatasetID(), a.Description(), a.License(), a.DefaultURL()); err != nil {
			return fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return tx.Commit()
}

// URL returns the URL an adapter downloads from: the override if one is
// set, else its default.
func (l *Ledger) URL(adapter string) (string, error) {
	var url string
	err := l.db.QueryRow(`SELECT COALESCE(override_url, default_url) FROM sources WHERE adapter = ?`, adapter).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrUnknownAdapter, adapter)
	}
	if err != nil {
		return "", fmt.Errorf("url of %s: %w", adapter, err)
	}
	return url, nil
}

// Override pins an adapter to url. An empty url restores the default.
func (l *Ledger) Override(adapter, url string) error {
	var v any
	if url != "" {
		v = url
	}
	return l.update(adapter, `UPDATE sources SET override_url = ? WHERE adapter = ?`, v, adapter)
}

// RecordCheck stores the answer of an availability check. status is 0 when
// the request did not complete.
func (l *Ledger) RecordCheck(adapter string, status int, checkErr error) error {
	var msg any
	if checkErr != nil {
		msg = checkErr.Error()
	}
	return l.update(adapter,
		`UPDATE sources SET checked_at = ?, http_status = ?, check_error = ? WHERE adapter = ?`,
		l.now().Unix(), status, msg, adapter)
}

// RecordImport stores the summary of a successful import. A zero s.At is
// set to the current time.
func (l *Ledger) RecordImport(adapter string, s Summary) error {
	if s.At.IsZero() {
		s.At = l.now()
	}
	inds, err := json.Marshal(s.Indicators)
	if err != nil {
		return err
	}
	return l.update(adapter,
		`UPDATE sources SET imported_at = ?, version = ?, row_count = ?, indicators = ? WHERE adapter = ?`,
		s.At.Unix(), s.Version, s.Rows, string(inds), adapter)
}

func (l *Ledger) update(adapter, q string, args ...any) error {
	res, err := l.db.Exec(q, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", adapter, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAdapter, adapter)
	}
	return nil
}

// Entries lists every adapter in ID order.
func (l *Ledger) Entries() ([]Entry, error) {
	rows, err := l.db.Query(`SELECT adapter, dataset, description, license,
		COALESCE(override_url, default_url), override_url IS NOT NULL,
		checked_at, http_status, check_error,
		imported_at, version, row_count, indicators
		FROM sources ORDER BY adapter`)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			checkedAt sql.NullInt64
			status    sql.NullInt64
			checkErr  sql.NullString
			importAt  sql.NullInt64
			version   sql.NullString
			rowCount  sql.NullInt64
			inds      sql.NullString
		)
		if err := rows.Scan(&e.Adapter, &e.Dataset, &e.Description, &e.License,
			&e.URL, &e.Overridden,
			&checkedAt, &status, &checkErr,
			&importAt, &version, &rowCount, &inds); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		if checkedAt.Valid {
			e.Check = &Check{At: time.Unix(checkedAt.Int64, 0), Status: int(status.Int64), Error: checkErr.String}
		}
		if importAt.Valid {
			e.Import = &Summary{At: time.Unix(importAt.Int64, 0), Version: version.String, Rows: int(rowCount.Int64)}
			if inds.Valid {
				if err := json.Unmarshal([]byte(inds.String), &e.Import.Indicators); err != nil {
					return nil, fmt.Errorf("%s indicators: %w", e.Adapter, err)
				}
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
