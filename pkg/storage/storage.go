package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/partstash/partstash/pkg/inventory"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS part_entries (
  id             INTEGER PRIMARY KEY,
  project_id     TEXT NOT NULL,
  box_id         TEXT NOT NULL,
  part_id        TEXT NOT NULL,
  mpn            TEXT,
  ipn            TEXT,
  manufacturer   TEXT,
  date_code      TEXT,
  quantity       INTEGER NOT NULL DEFAULT 0,
  review_status  TEXT NOT NULL DEFAULT 'never_reviewed',
  run_id         INTEGER NOT NULL DEFAULT 0,
  first_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(part_id)
);
CREATE INDEX IF NOT EXISTS idx_parts_project ON part_entries(project_id);
CREATE INDEX IF NOT EXISTS idx_parts_box ON part_entries(project_id, box_id);
CREATE TABLE IF NOT EXISTS part_changes (
  id             INTEGER PRIMARY KEY,
  occurred_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  project_id     TEXT NOT NULL,
  box_id         TEXT NOT NULL,
  part_id        TEXT NOT NULL,
  mpn            TEXT,
  review_status  TEXT,
  change_type    TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON part_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_project ON part_changes(project_id, occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// BuildEntries converts fetched parts into cache entries.
func BuildEntries(projectID string, parts []inventory.Part) ([]Entry, error) {
	if projectID == "" {
		return nil, fmt.Errorf("invalid project identifier")
	}
	out := make([]Entry, 0, len(parts))
	for _, p := range parts {
		out = append(out, Entry{
			ProjectID:    projectID,
			BoxID:        p.BoxID,
			PartID:       p.ID,
			MPN:          p.MPN,
			IPN:          p.IPN,
			Manufacturer: p.Manufacturer,
			DateCode:     p.DateCode,
			Quantity:     p.Quantity,
			ReviewStatus: p.ReviewStatus,
		})
	}
	return out, nil
}

// UpsertProjectParts reconciles one project's snapshot against the
// previous run, journaling added/updated/removed parts. Entries not
// touched in this run are swept as removed.
func (d *DB) UpsertProjectParts(ctx context.Context, projectID string, entries []Entry) ([]Change, error) {
	now := time.Now().UTC()
	runID := time.Now().UnixNano()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT part_id, box_id, mpn, ipn, manufacturer, date_code, quantity, review_status FROM part_entries WHERE project_id = ?", projectID)
	if err != nil {
		return nil, err
	}

	type existing struct {
		BoxID, MPN, IPN, Manufacturer, DateCode, ReviewStatus string
		Quantity                                              int
	}
	existingMap := make(map[string]existing)
	for rows.Next() {
		var (
			partID, boxID, status string
			mpn, ipn, mfr, dc     sql.NullString
			qty                   int
		)
		if err = rows.Scan(&partID, &boxID, &mpn, &ipn, &mfr, &dc, &qty, &status); err != nil {
			rows.Close()
			return nil, err
		}
		existingMap[identityKey(partID)] = existing{BoxID: boxID, MPN: mpn.String, IPN: ipn.String, Manufacturer: mfr.String, DateCode: dc.String, ReviewStatus: status, Quantity: qty}
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	var changes []Change
	for _, e := range entries {
		key := identityKey(e.PartID)
		ex, existed := existingMap[key]

		if !existed {
			_, err = tx.ExecContext(ctx, `INSERT INTO part_entries(project_id, box_id, part_id, mpn, ipn, manufacturer, date_code, quantity, review_status, run_id, first_seen_at, last_seen_at) VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`, e.ProjectID, e.BoxID, e.PartID, nullIfEmpty(e.MPN), nullIfEmpty(e.IPN), nullIfEmpty(e.Manufacturer), nullIfEmpty(e.DateCode), e.Quantity, e.ReviewStatus, runID)
			if err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, ProjectID: projectID, BoxID: e.BoxID, PartID: e.PartID, MPN: e.MPN, ReviewStatus: e.ReviewStatus, ChangeType: "added"})
			existingMap[key] = existing{BoxID: e.BoxID, MPN: e.MPN, IPN: e.IPN, Manufacturer: e.Manufacturer, DateCode: e.DateCode, ReviewStatus: e.ReviewStatus, Quantity: e.Quantity}
		} else {
			same := ex.BoxID == e.BoxID && ex.MPN == e.MPN && ex.IPN == e.IPN && ex.Manufacturer == e.Manufacturer && ex.DateCode == e.DateCode && ex.Quantity == e.Quantity && ex.ReviewStatus == e.ReviewStatus
			if !same {
				_, err = tx.ExecContext(ctx, `UPDATE part_entries SET box_id = ?, mpn = ?, ipn = ?, manufacturer = ?, date_code = ?, quantity = ?, review_status = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE part_id = ?`, e.BoxID, nullIfEmpty(e.MPN), nullIfEmpty(e.IPN), nullIfEmpty(e.Manufacturer), nullIfEmpty(e.DateCode), e.Quantity, e.ReviewStatus, runID, e.PartID)
				if err != nil {
					return nil, err
				}
				changes = append(changes, Change{OccurredAt: now, ProjectID: projectID, BoxID: e.BoxID, PartID: e.PartID, MPN: e.MPN, ReviewStatus: e.ReviewStatus, ChangeType: "updated"})
			} else {
				_, err = tx.ExecContext(ctx, `UPDATE part_entries SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE part_id = ?`, runID, e.PartID)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	// Sweep: find and delete entries not touched in this run, log removals
	staleRows, err := tx.QueryContext(ctx, "SELECT part_id, box_id, mpn, review_status FROM part_entries WHERE project_id = ? AND run_id != ?", projectID, runID)
	if err != nil {
		return nil, err
	}

	type staleEntry struct {
		PartID, BoxID, MPN, ReviewStatus string
	}
	var toRemove []staleEntry
	for staleRows.Next() {
		var s staleEntry
		var mpn sql.NullString
		if err = staleRows.Scan(&s.PartID, &s.BoxID, &mpn, &s.ReviewStatus); err != nil {
			staleRows.Close()
			return nil, err
		}
		s.MPN = mpn.String
		toRemove = append(toRemove, s)
	}
	if err = staleRows.Close(); err != nil {
		return nil, err
	}

	if len(toRemove) > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM part_entries WHERE project_id = ? AND run_id != ?`, projectID, runID)
		if err != nil {
			return nil, err
		}
		for _, s := range toRemove {
			changes = append(changes, Change{OccurredAt: now, ProjectID: projectID, BoxID: s.BoxID, PartID: s.PartID, MPN: s.MPN, ReviewStatus: s.ReviewStatus, ChangeType: "removed"})
		}
	}

	for _, c := range changes {
		_, err = tx.ExecContext(ctx, `INSERT INTO part_changes(occurred_at, project_id, box_id, part_id, mpn, review_status, change_type) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, ?, ?, ?)`, c.ProjectID, c.BoxID, c.PartID, nullIfEmpty(c.MPN), c.ReviewStatus, c.ChangeType)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

// ListOptions controls selection when listing cached parts.
type ListOptions struct {
	ProjectID    string
	BoxID        string
	MPNFilter    string
	ReviewStatus string
	Since        time.Time
}

// ListEntries returns cached part snapshots matching filters.
func (d *DB) ListEntries(ctx context.Context, opts ListOptions) ([]Entry, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.ProjectID != "" {
		where += " AND project_id = ?"
		args = append(args, opts.ProjectID)
	}
	if opts.BoxID != "" {
		where += " AND box_id = ?"
		args = append(args, opts.BoxID)
	}
	if opts.MPNFilter != "" {
		where += " AND mpn LIKE ?"
		args = append(args, fmt.Sprintf("%%%s%%", opts.MPNFilter))
	}
	if opts.ReviewStatus != "" {
		where += " AND review_status = ?"
		args = append(args, opts.ReviewStatus)
	}
	if !opts.Since.IsZero() {
		where += " AND last_seen_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	q := "SELECT project_id, box_id, part_id, mpn, ipn, manufacturer, date_code, quantity, review_status FROM part_entries " + where + " ORDER BY project_id, box_id, mpn"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var mpn, ipn, mfr, dc sql.NullString
		if err := rows.Scan(&e.ProjectID, &e.BoxID, &e.PartID, &mpn, &ipn, &mfr, &dc, &e.Quantity, &e.ReviewStatus); err != nil {
			return nil, err
		}
		e.MPN = mpn.String
		e.IPN = ipn.String
		e.Manufacturer = mfr.String
		e.DateCode = dc.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecentChanges returns the most recent N changes across all projects.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, project_id, box_id, part_id, mpn, review_status, change_type FROM part_changes ORDER BY occurred_at DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAtStr string
		var mpn, status sql.NullString
		if err := rows.Scan(&occurredAtStr, &c.ProjectID, &c.BoxID, &c.PartID, &mpn, &status, &c.ChangeType); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format
		// Try "2006-01-02 15:04:05" then RFC3339
		if t, perr := time.Parse("2006-01-02 15:04:05", occurredAtStr); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			c.OccurredAt = t2
		} else {
			c.OccurredAt = time.Time{}
		}
		c.MPN = mpn.String
		c.ReviewStatus = status.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

type ProjectStats struct {
	ProjectID     string
	BoxCount      int
	PartCount     int
	ReviewedCount int
}

func (d *DB) GetStats(ctx context.Context) ([]ProjectStats, error) {
	query := `
		SELECT
			project_id,
			COUNT(DISTINCT box_id),
			COUNT(part_id),
			SUM(CASE WHEN review_status = 'reviewed' THEN 1 ELSE 0 END)
		FROM
			part_entries
		GROUP BY
			project_id
		ORDER BY
			project_id;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ProjectStats
	for rows.Next() {
		var s ProjectStats
		if err := rows.Scan(&s.ProjectID, &s.BoxCount, &s.PartCount, &s.ReviewedCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetProjectPartCount returns the number of cached parts for a project.
func (d *DB) GetProjectPartCount(ctx context.Context, projectID string) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM part_entries WHERE project_id = ?", projectID).Scan(&n)
	return n, err
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
