package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
-- Dataset / persona / chat activity (audit trail, chat text is never stored)
CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    detail TEXT,
    line_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_session ON activity_log(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_log(created_at);
`

// Activity kinds
const (
	KindAppendText    = "append_text"
	KindAppendImage   = "append_image"
	KindSave          = "save"
	KindLoad          = "load"
	KindClear         = "clear"
	KindPersonaUpdate = "persona_update"
	KindPersonaReset  = "persona_reset"
	KindChat          = "chat"
)

// tsLayout is fixed width so timestamps compare correctly as text
const tsLayout = "2006-01-02T15:04:05.000000Z"

type DB struct {
	conn  *sql.DB
	clock clockwork.Clock
}

func Open(path string) (*DB, error) {
	return OpenWithClock(path, clockwork.NewRealClock())
}

// OpenWithClock opens the database using clock for row timestamps
func OpenWithClock(path string, clock clockwork.Clock) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, clock: clock}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the connection
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// LogActivity records a session event
func (db *DB) LogActivity(sessionID, kind, detail string, lineCount int) error {
	_, err := db.conn.Exec(`
		INSERT INTO activity_log (id, session_id, kind, detail, line_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, "act_"+uuid.NewString(), sessionID, kind, detail, lineCount, db.now())
	return err
}

// RecentActivity returns a session's events since the given time, oldest first.
// An empty sessionID matches every session.
func (db *DB) RecentActivity(sessionID string, since time.Time) ([]Activity, error) {
	query := `SELECT id, session_id, kind, detail, line_count, created_at FROM activity_log WHERE created_at >= ?`
	args := []interface{}{since.UTC().Format(tsLayout)}

	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at ASC, rowid ASC LIMIT 500`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []Activity
	for rows.Next() {
		var a Activity
		var detail sql.NullString
		var createdStr string
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Kind, &detail, &a.LineCount, &createdStr); err != nil {
			return nil, err
		}
		a.Detail = detail.String
		a.CreatedAt, _ = time.Parse(tsLayout, createdStr)
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

// PruneActivity deletes events created before the cutoff and returns how many were removed
func (db *DB) PruneActivity(before time.Time) (int64, error) {
	result, err := db.conn.Exec(`
		DELETE FROM activity_log WHERE created_at < ?
	`, before.UTC().Format(tsLayout))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (db *DB) now() string {
	return db.clock.Now().UTC().Format(tsLayout)
}

type Activity struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	LineCount int       `json:"line_count"`
	CreatedAt time.Time `json:"created_at"`
}
