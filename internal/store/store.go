package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sqlite (transfer history).
type DB struct {
	*sql.DB
}

// Open opens db at path, runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transfers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			remote_addr TEXT NOT NULL,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			declared_size INTEGER NOT NULL,
			received_size INTEGER NOT NULL,
			digest TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_transfers_started ON transfers(started_at);
		CREATE INDEX IF NOT EXISTS idx_transfers_status ON transfers(status);
	`)
	return err
}

// Transfer statuses.
const (
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Transfer: one finished receiver session.
type Transfer struct {
	ID           int64
	SessionID    string
	RemoteAddr   string
	Filename     string
	Path         string
	DeclaredSize int64
	ReceivedSize int64
	Digest       string
	Status       string
	Error        string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Add inserts a finished transfer.
func (db *DB) Add(t *Transfer) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO transfers (session_id, remote_addr, filename, path, declared_size, received_size, digest, status, error, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.SessionID, t.RemoteAddr, t.Filename, t.Path, t.DeclaredSize, t.ReceivedSize, t.Digest, t.Status, t.Error,
		t.StartedAt.UTC().Format(time.RFC3339), t.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// BySession returns the transfer for a session id or nil.
func (db *DB) BySession(sessionID string) (*Transfer, error) {
	row := db.QueryRow(
		"SELECT id, session_id, remote_addr, filename, path, declared_size, received_size, digest, status, error, started_at, finished_at FROM transfers WHERE session_id = ?",
		sessionID)
	t, err := scanTransfer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListRecent returns up to limit transfers, newest first.
func (db *DB) ListRecent(limit int) ([]Transfer, error) {
	rows, err := db.Query(
		"SELECT id, session_id, remote_addr, filename, path, declared_size, received_size, digest, status, error, started_at, finished_at FROM transfers ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransfer(s scanner) (*Transfer, error) {
	var t Transfer
	var started, finished string
	err := s.Scan(&t.ID, &t.SessionID, &t.RemoteAddr, &t.Filename, &t.Path, &t.DeclaredSize,
		&t.ReceivedSize, &t.Digest, &t.Status, &t.Error, &started, &finished)
	if err != nil {
		return nil, err
	}
	t.StartedAt, _ = time.Parse(time.RFC3339, started)
	t.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	return &t, nil
}
