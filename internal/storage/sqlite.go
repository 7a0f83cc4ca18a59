package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/evermail/eventdialog/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS recipient_routes (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			telegram_chat_id INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			event_title TEXT NOT NULL DEFAULT '',
			event_start DATETIME NOT NULL,
			notify_at DATETIME NOT NULL,
			sent_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_event_id ON deliveries(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_notify_at ON deliveries(notify_at)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_sent_at ON deliveries(sent_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// === Recipient routes ===

func (s *Storage) UpsertRecipientRoute(r *domain.RecipientRoute) error {
	_, err := s.db.Exec(
		`INSERT INTO recipient_routes (user_id, name, telegram_chat_id) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET name = excluded.name, telegram_chat_id = excluded.telegram_chat_id`,
		r.UserID, r.Name, r.TelegramChatID,
	)
	return err
}

func (s *Storage) GetRecipientRoute(userID string) (*domain.RecipientRoute, error) {
	r := &domain.RecipientRoute{}
	err := s.db.QueryRow(
		`SELECT user_id, name, telegram_chat_id FROM recipient_routes WHERE user_id = ?`,
		userID,
	).Scan(&r.UserID, &r.Name, &r.TelegramChatID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// === Deliveries ===

// ReplaceEventDeliveries swaps the unsent deliveries of an event for the
// given set in one transaction. Already-sent rows are kept for history.
func (s *Storage) ReplaceEventDeliveries(eventID string, deliveries []*domain.Delivery) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM deliveries WHERE event_id = ? AND sent_at IS NULL`, eventID); err != nil {
		return fmt.Errorf("clear deliveries: %w", err)
	}

	for _, d := range deliveries {
		res, err := tx.Exec(
			`INSERT INTO deliveries (event_id, user_id, event_title, event_start, notify_at)
			 VALUES (?, ?, ?, ?, ?)`,
			eventID, d.UserID, d.EventTitle, d.EventStart, d.NotifyAt,
		)
		if err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}
		id, _ := res.LastInsertId()
		d.ID = id
	}

	return tx.Commit()
}

func (s *Storage) DeleteEventDeliveries(eventID string) error {
	_, err := s.db.Exec(`DELETE FROM deliveries WHERE event_id = ?`, eventID)
	return err
}

// ListDueDeliveries returns unsent deliveries whose notify time has passed.
func (s *Storage) ListDueDeliveries(now time.Time) ([]*domain.Delivery, error) {
	rows, err := s.db.Query(
		`SELECT id, event_id, user_id, event_title, event_start, notify_at, sent_at, created_at
		 FROM deliveries
		 WHERE sent_at IS NULL AND notify_at <= ?
		 ORDER BY notify_at`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*domain.Delivery
	for rows.Next() {
		d := &domain.Delivery{}
		var sentAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.EventTitle, &d.EventStart, &d.NotifyAt, &sentAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			d.SentAt = &sentAt.Time
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (s *Storage) MarkDeliverySent(id int64, sentAt time.Time) error {
	_, err := s.db.Exec(`UPDATE deliveries SET sent_at = ? WHERE id = ?`, sentAt, id)
	return err
}
