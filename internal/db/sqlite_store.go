package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ederowe/voiceform/internal/services"
)

// SQLiteStore persists submitted interviews. Sessions never touch it; only
// the frozen snapshot of a passing submit is written.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// SaveSubmission writes the submission and its answer rows in one transaction.
func (s *SQLiteStore) SaveSubmission(sub *services.Submission) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO submissions (id, name, email, submitted_at) VALUES (?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.SubmittedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	for _, a := range sub.Answers {
		if _, err := tx.Exec(
			`INSERT INTO submission_answers
			   (submission_id, position, question_id, text, audio_locator, audio_payload, audio_size)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, a.Position, a.QuestionID, a.Text, a.AudioLocator, a.AudioPayload, a.AudioSize,
		); err != nil {
			return fmt.Errorf("insert answer %d: %w", a.Position, err)
		}
	}
	return tx.Commit()
}

// ListSubmissions returns every stored submission with its answers, ordered
// by submission time. Audio payloads are not loaded; listings carry locators
// and sizes only.
func (s *SQLiteStore) ListSubmissions() ([]*services.Submission, error) {
	rows, err := s.db.Query(
		`SELECT id, name, email, submitted_at FROM submissions ORDER BY submitted_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []*services.Submission
	byID := map[string]*services.Submission{}
	for rows.Next() {
		var sub services.Submission
		var ts string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &ts); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse submitted_at %q: %w", ts, err)
		}
		sub.SubmittedAt = t
		subs = append(subs, &sub)
		byID[sub.ID] = &sub
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ansRows, err := s.db.Query(
		`SELECT submission_id, position, question_id, text, audio_locator, audio_size
		   FROM submission_answers ORDER BY submission_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer ansRows.Close()
	for ansRows.Next() {
		var subID string
		var a services.SubmissionAnswer
		if err := ansRows.Scan(&subID, &a.Position, &a.QuestionID, &a.Text, &a.AudioLocator, &a.AudioSize); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if sub := byID[subID]; sub != nil {
			sub.Answers = append(sub.Answers, a)
		}
	}
	if err := ansRows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

// AudioPayload loads one answer's raw audio bytes on demand.
func (s *SQLiteStore) AudioPayload(submissionID string, position int) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT audio_payload FROM submission_answers WHERE submission_id = ? AND position = ?`,
		submissionID, position,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.NewNotFoundError("answer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query payload: %w", err)
	}
	return payload, nil
}
