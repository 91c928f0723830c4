// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/record"
	"github.com/lexidrill/backend/internal/domain/word"
)

const schema = `
CREATE TABLE IF NOT EXISTS words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    english TEXT NOT NULL,
    chinese TEXT NOT NULL,
    phonetic TEXT NOT NULL DEFAULT '',
    grade INTEGER NOT NULL,
    unit INTEGER NOT NULL,
    book_version TEXT NOT NULL DEFAULT 'PEP',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_words_grade_unit ON words (grade, unit);

CREATE TABLE IF NOT EXISTS test_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    direction TEXT NOT NULL,
    total_questions INTEGER NOT NULL,
    correct_answers INTEGER NOT NULL DEFAULT 0,
    duration INTEGER NOT NULL DEFAULT 0,
    wrong_word_ids TEXT NOT NULL DEFAULT '[]',
    grade INTEGER NOT NULL DEFAULT 0,
    unit INTEGER NOT NULL DEFAULT 0,
    tested_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_test_records_user_date ON test_records (user_id, tested_at);
`

// SQLiteStore backs both the word catalog and the result sink with a
// single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Words (catalog side)
// ============================================================================

func (s *SQLiteStore) SaveWord(ctx context.Context, w *word.Word) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	if w.BookVersion == "" {
		w.BookVersion = "PEP"
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO words (english, chinese, phonetic, grade, unit, book_version, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		w.English, w.Chinese, w.Phonetic, w.Grade, w.Unit, w.BookVersion, w.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	w.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) GetWord(ctx context.Context, id int64) (word.Word, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, english, chinese, phonetic, grade, unit, book_version, created_at FROM words WHERE id = ?",
		id,
	)
	w, err := scanWord(row)
	if err == sql.ErrNoRows {
		return word.Word{}, ErrNotFound
	}
	return w, err
}

// SampleWords returns up to n words matching the filter, chosen
// uniformly at random without replacement. Fewer than n matches is not
// an error; the caller gets whatever exists.
func (s *SQLiteStore) SampleWords(ctx context.Context, f word.Filter, n int) ([]word.Word, error) {
	query := "SELECT id, english, chinese, phonetic, grade, unit, book_version, created_at FROM words"
	var conds []string
	var args []any
	if f.Grade != 0 {
		conds = append(conds, "grade = ?")
		args = append(args, f.Grade)
	}
	if f.Unit != 0 {
		conds = append(conds, "unit = ?")
		args = append(args, f.Unit)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []word.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *SQLiteStore) CountWords(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words").Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (word.Word, error) {
	var w word.Word
	var createdAt string
	if err := row.Scan(&w.ID, &w.English, &w.Chinese, &w.Phonetic, &w.Grade, &w.Unit, &w.BookVersion, &createdAt); err != nil {
		return word.Word{}, err
	}
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return w, nil
}

// ============================================================================
// Test records (result sink side)
// ============================================================================

// SaveRecord appends a finished session's summary and assigns its id.
func (s *SQLiteStore) SaveRecord(ctx context.Context, r *record.TestRecord) error {
	if r.TestedAt.IsZero() {
		r.TestedAt = time.Now().UTC()
	}
	wrongJSON, _ := json.Marshal(r.WrongWordIDs)

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO test_records (user_id, direction, total_questions, correct_answers, duration, wrong_word_ids, grade, unit, tested_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.UserID, string(r.Direction), r.TotalQuestions, r.CorrectAnswers, r.Duration,
		string(wrongJSON), r.Grade, r.Unit, r.TestedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// GetRecord returns one of the user's records by id.
func (s *SQLiteStore) GetRecord(ctx context.Context, userID string, id int64) (*record.TestRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, direction, total_questions, correct_answers, duration, wrong_word_ids, grade, unit, tested_at FROM test_records WHERE id = ? AND user_id = ?",
		id, userID,
	)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecords returns the user's records, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context, userID string, limit int) ([]*record.TestRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, direction, total_questions, correct_answers, duration, wrong_word_ids, grade, unit, tested_at FROM test_records WHERE user_id = ? ORDER BY tested_at DESC, id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*record.TestRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordStats aggregates the user's records tested at or after since.
func (s *SQLiteStore) RecordStats(ctx context.Context, userID string, since time.Time) (record.Stats, error) {
	var stats record.Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total_questions), 0), COALESCE(SUM(correct_answers), 0) FROM test_records WHERE user_id = ? AND tested_at >= ?",
		userID, since.UTC().Format(time.RFC3339),
	).Scan(&stats.TotalTests, &stats.TotalQuestions, &stats.TotalCorrect)
	if err != nil {
		return record.Stats{}, err
	}
	if stats.TotalQuestions > 0 {
		stats.AverageScore = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}
	return stats, nil
}

func scanRecord(row rowScanner) (*record.TestRecord, error) {
	var r record.TestRecord
	var direction, wrongJSON, testedAt string
	if err := row.Scan(&r.ID, &r.UserID, &direction, &r.TotalQuestions, &r.CorrectAnswers, &r.Duration, &wrongJSON, &r.Grade, &r.Unit, &testedAt); err != nil {
		return nil, err
	}
	r.Direction = quiz.Direction(direction)
	if err := json.Unmarshal([]byte(wrongJSON), &r.WrongWordIDs); err != nil {
		r.WrongWordIDs = nil
	}
	r.TestedAt, _ = time.Parse(time.RFC3339, testedAt)
	return &r, nil
}
