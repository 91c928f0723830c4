package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexidrill/backend/internal/domain/quiz"
	"github.com/lexidrill/backend/internal/domain/record"
	"github.com/lexidrill/backend/internal/domain/word"
	"github.com/lexidrill/backend/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedWords(t *testing.T, s *store.SQLiteStore, words []word.Word) []word.Word {
	t.Helper()
	ctx := context.Background()
	out := make([]word.Word, 0, len(words))
	for _, w := range words {
		if err := s.SaveWord(ctx, &w); err != nil {
			t.Fatalf("save word %q: %v", w.English, err)
		}
		out = append(out, w)
	}
	return out
}

func TestSaveAndGetWord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := word.Word{English: "apple", Chinese: "苹果", Phonetic: "/ˈæpl/", Grade: 3, Unit: 1}
	if err := s.SaveWord(ctx, &w); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if w.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	got, err := s.GetWord(ctx, w.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.English != "apple" || got.Chinese != "苹果" || got.Grade != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.BookVersion != "PEP" {
		t.Errorf("expected default book version PEP, got %q", got.BookVersion)
	}
}

func TestGetWord_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetWord(context.Background(), 12345); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSampleWords_FilterAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedWords(t, s, []word.Word{
		{English: "apple", Chinese: "苹果", Grade: 3, Unit: 1},
		{English: "banana", Chinese: "香蕉", Grade: 3, Unit: 1},
		{English: "cat", Chinese: "猫", Grade: 3, Unit: 2},
		{English: "book", Chinese: "书", Grade: 4, Unit: 1},
	})

	grade3, err := s.SampleWords(ctx, word.Filter{Grade: 3}, 10)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(grade3) != 3 {
		t.Errorf("expected all 3 grade-3 words, got %d", len(grade3))
	}

	unit1, err := s.SampleWords(ctx, word.Filter{Grade: 3, Unit: 1}, 10)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(unit1) != 2 {
		t.Errorf("expected 2 words in grade 3 unit 1, got %d", len(unit1))
	}

	limited, err := s.SampleWords(ctx, word.Filter{}, 2)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected sample capped at 2, got %d", len(limited))
	}
	if limited[0].ID == limited[1].ID {
		t.Error("sample drew the same word twice")
	}

	none, err := s.SampleWords(ctx, word.Filter{Grade: 9}, 10)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty sample, got %d words", len(none))
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &record.TestRecord{
		UserID:         "user-1",
		Direction:      quiz.DirectionCNToEN,
		TotalQuestions: 10,
		CorrectAnswers: 7,
		Duration:       95,
		WrongWordIDs:   []int64{3, 5, 8},
		Grade:          3,
		Unit:           1,
		TestedAt:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := s.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected an assigned record id")
	}

	got, err := s.GetRecord(ctx, "user-1", rec.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.CorrectAnswers != 7 || got.Direction != quiz.DirectionCNToEN {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.WrongWordIDs) != 3 || got.WrongWordIDs[0] != 3 {
		t.Errorf("wrong word ids mismatch: %v", got.WrongWordIDs)
	}
	if got.Score() != 70 {
		t.Errorf("expected score 70, got %v", got.Score())
	}
}

func TestGetRecord_WrongUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &record.TestRecord{UserID: "user-1", Direction: quiz.DirectionENToCN, TotalQuestions: 5}
	if err := s.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := s.GetRecord(ctx, "user-2", rec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's record, got %v", err)
	}
}

func TestListRecords_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := &record.TestRecord{
			UserID:         "user-1",
			Direction:      quiz.DirectionENToCN,
			TotalQuestions: 10,
			CorrectAnswers: i,
			TestedAt:       base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	records, err := s.ListRecords(ctx, "user-1", 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 0; i < len(records)-1; i++ {
		if records[i].TestedAt.Before(records[i+1].TestedAt) {
			t.Errorf("records not newest first: %v before %v", records[i].TestedAt, records[i+1].TestedAt)
		}
	}
	if records[0].CorrectAnswers != 4 {
		t.Errorf("expected the latest record first, got %+v", records[0])
	}
}

func TestRecordStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	recent := &record.TestRecord{UserID: "user-1", Direction: quiz.DirectionENToCN, TotalQuestions: 10, CorrectAnswers: 8, TestedAt: now}
	old := &record.TestRecord{UserID: "user-1", Direction: quiz.DirectionENToCN, TotalQuestions: 10, CorrectAnswers: 2, TestedAt: now.AddDate(0, -2, 0)}
	other := &record.TestRecord{UserID: "user-2", Direction: quiz.DirectionENToCN, TotalQuestions: 10, CorrectAnswers: 10, TestedAt: now}
	for _, r := range []*record.TestRecord{recent, old, other} {
		if err := s.SaveRecord(ctx, r); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	stats, err := s.RecordStats(ctx, "user-1", now.AddDate(0, -1, 0))
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalTests != 1 || stats.TotalQuestions != 10 || stats.TotalCorrect != 8 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AverageScore != 80 {
		t.Errorf("expected average score 80, got %v", stats.AverageScore)
	}
}
