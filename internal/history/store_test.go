package history

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/brew-water/pkg/water"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestSaveAndGetProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tap := water.New(45, 12, 20, 140)

	rec, err := s.SaveProfile(ctx, "tap", tap)
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if rec.ID == "" || rec.Kind != KindProfile || rec.Name != "tap" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, expected %v", got.CreatedAt, rec.CreatedAt)
	}

	profile, err := s.GetProfile(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile != tap {
		t.Errorf("GetProfile() = %+v, expected %+v", profile, tap)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetProfile(context.Background(), "does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetProfileWrongKind(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.SaveResult(context.Background(), KindBlend, "mix", map[string]float64{"totalVolume": 1000})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if _, err := s.GetProfile(context.Background(), rec.ID); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestSaveResult(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveResult(ctx, "", "x", 1); !errors.Is(err, ErrEmptyKind) {
		t.Fatalf("expected ErrEmptyKind, got %v", err)
	}
	if _, err := s.SaveResult(ctx, KindEvaluate, "bad", make(chan int)); err == nil {
		t.Fatal("expected error for unencodable payload")
	}

	rec, err := s.SaveResult(ctx, KindEvaluate, "tap", map[string]any{"totalPoints": 55.0})
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var payload map[string]float64
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("payload decode error = %v", err)
	}
	if payload["totalPoints"] != 55 {
		t.Errorf("payload = %v", payload)
	}
}

func TestListOrderingAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := s.SaveProfile(ctx, name, water.New(1, 1, 1, 1)); err != nil {
			t.Fatalf("SaveProfile() error = %v", err)
		}
	}
	if _, err := s.SaveResult(ctx, KindOptimize, "run", map[string]int{"drops": 3}); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}
	if all[0].Name != "run" {
		t.Errorf("newest record = %q, expected run", all[0].Name)
	}

	profiles, err := s.ListProfiles(ctx, 2)
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Name != "third" || profiles[1].Name != "second" {
		t.Errorf("unexpected order: %s, %s", profiles[0].Name, profiles[1].Name)
	}
}

func TestListOrdersSubsecondTimestamps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.Add(500 * time.Millisecond), base.Add(time.Second)}
	next := 0
	s.now = func() time.Time {
		ts := stamps[next]
		next++
		return ts
	}

	for _, name := range []string{"whole", "half", "next"} {
		if _, err := s.SaveProfile(ctx, name, water.New(1, 1, 1, 1)); err != nil {
			t.Fatalf("SaveProfile(%s) error = %v", name, err)
		}
	}
	// inserted last so rowid order alone cannot produce the expected result
	s.now = func() time.Time { return base.Add(-time.Second) }
	if _, err := s.SaveProfile(ctx, "oldest", water.New(1, 1, 1, 1)); err != nil {
		t.Fatalf("SaveProfile(oldest) error = %v", err)
	}

	records, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	expected := []string{"next", "half", "whole", "oldest"}
	if len(records) != len(expected) {
		t.Fatalf("expected %d records, got %d", len(expected), len(records))
	}
	for i, name := range expected {
		if records[i].Name != name {
			t.Errorf("records[%d] = %s, expected %s", i, records[i].Name, name)
		}
	}
	if !records[1].CreatedAt.Equal(stamps[1]) {
		t.Errorf("CreatedAt = %v, expected %v", records[1].CreatedAt, stamps[1])
	}
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	records, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", records)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rec, err := s.SaveProfile(context.Background(), "tap", water.New(45, 12, 20, 140))
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if reopened.Path() != path {
		t.Errorf("Path() = %q, expected %q", reopened.Path(), path)
	}
	if _, err := reopened.Get(context.Background(), rec.ID); err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
}
