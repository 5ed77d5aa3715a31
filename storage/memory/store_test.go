package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/storage"
)

func TestScoreUpsert(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := storage.NewJudgeScore(1, 2, 3, 8.5, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	inserted, err := store.Scores().Upsert(ctx, first)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !inserted {
		t.Fatalf("expected first upsert to insert")
	}

	second := storage.NewJudgeScore(1, 2, 3, 9.0, time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC))
	inserted, err = store.Scores().Upsert(ctx, second)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if inserted {
		t.Fatalf("expected second upsert to replace, not insert")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected CreatedAt to survive the replace, got %v", second.CreatedAt)
	}

	entries, err := store.Scores().GetAll(ctx)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Value != 9.0 {
		t.Fatalf("expected replaced value 9.0, got %v", entries[0].Value)
	}

	byJudge, err := store.Scores().GetByJudge(ctx, 1)
	if err != nil {
		t.Fatalf("get by judge failed: %v", err)
	}
	if len(byJudge) != 1 {
		t.Fatalf("expected 1 entry for judge 1, got %d", len(byJudge))
	}
}

func TestActiveSessionSlot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	session := &storage.TiebreakerSession{
		SessionID:     "sess-1",
		Position:      1,
		CompetitorIDs: []int{1, 2},
		Status:        storage.SessionStatusActive,
	}
	if err := store.Sessions().PutActive(ctx, session); err != nil {
		t.Fatalf("put active failed: %v", err)
	}

	other := &storage.TiebreakerSession{SessionID: "sess-2", CompetitorIDs: []int{3, 4}}
	if err := store.Sessions().PutActive(ctx, other); !errors.Is(err, storage.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}

	active, err := store.Sessions().GetActive(ctx)
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active == nil || active.SessionID != "sess-1" {
		t.Fatalf("expected sess-1 to stay active, got %+v", active)
	}

	if err := store.Sessions().DeleteActive(ctx, "sess-2"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for wrong id, got %v", err)
	}
	if err := store.Sessions().DeleteActive(ctx, "sess-1"); err != nil {
		t.Fatalf("delete active failed: %v", err)
	}

	active, err = store.Sessions().GetActive(ctx)
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active session, got %+v", active)
	}
}

func TestCommitResolution(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	session := &storage.TiebreakerSession{SessionID: "sess-1", CompetitorIDs: []int{1, 2}}
	if err := store.Sessions().PutActive(ctx, session); err != nil {
		t.Fatalf("put active failed: %v", err)
	}

	record := &storage.ResolutionRecord{
		SessionID:    "sess-1",
		WinnerID:     1,
		BonusApplied: 2,
		ResolvedAt:   now,
	}
	bonus := storage.NewBonusEntry("sess-1", 1, 2, now)

	if err := store.Resolutions().Commit(ctx, record, bonus); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	// the commit clears the slot, writes the bonus and archives the record
	active, _ := store.Sessions().GetActive(ctx)
	if active != nil {
		t.Fatalf("expected the commit to clear the active slot")
	}
	entries, _ := store.Scores().GetAll(ctx)
	if len(entries) != 1 || entries[0].Kind != storage.ScoreKindBonus {
		t.Fatalf("expected one bonus ledger entry, got %+v", entries)
	}
	records, _ := store.Resolutions().GetAll(ctx)
	if len(records) != 1 {
		t.Fatalf("expected one resolution record, got %d", len(records))
	}

	// replays cannot commit against a cleared slot
	if err := store.Resolutions().Commit(ctx, record, bonus); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on replay, got %v", err)
	}
}

func TestJudgeTokenLookup(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	judge := &storage.Judge{ID: 1, Name: "Dana", Token: "TOKEN123", Active: true}
	if err := store.Judges().Create(ctx, judge); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.Judges().Create(ctx, judge); !errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
		t.Fatalf("expected duplicate create to fail, got %v", err)
	}

	found, err := store.Judges().GetByToken(ctx, "TOKEN123")
	if err != nil {
		t.Fatalf("get by token failed: %v", err)
	}
	if found.ID != 1 {
		t.Fatalf("expected judge 1, got %d", found.ID)
	}

	if _, err := store.Judges().GetByToken(ctx, "WRONG"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown token, got %v", err)
	}
}
