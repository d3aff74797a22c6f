package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// fakeWarnStore is an in-memory WarnStore with per-call failure switches.
type fakeWarnStore struct {
	mu      sync.Mutex
	records []models.WarnRecord
	nextID  int

	failAppend error
	failCount  error
}

func newFakeWarnStore() *fakeWarnStore {
	return &fakeWarnStore{}
}

func (s *fakeWarnStore) Append(ctx context.Context, rec models.WarnRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend != nil {
		return "", s.failAppend
	}
	s.nextID++
	rec.ID = fmt.Sprintf("warn-%d", s.nextID)
	s.records = append(s.records, rec)
	return rec.ID, nil
}

func (s *fakeWarnStore) Count(ctx context.Context, guildID, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCount != nil {
		return 0, s.failCount
	}
	var n int64
	for _, rec := range s.records {
		if rec.GuildID == guildID && rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *fakeWarnStore) ListRecent(ctx context.Context, guildID string, limit int64) ([]models.WarnRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WarnRecord
	for i := len(s.records) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if s.records[i].GuildID == guildID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func (s *fakeWarnStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// sanctionCall records one ApplyTimeout/ApplyBan invocation.
type sanctionCall struct {
	kind     SanctionKind
	guildID  string
	userID   string
	duration time.Duration
	reason   string
}

type fakeSanctioner struct {
	mu    sync.Mutex
	calls []sanctionCall

	failTimeout error
	failBan     error
}

func (s *fakeSanctioner) ApplyTimeout(guildID, userID string, duration time.Duration, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sanctionCall{SanctionTimeout, guildID, userID, duration, reason})
	return s.failTimeout
}

func (s *fakeSanctioner) ApplyBan(guildID, userID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sanctionCall{SanctionBan, guildID, userID, 0, reason})
	return s.failBan
}

func (s *fakeSanctioner) callsOf(kind SanctionKind) []sanctionCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sanctionCall
	for _, c := range s.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func warnTimes(t *testing.T, e *Engine, guildID, userID string, n int) *EscalationResult {
	t.Helper()
	var last *EscalationResult
	for i := 0; i < n; i++ {
		result, err := e.RecordWarning(context.Background(), guildID, userID, "prueba", &Actor{ID: "mod-1", Tag: "Mod#0001"})
		if err != nil {
			t.Fatalf("RecordWarning #%d: %v", i+1, err)
		}
		last = result
	}
	return last
}

func TestRecordWarningCountIsMonotonic(t *testing.T) {
	store := newFakeWarnStore()
	sanctions := &fakeSanctioner{}
	engine := NewEngine(store, sanctions)

	var prev int64
	for i := 1; i <= 7; i++ {
		result, err := engine.RecordWarning(context.Background(), "guild-1", "user-1", "spam", nil)
		if err != nil {
			t.Fatalf("RecordWarning #%d: %v", i, err)
		}
		if result.Count <= prev {
			t.Fatalf("count did not increase: warn #%d got %d after %d", i, result.Count, prev)
		}
		if result.Count != int64(i) {
			t.Errorf("warn #%d: count = %d, want %d", i, result.Count, i)
		}
		prev = result.Count
	}
}

func TestRecordWarningExactThresholds(t *testing.T) {
	tests := []struct {
		warns        int
		wantSanction SanctionKind
	}{
		{1, SanctionNone},
		{2, SanctionNone},
		{3, SanctionTimeout},
		{4, SanctionNone},
		{5, SanctionBan},
		{6, SanctionNone},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("warn%d", tt.warns), func(t *testing.T) {
			store := newFakeWarnStore()
			sanctions := &fakeSanctioner{}
			engine := NewEngine(store, sanctions)

			result := warnTimes(t, engine, "guild-1", "user-1", tt.warns)

			if result.Sanction != tt.wantSanction {
				t.Errorf("sanction on warn #%d = %s, want %s", tt.warns, result.Sanction, tt.wantSanction)
			}
			if got := len(sanctions.callsOf(SanctionTimeout)); (tt.warns >= 3) != (got == 1) {
				t.Errorf("timeout calls after %d warns = %d", tt.warns, got)
			}
			if got := len(sanctions.callsOf(SanctionBan)); (tt.warns >= 5) != (got == 1) {
				t.Errorf("ban calls after %d warns = %d", tt.warns, got)
			}
		})
	}
}

func TestThirdWarningAppliesOneHourTimeout(t *testing.T) {
	store := newFakeWarnStore()
	sanctions := &fakeSanctioner{}
	engine := NewEngine(store, sanctions)

	result := warnTimes(t, engine, "guild-1", "user-1", 3)

	if result.Sanction != SanctionTimeout {
		t.Fatalf("sanction = %s, want timeout", result.Sanction)
	}
	if result.SanctionErr != nil {
		t.Fatalf("unexpected sanction error: %v", result.SanctionErr)
	}

	calls := sanctions.callsOf(SanctionTimeout)
	if len(calls) != 1 {
		t.Fatalf("timeout calls = %d, want 1", len(calls))
	}
	if calls[0].duration != time.Hour {
		t.Errorf("timeout duration = %s, want 1h", calls[0].duration)
	}
	if calls[0].reason != "automatic sanction: 3 accumulated warnings" {
		t.Errorf("timeout reason = %q", calls[0].reason)
	}
}

func TestFifthWarningAppliesPermanentBan(t *testing.T) {
	store := newFakeWarnStore()
	sanctions := &fakeSanctioner{}
	engine := NewEngine(store, sanctions)

	result := warnTimes(t, engine, "guild-1", "user-1", 5)

	if result.Sanction != SanctionBan {
		t.Fatalf("sanction = %s, want ban", result.Sanction)
	}

	calls := sanctions.callsOf(SanctionBan)
	if len(calls) != 1 {
		t.Fatalf("ban calls = %d, want 1", len(calls))
	}
	if calls[0].reason != "automatic sanction: 5 accumulated warnings" {
		t.Errorf("ban reason = %q", calls[0].reason)
	}
	// the timeout from warn #3 is the only other sanction
	if got := len(sanctions.callsOf(SanctionTimeout)); got != 1 {
		t.Errorf("timeout calls = %d, want 1", got)
	}
}

func TestSanctionFailureKeepsWarningRecorded(t *testing.T) {
	store := newFakeWarnStore()
	sanctions := &fakeSanctioner{failTimeout: errors.New("Missing Permissions")}
	engine := NewEngine(store, sanctions)

	result := warnTimes(t, engine, "guild-1", "user-1", 3)

	if result.Count != 3 {
		t.Errorf("count = %d, want 3", result.Count)
	}
	if result.SanctionErr == nil {
		t.Fatal("expected a captured sanction error")
	}
	if result.SanctionErr.Kind != SanctionTimeout {
		t.Errorf("sanction error kind = %s, want timeout", result.SanctionErr.Kind)
	}
	if store.total() != 3 {
		t.Errorf("stored records = %d, want 3", store.total())
	}
	if !strings.Contains(result.Message(), "falló") {
		t.Errorf("message should report the failed sanction: %q", result.Message())
	}

	// the failed timeout does not re-fire on the next warning
	next, err := engine.RecordWarning(context.Background(), "guild-1", "user-1", "otra", nil)
	if err != nil {
		t.Fatalf("RecordWarning: %v", err)
	}
	if next.Count != 4 || next.Sanction != SanctionNone {
		t.Errorf("warn #4: count=%d sanction=%s, want 4/none", next.Count, next.Sanction)
	}
}

func TestBanFailureIsCapturedNotPropagated(t *testing.T) {
	store := newFakeWarnStore()
	sanctions := &fakeSanctioner{failBan: errors.New("Missing Permissions")}
	engine := NewEngine(store, sanctions)

	result := warnTimes(t, engine, "guild-1", "user-1", 5)

	if result.SanctionErr == nil || result.SanctionErr.Kind != SanctionBan {
		t.Fatalf("expected captured ban error, got %v", result.SanctionErr)
	}
	if result.Count != 5 {
		t.Errorf("count = %d, want 5", result.Count)
	}
	if store.total() != 5 {
		t.Errorf("stored records = %d, want 5", store.total())
	}
}

func TestWarningsAreIsolatedPerGuildAndUser(t *testing.T) {
	store := newFakeWarnStore()
	sanctions := &fakeSanctioner{}
	engine := NewEngine(store, sanctions)

	warnTimes(t, engine, "guild-1", "user-1", 2)
	warnTimes(t, engine, "guild-1", "user-2", 2)
	warnTimes(t, engine, "guild-2", "user-1", 2)

	// a third warn for (guild-1, user-1) is the only one crossing a threshold
	result := warnTimes(t, engine, "guild-1", "user-1", 1)
	if result.Count != 3 {
		t.Errorf("count = %d, want 3", result.Count)
	}
	if result.Sanction != SanctionTimeout {
		t.Errorf("sanction = %s, want timeout", result.Sanction)
	}

	calls := sanctions.callsOf(SanctionTimeout)
	if len(calls) != 1 {
		t.Fatalf("timeout calls = %d, want 1", len(calls))
	}
	if calls[0].guildID != "guild-1" || calls[0].userID != "user-1" {
		t.Errorf("timeout aimed at (%s, %s), want (guild-1, user-1)", calls[0].guildID, calls[0].userID)
	}
}

func TestRecordWarningValidation(t *testing.T) {
	tests := []struct {
		name    string
		guildID string
		userID  string
	}{
		{"missing userId", "guild-1", ""},
		{"missing guildId", "", "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeWarnStore()
			engine := NewEngine(store, &fakeSanctioner{})

			_, err := engine.RecordWarning(context.Background(), tt.guildID, tt.userID, "x", nil)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if store.total() != 0 {
				t.Errorf("stored records = %d, want 0", store.total())
			}
		})
	}
}

func TestRecordWarningPersistenceFailures(t *testing.T) {
	t.Run("append fails", func(t *testing.T) {
		store := newFakeWarnStore()
		store.failAppend = errors.New("connection reset")
		engine := NewEngine(store, &fakeSanctioner{})

		_, err := engine.RecordWarning(context.Background(), "guild-1", "user-1", "x", nil)

		var perr *PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("err = %v, want PersistenceError", err)
		}
		if perr.Op != "append" {
			t.Errorf("op = %q, want append", perr.Op)
		}
	})

	t.Run("count fails after append", func(t *testing.T) {
		store := newFakeWarnStore()
		store.failCount = errors.New("connection reset")
		sanctions := &fakeSanctioner{}
		engine := NewEngine(store, sanctions)

		_, err := engine.RecordWarning(context.Background(), "guild-1", "user-1", "x", nil)

		var perr *PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("err = %v, want PersistenceError", err)
		}
		// the record was appended before the count failed
		if store.total() != 1 {
			t.Errorf("stored records = %d, want 1", store.total())
		}
		if len(sanctions.calls) != 0 {
			t.Errorf("sanctions attempted = %d, want 0", len(sanctions.calls))
		}
	})
}

func TestAutomatedWarningHasNoActor(t *testing.T) {
	store := newFakeWarnStore()
	engine := NewEngine(store, &fakeSanctioner{})

	if _, err := engine.RecordWarning(context.Background(), "guild-1", "user-1", "enlace prohibido", nil); err != nil {
		t.Fatalf("RecordWarning: %v", err)
	}

	recs, err := store.ListRecent(context.Background(), "guild-1", 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if !recs[0].IsAutomated() {
		t.Errorf("record with no actor should report as automated")
	}
}

func TestListRecentWarnings(t *testing.T) {
	store := newFakeWarnStore()
	engine := NewEngine(store, &fakeSanctioner{})

	for i := 0; i < 4; i++ {
		warnTimes(t, engine, "guild-1", fmt.Sprintf("user-%d", i), 1)
	}
	warnTimes(t, engine, "guild-2", "user-x", 1)

	recs, err := engine.ListRecentWarnings(context.Background(), "guild-1", 3)
	if err != nil {
		t.Fatalf("ListRecentWarnings: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	// newest first
	if recs[0].UserID != "user-3" {
		t.Errorf("first record is for %s, want user-3", recs[0].UserID)
	}
	for _, rec := range recs {
		if rec.GuildID != "guild-1" {
			t.Errorf("record from guild %s leaked into guild-1 listing", rec.GuildID)
		}
	}

	if _, err := engine.ListRecentWarnings(context.Background(), "", 10); err == nil {
		t.Error("expected validation error for empty guildId")
	}
}

func TestEscalationResultMessage(t *testing.T) {
	tests := []struct {
		name   string
		result EscalationResult
		want   []string
	}{
		{
			name:   "no sanction",
			result: EscalationResult{UserID: "u1", Count: 2},
			want:   []string{"Total de advertencias: 2", "Sin sanción automática"},
		},
		{
			name:   "timeout applied",
			result: EscalationResult{UserID: "u1", Count: 3, Sanction: SanctionTimeout},
			want:   []string{"timeout de 1 hora"},
		},
		{
			name:   "ban applied",
			result: EscalationResult{UserID: "u1", Count: 5, Sanction: SanctionBan},
			want:   []string{"ban permanente"},
		},
		{
			name: "timeout failed",
			result: EscalationResult{
				UserID: "u1", Count: 3, Sanction: SanctionTimeout,
				SanctionErr: &SanctionApplyError{Kind: SanctionTimeout, Err: errors.New("Missing Permissions")},
			},
			want: []string{"falló", "Missing Permissions", "manualmente"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.result.Message()
			for _, fragment := range tt.want {
				if !strings.Contains(msg, fragment) {
					t.Errorf("message %q missing %q", msg, fragment)
				}
			}
		})
	}
}
