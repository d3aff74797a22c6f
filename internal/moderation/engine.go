// Package moderation implements the moderation core of PancyGuard Go:
// the warning escalation engine and the typed moderation action surface.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// WarnStore is the persistence surface the engine needs. Append is
// insert-only; Count always reflects all historical records.
type WarnStore interface {
	Append(ctx context.Context, rec models.WarnRecord) (string, error)
	Count(ctx context.Context, guildID, userID string) (int64, error)
	ListRecent(ctx context.Context, guildID string, limit int64) ([]models.WarnRecord, error)
}

// Sanctioner applies punishments on the chat platform.
type Sanctioner interface {
	ApplyTimeout(guildID, userID string, duration time.Duration, reason string) error
	ApplyBan(guildID, userID, reason string) error
}

// Actor identifies the moderator who issued a warning. A nil Actor means the
// warning came from automation (message filters).
type Actor struct {
	ID  string
	Tag string
}

// SanctionKind is the automatic punishment decided by the engine.
type SanctionKind string

const (
	SanctionNone    SanctionKind = "none"
	SanctionTimeout SanctionKind = "timeout"
	SanctionBan     SanctionKind = "ban"
)

// Escalation thresholds. The comparison is exact equality on the new total,
// not >=: a user warned a 4th time after the timeout at 3 is not re-timed-out,
// and a count that jumps past a threshold skips it.
const (
	timeoutThreshold = 3
	banThreshold     = 5

	timeoutDuration = 1 * time.Hour

	timeoutReason = "automatic sanction: 3 accumulated warnings"
	banReason     = "automatic sanction: 5 accumulated warnings"
)

// EscalationResult is the outcome of recording one warning.
type EscalationResult struct {
	WarnID      string
	GuildID     string
	UserID      string
	Count       int64
	Sanction    SanctionKind
	SanctionErr *SanctionApplyError
}

// Message composes the human-readable report for the moderator: the new total
// plus a line saying whether an auto-sanction was applied, skipped or failed.
func (r *EscalationResult) Message() string {
	msg := fmt.Sprintf("⚠️ Advertencia registrada para <@%s>. Total de advertencias: %d.", r.UserID, r.Count)

	switch {
	case r.SanctionErr != nil && r.SanctionErr.Kind == SanctionTimeout:
		msg += "\n❌ El timeout automático (1 hora) falló: " + r.SanctionErr.Err.Error() + ". Aplica la sanción manualmente."
	case r.SanctionErr != nil && r.SanctionErr.Kind == SanctionBan:
		msg += "\n❌ El ban automático falló: " + r.SanctionErr.Err.Error() + ". Aplica la sanción manualmente."
	case r.Sanction == SanctionTimeout:
		msg += "\n⏳ Sanción automática aplicada: timeout de 1 hora (3 advertencias acumuladas)."
	case r.Sanction == SanctionBan:
		msg += "\n🔨 Sanción automática aplicada: ban permanente (5 advertencias acumuladas)."
	default:
		msg += "\nℹ️ Sin sanción automática."
	}

	return msg
}

// Engine records warnings and escalates punishment at fixed thresholds.
type Engine struct {
	store     WarnStore
	sanctions Sanctioner
}

// NewEngine creates a warning escalation engine
func NewEngine(store WarnStore, sanctions Sanctioner) *Engine {
	return &Engine{
		store:     store,
		sanctions: sanctions,
	}
}

// RecordWarning appends a warning for (guildID, userID), recomputes the user's
// total and applies the staged auto-sanction when the new total lands exactly
// on a threshold. The append and the count are two separate store operations;
// the store's own consistency bounds what concurrent callers observe.
//
// A sanction failure never rolls back the warning and never fails the call:
// it is reported in the result. Validation and persistence failures abort
// with nothing recorded.
func (e *Engine) RecordWarning(ctx context.Context, guildID, userID, reason string, actor *Actor) (*EscalationResult, error) {
	if guildID == "" {
		return nil, &ValidationError{Field: "guildId"}
	}
	if userID == "" {
		return nil, &ValidationError{Field: "userId"}
	}

	rec := models.WarnRecord{
		GuildID:   guildID,
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if actor != nil {
		rec.ActorID = actor.ID
		rec.ActorTag = actor.Tag
	}

	warnID, err := e.store.Append(ctx, rec)
	if err != nil {
		return nil, &PersistenceError{Op: "append", Err: err}
	}

	count, err := e.store.Count(ctx, guildID, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "count", Err: err}
	}

	result := &EscalationResult{
		WarnID:   warnID,
		GuildID:  guildID,
		UserID:   userID,
		Count:    count,
		Sanction: SanctionNone,
	}

	switch count {
	case timeoutThreshold:
		result.Sanction = SanctionTimeout
		if err := e.sanctions.ApplyTimeout(guildID, userID, timeoutDuration, timeoutReason); err != nil {
			logger.Warn(fmt.Sprintf("Timeout automático falló para %s en %s: %v", userID, guildID, err), "Escalation")
			result.SanctionErr = &SanctionApplyError{Kind: SanctionTimeout, Err: err}
		} else {
			logger.Info(fmt.Sprintf("Timeout automático aplicado a %s en %s (3 advertencias)", userID, guildID), "Escalation")
		}
	case banThreshold:
		result.Sanction = SanctionBan
		if err := e.sanctions.ApplyBan(guildID, userID, banReason); err != nil {
			logger.Warn(fmt.Sprintf("Ban automático falló para %s en %s: %v", userID, guildID, err), "Escalation")
			result.SanctionErr = &SanctionApplyError{Kind: SanctionBan, Err: err}
		} else {
			logger.Info(fmt.Sprintf("Ban automático aplicado a %s en %s (5 advertencias)", userID, guildID), "Escalation")
		}
	}

	return result, nil
}

// ListRecentWarnings returns the guild's most recent warnings, newest first.
// Read-only audit view; no side effects.
func (e *Engine) ListRecentWarnings(ctx context.Context, guildID string, limit int64) ([]models.WarnRecord, error) {
	if guildID == "" {
		return nil, &ValidationError{Field: "guildId"}
	}
	if limit <= 0 {
		limit = 50
	}

	records, err := e.store.ListRecent(ctx, guildID, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "listRecent", Err: err}
	}
	return records, nil
}
