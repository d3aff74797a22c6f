package discord

import (
	"sync"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// ConnPhase is the gateway connection lifecycle phase.
type ConnPhase int

const (
	// PhaseDisconnected means no gateway session exists yet
	PhaseDisconnected ConnPhase = iota
	// PhaseConnecting means the session is open but Ready has not arrived
	PhaseConnecting
	// PhaseReady means the Ready payload arrived and guild actions are safe
	PhaseReady
)

// String returns the phase name for logs and the status API
func (p ConnPhase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseReady:
		return "ready"
	default:
		return "disconnected"
	}
}

// ConnState tracks the bot's gateway phase. Transitions only move forward
// (disconnected → connecting → ready); gateway reconnects handled inside the
// session never demote a ready bot, only Reset after an explicit Stop does.
type ConnState struct {
	mu    sync.RWMutex
	phase ConnPhase
}

// NewConnState creates a state machine in the disconnected phase
func NewConnState() *ConnState {
	return &ConnState{phase: PhaseDisconnected}
}

// Phase returns the current phase
func (s *ConnState) Phase() ConnPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// IsReady reports whether guild actions can be dispatched
func (s *ConnState) IsReady() bool {
	return s.Phase() == PhaseReady
}

// MarkConnecting moves disconnected → connecting. A no-op in any later phase.
func (s *ConnState) MarkConnecting() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseDisconnected {
		s.phase = PhaseConnecting
		logger.Debug("Estado del gateway: connecting", "ConnState")
	}
}

// MarkReady moves connecting → ready. Duplicate Ready payloads after gateway
// resumes are no-ops.
func (s *ConnState) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseReady {
		return
	}
	s.phase = PhaseReady
	logger.Success("Estado del gateway: ready", "ConnState")
}

// Reset returns to disconnected. Only the shutdown path calls this.
func (s *ConnState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseDisconnected
}
