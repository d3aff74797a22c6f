package discord

import "testing"

func TestConnStateTransitions(t *testing.T) {
	state := NewConnState()

	if state.Phase() != PhaseDisconnected {
		t.Fatalf("initial phase = %s, want disconnected", state.Phase())
	}
	if state.IsReady() {
		t.Fatal("fresh state must not be ready")
	}

	state.MarkConnecting()
	if state.Phase() != PhaseConnecting {
		t.Fatalf("phase = %s, want connecting", state.Phase())
	}

	state.MarkReady()
	if !state.IsReady() {
		t.Fatal("state should be ready after MarkReady")
	}
}

func TestConnStateNeverMovesBackward(t *testing.T) {
	state := NewConnState()
	state.MarkConnecting()
	state.MarkReady()

	// a gateway resume re-delivers Ready and may pass through connecting
	state.MarkConnecting()
	if state.Phase() != PhaseReady {
		t.Errorf("MarkConnecting demoted a ready state to %s", state.Phase())
	}
	state.MarkReady()
	if state.Phase() != PhaseReady {
		t.Errorf("duplicate MarkReady left phase %s", state.Phase())
	}
}

func TestConnStateReset(t *testing.T) {
	state := NewConnState()
	state.MarkConnecting()
	state.MarkReady()

	state.Reset()
	if state.Phase() != PhaseDisconnected {
		t.Errorf("phase after Reset = %s, want disconnected", state.Phase())
	}
}

func TestConnPhaseString(t *testing.T) {
	tests := []struct {
		phase ConnPhase
		want  string
	}{
		{PhaseDisconnected, "disconnected"},
		{PhaseConnecting, "connecting"},
		{PhaseReady, "ready"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
