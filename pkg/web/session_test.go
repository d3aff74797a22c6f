package web

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTestSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		states:   make(map[string]time.Time),
		oauth: &oauth2.Config{
			ClientID: "test-client",
			Endpoint: discordEndpoint,
		},
	}
}

func TestConsumeStateBurnsToken(t *testing.T) {
	ss := newTestSessionStore()

	url := ss.AuthURL()
	if !strings.Contains(url, "state=") {
		t.Fatalf("AuthURL missing state parameter: %s", url)
	}

	var state string
	for s := range ss.states {
		state = s
	}
	if state == "" {
		t.Fatal("no state token stored after AuthURL")
	}

	if !ss.consumeState(state) {
		t.Error("fresh state should be accepted")
	}
	if ss.consumeState(state) {
		t.Error("state must be one-shot, second consume should fail")
	}
}

func TestConsumeStateRejectsExpired(t *testing.T) {
	ss := newTestSessionStore()
	ss.states["stale"] = time.Now().Add(-time.Minute)

	if ss.consumeState("stale") {
		t.Error("expired state should be rejected")
	}
	if ss.consumeState("unknown") {
		t.Error("unknown state should be rejected")
	}
}

func TestExpiredStatesArePurged(t *testing.T) {
	ss := newTestSessionStore()

	// Abandoned login attempts: states that were never consumed
	ss.states["old1"] = time.Now().Add(-time.Hour)
	ss.states["old2"] = time.Now().Add(-time.Minute)
	ss.states["live"] = time.Now().Add(5 * time.Minute)

	ss.AuthURL()

	if _, ok := ss.states["old1"]; ok {
		t.Error("expired state old1 should have been purged")
	}
	if _, ok := ss.states["old2"]; ok {
		t.Error("expired state old2 should have been purged")
	}
	if _, ok := ss.states["live"]; !ok {
		t.Error("live state should survive the purge")
	}
	if len(ss.states) != 2 {
		t.Errorf("states size = %d, want 2 (live + new)", len(ss.states))
	}
}

func TestPanelUserTag(t *testing.T) {
	tests := []struct {
		user PanelUser
		want string
	}{
		{PanelUser{Username: "pancy", Discriminator: "0"}, "pancy"},
		{PanelUser{Username: "pancy", Discriminator: ""}, "pancy"},
		{PanelUser{Username: "pancy", Discriminator: "1234"}, "pancy#1234"},
	}

	for _, tt := range tests {
		if got := tt.user.Tag(); got != tt.want {
			t.Errorf("Tag() = %q, want %q", got, tt.want)
		}
	}
}
